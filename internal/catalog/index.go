package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// IndexName is the catalog index resource under every base location.
const IndexName = "index.txt"

// MaxIndexLine is the longest index line accepted.
const MaxIndexLine = 1 << 20

// ParseIndex returns the entry names listed in an index, in order.
// Each line is cut at the first '#' and trimmed; blank names are skipped.
func ParseIndex(r io.Reader) ([]string, error) {
	var names []string
	line := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxIndexLine)
	for sc.Scan() {
		line++
		name, _, _ := strings.Cut(strings.TrimSpace(sc.Text()), "#")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("index line %d longer than %d bytes: %w", line+1, MaxIndexLine, err)
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}
	return names, nil
}
