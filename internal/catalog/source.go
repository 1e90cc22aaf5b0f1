package catalog

import (
	"fmt"
	"strings"
)

// DefaultSources are tried when no base location is given on the command
// line: the LAN server first, then a local directory.
var DefaultSources = []string{"//wavtouch/", "./wavs/"}

// Kind distinguishes remote from local base locations.
type Kind int

const (
	KindLocal Kind = iota
	KindRemote
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	if k == KindRemote {
		return "remote"
	}
	return "local"
}

// Location is a resolved base location.
type Location struct {
	Raw  string // as configured
	Kind Kind
	Base string // URL or directory path
}

// IsRemote reports whether raw names an HTTP base or the LAN shorthand.
func IsRemote(raw string) bool {
	return strings.HasPrefix(raw, "//") ||
		strings.HasPrefix(raw, "http://") ||
		strings.HasPrefix(raw, "https://")
}

// resolve expands one configured base. The LAN shorthand resolves only
// when a server address can be discovered.
func resolve(raw string, d *Discoverer) (Location, bool) {
	switch {
	case strings.HasPrefix(raw, "//"):
		if d == nil {
			return Location{}, false
		}
		addr, ok := d.ServerAddr()
		if !ok {
			return Location{}, false
		}
		return Location{Raw: raw, Kind: KindRemote, Base: fmt.Sprintf("http://%s/%s", addr, raw[2:])}, true
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return Location{Raw: raw, Kind: KindRemote, Base: raw}, true
	default:
		return Location{Raw: raw, Kind: KindLocal, Base: raw}, true
	}
}
