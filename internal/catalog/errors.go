package catalog

import "fmt"

// SourceUnavailableError indicates a network or filesystem failure while
// reading an index or an asset.
type SourceUnavailableError struct {
	Location string
	Status   int // HTTP status when the server answered, 0 otherwise
	Err      error
}

// Error implements the error interface.
func (e *SourceUnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("source unavailable: %s: http status %d", e.Location, e.Status)
	}
	return fmt.Sprintf("source unavailable: %s: %v", e.Location, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}
