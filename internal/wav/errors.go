package wav

import "fmt"

// FormatError indicates the payload is not a mono PCM WAV container.
type FormatError struct {
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid wav payload: %s", e.Reason)
}

// UnsupportedWidthError indicates a PCM sample width other than 8 or 16 bits.
type UnsupportedWidthError struct {
	Bits int
}

// Error implements the error interface.
func (e *UnsupportedWidthError) Error() string {
	return fmt.Sprintf("unsupported sample width: %d bits", e.Bits)
}
