package bmp

import (
	"errors"
	"fmt"
)

// Errors returned by the codec. Callers match them with errors.Is; the
// returned errors usually wrap one of these with more context.
var (
	ErrIO                 = errors.New("bmp: i/o failure")
	ErrInvalidSignature   = errors.New("bmp: invalid signature")
	ErrEmptyFile          = errors.New("bmp: declared file size is zero")
	ErrMissingPixelOffset = errors.New("bmp: missing pixel data offset")
	ErrUnsupportedFormat  = errors.New("bmp: unsupported format")
	ErrOutOfMemory        = errors.New("bmp: pixel buffer too large")
	ErrOutOfBounds        = errors.New("bmp: pixel out of bounds")
	ErrNullImage          = errors.New("bmp: image not initialized")
	ErrAlreadyLoaded      = errors.New("bmp: image must be released before loading")
)

// ioError marks err as an I/O failure while keeping err in the chain.
func ioError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
