package rsakey

import (
	"errors"
	"fmt"

	"github.com/coinbase/rsakey-go/pkg/rsakey/internal/backend"
)

var (
	// ErrDecode reports a malformed encoded key.
	ErrDecode = errors.New("rsakey: malformed encoded key")

	// ErrInvalidKey reports a nil or destroyed key, a private export from a
	// public-only key, or an engine failure while reading a key.
	ErrInvalidKey = errors.New("rsakey: invalid key")

	// ErrInvalidParameter reports a parameter record or argument that is
	// rejected before the engine is consulted.
	ErrInvalidParameter = errors.New("rsakey: invalid parameters")

	// ErrOverflow reports an integer wider than its fixed output field.
	ErrOverflow = errors.New("rsakey: integer exceeds field width")

	// ErrEngine reports an allocation failure or key material the engine
	// refused.
	ErrEngine = errors.New("rsakey: engine failure")

	// ErrLibraryClosed is returned by factory methods after Close and by a
	// second Close.
	ErrLibraryClosed = errors.New("rsakey: library closed")

	// ErrNotBuilt reports that the requested engine is not linked into the
	// binary.
	ErrNotBuilt = backend.ErrNotBuilt
)

// remapError converts engine errors to the package's public errors.
func remapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, backend.ErrNotBuilt):
		return err
	case errors.Is(err, backend.ErrDecode):
		return fmt.Errorf("%w: %v", ErrDecode, err)
	case errors.Is(err, backend.ErrUnknownRef), errors.Is(err, backend.ErrEmpty):
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	default:
		return fmt.Errorf("%w: %v", ErrEngine, err)
	}
}
