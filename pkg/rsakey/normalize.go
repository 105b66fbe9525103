package rsakey

import (
	"fmt"

	"github.com/coinbase/rsakey-go/pkg/rsakey/internal/backend"
)

// toBytes copies a borrowed integer into an owned big-endian slice. A nil
// integer yields nil. A targetSize of zero yields the minimal encoding;
// otherwise the result is left-padded with zeros to exactly targetSize bytes,
// and an integer that does not fit fails with ErrOverflow.
func toBytes(v backend.BigNum, targetSize int) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	if targetSize < 0 {
		return nil, fmt.Errorf("%w: negative field width %d", ErrOverflow, targetSize)
	}
	n := v.Len()
	if targetSize == 0 {
		targetSize = n
	}
	if n > targetSize {
		return nil, fmt.Errorf("%w: %d-byte integer in %d-byte field", ErrOverflow, n, targetSize)
	}
	out := make([]byte, targetSize)
	v.FillBytes(out)
	return out, nil
}
