package rsakey

import (
	"fmt"

	"github.com/coinbase/rsakey-go/pkg/rsakey/internal/backend"
)

// components returns borrowed views of the key's integers. The views are
// only valid while the caller holds a reference taken with acquire.
func (k *Key) components() (backend.Components, error) {
	c, err := k.lib.engine.Components(k.ref)
	if err != nil {
		return backend.Components{}, fmt.Errorf("%w: key %s: %v", ErrInvalidKey, k.id, err)
	}
	return c, nil
}

// hasPrivate reports whether every private component is present.
func hasPrivate(c backend.Components) bool {
	return c.D != nil && c.P != nil && c.Q != nil &&
		c.DMP1 != nil && c.DMQ1 != nil && c.IQMP != nil
}
