package rsakey

import (
	"context"
	"fmt"

	"github.com/coinbase/rsakey-go/pkg/rsakey/internal/backend"
	"github.com/coinbase/rsakey-go/pkg/rsakey/logging"
)

// Export copies the key into a fresh Parameters record. With includePrivate
// the record carries D and the CRT fields, which fails with ErrInvalidKey for
// a public-only key. Field widths follow the legacy provider layout described
// on Parameters.
func (k *Key) Export(includePrivate bool) (*Parameters, error) {
	release, err := k.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	c, err := k.components()
	if err != nil {
		return nil, err
	}
	if c.N == nil || c.E == nil {
		return nil, fmt.Errorf("%w: key %s has no public components", ErrInvalidKey, k.id)
	}

	modulusSize := c.N.Len()
	halfModulusSize := modulusSize / 2

	p := &Parameters{}
	if p.Modulus, err = toBytes(c.N, modulusSize); err != nil {
		return nil, err
	}
	if p.Exponent, err = toBytes(c.E, 0); err != nil {
		return nil, err
	}

	if includePrivate {
		if !hasPrivate(c) {
			return nil, fmt.Errorf("%w: key %s has no private components", ErrInvalidKey, k.id)
		}
		if err := k.exportPrivate(p, c, modulusSize, halfModulusSize); err != nil {
			return nil, err
		}
	}

	logger := k.lib.logger.With("key_id", k.id, "modulus_size", modulusSize)
	if includePrivate {
		logger.Debug(context.Background(), "key exported", "private", true, logging.Redacted("private_components"))
	} else {
		logger.Debug(context.Background(), "key exported", "private", false)
	}
	return p, nil
}

func (k *Key) exportPrivate(p *Parameters, c backend.Components, modulusSize, halfModulusSize int) error {
	fields := []struct {
		dst  *[]byte
		src  backend.BigNum
		size int
	}{
		{&p.D, c.D, modulusSize},
		{&p.P, c.P, halfModulusSize},
		{&p.DP, c.DMP1, halfModulusSize},
		{&p.Q, c.Q, halfModulusSize},
		{&p.DQ, c.DMQ1, halfModulusSize},
		{&p.InverseQ, c.IQMP, halfModulusSize},
	}
	for _, f := range fields {
		b, err := toBytes(f.src, f.size)
		if err != nil {
			if k.lib.cfg.EnableZeroization {
				p.Zeroize()
			}
			return err
		}
		*f.dst = b
	}
	return nil
}
