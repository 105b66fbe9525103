package rsakey

import (
	"context"
	"errors"
)

// Import validates p and builds a new key from it. Validation failures return
// ErrInvalidParameter without consulting the engine; material the engine
// refuses (n != p*q, inconsistent exponents or CRT values) returns ErrEngine.
// No key exists when Import fails.
func (l *Library) Import(p *Parameters) (*Key, error) {
	if err := l.checkOpen(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		l.logger.Warn(context.Background(), "import rejected", "error", err)
		return nil, err
	}

	ref, err := l.engine.FromComponents(p.raw())
	if err != nil {
		err = remapError(err)
		if errors.Is(err, ErrEngine) {
			l.logger.Warn(context.Background(), "engine refused key material",
				"modulus_size", p.ModulusSize(), "private", p.HasPrivate())
		}
		return nil, err
	}
	return l.newKey(ref, "import"), nil
}
