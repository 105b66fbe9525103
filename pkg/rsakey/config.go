package rsakey

import (
	"fmt"
	"strings"

	"github.com/coinbase/rsakey-go/pkg/rsakey/internal/backend"
	"github.com/coinbase/rsakey-go/pkg/rsakey/logging"
)

// Engine names accepted by Config.Engine.
const (
	EngineSoftware = "software"
	EngineOpenSSL  = "openssl"
)

// Config selects the engine behind a Library and its ambient behavior.
type Config struct {
	// Engine names the native engine. Empty selects EngineSoftware.
	// EngineOpenSSL requires a binary built with cgo and the "openssl" tag.
	Engine string

	// Logger receives lifecycle events. Nil discards them.
	Logger logging.Logger

	// EnableZeroization wipes partially filled private fields when an
	// export fails midway.
	EnableZeroization bool
}

func (c Config) newEngine() (backend.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(c.Engine)) {
	case "", EngineSoftware:
		return backend.Software(), nil
	case EngineOpenSSL:
		e, err := backend.OpenSSL()
		if err != nil {
			return nil, remapError(err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrInvalidParameter, c.Engine)
	}
}

func (c Config) logger() logging.Logger {
	if c.Logger == nil {
		return logging.Nop()
	}
	return c.Logger
}
