package rsakey

import (
	"context"
	"sync/atomic"

	"github.com/coinbase/rsakey-go/pkg/rsakey/internal/backend"
	"github.com/coinbase/rsakey-go/pkg/rsakey/logging"
)

// Library owns one engine instance and creates keys backed by it. It is safe
// for concurrent use.
type Library struct {
	cfg    Config
	engine backend.Engine
	logger logging.Logger
	closed atomic.Bool
}

// Open prepares the engine selected by cfg.
func Open(cfg Config) (*Library, error) {
	engine, err := cfg.newEngine()
	if err != nil {
		return nil, err
	}
	return newLibrary(cfg, engine), nil
}

func newLibrary(cfg Config, engine backend.Engine) *Library {
	l := &Library{
		cfg:    cfg,
		engine: engine,
		logger: cfg.logger().With("engine", engine.Name()),
	}
	l.logger.Debug(context.Background(), "library opened", "engine_version", engine.Version())
	return l
}

// Close stops the library from creating new keys. Keys created earlier stay
// usable until released. A second Close returns ErrLibraryClosed.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	if !l.closed.CompareAndSwap(false, true) {
		return ErrLibraryClosed
	}
	l.logger.Debug(context.Background(), "library closed", "live_objects", l.engine.Live())
	return nil
}

// EngineName returns the name of the engine behind the library.
func (l *Library) EngineName() string {
	return l.engine.Name()
}

// EngineVersion returns the version string reported by the engine.
func (l *Library) EngineVersion() string {
	return l.engine.Version()
}

// LiveObjects returns the number of native objects the engine still holds.
func (l *Library) LiveObjects() int {
	return l.engine.Live()
}

func (l *Library) checkOpen() error {
	if l == nil || l.closed.Load() {
		return ErrLibraryClosed
	}
	return nil
}
