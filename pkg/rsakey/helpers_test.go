package rsakey

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coinbase/rsakey-go/pkg/rsakey/internal/backend"
)

// countingEngine wraps an engine and counts object operations so tests can
// assert how often the engine was consulted.
type countingEngine struct {
	backend.Engine

	calls atomic.Int64
	frees atomic.Int64

	failNew    bool
	components func(backend.Components) backend.Components
}

func (c *countingEngine) New() (backend.Ref, error) {
	c.calls.Add(1)
	if c.failNew {
		return 0, backend.ErrAlloc
	}
	return c.Engine.New()
}

func (c *countingEngine) Generate(bits int) (backend.Ref, error) {
	c.calls.Add(1)
	return c.Engine.Generate(bits)
}

func (c *countingEngine) DecodePublicKey(der []byte) (backend.Ref, error) {
	c.calls.Add(1)
	return c.Engine.DecodePublicKey(der)
}

func (c *countingEngine) EncodePublicKey(ref backend.Ref) ([]byte, error) {
	c.calls.Add(1)
	return c.Engine.EncodePublicKey(ref)
}

func (c *countingEngine) Components(ref backend.Ref) (backend.Components, error) {
	c.calls.Add(1)
	comps, err := c.Engine.Components(ref)
	if err == nil && c.components != nil {
		comps = c.components(comps)
	}
	return comps, err
}

func (c *countingEngine) FromComponents(raw backend.RawComponents) (backend.Ref, error) {
	c.calls.Add(1)
	return c.Engine.FromComponents(raw)
}

func (c *countingEngine) Free(ref backend.Ref) {
	c.calls.Add(1)
	c.frees.Add(1)
	c.Engine.Free(ref)
}

func newTestLibrary(t *testing.T) (*Library, *countingEngine) {
	t.Helper()
	engine := &countingEngine{Engine: backend.Software()}
	lib := newLibrary(Config{EnableZeroization: true}, engine)
	t.Cleanup(func() { _ = lib.Close() })
	return lib, engine
}

var (
	fixtureOnce   sync.Once
	fixtureParams *Parameters
	fixtureErr    error
)

// fixture2048 returns a copy of the private parameters of one 2048-bit key
// generated for the whole test binary.
func fixture2048(t *testing.T) *Parameters {
	t.Helper()
	fixtureOnce.Do(func() {
		lib := newLibrary(Config{}, backend.Software())
		var k *Key
		k, fixtureErr = lib.Generate(2048)
		if fixtureErr != nil {
			return
		}
		defer k.Release()
		fixtureParams, fixtureErr = k.Export(true)
	})
	require.NoError(t, fixtureErr)
	return fixtureParams.Clone()
}

// fakeBigNum is a BigNum over a fixed big-endian value.
type fakeBigNum []byte

func (f fakeBigNum) Len() int {
	i := 0
	for i < len(f) && f[i] == 0 {
		i++
	}
	return len(f) - i
}

func (f fakeBigNum) FillBytes(dst []byte) {
	clear(dst)
	v := f[len(f)-f.Len():]
	copy(dst[len(dst)-len(v):], v)
}
