package rsakey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/rsakey-go/pkg/rsakey/internal/backend"
)

func TestOpenDefaultEngine(t *testing.T) {
	lib, err := Open(Config{})
	require.NoError(t, err)
	assert.Equal(t, EngineSoftware, lib.EngineName())
	assert.NotEmpty(t, lib.EngineVersion())
	assert.Equal(t, 0, lib.LiveObjects())
	require.NoError(t, lib.Close())
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := Open(Config{Engine: "pkcs11"})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestOpenOpenSSL(t *testing.T) {
	lib, err := Open(Config{Engine: EngineOpenSSL})
	if errors.Is(err, ErrNotBuilt) {
		t.Skip("openssl engine not built")
	}
	require.NoError(t, err)
	defer lib.Close()
	assert.Equal(t, EngineOpenSSL, lib.EngineName())
}

func TestLibraryClose(t *testing.T) {
	lib, err := Open(Config{Engine: " Software "})
	require.NoError(t, err)

	p := fixture2048(t)
	k, err := lib.Import(p.PublicOnly())
	require.NoError(t, err)

	require.NoError(t, lib.Close())
	require.ErrorIs(t, lib.Close(), ErrLibraryClosed)

	_, err = lib.Create()
	require.ErrorIs(t, err, ErrLibraryClosed)
	_, err = lib.Generate(2048)
	require.ErrorIs(t, err, ErrLibraryClosed)
	_, err = lib.Import(p)
	require.ErrorIs(t, err, ErrLibraryClosed)
	_, err = lib.Decode([]byte{0x30, 0x00})
	require.ErrorIs(t, err, ErrLibraryClosed)

	// Keys outlive the library.
	out, err := k.Export(false)
	require.NoError(t, err)
	assert.Equal(t, p.Modulus, out.Modulus)
	require.NoError(t, k.Release())
	assert.Equal(t, 0, lib.LiveObjects())
}

func TestNilLibrary(t *testing.T) {
	var lib *Library
	require.NoError(t, lib.Close())
	_, err := lib.Create()
	require.ErrorIs(t, err, ErrLibraryClosed)
}

func TestGenerateRejectsSizes(t *testing.T) {
	lib, engine := newTestLibrary(t)
	for _, bits := range []int{0, -2048, 512, 1008, 2047, 2056} {
		_, err := lib.Generate(bits)
		require.ErrorIs(t, err, ErrInvalidParameter, "bits=%d", bits)
	}
	assert.Zero(t, engine.calls.Load())
}

func TestCreateEmpty(t *testing.T) {
	lib, _ := newTestLibrary(t)
	k, err := lib.Create()
	require.NoError(t, err)
	defer k.Release()

	_, err = k.Export(false)
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = k.Size()
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = k.MarshalPublicKey()
	require.ErrorIs(t, err, ErrInvalidKey)
	has, err := k.HasPrivateKey()
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCreateAllocFailure(t *testing.T) {
	engine := &countingEngine{Engine: backend.Software(), failNew: true}
	lib := newLibrary(Config{}, engine)
	_, err := lib.Create()
	require.ErrorIs(t, err, ErrEngine)
	assert.Equal(t, 0, lib.LiveObjects())
}

func TestRemapError(t *testing.T) {
	assert.NoError(t, remapError(nil))
	assert.ErrorIs(t, remapError(backend.ErrNotBuilt), ErrNotBuilt)
	assert.ErrorIs(t, remapError(backend.ErrDecode), ErrDecode)
	assert.ErrorIs(t, remapError(backend.ErrUnknownRef), ErrInvalidKey)
	assert.ErrorIs(t, remapError(backend.ErrEmpty), ErrInvalidKey)
	assert.ErrorIs(t, remapError(backend.ErrRejected), ErrEngine)
	assert.ErrorIs(t, remapError(backend.ErrAlloc), ErrEngine)
}
