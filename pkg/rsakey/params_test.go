package rsakey

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParametersValidateOddModulus(t *testing.T) {
	p := &Parameters{
		Modulus:  make([]byte, 129),
		Exponent: []byte{0x03},
		D:        make([]byte, 129),
		P:        make([]byte, 64),
		DP:       make([]byte, 64),
		Q:        make([]byte, 64),
		DQ:       make([]byte, 64),
		InverseQ: make([]byte, 64),
	}
	require.NoError(t, p.Validate())

	p.P = make([]byte, 65)
	require.ErrorIs(t, p.Validate(), ErrInvalidParameter)
}

func TestParametersStringRedacts(t *testing.T) {
	p := fixture2048(t)
	s := p.String()
	assert.Contains(t, s, "modulus: 256 bytes")
	assert.Contains(t, s, "private: true")
	assert.NotContains(t, s, "[")

	var nilParams *Parameters
	assert.Equal(t, "rsakey.Parameters(nil)", nilParams.String())
}

func TestParametersCloneIsDeep(t *testing.T) {
	p := fixture2048(t)
	c := p.Clone()
	c.D[0] ^= 0xff
	assert.NotEqual(t, p.D[0], c.D[0])
}

func TestParametersZeroize(t *testing.T) {
	p := fixture2048(t)
	d := p.D
	p.Zeroize()
	assert.False(t, p.HasPrivate())
	assert.Equal(t, make([]byte, len(d)), d)
	assert.Len(t, p.Modulus, 256)
}

func TestParametersJSON(t *testing.T) {
	pub := fixture2048(t).PublicOnly()
	b, err := json.Marshal(pub)
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"d"`)

	var back Parameters
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, pub, &back)
}

func TestZeroizeBytes(t *testing.T) {
	buf := []byte{1, 2, 3}
	ZeroizeBytes(buf)
	assert.Equal(t, []byte{0, 0, 0}, buf)
	ZeroizeBytes(nil)
}
