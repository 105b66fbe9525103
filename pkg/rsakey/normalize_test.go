package rsakey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBytesAbsent(t *testing.T) {
	out, err := toBytes(nil, 128)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestToBytesMinimal(t *testing.T) {
	out, err := toBytes(fakeBigNum{0x00, 0x00, 0x01, 0x00, 0x01}, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x01}, out)
}

func TestToBytesPads(t *testing.T) {
	out, err := toBytes(fakeBigNum{0xab, 0xcd}, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0xab, 0xcd}, out)

	out, err = toBytes(fakeBigNum{0xab, 0xcd}, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xab, 0xcd}, out)
}

func TestToBytesOverflow(t *testing.T) {
	_, err := toBytes(fakeBigNum{0x01, 0x02, 0x03}, 2)
	require.ErrorIs(t, err, ErrOverflow)

	_, err = toBytes(fakeBigNum{0x01}, -1)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestToBytesOddHalfWidth(t *testing.T) {
	// A 129-byte modulus has 64-byte CRT fields; a 65-byte prime cannot
	// be stored and must not be truncated.
	const modulusSize = 129
	prime := make(fakeBigNum, 65)
	prime[0] = 0x80
	_, err := toBytes(prime, modulusSize/2)
	require.ErrorIs(t, err, ErrOverflow)
}
