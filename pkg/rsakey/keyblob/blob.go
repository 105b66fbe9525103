package keyblob

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"

	"github.com/coinbase/rsakey-go/pkg/rsakey"
)

var (
	// ErrMalformedBlob reports a truncated or inconsistent key blob.
	ErrMalformedBlob = errors.New("keyblob: malformed key blob")

	// ErrUnsupported reports a well-formed blob or record this package does
	// not handle.
	ErrUnsupported = errors.New("keyblob: unsupported key blob")
)

const (
	typePublicKeyBlob  = 0x06
	typePrivateKeyBlob = 0x07
	curBlobVersion     = 0x02

	algRSAKeyX = 0x0000a400
	algRSASign = 0x00002400

	magicRSA1 = 0x31415352 // "RSA1"
	magicRSA2 = 0x32415352 // "RSA2"

	headerSize = 8 + 12
)

// MarshalPublicBlob encodes the public half of p as a PUBLICKEYBLOB.
func MarshalPublicBlob(p *rsakey.Parameters) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	exp, err := exponent(p.Exponent)
	if err != nil {
		return nil, err
	}
	size := len(p.Modulus)
	out := make([]byte, 0, headerSize+size)
	out = appendHeader(out, typePublicKeyBlob, magicRSA1, size, exp)
	return appendLittleEndian(out, p.Modulus), nil
}

// MarshalPrivateBlob encodes p as a PRIVATEKEYBLOB. p must carry every
// private field.
func MarshalPrivateBlob(p *rsakey.Parameters) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !p.HasPrivate() {
		return nil, fmt.Errorf("%w: parameters have no private fields", rsakey.ErrInvalidParameter)
	}
	exp, err := exponent(p.Exponent)
	if err != nil {
		return nil, err
	}
	size := len(p.Modulus)
	half := size / 2
	out := make([]byte, 0, headerSize+2*size+5*half)
	out = appendHeader(out, typePrivateKeyBlob, magicRSA2, size, exp)
	for _, f := range [][]byte{p.Modulus, p.P, p.Q, p.DP, p.DQ, p.InverseQ, p.D} {
		out = appendLittleEndian(out, f)
	}
	return out, nil
}

// ParseBlob decodes a PUBLICKEYBLOB or PRIVATEKEYBLOB. The returned record
// has Modulus and D at bitlen/8 bytes and the CRT fields at bitlen/16 bytes.
func ParseBlob(b []byte) (*rsakey.Parameters, error) {
	s := cryptobyte.String(b)

	var blobType, version uint8
	var reserved []byte
	var alg, magic, bitLen, pubExp []byte
	if !s.ReadUint8(&blobType) || !s.ReadUint8(&version) ||
		!s.ReadBytes(&reserved, 2) || !s.ReadBytes(&alg, 4) ||
		!s.ReadBytes(&magic, 4) || !s.ReadBytes(&bitLen, 4) || !s.ReadBytes(&pubExp, 4) {
		return nil, fmt.Errorf("%w: truncated header", ErrMalformedBlob)
	}
	if version != curBlobVersion {
		return nil, fmt.Errorf("%w: blob version %d", ErrUnsupported, version)
	}
	switch binary.LittleEndian.Uint32(alg) {
	case algRSAKeyX, algRSASign:
	default:
		return nil, fmt.Errorf("%w: algorithm %d", ErrUnsupported, binary.LittleEndian.Uint32(alg))
	}

	var private bool
	switch blobType {
	case typePublicKeyBlob:
		if binary.LittleEndian.Uint32(magic) != magicRSA1 {
			return nil, fmt.Errorf("%w: public blob without RSA1 magic", ErrMalformedBlob)
		}
	case typePrivateKeyBlob:
		if binary.LittleEndian.Uint32(magic) != magicRSA2 {
			return nil, fmt.Errorf("%w: private blob without RSA2 magic", ErrMalformedBlob)
		}
		private = true
	default:
		return nil, fmt.Errorf("%w: blob type %d", ErrUnsupported, blobType)
	}

	bits := binary.LittleEndian.Uint32(bitLen)
	if bits == 0 || bits%8 != 0 {
		return nil, fmt.Errorf("%w: bit length %d", ErrMalformedBlob, bits)
	}
	size := int(bits / 8)
	half := size / 2

	exp := new(big.Int).SetUint64(uint64(binary.LittleEndian.Uint32(pubExp)))
	if exp.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero public exponent", ErrMalformedBlob)
	}
	p := &rsakey.Parameters{Exponent: exp.Bytes()}

	fields := []field{{&p.Modulus, size}}
	if private {
		fields = append(fields,
			field{&p.P, half}, field{&p.Q, half}, field{&p.DP, half}, field{&p.DQ, half},
			field{&p.InverseQ, half}, field{&p.D, size})
	}
	for _, f := range fields {
		var le []byte
		if !s.ReadBytes(&le, f.size) {
			p.Zeroize()
			return nil, fmt.Errorf("%w: truncated key material", ErrMalformedBlob)
		}
		*f.dst = reversed(le)
	}
	if !s.Empty() {
		p.Zeroize()
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedBlob)
	}
	return p, nil
}

type field struct {
	dst  *[]byte
	size int
}

func appendHeader(out []byte, blobType byte, magic uint32, size int, exp uint32) []byte {
	out = append(out, blobType, curBlobVersion, 0, 0)
	out = binary.LittleEndian.AppendUint32(out, algRSAKeyX)
	out = binary.LittleEndian.AppendUint32(out, magic)
	out = binary.LittleEndian.AppendUint32(out, uint32(size*8))
	return binary.LittleEndian.AppendUint32(out, exp)
}

// exponent converts a big-endian public exponent to the blob's 32-bit field.
func exponent(be []byte) (uint32, error) {
	e := new(big.Int).SetBytes(be)
	if e.BitLen() > 32 {
		return 0, fmt.Errorf("%w: public exponent wider than 32 bits", ErrUnsupported)
	}
	return uint32(e.Uint64()), nil
}

func appendLittleEndian(out, be []byte) []byte {
	for i := len(be) - 1; i >= 0; i-- {
		out = append(out, be[i])
	}
	return out
}

func reversed(le []byte) []byte {
	return appendLittleEndian(make([]byte, 0, len(le)), le)
}
