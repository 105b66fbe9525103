package rsakey

import "fmt"

// MinGenerateBits is the smallest modulus Generate accepts.
const MinGenerateBits = 1024

// Create returns an empty key. It has no components until the engine fills
// it, so Export on it fails with ErrInvalidKey.
func (l *Library) Create() (*Key, error) {
	if err := l.checkOpen(); err != nil {
		return nil, err
	}
	ref, err := l.engine.New()
	if err != nil {
		return nil, remapError(err)
	}
	return l.newKey(ref, "create"), nil
}

// Generate creates a fresh private key with public exponent 65537. bits must
// be at least MinGenerateBits and a multiple of 16 so every half-width CRT
// field is exact.
func (l *Library) Generate(bits int) (*Key, error) {
	if err := l.checkOpen(); err != nil {
		return nil, err
	}
	if bits < MinGenerateBits || bits%16 != 0 {
		return nil, fmt.Errorf("%w: key size %d must be a multiple of 16 and at least %d",
			ErrInvalidParameter, bits, MinGenerateBits)
	}
	ref, err := l.engine.Generate(bits)
	if err != nil {
		return nil, remapError(err)
	}
	return l.newKey(ref, "generate"), nil
}

// Decode parses a DER-encoded RSA public key, either PKCS#1 RSAPublicKey or
// PKIX SubjectPublicKeyInfo. Malformed input fails with ErrDecode.
func (l *Library) Decode(der []byte) (*Key, error) {
	if err := l.checkOpen(); err != nil {
		return nil, err
	}
	ref, err := l.engine.DecodePublicKey(der)
	if err != nil {
		return nil, remapError(err)
	}
	return l.newKey(ref, "decode"), nil
}
