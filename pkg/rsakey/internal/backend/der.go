package backend

import (
	stdasn1 "encoding/asn1"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

var oidRSAEncryption = stdasn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}

// parsePublicKeyDER accepts a PKCS#1 RSAPublicKey or a PKIX
// SubjectPublicKeyInfo carrying rsaEncryption. Trailing data is rejected.
func parsePublicKeyDER(der []byte) (n, e *big.Int, err error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() {
		return nil, nil, ErrDecode
	}
	if seq.PeekASN1Tag(asn1.SEQUENCE) {
		return parseSubjectPublicKeyInfo(seq)
	}
	return parseRSAPublicKeyBody(seq)
}

func parseSubjectPublicKeyInfo(spki cryptobyte.String) (*big.Int, *big.Int, error) {
	var algo cryptobyte.String
	var oid stdasn1.ObjectIdentifier
	if !spki.ReadASN1(&algo, asn1.SEQUENCE) || !algo.ReadASN1ObjectIdentifier(&oid) {
		return nil, nil, ErrDecode
	}
	if !oid.Equal(oidRSAEncryption) {
		return nil, nil, ErrDecode
	}
	if !algo.Empty() {
		var params cryptobyte.String
		if !algo.ReadASN1(&params, asn1.NULL) || !params.Empty() || !algo.Empty() {
			return nil, nil, ErrDecode
		}
	}

	var bits stdasn1.BitString
	if !spki.ReadASN1BitString(&bits) || !spki.Empty() || bits.BitLength%8 != 0 {
		return nil, nil, ErrDecode
	}
	inner := cryptobyte.String(bits.Bytes)
	var body cryptobyte.String
	if !inner.ReadASN1(&body, asn1.SEQUENCE) || !inner.Empty() {
		return nil, nil, ErrDecode
	}
	return parseRSAPublicKeyBody(body)
}

func parseRSAPublicKeyBody(body cryptobyte.String) (*big.Int, *big.Int, error) {
	n, e := new(big.Int), new(big.Int)
	if !body.ReadASN1Integer(n) || !body.ReadASN1Integer(e) || !body.Empty() {
		return nil, nil, ErrDecode
	}
	if n.Sign() <= 0 || e.Sign() <= 0 {
		return nil, nil, ErrDecode
	}
	return n, e, nil
}

// marshalRSAPublicKey encodes n and e as a PKCS#1 RSAPublicKey.
func marshalRSAPublicKey(n, e *big.Int) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(n)
		b.AddASN1BigInt(e)
	})
	return b.Bytes()
}
