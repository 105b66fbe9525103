package keyblob

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/coinbase/rsakey-go/pkg/rsakey"
)

// keyValue is the RSAKeyValue document. Element order matches the one
// written by .NET's RSA.ToXmlString.
type keyValue struct {
	XMLName  xml.Name `xml:"RSAKeyValue"`
	Modulus  string   `xml:"Modulus"`
	Exponent string   `xml:"Exponent"`
	P        string   `xml:"P,omitempty"`
	Q        string   `xml:"Q,omitempty"`
	DP       string   `xml:"DP,omitempty"`
	DQ       string   `xml:"DQ,omitempty"`
	InverseQ string   `xml:"InverseQ,omitempty"`
	D        string   `xml:"D,omitempty"`
}

// MarshalXML encodes p as an RSAKeyValue document. Private elements are
// written only when p carries them.
func MarshalXML(p *rsakey.Parameters) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	enc := base64.StdEncoding.EncodeToString
	kv := keyValue{
		Modulus:  enc(p.Modulus),
		Exponent: enc(p.Exponent),
	}
	if p.HasPrivate() {
		kv.P, kv.Q = enc(p.P), enc(p.Q)
		kv.DP, kv.DQ = enc(p.DP), enc(p.DQ)
		kv.InverseQ, kv.D = enc(p.InverseQ), enc(p.D)
	}
	return xml.Marshal(kv)
}

// ParseXML decodes an RSAKeyValue document. A document without private
// elements yields a public record. The result is validated, so mixed or
// mis-sized private elements fail with rsakey.ErrInvalidParameter.
func ParseXML(b []byte) (*rsakey.Parameters, error) {
	var kv keyValue
	if err := xml.Unmarshal(b, &kv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlob, err)
	}

	p := &rsakey.Parameters{}
	elements := []struct {
		name string
		src  string
		dst  *[]byte
	}{
		{"Modulus", kv.Modulus, &p.Modulus},
		{"Exponent", kv.Exponent, &p.Exponent},
		{"P", kv.P, &p.P},
		{"Q", kv.Q, &p.Q},
		{"DP", kv.DP, &p.DP},
		{"DQ", kv.DQ, &p.DQ},
		{"InverseQ", kv.InverseQ, &p.InverseQ},
		{"D", kv.D, &p.D},
	}
	for _, el := range elements {
		if el.src == "" {
			continue
		}
		v, err := base64.StdEncoding.DecodeString(el.src)
		if err != nil {
			p.Zeroize()
			return nil, fmt.Errorf("%w: element %s: %v", ErrMalformedBlob, el.name, err)
		}
		*el.dst = v
	}
	if err := p.Validate(); err != nil {
		p.Zeroize()
		return nil, err
	}
	return p, nil
}
