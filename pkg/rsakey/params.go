package rsakey

import (
	"fmt"

	"github.com/coinbase/rsakey-go/pkg/rsakey/internal/backend"
)

// Parameters is the exchangeable form of an RSA key. All fields are unsigned
// big-endian integers and a zero-length field is absent.
//
// The private fields are either all present or all absent. In records
// produced by Export, Modulus and D are ModulusSize bytes wide, P, DP, Q, DQ
// and InverseQ are ModulusSize/2 bytes wide (rounded down), and Exponent
// carries no leading zero bytes.
type Parameters struct {
	Modulus  []byte `json:"modulus"`
	Exponent []byte `json:"exponent"`
	D        []byte `json:"d,omitempty"`
	P        []byte `json:"p,omitempty"`
	DP       []byte `json:"dp,omitempty"`
	Q        []byte `json:"q,omitempty"`
	DQ       []byte `json:"dq,omitempty"`
	InverseQ []byte `json:"inverse_q,omitempty"`
}

func (p *Parameters) private() [][]byte {
	return [][]byte{p.D, p.P, p.DP, p.Q, p.DQ, p.InverseQ}
}

// HasPrivate reports whether any private field is present.
func (p *Parameters) HasPrivate() bool {
	for _, f := range p.private() {
		if len(f) > 0 {
			return true
		}
	}
	return false
}

// ModulusSize returns len(p.Modulus).
func (p *Parameters) ModulusSize() int {
	return len(p.Modulus)
}

// Validate checks the record before it is handed to an engine. Modulus and
// Exponent are required, the private fields must be all present or all
// absent, and present private fields must have the widths Export produces.
func (p *Parameters) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil parameters", ErrInvalidParameter)
	}
	if len(p.Modulus) == 0 || len(p.Exponent) == 0 {
		return fmt.Errorf("%w: modulus and exponent are required", ErrInvalidParameter)
	}

	fields := p.private()
	present := 0
	for _, f := range fields {
		if len(f) > 0 {
			present++
		}
	}
	if present == 0 {
		return nil
	}
	if present != len(fields) {
		return fmt.Errorf("%w: private fields must be all present or all absent (%d of %d set)",
			ErrInvalidParameter, present, len(fields))
	}

	modulusSize := len(p.Modulus)
	halfModulusSize := modulusSize / 2
	if len(p.D) != modulusSize {
		return fmt.Errorf("%w: D is %d bytes, want %d", ErrInvalidParameter, len(p.D), modulusSize)
	}
	half := []struct {
		name string
		v    []byte
	}{
		{"P", p.P}, {"DP", p.DP}, {"Q", p.Q}, {"DQ", p.DQ}, {"InverseQ", p.InverseQ},
	}
	for _, f := range half {
		if len(f.v) != halfModulusSize {
			return fmt.Errorf("%w: %s is %d bytes, want %d",
				ErrInvalidParameter, f.name, len(f.v), halfModulusSize)
		}
	}
	return nil
}

// PublicOnly returns a copy holding only Modulus and Exponent.
func (p *Parameters) PublicOnly() *Parameters {
	return &Parameters{
		Modulus:  clone(p.Modulus),
		Exponent: clone(p.Exponent),
	}
}

// Clone returns a deep copy.
func (p *Parameters) Clone() *Parameters {
	return &Parameters{
		Modulus:  clone(p.Modulus),
		Exponent: clone(p.Exponent),
		D:        clone(p.D),
		P:        clone(p.P),
		DP:       clone(p.DP),
		Q:        clone(p.Q),
		DQ:       clone(p.DQ),
		InverseQ: clone(p.InverseQ),
	}
}

// Zeroize wipes and drops the private fields.
func (p *Parameters) Zeroize() {
	for _, f := range p.private() {
		ZeroizeBytes(f)
	}
	p.D, p.P, p.DP, p.Q, p.DQ, p.InverseQ = nil, nil, nil, nil, nil, nil
}

// String describes the record's shape without printing key material.
func (p *Parameters) String() string {
	if p == nil {
		return "rsakey.Parameters(nil)"
	}
	return fmt.Sprintf("rsakey.Parameters{modulus: %d bytes, exponent: %d bytes, private: %t}",
		len(p.Modulus), len(p.Exponent), p.HasPrivate())
}

func (p *Parameters) raw() backend.RawComponents {
	return backend.RawComponents{
		N:    p.Modulus,
		E:    p.Exponent,
		D:    p.D,
		P:    p.P,
		Q:    p.Q,
		DMP1: p.DP,
		DMQ1: p.DQ,
		IQMP: p.InverseQ,
	}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
