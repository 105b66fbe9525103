package backend

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"
	"math/big"
	"runtime"
)

// softKey is the software engine's RSA object. It is immutable once
// registered and wiped when freed.
type softKey struct {
	n, e             *big.Int
	d, p, q          *big.Int
	dmp1, dmq1, iqmp *big.Int
}

func (k *softKey) wipe() {
	for _, x := range []*big.Int{k.n, k.e, k.d, k.p, k.q, k.dmp1, k.dmq1, k.iqmp} {
		if x == nil {
			continue
		}
		clear(x.Bits())
		x.SetInt64(0)
	}
}

type softBigNum struct {
	v *big.Int
}

func (b softBigNum) Len() int { return (b.v.BitLen() + 7) / 8 }

func (b softBigNum) FillBytes(dst []byte) { b.v.FillBytes(dst) }

// bn wraps x as a BigNum, keeping absent values as a nil interface.
func bn(x *big.Int) BigNum {
	if x == nil {
		return nil
	}
	return softBigNum{v: x}
}

type software struct {
	objs *registry[*softKey]
	rand io.Reader
}

// Software returns a pure Go engine. Each call returns an independent object
// store.
func Software() Engine {
	return newSoftware(rand.Reader)
}

func newSoftware(r io.Reader) *software {
	return &software{objs: newRegistry[*softKey](), rand: r}
}

func (s *software) Name() string { return "software" }

func (s *software) Version() string { return runtime.Version() }

func (s *software) New() (Ref, error) {
	return s.objs.put(&softKey{}), nil
}

func (s *software) Generate(bits int) (Ref, error) {
	priv, err := rsa.GenerateKey(s.rand, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAlloc, err)
	}
	if len(priv.Primes) != 2 {
		return 0, fmt.Errorf("%w: generated %d primes", ErrAlloc, len(priv.Primes))
	}
	k := &softKey{
		n: new(big.Int).Set(priv.N),
		e: big.NewInt(int64(priv.E)),
		d: new(big.Int).Set(priv.D),
		p: new(big.Int).Set(priv.Primes[0]),
		q: new(big.Int).Set(priv.Primes[1]),
	}
	k.dmp1, k.dmq1, k.iqmp = crtParams(k.d, k.p, k.q)
	return s.objs.put(k), nil
}

func (s *software) DecodePublicKey(der []byte) (Ref, error) {
	n, e, err := parsePublicKeyDER(der)
	if err != nil {
		return 0, err
	}
	return s.objs.put(&softKey{n: n, e: e}), nil
}

func (s *software) EncodePublicKey(ref Ref) ([]byte, error) {
	k, ok := s.objs.get(ref)
	if !ok {
		return nil, ErrUnknownRef
	}
	if k.n == nil || k.e == nil {
		return nil, ErrEmpty
	}
	return marshalRSAPublicKey(k.n, k.e)
}

func (s *software) Components(ref Ref) (Components, error) {
	k, ok := s.objs.get(ref)
	if !ok {
		return Components{}, ErrUnknownRef
	}
	return Components{
		N:    bn(k.n),
		E:    bn(k.e),
		D:    bn(k.d),
		P:    bn(k.p),
		Q:    bn(k.q),
		DMP1: bn(k.dmp1),
		DMQ1: bn(k.dmq1),
		IQMP: bn(k.iqmp),
	}, nil
}

func (s *software) FromComponents(raw RawComponents) (Ref, error) {
	k, err := softKeyFromRaw(raw)
	if err != nil {
		return 0, err
	}
	return s.objs.put(k), nil
}

func (s *software) Free(ref Ref) {
	if k, ok := s.objs.del(ref); ok {
		k.wipe()
	}
}

func (s *software) Live() int { return s.objs.len() }

func softKeyFromRaw(raw RawComponents) (*softKey, error) {
	if len(raw.N) == 0 || len(raw.E) == 0 {
		return nil, fmt.Errorf("%w: modulus and exponent are required", ErrRejected)
	}
	k := &softKey{
		n: new(big.Int).SetBytes(raw.N),
		e: new(big.Int).SetBytes(raw.E),
	}
	if k.n.Sign() == 0 || k.n.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: modulus must be odd and non-zero", ErrRejected)
	}
	if k.e.Cmp(bigOne) <= 0 || k.e.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: exponent must be odd and greater than one", ErrRejected)
	}
	if !raw.HasPrivate() {
		return k, nil
	}

	fields := [][]byte{raw.D, raw.P, raw.Q, raw.DMP1, raw.DMQ1, raw.IQMP}
	for _, f := range fields {
		if len(f) == 0 {
			return nil, fmt.Errorf("%w: incomplete private components", ErrRejected)
		}
	}
	k.d = new(big.Int).SetBytes(raw.D)
	k.p = new(big.Int).SetBytes(raw.P)
	k.q = new(big.Int).SetBytes(raw.Q)
	k.dmp1 = new(big.Int).SetBytes(raw.DMP1)
	k.dmq1 = new(big.Int).SetBytes(raw.DMQ1)
	k.iqmp = new(big.Int).SetBytes(raw.IQMP)
	if err := checkPrivate(k); err != nil {
		k.wipe()
		return nil, err
	}
	return k, nil
}

var bigOne = big.NewInt(1)

// checkPrivate performs the consistency checks of RSA_check_key: prime
// factors, n = p*q, e*d = 1 mod (p-1) and (q-1), and matching CRT values.
func checkPrivate(k *softKey) error {
	if k.p.Cmp(bigOne) <= 0 || k.q.Cmp(bigOne) <= 0 {
		return fmt.Errorf("%w: factors must exceed one", ErrRejected)
	}
	if !k.p.ProbablyPrime(20) || !k.q.ProbablyPrime(20) {
		return fmt.Errorf("%w: factor is not prime", ErrRejected)
	}
	if new(big.Int).Mul(k.p, k.q).Cmp(k.n) != 0 {
		return fmt.Errorf("%w: n != p*q", ErrRejected)
	}
	de := new(big.Int).Mul(k.d, k.e)
	for _, prime := range []*big.Int{k.p, k.q} {
		pm1 := new(big.Int).Sub(prime, bigOne)
		if new(big.Int).Mod(de, pm1).Cmp(bigOne) != 0 {
			return fmt.Errorf("%w: d is not the inverse of e", ErrRejected)
		}
	}
	dmp1, dmq1, iqmp := crtParams(k.d, k.p, k.q)
	if iqmp == nil {
		return fmt.Errorf("%w: q is not invertible mod p", ErrRejected)
	}
	if dmp1.Cmp(k.dmp1) != 0 || dmq1.Cmp(k.dmq1) != 0 || iqmp.Cmp(k.iqmp) != 0 {
		return fmt.Errorf("%w: CRT parameters do not match d, p, q", ErrRejected)
	}
	return nil
}

// crtParams derives d mod (p-1), d mod (q-1) and q^-1 mod p. iqmp is nil
// when q has no inverse.
func crtParams(d, p, q *big.Int) (dmp1, dmq1, iqmp *big.Int) {
	dmp1 = new(big.Int).Mod(d, new(big.Int).Sub(p, bigOne))
	dmq1 = new(big.Int).Mod(d, new(big.Int).Sub(q, bigOne))
	iqmp = new(big.Int).ModInverse(q, p)
	return dmp1, dmq1, iqmp
}
