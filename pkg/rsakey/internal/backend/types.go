package backend

import "errors"

var (
	// ErrNotBuilt reports that the requested engine was not linked into the
	// current binary.
	ErrNotBuilt = errors.New("rsakey/internal/backend: engine not built")

	// ErrAlloc is returned when the engine cannot allocate a new object.
	ErrAlloc = errors.New("rsakey/internal/backend: allocation failed")

	// ErrDecode is returned for malformed encoded keys.
	ErrDecode = errors.New("rsakey/internal/backend: malformed key encoding")

	// ErrRejected is returned when raw components are not a consistent RSA key.
	ErrRejected = errors.New("rsakey/internal/backend: key material rejected")

	// ErrUnknownRef is returned for refs that are zero, freed or foreign.
	ErrUnknownRef = errors.New("rsakey/internal/backend: unknown object ref")

	// ErrEmpty is returned when an object has no public components yet.
	ErrEmpty = errors.New("rsakey/internal/backend: key has no components")
)

// Ref is an opaque reference to an engine-owned RSA object. The zero Ref is
// never valid.
type Ref uintptr

// BigNum is a borrowed view of an engine-owned unsigned integer. It is only
// valid while the owning object is live and must not be retained.
type BigNum interface {
	// Len returns the minimal big-endian encoding length in bytes.
	Len() int
	// FillBytes writes the value big-endian, right aligned, into dst and
	// zeroes the leading bytes. len(dst) must be at least Len().
	FillBytes(dst []byte)
}

// Components are borrowed views of the integers of one RSA object. Private
// members are nil for public-only objects.
type Components struct {
	N, E             BigNum
	D, P, Q          BigNum
	DMP1, DMQ1, IQMP BigNum
}

// RawComponents carries big-endian integers into FromComponents. Zero-length
// fields are absent.
type RawComponents struct {
	N, E             []byte
	D, P, Q          []byte
	DMP1, DMQ1, IQMP []byte
}

// HasPrivate reports whether any private component is present.
func (r RawComponents) HasPrivate() bool {
	return len(r.D) > 0 || len(r.P) > 0 || len(r.Q) > 0 ||
		len(r.DMP1) > 0 || len(r.DMQ1) > 0 || len(r.IQMP) > 0
}

// Engine is the native RSA object store.
type Engine interface {
	// Name identifies the engine ("software", "openssl").
	Name() string
	// Version reports the engine implementation version.
	Version() string

	// New allocates an empty object.
	New() (Ref, error)
	// Generate allocates an object holding a fresh private key with public
	// exponent 65537.
	Generate(bits int) (Ref, error)
	// DecodePublicKey parses a PKCS#1 RSAPublicKey or PKIX
	// SubjectPublicKeyInfo DER encoding. No object exists on failure.
	DecodePublicKey(der []byte) (Ref, error)
	// EncodePublicKey returns the PKCS#1 RSAPublicKey DER encoding.
	EncodePublicKey(ref Ref) ([]byte, error)
	// Components returns borrowed views of the object's integers.
	Components(ref Ref) (Components, error)
	// FromComponents builds an object from raw integers, rejecting
	// inconsistent material. No object exists on failure.
	FromComponents(raw RawComponents) (Ref, error)
	// Free destroys the object. Unknown refs are ignored.
	Free(ref Ref)
	// Live returns the number of objects not yet freed.
	Live() int
}
