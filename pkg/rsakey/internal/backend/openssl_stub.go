//go:build !cgo || !openssl

package backend

// OpenSSL reports ErrNotBuilt unless the binary was built with cgo and the
// "openssl" build tag.
func OpenSSL() (Engine, error) {
	return nil, ErrNotBuilt
}
