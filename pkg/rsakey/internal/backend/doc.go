// Package backend hosts the engine layer that owns native RSA objects on
// behalf of the rsakey API. The Engine interface mirrors the shape of an
// OpenSSL-style C API: objects are referenced through opaque Refs, integers
// are handed out as borrowed BigNum views, and construction from raw
// components validates the material before an object becomes reachable.
//
// Two engines exist. Software is pure Go and always available. OpenSSL links
// libcrypto through cgo and is only compiled with the "openssl" build tag;
// otherwise it reports ErrNotBuilt.
package backend
