//go:build cgo && openssl

package backend

/*
#cgo CFLAGS: -Wno-deprecated-declarations
#cgo LDFLAGS: -lcrypto
#include <stdlib.h>
#include <openssl/bn.h>
#include <openssl/crypto.h>
#include <openssl/opensslv.h>
#include <openssl/rsa.h>
#include <openssl/x509.h>

static int rsakey_bn_num_bytes(const BIGNUM *a) {
	return BN_num_bytes(a);
}

static void rsakey_free(void *p) {
	OPENSSL_free(p);
}

static RSA *rsakey_decode_pkcs1(const unsigned char *buf, long len) {
	const unsigned char *p = buf;
	RSA *r = d2i_RSAPublicKey(NULL, &p, len);
	if (r != NULL && p != buf + len) {
		RSA_free(r);
		return NULL;
	}
	return r;
}

static RSA *rsakey_decode_spki(const unsigned char *buf, long len) {
	const unsigned char *p = buf;
	RSA *r = d2i_RSA_PUBKEY(NULL, &p, len);
	if (r != NULL && p != buf + len) {
		RSA_free(r);
		return NULL;
	}
	return r;
}

static RSA *rsakey_generate(int bits) {
	RSA *r = RSA_new();
	BIGNUM *e = BN_new();
	if (r == NULL || e == NULL || !BN_set_word(e, RSA_F4) ||
	    RSA_generate_key_ex(r, bits, e, NULL) != 1) {
		RSA_free(r);
		BN_free(e);
		return NULL;
	}
	BN_free(e);
	return r;
}

// rsakey_from_components takes ownership of every BIGNUM, including on
// failure. Private members are either all NULL or all set.
static RSA *rsakey_from_components(BIGNUM *n, BIGNUM *e, BIGNUM *d,
                                   BIGNUM *p, BIGNUM *q, BIGNUM *dmp1,
                                   BIGNUM *dmq1, BIGNUM *iqmp) {
	RSA *r = RSA_new();
	if (r == NULL || !RSA_set0_key(r, n, e, d)) {
		RSA_free(r);
		BN_free(n); BN_free(e); BN_clear_free(d);
		BN_clear_free(p); BN_clear_free(q);
		BN_clear_free(dmp1); BN_clear_free(dmq1); BN_clear_free(iqmp);
		return NULL;
	}
	if (d == NULL) {
		return r;
	}
	if (!RSA_set0_factors(r, p, q)) {
		RSA_free(r);
		BN_clear_free(p); BN_clear_free(q);
		BN_clear_free(dmp1); BN_clear_free(dmq1); BN_clear_free(iqmp);
		return NULL;
	}
	if (!RSA_set0_crt_params(r, dmp1, dmq1, iqmp)) {
		RSA_free(r);
		BN_clear_free(dmp1); BN_clear_free(dmq1); BN_clear_free(iqmp);
		return NULL;
	}
	if (RSA_check_key(r) != 1) {
		RSA_free(r);
		return NULL;
	}
	return r;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

type sslBigNum struct {
	bn *C.BIGNUM
}

func (b sslBigNum) Len() int { return int(C.rsakey_bn_num_bytes(b.bn)) }

func (b sslBigNum) FillBytes(dst []byte) {
	if len(dst) == 0 {
		return
	}
	C.BN_bn2binpad(b.bn, (*C.uchar)(unsafe.Pointer(&dst[0])), C.int(len(dst)))
}

func sslbn(p *C.BIGNUM) BigNum {
	if p == nil {
		return nil
	}
	return sslBigNum{bn: p}
}

type openSSL struct {
	objs *registry[*C.RSA]
}

// OpenSSL returns an engine backed by libcrypto.
func OpenSSL() (Engine, error) {
	return &openSSL{objs: newRegistry[*C.RSA]()}, nil
}

func (o *openSSL) Name() string { return "openssl" }

func (o *openSSL) Version() string {
	return C.GoString(C.OpenSSL_version(C.OPENSSL_VERSION))
}

func (o *openSSL) New() (Ref, error) {
	r := C.RSA_new()
	if r == nil {
		return 0, ErrAlloc
	}
	return o.objs.put(r), nil
}

func (o *openSSL) Generate(bits int) (Ref, error) {
	r := C.rsakey_generate(C.int(bits))
	if r == nil {
		return 0, fmt.Errorf("%w: RSA_generate_key_ex failed", ErrAlloc)
	}
	return o.objs.put(r), nil
}

func (o *openSSL) DecodePublicKey(der []byte) (Ref, error) {
	if len(der) == 0 {
		return 0, ErrDecode
	}
	buf := (*C.uchar)(unsafe.Pointer(&der[0]))
	r := C.rsakey_decode_pkcs1(buf, C.long(len(der)))
	if r == nil {
		r = C.rsakey_decode_spki(buf, C.long(len(der)))
	}
	if r == nil {
		return 0, ErrDecode
	}
	return o.objs.put(r), nil
}

func (o *openSSL) EncodePublicKey(ref Ref) ([]byte, error) {
	r, ok := o.objs.get(ref)
	if !ok {
		return nil, ErrUnknownRef
	}
	var n *C.BIGNUM
	C.RSA_get0_key(r, &n, nil, nil)
	if n == nil {
		return nil, ErrEmpty
	}
	var out *C.uchar
	size := C.i2d_RSAPublicKey(r, &out)
	if size <= 0 || out == nil {
		return nil, fmt.Errorf("%w: i2d_RSAPublicKey failed", ErrAlloc)
	}
	defer C.rsakey_free(unsafe.Pointer(out))
	return C.GoBytes(unsafe.Pointer(out), size), nil
}

func (o *openSSL) Components(ref Ref) (Components, error) {
	r, ok := o.objs.get(ref)
	if !ok {
		return Components{}, ErrUnknownRef
	}
	var n, e, d, p, q, dmp1, dmq1, iqmp *C.BIGNUM
	C.RSA_get0_key(r, &n, &e, &d)
	C.RSA_get0_factors(r, &p, &q)
	C.RSA_get0_crt_params(r, &dmp1, &dmq1, &iqmp)
	return Components{
		N:    sslbn(n),
		E:    sslbn(e),
		D:    sslbn(d),
		P:    sslbn(p),
		Q:    sslbn(q),
		DMP1: sslbn(dmp1),
		DMQ1: sslbn(dmq1),
		IQMP: sslbn(iqmp),
	}, nil
}

func (o *openSSL) FromComponents(raw RawComponents) (Ref, error) {
	if len(raw.N) == 0 || len(raw.E) == 0 {
		return 0, fmt.Errorf("%w: modulus and exponent are required", ErrRejected)
	}
	private := raw.HasPrivate()
	if private {
		for _, f := range [][]byte{raw.D, raw.P, raw.Q, raw.DMP1, raw.DMQ1, raw.IQMP} {
			if len(f) == 0 {
				return 0, fmt.Errorf("%w: incomplete private components", ErrRejected)
			}
		}
	}

	var bns [8]*C.BIGNUM
	fields := [8][]byte{raw.N, raw.E, raw.D, raw.P, raw.Q, raw.DMP1, raw.DMQ1, raw.IQMP}
	for i, f := range fields {
		if len(f) == 0 {
			continue
		}
		bns[i] = C.BN_bin2bn((*C.uchar)(unsafe.Pointer(&f[0])), C.int(len(f)), nil)
		if bns[i] == nil {
			for j := 0; j < i; j++ {
				C.BN_clear_free(bns[j])
			}
			return 0, ErrAlloc
		}
	}

	r := C.rsakey_from_components(bns[0], bns[1], bns[2], bns[3], bns[4], bns[5], bns[6], bns[7])
	if r == nil {
		return 0, fmt.Errorf("%w: RSA_check_key failed", ErrRejected)
	}
	return o.objs.put(r), nil
}

func (o *openSSL) Free(ref Ref) {
	if r, ok := o.objs.del(ref); ok {
		C.RSA_free(r)
	}
}

func (o *openSSL) Live() int { return o.objs.len() }
