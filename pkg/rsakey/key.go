package rsakey

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/coinbase/rsakey-go/pkg/rsakey/internal/backend"
)

// Key is a reference-counted handle to an RSA object owned by the engine.
//
// A new Key holds one reference. AddRef takes another, Release drops one, and
// the native object is destroyed when the count reaches zero. Once destroyed
// a Key cannot be revived. If a Key becomes unreachable while references are
// still outstanding, a finalizer destroys the native object.
type Key struct {
	lib  *Library
	ref  backend.Ref
	id   uuid.UUID
	refs atomic.Int32
	dead atomic.Bool
}

func (l *Library) newKey(ref backend.Ref, origin string) *Key {
	k := &Key{lib: l, ref: ref, id: uuid.New()}
	k.refs.Store(1)
	runtime.SetFinalizer(k, (*Key).finalize)
	l.logger.Debug(context.Background(), "key created", "key_id", k.id, "origin", origin)
	return k
}

// ID identifies the key in log output.
func (k *Key) ID() uuid.UUID {
	return k.id
}

// RefCount returns the current number of strong references.
func (k *Key) RefCount() int32 {
	if k == nil {
		return 0
	}
	return k.refs.Load()
}

// AddRef takes an additional strong reference. It fails with ErrInvalidKey
// once the key has been destroyed.
func (k *Key) AddRef() error {
	if k == nil {
		return fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	for {
		n := k.refs.Load()
		if n <= 0 {
			return fmt.Errorf("%w: key %s already destroyed", ErrInvalidKey, k.id)
		}
		if k.refs.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Release drops one strong reference and destroys the native object when the
// last one goes. Releasing a destroyed key returns ErrInvalidKey and has no
// other effect.
func (k *Key) Release() error {
	if k == nil {
		return fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	for {
		n := k.refs.Load()
		if n <= 0 {
			return fmt.Errorf("%w: key %s already destroyed", ErrInvalidKey, k.id)
		}
		if !k.refs.CompareAndSwap(n, n-1) {
			continue
		}
		if n == 1 {
			k.destroy()
			runtime.SetFinalizer(k, nil)
		}
		return nil
	}
}

// acquire takes a scoped reference. The returned release must run after every
// borrowed value read from the engine has been copied.
func (k *Key) acquire() (release func(), err error) {
	if err := k.AddRef(); err != nil {
		return nil, err
	}
	return func() {
		_ = k.Release()
		runtime.KeepAlive(k)
	}, nil
}

func (k *Key) destroy() {
	if !k.dead.CompareAndSwap(false, true) {
		return
	}
	k.lib.engine.Free(k.ref)
	k.lib.logger.Debug(context.Background(), "key destroyed", "key_id", k.id)
}

func (k *Key) finalize() {
	if n := k.refs.Load(); n > 0 {
		k.lib.logger.Warn(context.Background(), "key finalized with outstanding references",
			"key_id", k.id, "refs", n)
	}
	k.destroy()
}

// HasPrivateKey reports whether the key carries the full private component
// set.
func (k *Key) HasPrivateKey() (bool, error) {
	release, err := k.acquire()
	if err != nil {
		return false, err
	}
	defer release()

	c, err := k.components()
	if err != nil {
		return false, err
	}
	return hasPrivate(c), nil
}

// Size returns the modulus length in bytes.
func (k *Key) Size() (int, error) {
	release, err := k.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	c, err := k.components()
	if err != nil {
		return 0, err
	}
	if c.N == nil {
		return 0, fmt.Errorf("%w: key %s has no modulus", ErrInvalidKey, k.id)
	}
	return c.N.Len(), nil
}

// MarshalPublicKey returns the PKCS#1 RSAPublicKey DER encoding of the key.
func (k *Key) MarshalPublicKey() ([]byte, error) {
	release, err := k.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	der, err := k.lib.engine.EncodePublicKey(k.ref)
	if err != nil {
		return nil, remapError(err)
	}
	return der, nil
}
