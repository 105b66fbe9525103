package backend

import "sync"

// registry maps opaque Refs to engine objects so raw object pointers never
// leave the engine.
type registry[T any] struct {
	mu   sync.RWMutex
	next Ref
	objs map[Ref]T
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{next: 1, objs: make(map[Ref]T)}
}

func (r *registry[T]) put(v T) Ref {
	r.mu.Lock()
	ref := r.next
	r.next++
	r.objs[ref] = v
	r.mu.Unlock()
	return ref
}

func (r *registry[T]) get(ref Ref) (T, bool) {
	r.mu.RLock()
	v, ok := r.objs[ref]
	r.mu.RUnlock()
	return v, ok
}

// del removes ref and returns the object it held, if any.
func (r *registry[T]) del(ref Ref) (T, bool) {
	r.mu.Lock()
	v, ok := r.objs[ref]
	if ok {
		delete(r.objs, ref)
	}
	r.mu.Unlock()
	return v, ok
}

func (r *registry[T]) len() int {
	r.mu.RLock()
	n := len(r.objs)
	r.mu.RUnlock()
	return n
}
