package vulkan

import (
	"sync"
	"sync/atomic"
)

// table maps opaque vkres handles to native vulkan-go objects. Native
// handles are C pointers and cannot be carried as plain integers, so each
// object is registered once and referred to by id afterwards.
type table[H ~uint64, V comparable] struct {
	mu       sync.RWMutex
	next     *atomic.Uint64
	byHandle map[H]V
	byValue  map[V]H
}

func newTable[H ~uint64, V comparable](next *atomic.Uint64) *table[H, V] {
	return &table[H, V]{
		next:     next,
		byHandle: make(map[H]V),
		byValue:  make(map[V]H),
	}
}

// put registers v and returns its handle. Registering the same object twice
// returns the handle it already has.
func (t *table[H, V]) put(v V) H {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h, ok := t.byValue[v]; ok {
		return h
	}
	h := H(t.next.Add(1))
	t.byHandle[h] = v
	t.byValue[v] = h
	return h
}

func (t *table[H, V]) get(h H) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.byHandle[h]
	return v, ok
}

// getAll resolves every handle, failing if any is unknown.
func (t *table[H, V]) getAll(hs []H) ([]V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ret := make([]V, len(hs))
	for i, h := range hs {
		v, ok := t.byHandle[h]
		if !ok {
			return nil, false
		}
		ret[i] = v
	}
	return ret, true
}

func (t *table[H, V]) remove(h H) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.byHandle[h]
	if ok {
		delete(t.byHandle, h)
		delete(t.byValue, v)
	}
	return v, ok
}

// removeAll removes every known handle in hs and returns how many were
// registered.
func (t *table[H, V]) removeAll(hs []H) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, h := range hs {
		if v, ok := t.byHandle[h]; ok {
			delete(t.byHandle, h)
			delete(t.byValue, v)
			n++
		}
	}
	return n
}

func (t *table[H, V]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byHandle)
}
