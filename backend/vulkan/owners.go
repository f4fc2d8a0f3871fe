package vulkan

import "sync"

// owners records which child handles were created from a parent so that
// children the driver frees implicitly, like the buffers of a destroyed
// pool, can be dropped from their table too.
type owners[P, C ~uint64] struct {
	mu       sync.Mutex
	children map[P]map[C]struct{}
	parent   map[C]P
}

func newOwners[P, C ~uint64]() *owners[P, C] {
	return &owners[P, C]{
		children: make(map[P]map[C]struct{}),
		parent:   make(map[C]P),
	}
}

func (o *owners[P, C]) add(p P, cs ...C) {
	o.mu.Lock()
	defer o.mu.Unlock()
	set, ok := o.children[p]
	if !ok {
		set = make(map[C]struct{}, len(cs))
		o.children[p] = set
	}
	for _, c := range cs {
		set[c] = struct{}{}
		o.parent[c] = p
	}
}

// drop forgets individual children, e.g. after an explicit free.
func (o *owners[P, C]) drop(cs ...C) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, c := range cs {
		p, ok := o.parent[c]
		if !ok {
			continue
		}
		delete(o.parent, c)
		delete(o.children[p], c)
		if len(o.children[p]) == 0 {
			delete(o.children, p)
		}
	}
}

// take forgets p and returns the children still recorded for it.
func (o *owners[P, C]) take(p P) []C {
	o.mu.Lock()
	defer o.mu.Unlock()
	set := o.children[p]
	delete(o.children, p)
	ret := make([]C, 0, len(set))
	for c := range set {
		delete(o.parent, c)
		ret = append(ret, c)
	}
	return ret
}

func (o *owners[P, C]) has(p P, c C) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.children[p][c]
	return ok
}
