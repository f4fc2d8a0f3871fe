package vkres

import (
	"fmt"
	"sync/atomic"
)

// refCounter tracks the owners of one native object and runs destroy when
// the last of them lets go. Each wrapper value returned by a constructor or
// Clone holds exactly one reference.
type refCounter struct {
	refs    atomic.Int32
	destroy func()
}

func newRefCounter(destroy func()) *refCounter {
	r := &refCounter{destroy: destroy}
	r.refs.Store(1)
	return r
}

func (r *refCounter) acquire() {
	if r.refs.Add(1) <= 1 {
		panic("vkres: acquire on a destroyed object")
	}
}

// release drops one reference and reports whether it was the last one.
func (r *refCounter) release() bool {
	n := r.refs.Add(-1)
	switch {
	case n == 0:
		r.destroy()
		return true
	case n < 0:
		panic("vkres: release on a destroyed object")
	}
	return false
}

func (r *refCounter) count() int {
	return int(r.refs.Load())
}

// mustBeLive panics when a wrapper value is used after its Release.
func mustBeLive(released *atomic.Bool, what string) {
	if released.Load() {
		panic(fmt.Sprintf("vkres: use of released %s", what))
	}
}
