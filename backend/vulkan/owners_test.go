package vulkan

import (
	"sort"
	"sync/atomic"
	"testing"
	"time"
)

type testParent uint64

func TestOwnersTakeAndDrop(t *testing.T) {
	o := newOwners[testParent, testHandle]()
	o.add(1, 10, 11, 12)
	o.add(2, 20)
	o.add(1, 13)

	o.drop(11, 99)
	if o.has(1, 11) {
		t.Error("dropped child still recorded")
	}
	if !o.has(1, 10) || o.has(2, 10) {
		t.Error("child recorded under the wrong parent")
	}

	got := o.take(1)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != 3 || got[0] != 10 || got[1] != 12 || got[2] != 13 {
		t.Errorf("take(1) = %v", got)
	}
	if rest := o.take(1); len(rest) != 0 {
		t.Errorf("second take returned %v", rest)
	}

	o.drop(20)
	if rest := o.take(2); len(rest) != 0 {
		t.Errorf("take after dropping every child returned %v", rest)
	}
}

// Raw buffer handles are never freed one by one; destroying their pool must
// still clear them from the table.
func TestPoolBuffersClearedWithPool(t *testing.T) {
	var ids atomic.Uint64
	buffers := newTable[testHandle, string](&ids)
	pools := newOwners[testParent, testHandle]()

	var pool testParent = 7
	var hs []testHandle
	for _, name := range []string{"a", "b", "c", "d"} {
		hs = append(hs, buffers.put(name))
	}
	pools.add(pool, hs...)
	other := buffers.put("other")
	pools.add(8, other)

	// one buffer freed explicitly
	buffers.remove(hs[0])
	pools.drop(hs[0])

	if n := buffers.removeAll(pools.take(pool)); n != 3 {
		t.Errorf("removed %d buffers with the pool, want 3", n)
	}
	if buffers.len() != 1 {
		t.Errorf("%d buffers left, want only the other pool's", buffers.len())
	}
	if _, ok := buffers.get(other); !ok {
		t.Error("buffer of another pool removed")
	}
}

func TestTimeoutNanos(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want uint64
	}{
		{-time.Second, 0},
		{-1, 0},
		{0, 0},
		{time.Millisecond, 1000000},
	}
	for _, tt := range tests {
		if got := timeoutNanos(tt.in); got != tt.want {
			t.Errorf("timeoutNanos(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
