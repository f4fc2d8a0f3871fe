package vulkan

import (
	"sync"
	"sync/atomic"
	"testing"
)

type testHandle uint64

func TestTablePutGetRemove(t *testing.T) {
	var ids atomic.Uint64
	tb := newTable[testHandle, string](&ids)

	a := tb.put("a")
	b := tb.put("b")
	if a == 0 || b == 0 || a == b {
		t.Fatalf("expected distinct non-zero handles, got %d and %d", a, b)
	}
	if again := tb.put("a"); again != a {
		t.Errorf("re-registering returned %d, want %d", again, a)
	}

	if v, ok := tb.get(b); !ok || v != "b" {
		t.Errorf("get(%d) = %q, %v", b, v, ok)
	}
	if _, ok := tb.get(0); ok {
		t.Error("null handle resolved")
	}

	if v, ok := tb.remove(a); !ok || v != "a" {
		t.Errorf("remove(%d) = %q, %v", a, v, ok)
	}
	if _, ok := tb.remove(a); ok {
		t.Error("second remove succeeded")
	}
	if tb.len() != 1 {
		t.Errorf("len = %d, want 1", tb.len())
	}

	if c := tb.put("a"); c == a {
		t.Error("handle reused after remove")
	}
}

func TestTableGetAll(t *testing.T) {
	var ids atomic.Uint64
	tb := newTable[testHandle, string](&ids)
	x, y := tb.put("x"), tb.put("y")

	vs, ok := tb.getAll([]testHandle{y, x})
	if !ok || len(vs) != 2 || vs[0] != "y" || vs[1] != "x" {
		t.Errorf("getAll = %v, %v", vs, ok)
	}
	if _, ok := tb.getAll([]testHandle{x, 999}); ok {
		t.Error("getAll resolved an unknown handle")
	}
	if vs, ok := tb.getAll(nil); !ok || len(vs) != 0 {
		t.Errorf("getAll(nil) = %v, %v", vs, ok)
	}
}

func TestTablesShareIDs(t *testing.T) {
	var ids atomic.Uint64
	t1 := newTable[testHandle, string](&ids)
	t2 := newTable[testHandle, int](&ids)
	if t1.put("a") == t2.put(1) {
		t.Error("tables sharing a counter issued the same id")
	}
}

func TestTableConcurrentPut(t *testing.T) {
	var ids atomic.Uint64
	tb := newTable[testHandle, int](&ids)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tb.put(base*100 + j)
			}
		}(i)
	}
	wg.Wait()

	if tb.len() != 800 {
		t.Errorf("len = %d, want 800", tb.len())
	}
}

func TestSafeString(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "\x00"},
		{"app", "app\x00"},
		{"app\x00", "app\x00"},
	}
	for _, tt := range tests {
		if got := safeString(tt.in); got != tt.want {
			t.Errorf("safeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	in := []string{"a", "b\x00"}
	out := safeStrings(in)
	if in[0] != "a" {
		t.Error("safeStrings modified its input")
	}
	if out[0] != "a\x00" || out[1] != "b\x00" {
		t.Errorf("safeStrings = %q", out)
	}
}
