package vm

import (
	"errors"
	"math"
	"testing"

	"github.com/kolkov/c4/internal/compiler"
)

// expectFault runs fn and returns the error it faulted with.
func expectFault(t *testing.T, fn func()) (err error) {
	t.Helper()

	defer func() {
		r := recover()
		f, ok := r.(fault)
		if !ok {
			t.Fatalf("expected fault, got %v", r)
		}
		err = f.err
	}()
	fn()
	return nil
}

func TestMemoryLayout(t *testing.T) {
	m := newMemory([]byte("hi\x00"), 100, 64)

	if m.heap != compiler.DataBase+8 {
		t.Errorf("heap = %#x, want %#x", m.heap, compiler.DataBase+8)
	}
	if m.stack != m.heap+104 {
		t.Errorf("stack = %#x, want heap + 104", m.stack)
	}
	if m.top != m.stack+64 {
		t.Errorf("top = %#x, want stack + 64", m.top)
	}
	if s, _ := m.CString(compiler.DataBase); s != "hi" {
		t.Errorf("CString = %q, want \"hi\"", s)
	}
}

func TestMemoryAccess(t *testing.T) {
	m := newMemory(nil, 64, 64)

	m.setWord(m.heap, -2)
	if got := m.word(m.heap); got != -2 {
		t.Errorf("word = %d, want -2", got)
	}
	if got := m.byteAt(m.heap); got != 0xfe {
		t.Errorf("low byte = %#x, want 0xfe (little endian)", got)
	}
	m.setByte(m.heap+1, 0x12)
	if got := m.word(m.heap) & 0xffff; got != 0x12fe {
		t.Errorf("low half = %#x, want 0x12fe", got)
	}

	// The last word of the stack is addressable, one past it is not.
	m.setWord(m.top-word, -1)

	for name, fn := range map[string]func(){
		"null":          func() { m.word(0) },
		"below base":    func() { m.byteAt(compiler.DataBase - 1) },
		"past end":      func() { m.setWord(m.top-4, 1) },
		"negative size": func() { m.slice(m.heap, -1) },
		"unterminated":  func() { m.CString(m.top - 1) },
	} {
		t.Run(name, func(t *testing.T) {
			if err := expectFault(t, fn); !errors.Is(err, ErrMemoryFault) {
				t.Errorf("error = %v, want ErrMemoryFault", err)
			}
		})
	}
}

func TestAllocator(t *testing.T) {
	const base = 0x1000
	a := newAllocator(base, 64)

	p := a.alloc(8)
	q := a.alloc(10)
	r := a.alloc(8)
	if p != base || q != base+8 || r != base+24 {
		t.Fatalf("allocations = %#x %#x %#x", p, q, r)
	}

	if err := a.release(q); err != nil {
		t.Fatalf("release: %v", err)
	}
	// First fit skips the 16-byte hole.
	if s := a.alloc(24); s != base+32 {
		t.Errorf("alloc(24) = %#x, want %#x", s, base+32)
	}

	a.release(p)
	a.release(r)
	want := []span{{base, 32}, {base + 56, 8}}
	if len(a.free) != len(want) || a.free[0] != want[0] || a.free[1] != want[1] {
		t.Errorf("free list = %v, want %v", a.free, want)
	}
	if a.inUse() != 24 {
		t.Errorf("inUse = %d, want 24", a.inUse())
	}

	if s := a.alloc(0); s != base {
		t.Errorf("alloc(0) = %#x, want %#x", s, base)
	}
	if s := a.alloc(1000); s != 0 {
		t.Errorf("oversized alloc = %#x, want 0", s)
	}
	if s := a.alloc(-1); s != 0 {
		t.Errorf("negative alloc = %#x, want 0", s)
	}
	if s := a.alloc(math.MaxInt64); s != 0 {
		t.Errorf("alloc(MaxInt64) = %#x, want 0", s)
	}
	if err := a.release(0); err != nil {
		t.Errorf("release(0) = %v, want nil", err)
	}
	if err := a.release(base + 4); !errors.Is(err, ErrBadFree) {
		t.Errorf("release of unknown pointer = %v, want ErrBadFree", err)
	}
}
