package vm

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/kolkov/c4/internal/compiler"
	"github.com/kolkov/c4/internal/symtab"
)

const word = symtab.WordSize

// memory is the guest address space. One byte slice is mapped at
// compiler.DataBase and split into three regions:
//
//	data   copy of the program's data segment, padded to a word
//	heap   malloc arena
//	stack  grows down from the top
//
// Addresses outside the slice fault, so null pointers always do.
type memory struct {
	buf   []byte
	heap  int64 // First heap address
	stack int64 // First stack address, the lowest sp may reach
	top   int64 // One past the last address, the initial sp

	arena *allocator
}

func newMemory(data []byte, heapSize, stackSize int) *memory {
	dataSize := (len(data) + word - 1) &^ (word - 1)
	heapSize = (heapSize + word - 1) &^ (word - 1)
	stackSize = (stackSize + word - 1) &^ (word - 1)

	m := &memory{buf: make([]byte, dataSize+heapSize+stackSize)}
	copy(m.buf, data)
	m.heap = compiler.DataBase + int64(dataSize)
	m.stack = m.heap + int64(heapSize)
	m.top = m.stack + int64(stackSize)
	m.arena = newAllocator(m.heap, int64(heapSize))
	return m
}

// offset translates a guest address range into a buffer offset.
func (m *memory) offset(addr, n int64) int64 {
	off := addr - compiler.DataBase
	if off < 0 || n < 0 || off > int64(len(m.buf))-n {
		memoryFault(addr)
	}
	return off
}

func (m *memory) word(addr int64) int64 {
	off := m.offset(addr, word)
	return int64(binary.LittleEndian.Uint64(m.buf[off:]))
}

func (m *memory) setWord(addr, v int64) {
	off := m.offset(addr, word)
	binary.LittleEndian.PutUint64(m.buf[off:], uint64(v))
}

func (m *memory) byteAt(addr int64) byte {
	return m.buf[m.offset(addr, 1)]
}

func (m *memory) setByte(addr int64, b byte) {
	m.buf[m.offset(addr, 1)] = b
}

// slice returns the n bytes at addr, aliasing guest memory.
func (m *memory) slice(addr, n int64) []byte {
	off := m.offset(addr, n)
	return m.buf[off : off+n]
}

// CString returns the NUL-terminated string at addr. A string that runs
// off the end of memory faults.
func (m *memory) CString(addr int64) (string, error) {
	off := m.offset(addr, 0)
	for end := off; end < int64(len(m.buf)); end++ {
		if m.buf[end] == 0 {
			return string(m.buf[off:end]), nil
		}
	}
	memoryFault(addr)
	return "", nil
}

// span is a run of free heap bytes.
type span struct {
	addr, size int64
}

// allocator is a first-fit heap allocator. Free spans are kept sorted by
// address and merged with their neighbors on free.
type allocator struct {
	free []span
	used map[int64]int64 // Allocated block address -> size
}

func newAllocator(base, size int64) *allocator {
	a := &allocator{used: make(map[int64]int64)}
	if size > 0 {
		a.free = []span{{base, size}}
	}
	return a
}

// alloc returns the address of a block of at least n bytes, or 0 when no
// free span is large enough.
func (a *allocator) alloc(n int64) int64 {
	if n < 0 || n > math.MaxInt64-word {
		return 0
	}
	n = max((n+word-1)&^(word-1), word)
	for i, s := range a.free {
		if s.size < n {
			continue
		}
		if s.size == n {
			a.free = append(a.free[:i], a.free[i+1:]...)
		} else {
			a.free[i] = span{s.addr + n, s.size - n}
		}
		a.used[s.addr] = n
		return s.addr
	}
	return 0
}

// release returns a block to the free list. Freeing 0 does nothing.
func (a *allocator) release(addr int64) error {
	if addr == 0 {
		return nil
	}
	size, ok := a.used[addr]
	if !ok {
		return ErrBadFree
	}
	delete(a.used, addr)

	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].addr > addr })
	a.free = append(a.free, span{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = span{addr, size}

	// Merge with the following span, then with the preceding one.
	if i+1 < len(a.free) && a.free[i].addr+a.free[i].size == a.free[i+1].addr {
		a.free[i].size += a.free[i+1].size
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}
	if i > 0 && a.free[i-1].addr+a.free[i-1].size == a.free[i].addr {
		a.free[i-1].size += a.free[i].size
		a.free = append(a.free[:i], a.free[i+1:]...)
	}
	return nil
}

// inUse returns the number of allocated bytes.
func (a *allocator) inUse() int64 {
	var n int64
	for _, size := range a.used {
		n += size
	}
	return n
}
