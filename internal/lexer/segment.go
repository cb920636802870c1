package lexer

import "github.com/kolkov/c4/internal/symtab"

// Segment is the append-only data area shared by string literals and
// global variables. It is mapped at a fixed guest base address; offsets
// never move once written.
type Segment struct {
	base int64
	buf  []byte
}

// NewSegment creates an empty segment mapped at base.
func NewSegment(base int64) *Segment {
	return &Segment{base: base}
}

// Base returns the guest address of the first byte.
func (s *Segment) Base() int64 {
	return s.base
}

// Addr returns the guest address of the next byte to be written.
func (s *Segment) Addr() int64 {
	return s.base + int64(len(s.buf))
}

// Len returns the number of bytes written.
func (s *Segment) Len() int {
	return len(s.buf)
}

// Append writes one byte.
func (s *Segment) Append(b byte) {
	s.buf = append(s.buf, b)
}

// Align pads with at least one NUL byte up to the next word boundary, so a
// preceding string is always terminated.
func (s *Segment) Align() {
	n := len(s.buf) + symtab.WordSize
	n &^= symtab.WordSize - 1
	for len(s.buf) < n {
		s.buf = append(s.buf, 0)
	}
}

// Alloc reserves n zeroed bytes and returns their guest address. Callers
// keep the segment aligned by allocating whole words.
func (s *Segment) Alloc(n int) int64 {
	addr := s.Addr()
	s.buf = append(s.buf, make([]byte, n)...)
	return addr
}

// Bytes returns the segment contents.
func (s *Segment) Bytes() []byte {
	return s.buf
}
