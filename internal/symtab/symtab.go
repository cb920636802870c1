// Package symtab implements the interned symbol table shared by the lexer
// and the compiler.
//
// Keywords, syscalls and user identifiers live in one flat, append-only
// table. A name maps to exactly one active binding at a time; function
// parameters and locals temporarily shadow globals of the same name and the
// saved attributes are restored when the function body ends.
package symtab

import (
	"fmt"

	"github.com/kolkov/c4/internal/token"
)

// Class is the storage class of a symbol.
type Class int

const (
	Unbound Class = iota // Seen by the lexer, not declared yet
	Keyword              // Reserved word
	Sys                  // Syscall bridged by the VM
	Fun                  // User function, Value is its code address
	Glo                  // Global variable, Value is its guest address
	Loc                  // Local variable or parameter, Value is its frame slot
	Num                  // Enum constant, Value is the constant
)

// String returns a human-readable name for the class.
func (c Class) String() string {
	switch c {
	case Unbound:
		return "unbound"
	case Keyword:
		return "keyword"
	case Sys:
		return "syscall"
	case Fun:
		return "function"
	case Glo:
		return "global"
	case Loc:
		return "local"
	case Num:
		return "enum"
	default:
		return "invalid"
	}
}

// Type is a point in the CHAR < INT < PTR lattice. Every level of pointer
// indirection adds PTR, so char* is 2, int* is 3, char** is 4 and so on.
type Type int

const (
	CHAR Type = 0
	INT  Type = 1
	PTR  Type = 2
)

// WordSize is the size in bytes of an int and of every pointer.
const WordSize = 8

// Size returns the storage size of a value of type t.
func (t Type) Size() int64 {
	if t == CHAR {
		return 1
	}
	return WordSize
}

// String renders the type in C syntax.
func (t Type) String() string {
	base := "int"
	if t%PTR == CHAR {
		base = "char"
	}
	for i := Type(0); i < t/PTR; i++ {
		base += "*"
	}
	return base
}

// IsPointer reports whether t has at least one level of indirection.
func (t Type) IsPointer() bool {
	return t >= PTR
}

// Attrs holds the rebindable part of a symbol.
type Attrs struct {
	Class Class
	Type  Type
	Value int64
}

// Symbol is one entry of the table.
type Symbol struct {
	Name string
	Hash int64
	Tok  token.Token // Keyword token, or token.ID
	Attrs

	shadow *Attrs // Saved global binding while a local is active
}

// Shadowed reports whether the symbol currently hides an outer binding.
func (s *Symbol) Shadowed() bool {
	return s.shadow != nil
}

type key struct {
	hash int64
	name string
}

// Table is the symbol table.
type Table struct {
	symbols []Symbol
	index   map[key]int
	scope   []int // Symbols shadowed in the current function scope
}

// New creates a table with the keywords pre-interned.
func New() *Table {
	t := &Table{index: make(map[key]int)}
	for _, kw := range token.Keywords {
		i := t.Intern(kw.Name)
		t.symbols[i].Tok = kw.Token
		t.symbols[i].Class = Keyword
	}
	return t
}

// Hash computes the dispersion value of an identifier: h = h*147 + c for
// each byte, then (h << 6) + len.
func Hash(name string) int64 {
	var h int64
	for i := 0; i < len(name); i++ {
		h = h*147 + int64(name[i])
	}
	return (h << 6) + int64(len(name))
}

// Find returns the index of the symbol with the given hash and name.
// The hash is a short-circuit only; the name must match exactly.
func (t *Table) Find(hash int64, name string) (int, bool) {
	i, ok := t.index[key{hash, name}]
	return i, ok
}

// Intern returns the index of name, appending an unbound symbol if the name
// has not been seen before.
func (t *Table) Intern(name string) int {
	return t.InternHash(Hash(name), name)
}

// InternHash is Intern with a precomputed hash, used by the lexer which
// hashes while scanning.
func (t *Table) InternHash(hash int64, name string) int {
	if i, ok := t.Find(hash, name); ok {
		return i
	}
	t.symbols = append(t.symbols, Symbol{Name: name, Hash: hash, Tok: token.ID})
	i := len(t.symbols) - 1
	t.index[key{hash, name}] = i
	return i
}

// Declare interns name and binds it.
func (t *Table) Declare(name string, class Class, typ Type, value int64) int {
	i := t.Intern(name)
	t.symbols[i].Attrs = Attrs{Class: class, Type: typ, Value: value}
	return i
}

// Get returns the symbol at index i. The pointer stays valid until the
// next insertion.
func (t *Table) Get(i int) *Symbol {
	return &t.symbols[i]
}

// Len returns the number of symbols.
func (t *Table) Len() int {
	return len(t.symbols)
}

// Shadow saves the current binding of symbol i and records it in the
// current scope. It fails if the symbol is already shadowed in this scope.
func (t *Table) Shadow(i int) error {
	s := &t.symbols[i]
	if s.shadow != nil {
		return fmt.Errorf("%s already shadowed", s.Name)
	}
	saved := s.Attrs
	s.shadow = &saved
	t.scope = append(t.scope, i)
	return nil
}

// Unshadow restores the binding saved by Shadow.
func (t *Table) Unshadow(i int) {
	s := &t.symbols[i]
	if s.shadow == nil {
		return
	}
	s.Attrs = *s.shadow
	s.shadow = nil
}

// ExitScope restores every binding shadowed since the last ExitScope, most
// recent first.
func (t *Table) ExitScope() {
	for j := len(t.scope) - 1; j >= 0; j-- {
		t.Unshadow(t.scope[j])
	}
	t.scope = t.scope[:0]
}
