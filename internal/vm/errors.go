package vm

import (
	"errors"
	"fmt"

	"github.com/kolkov/c4/internal/compiler"
)

// Fault kinds. Every fault stops the program and is reported as an *Error
// wrapping one of these.
var (
	ErrInvalidOpcode = errors.New("invalid instruction")
	ErrMemoryFault   = errors.New("memory fault")
	ErrDivideByZero  = errors.New("division by zero")
	ErrStackOverflow = errors.New("stack overflow")
	ErrBadFree       = errors.New("free of unallocated pointer")
	ErrOutOfMemory   = errors.New("out of memory")
	ErrCycleLimit    = errors.New("cycle limit exceeded")
)

// Error is a runtime fault at a code address.
type Error struct {
	PC  int             // Address of the faulting instruction
	Op  compiler.Opcode // The faulting instruction
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pc %d (%s): %v", e.PC, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fault carries an error out of the dispatch loop by panic; Run recovers it
// and attaches the faulting address.
type fault struct {
	err error
}

func throw(err error) {
	panic(fault{err})
}

func memoryFault(addr int64) {
	throw(fmt.Errorf("%w at %#x", ErrMemoryFault, addr))
}
