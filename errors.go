package c4

import (
	"fmt"

	"github.com/kolkov/c4/internal/vm"
)

// CompileError represents a lexical or syntax error in c4 source code.
// Compilation stops at the first error.
type CompileError struct {
	Line    int    // 1-based line number
	Message string // Error description
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error at line %d: %s", e.Line, e.Message)
}

// RuntimeError represents a fault during execution.
type RuntimeError struct {
	PC      int    // Code address of the faulting instruction, -1 if none
	Message string // Error description

	err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at pc %d: %s", e.PC, e.Message)
}

// Unwrap returns the underlying fault, so errors.Is matches the Err*
// values below.
func (e *RuntimeError) Unwrap() error {
	return e.err
}

// Runtime fault kinds, matched with errors.Is against a *RuntimeError.
var (
	ErrInvalidOpcode = vm.ErrInvalidOpcode
	ErrMemoryFault   = vm.ErrMemoryFault
	ErrDivideByZero  = vm.ErrDivideByZero
	ErrStackOverflow = vm.ErrStackOverflow
	ErrBadFree       = vm.ErrBadFree
	ErrOutOfMemory   = vm.ErrOutOfMemory
	ErrCycleLimit    = vm.ErrCycleLimit
)
