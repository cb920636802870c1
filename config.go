package c4

import (
	"io"
	"os"

	"github.com/kolkov/c4/internal/vm"
)

// Config holds configuration options for c4 execution.
type Config struct {
	// Stdin is read by read(0, ...). If nil, os.Stdin is used.
	Stdin io.Reader

	// Stdout receives printf output. If nil, os.Stdout is used.
	Stdout io.Writer

	// Trace, when set, receives one line per executed instruction
	// ("cycle> OP operand") and a final "exit(status) cycle = n" line.
	Trace io.Writer

	// HeapSize is the size in bytes of the malloc arena (default 256 KiB).
	// Program arguments are copied into the heap before main starts.
	HeapSize int

	// StackSize is the size in bytes of the guest stack (default 256 KiB).
	StackSize int

	// MaxCycles stops a program after this many instructions with a
	// RuntimeError. Zero means no limit.
	MaxCycles int64
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.HeapSize <= 0 {
		c.HeapSize = vm.DefaultHeapSize
	}
	if c.StackSize <= 0 {
		c.StackSize = vm.DefaultStackSize
	}
}
