package c4

import (
	"errors"

	"github.com/kolkov/c4/internal/compiler"
	"github.com/kolkov/c4/internal/vm"
)

// Program represents a compiled c4 program ready for execution.
// It is safe for concurrent use; each call to Run creates an
// independent machine with its own memory.
type Program struct {
	compiled *compiler.Program
	source   string // Original source for listings
}

// Run executes main with the given arguments and returns its exit status.
// args[0] is the program name as main sees it in argv[0].
//
// If config is nil, default configuration is used.
// A runtime fault is returned as a *RuntimeError.
func (p *Program) Run(args []string, config *Config) (int, error) {
	var cfg Config
	if config != nil {
		cfg = *config
	}
	cfg.applyDefaults()

	v := vm.New(p.compiled, vm.Config{
		Stdin:     cfg.Stdin,
		Stdout:    cfg.Stdout,
		Trace:     cfg.Trace,
		HeapSize:  cfg.HeapSize,
		StackSize: cfg.StackSize,
		MaxCycles: cfg.MaxCycles,
	})

	status, err := v.Run(args)
	if err != nil {
		var vmErr *vm.Error
		if errors.As(err, &vmErr) {
			return 1, &RuntimeError{PC: vmErr.PC, Message: vmErr.Err.Error(), err: vmErr}
		}
		return 1, &RuntimeError{PC: -1, Message: err.Error(), err: err}
	}
	return status, nil
}

// Disassemble returns a human-readable representation of the compiled
// bytecode and data segment.
func (p *Program) Disassemble() string {
	return p.compiled.Disassemble()
}

// Listing returns the source interleaved with the instructions generated
// for each line.
func (p *Program) Listing() string {
	return p.compiled.Listing(p.source)
}

// Source returns the original c4 source code.
func (p *Program) Source() string {
	return p.source
}
