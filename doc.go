// Package c4 compiles and runs programs written in a small subset of C.
//
// The language is the one understood by the c4 self-hosting compiler: char,
// int, pointers, enums, functions, if/else, while, return, and the full C
// expression grammar with its precedence levels. Source is compiled in a
// single pass to bytecode for a stack machine with an accumulator, and a
// handful of library calls (open, read, close, printf, malloc, free,
// memset, memcmp, exit) are provided as machine instructions.
//
// # Quick Start
//
// For one-off execution:
//
//	status, err := c4.Run(source, []string{"prog"}, nil)
//
// With configuration:
//
//	var out bytes.Buffer
//	status, err := c4.Run(source, []string{"prog", "input.txt"}, &c4.Config{
//	    Stdout:   &out,
//	    HeapSize: 1 << 20,
//	})
//
// # Compiled Programs
//
// Compile once and run many times:
//
//	prog, err := c4.Compile(source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(prog.Listing())
//	status, err := prog.Run([]string{"prog"}, nil)
//
// A Program is immutable; every Run gets a fresh machine.
//
// # Errors
//
// Compile returns a *CompileError carrying the source line. Run returns a
// *RuntimeError carrying the code address of the faulting instruction;
// errors.Is matches it against ErrDivideByZero, ErrMemoryFault and the
// other fault kinds.
//
// # Memory Model
//
// int and every pointer are 64-bit words, char is a signed byte. Guest
// addresses start at 0x10000 so a null pointer always faults. The data
// segment holds string literals and globals, followed by the malloc heap
// and the stack.
package c4
