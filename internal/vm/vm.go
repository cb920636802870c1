// Package vm executes compiled c4 programs.
//
// The machine has an accumulator a, a stack pointer sp, a base pointer bp
// and a program counter pc. Instructions operate on a and the word on top
// of the stack; binary operators pop their left operand. Guest memory is a
// single flat byte array holding data, heap and stack, and syscalls are
// instructions that bridge to host I/O.
package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/kolkov/c4/internal/compiler"
	"github.com/kolkov/c4/internal/runtime"
)

// Default region sizes.
const (
	DefaultHeapSize  = 256 * 1024
	DefaultStackSize = 256 * 1024
)

// Config holds VM configuration options.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer

	// Trace, when set, receives one line per executed instruction.
	Trace io.Writer

	HeapSize  int
	StackSize int

	// MaxCycles stops the program with ErrCycleLimit after this many
	// instructions. Zero means no limit.
	MaxCycles int64
}

// DefaultConfig returns a configuration using the process's standard
// streams and the default region sizes.
func DefaultConfig() Config {
	return Config{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		HeapSize:  DefaultHeapSize,
		StackSize: DefaultStackSize,
	}
}

// VM is the c4 virtual machine. A VM runs its program once.
type VM struct {
	code []int64
	prog *compiler.Program
	mem  *memory

	// Registers
	pc     int
	sp, bp int64
	a      int64

	cycles    int64
	maxCycles int64

	// Faulting instruction, for error reports
	opPC int
	op   compiler.Opcode

	out   *bufio.Writer
	files *runtime.Files
	trace io.Writer
}

// New creates a VM for prog. Zero or nil fields of config take their
// defaults.
func New(prog *compiler.Program, config Config) *VM {
	def := DefaultConfig()
	if config.Stdin == nil {
		config.Stdin = def.Stdin
	}
	if config.Stdout == nil {
		config.Stdout = def.Stdout
	}
	if config.HeapSize <= 0 {
		config.HeapSize = def.HeapSize
	}
	if config.StackSize <= 0 {
		config.StackSize = def.StackSize
	}

	return &VM{
		code:      prog.Code,
		prog:      prog,
		mem:       newMemory(prog.Data, config.HeapSize, config.StackSize),
		maxCycles: config.MaxCycles,
		out:       bufio.NewWriter(config.Stdout),
		files:     runtime.NewFiles(config.Stdin),
		trace:     config.Trace,
	}
}

// Cycles returns the number of instructions executed so far.
func (vm *VM) Cycles() int64 {
	return vm.cycles
}

// Run calls main with the given arguments and returns its exit status:
// the value passed to exit, or main's return value. The arguments are
// copied into the heap as argv. A fault stops execution with an *Error.
func (vm *VM) Run(args []string) (status int, err error) {
	defer vm.files.CloseAll()
	defer func() {
		if ferr := vm.out.Flush(); err == nil && ferr != nil {
			err = ferr
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(fault)
			if !ok {
				panic(r) // Re-panic for non-VM errors
			}
			status, err = -1, &Error{PC: vm.opPC, Op: vm.op, Err: f.err}
		}
	}()

	vm.sp = vm.mem.top
	vm.bp = vm.sp
	vm.opPC = vm.prog.Entry

	argv := vm.setupArgs(args)
	vm.push(int64(len(args)))
	vm.push(argv)
	vm.push(int64(vm.prog.Exit))
	vm.pc = vm.prog.Entry

	return vm.execute(), nil
}

// setupArgs copies args into the heap and returns the address of a
// NULL-terminated pointer array.
func (vm *VM) setupArgs(args []string) int64 {
	argv := vm.malloc(int64(len(args)+1) * word)
	for i, arg := range args {
		p := vm.malloc(int64(len(arg) + 1))
		copy(vm.mem.slice(p, int64(len(arg))), arg)
		vm.mem.setByte(p+int64(len(arg)), 0)
		vm.mem.setWord(argv+int64(i)*word, p)
	}
	vm.mem.setWord(argv+int64(len(args))*word, 0)
	return argv
}

func (vm *VM) malloc(n int64) int64 {
	p := vm.mem.arena.alloc(n)
	if p == 0 {
		throw(ErrOutOfMemory)
	}
	return p
}

// push pushes v onto the guest stack.
func (vm *VM) push(v int64) {
	vm.sp -= word
	if vm.sp < vm.mem.stack {
		throw(ErrStackOverflow)
	}
	vm.mem.setWord(vm.sp, v)
}

// pop removes and returns the top stack word.
func (vm *VM) pop() int64 {
	v := vm.mem.word(vm.sp)
	vm.sp += word
	return v
}

// arg returns the stack word i positions below the top.
func (vm *VM) arg(i int64) int64 {
	return vm.mem.word(vm.sp + i*word)
}

// execute runs until exit and returns the exit status.
func (vm *VM) execute() int {
	code := vm.code
	for {
		if vm.maxCycles > 0 && vm.cycles >= vm.maxCycles {
			throw(ErrCycleLimit)
		}
		vm.cycles++

		vm.opPC = vm.pc
		if vm.pc < 0 || vm.pc >= len(code) {
			vm.op = -1
			throw(fmt.Errorf("%w: pc out of range", ErrInvalidOpcode))
		}
		op := compiler.Opcode(code[vm.pc])
		vm.op = op
		vm.pc++

		var n int64
		if op.HasOperand() {
			if vm.pc >= len(code) {
				throw(fmt.Errorf("%w: missing operand", ErrInvalidOpcode))
			}
			n = code[vm.pc]
			vm.pc++
		}

		if vm.trace != nil {
			vm.traceOp(op, n)
		}

		switch op {
		case compiler.LEA:
			vm.a = vm.bp + n*word
		case compiler.IMM:
			vm.a = n
		case compiler.JMP:
			vm.pc = int(n)
		case compiler.JSR:
			vm.push(int64(vm.pc))
			vm.pc = int(n)
		case compiler.BZ:
			if vm.a == 0 {
				vm.pc = int(n)
			}
		case compiler.BNZ:
			if vm.a != 0 {
				vm.pc = int(n)
			}
		case compiler.ENT:
			vm.push(vm.bp)
			vm.bp = vm.sp
			vm.sp -= n * word
			if vm.sp < vm.mem.stack {
				throw(ErrStackOverflow)
			}
		case compiler.ADJ:
			vm.sp += n * word
		case compiler.LEV:
			vm.sp = vm.bp
			vm.bp = vm.pop()
			vm.pc = int(vm.pop())
		case compiler.LI:
			vm.a = vm.mem.word(vm.a)
		case compiler.LC:
			vm.a = int64(int8(vm.mem.byteAt(vm.a)))
		case compiler.SI:
			vm.mem.setWord(vm.pop(), vm.a)
		case compiler.SC:
			b := byte(vm.a)
			vm.mem.setByte(vm.pop(), b)
			vm.a = int64(int8(b))
		case compiler.PSH:
			vm.push(vm.a)

		case compiler.OR:
			vm.a = vm.pop() | vm.a
		case compiler.XOR:
			vm.a = vm.pop() ^ vm.a
		case compiler.AND:
			vm.a = vm.pop() & vm.a
		case compiler.EQ:
			vm.a = bool2int(vm.pop() == vm.a)
		case compiler.NE:
			vm.a = bool2int(vm.pop() != vm.a)
		case compiler.LT:
			vm.a = bool2int(vm.pop() < vm.a)
		case compiler.GT:
			vm.a = bool2int(vm.pop() > vm.a)
		case compiler.LE:
			vm.a = bool2int(vm.pop() <= vm.a)
		case compiler.GE:
			vm.a = bool2int(vm.pop() >= vm.a)
		case compiler.SHL:
			vm.a = vm.pop() << (uint64(vm.a) & 63)
		case compiler.SHR:
			vm.a = vm.pop() >> (uint64(vm.a) & 63)
		case compiler.ADD:
			vm.a = vm.pop() + vm.a
		case compiler.SUB:
			vm.a = vm.pop() - vm.a
		case compiler.MUL:
			vm.a = vm.pop() * vm.a
		case compiler.DIV:
			l := vm.pop()
			if vm.a == 0 {
				throw(ErrDivideByZero)
			}
			vm.a = l / vm.a
		case compiler.MOD:
			l := vm.pop()
			if vm.a == 0 {
				throw(ErrDivideByZero)
			}
			vm.a = l % vm.a

		case compiler.EXIT:
			status := int(int32(vm.arg(0)))
			if vm.trace != nil {
				fmt.Fprintf(vm.trace, "exit(%d) cycle = %d\n", status, vm.cycles)
			}
			return status

		default:
			if !vm.syscall(op) {
				throw(fmt.Errorf("%w %d", ErrInvalidOpcode, int64(op)))
			}
		}
	}
}

// traceOp writes one instruction in the format of c4 -d.
func (vm *VM) traceOp(op compiler.Opcode, n int64) {
	if op.HasOperand() {
		fmt.Fprintf(vm.trace, "%d> %-4s %d\n", vm.cycles, op, n)
	} else {
		fmt.Fprintf(vm.trace, "%d> %s\n", vm.cycles, op)
	}
}

func bool2int(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
