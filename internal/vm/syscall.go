package vm

import (
	"github.com/kolkov/c4/internal/compiler"
	"github.com/kolkov/c4/internal/runtime"
)

// syscall executes a syscall instruction and reports whether op was one.
// Arguments are on the stack in push order, so the last argument is on
// top. The caller pops them with the ADJ that follows; the result goes to
// the accumulator.
func (vm *VM) syscall(op compiler.Opcode) bool {
	switch op {
	case compiler.OPEN:
		path := vm.cstring(vm.arg(1))
		vm.a = vm.files.Open(path, vm.arg(0))

	case compiler.READ:
		fd, p, n := vm.arg(2), vm.arg(1), vm.arg(0)
		if n < 0 {
			vm.a = -1
			break
		}
		if fd == 0 {
			// Prompts written so far must appear before blocking on input.
			vm.out.Flush()
		}
		vm.a = vm.files.Read(fd, vm.mem.slice(p, n))

	case compiler.CLOS:
		vm.a = vm.files.Close(vm.arg(0))

	case compiler.PRTF:
		vm.printf()

	case compiler.MALC:
		vm.a = vm.mem.arena.alloc(vm.arg(0))

	case compiler.FREE:
		if err := vm.mem.arena.release(vm.arg(0)); err != nil {
			throw(err)
		}

	case compiler.MSET:
		p, c, n := vm.arg(2), vm.arg(1), vm.arg(0)
		buf := vm.mem.slice(p, max(n, 0))
		for i := range buf {
			buf[i] = byte(c)
		}
		vm.a = p

	case compiler.MCMP:
		p, q, n := vm.arg(2), vm.arg(1), vm.arg(0)
		x, y := vm.mem.slice(p, max(n, 0)), vm.mem.slice(q, max(n, 0))
		vm.a = 0
		for i := range x {
			if x[i] != y[i] {
				vm.a = int64(x[i]) - int64(y[i])
				break
			}
		}

	default:
		return false
	}
	return true
}

// printf formats and writes its arguments. The argument count is not on
// the stack; it is the operand of the ADJ that follows the call.
func (vm *VM) printf() {
	var argc int64
	if vm.pc+1 < len(vm.code) && compiler.Opcode(vm.code[vm.pc]) == compiler.ADJ {
		argc = vm.code[vm.pc+1]
	}
	if argc <= 0 {
		vm.a = 0
		return
	}

	format := vm.cstring(vm.arg(argc - 1))
	args := make([]int64, argc-1)
	for i := range args {
		args[i] = vm.arg(argc - 2 - int64(i))
	}

	s, err := runtime.Format(format, args, vm.mem)
	if err != nil {
		throw(err)
	}
	n, _ := vm.out.WriteString(s)
	vm.a = int64(n)
}

func (vm *VM) cstring(addr int64) string {
	s, err := vm.mem.CString(addr)
	if err != nil {
		throw(err)
	}
	return s
}
