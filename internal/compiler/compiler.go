package compiler

import (
	"fmt"

	"github.com/kolkov/c4/internal/lexer"
	"github.com/kolkov/c4/internal/symtab"
	"github.com/kolkov/c4/internal/token"
)

// Error represents a compilation error at a source line.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Compile translates c4 source into a Program. Compilation stops at the
// first error.
func Compile(src string) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*Error); ok {
				err = ce
			} else {
				panic(r) // Re-panic for non-compile errors
			}
		}
	}()

	c := newCompiler(src)
	c.next()
	for c.tok.Type != token.EOF {
		c.declaration()
	}
	return c.finish(), nil
}

// compiler holds the state shared by every parsing function: the current
// token, the type of the expression just compiled, and the code buffer.
type compiler struct {
	lex  *lexer.Lexer
	syms *symtab.Table
	data *lexer.Segment

	tok lexer.Token // Current token
	typ symtab.Type // Type of the last compiled expression
	loc int64       // Frame slot base of the current function

	code  []int64
	lines []int // Source line per code word
	ops   []int // Start index of every emitted instruction

	// Addresses some jump lands on. An instruction followed by a jump
	// target is not the only way to reach the next one, so it cannot be
	// rewritten as an lvalue or treated as the final LEV.
	targets map[int]bool

	funcs []Function
}

// newCompiler creates a compiler with the syscalls declared.
func newCompiler(src string) *compiler {
	syms := symtab.New()
	for _, sc := range Syscalls {
		syms.Declare(sc.Name, symtab.Sys, symtab.INT, int64(sc.Op))
	}
	data := lexer.NewSegment(DataBase)
	return &compiler{
		lex:     lexer.NewFromString(src, syms, data),
		syms:    syms,
		data:    data,
		targets: make(map[int]bool),
	}
}

// finish appends the exit trampoline and resolves main.
func (c *compiler) finish() *Program {
	i, ok := c.syms.Find(symtab.Hash("main"), "main")
	if !ok || c.sym(i).Class != symtab.Fun {
		c.errorf("main() not defined")
	}
	entry := int(c.sym(i).Value)

	exit := len(c.code)
	c.emit(PSH)
	c.emit(EXIT)

	return &Program{
		Code:      c.code,
		Data:      c.data.Bytes(),
		Entry:     entry,
		Exit:      exit,
		Lines:     c.lines,
		Functions: c.funcs,
	}
}

// errorf aborts compilation with an error at the current line.
func (c *compiler) errorf(format string, args ...any) {
	panic(&Error{Line: c.tok.Line, Message: fmt.Sprintf(format, args...)})
}

// next advances to the next token.
func (c *compiler) next() {
	c.tok = c.lex.Scan()
	if c.tok.Type == token.ILLEGAL {
		c.errorf("%s", c.tok.Text)
	}
}

// expect consumes a token of type t or fails with msg.
func (c *compiler) expect(t token.Token, msg string) {
	if c.tok.Type != t {
		c.errorf("%s", msg)
	}
	c.next()
}

// sym returns the symbol at index i. Do not hold the pointer across next:
// scanning may grow the table.
func (c *compiler) sym(i int) *symtab.Symbol {
	return c.syms.Get(i)
}

// pointers consumes '*' tokens, raising ty one indirection level for each.
func (c *compiler) pointers(ty symtab.Type) symtab.Type {
	for c.tok.Type == token.MUL {
		c.next()
		ty += symtab.PTR
	}
	return ty
}

// baseType consumes an optional int or char keyword and returns the type
// it names, INT if there is none.
func (c *compiler) baseType() symtab.Type {
	switch c.tok.Type {
	case token.INT:
		c.next()
	case token.CHAR:
		c.next()
		return symtab.CHAR
	}
	return symtab.INT
}

// Code emission

// emit appends an instruction without operand.
func (c *compiler) emit(op Opcode) {
	c.ops = append(c.ops, len(c.code))
	c.code = append(c.code, int64(op))
	c.lines = append(c.lines, c.tok.Line)
}

// emitArg appends an instruction and its operand.
func (c *compiler) emitArg(op Opcode, arg int64) {
	c.emit(op)
	c.code = append(c.code, arg)
	c.lines = append(c.lines, c.tok.Line)
}

// emitLoad loads a value of type t through the accumulator.
func (c *compiler) emitLoad(t symtab.Type) {
	if t == symtab.CHAR {
		c.emit(LC)
	} else {
		c.emit(LI)
	}
}

// emitStore stores the accumulator as type t at the popped address.
func (c *compiler) emitStore(t symtab.Type) {
	if t == symtab.CHAR {
		c.emit(SC)
	} else {
		c.emit(SI)
	}
}

// lastOp returns the last emitted instruction, unless control can also
// arrive after it by a jump.
func (c *compiler) lastOp() (Opcode, bool) {
	if len(c.ops) == 0 || c.targets[len(c.code)] {
		return 0, false
	}
	return Opcode(c.code[c.ops[len(c.ops)-1]]), true
}

// dropLastOp removes the last emitted instruction.
func (c *compiler) dropLastOp() {
	pos := c.ops[len(c.ops)-1]
	c.ops = c.ops[:len(c.ops)-1]
	c.code = c.code[:pos]
	c.lines = c.lines[:pos]
}

// lvalue requires the expression just compiled to end in a load and turns
// that load into a PSH of its address. With reload set the load is emitted
// again, leaving the current value in the accumulator.
func (c *compiler) lvalue(msg string, reload bool) {
	op, ok := c.lastOp()
	if !ok || !op.IsLoad() {
		c.errorf("%s", msg)
	}
	c.code[c.ops[len(c.ops)-1]] = int64(PSH)
	if reload {
		c.emit(op)
	}
}

// jumpForward emits a jump with a placeholder target and returns the
// placeholder's location.
func (c *compiler) jumpForward(op Opcode) int {
	c.emitArg(op, 0)
	return len(c.code) - 1
}

// patchForward points a forward jump at the current position.
func (c *compiler) patchForward(mark int) {
	c.code[mark] = int64(len(c.code))
	c.targets[len(c.code)] = true
}

// labelBackward returns the current position for a backward jump.
func (c *compiler) labelBackward() int {
	return len(c.code)
}

// jumpBackward emits an unconditional jump to label.
func (c *compiler) jumpBackward(label int) {
	c.emitArg(JMP, int64(label))
	c.targets[label] = true
}
