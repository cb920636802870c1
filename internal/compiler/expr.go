package compiler

import (
	"github.com/kolkov/c4/internal/symtab"
	"github.com/kolkov/c4/internal/token"
)

// binaryOps maps the plain binary operators to their instructions.
var binaryOps = map[token.Token]Opcode{
	token.OR:  OR,
	token.XOR: XOR,
	token.AND: AND,
	token.EQ:  EQ,
	token.NE:  NE,
	token.LT:  LT,
	token.GT:  GT,
	token.LE:  LE,
	token.GE:  GE,
	token.SHL: SHL,
	token.SHR: SHR,
	token.MUL: MUL,
	token.DIV: DIV,
	token.MOD: MOD,
}

// expr compiles an expression by precedence climbing. The operand is
// compiled first, then every binary or postfix operator binding at least
// as tightly as minPrec is folded in. The value ends up in the
// accumulator and its type in c.typ.
func (c *compiler) expr(minPrec int) {
	c.unary()

	for c.tok.Type.Precedence() >= minPrec {
		t := c.typ
		op := c.tok.Type
		c.next()

		switch op {
		case token.ASSIGN:
			c.lvalue("bad lvalue in assignment", false)
			c.expr(token.AssignPrec)
			c.typ = t
			c.emitStore(t)

		case token.COND:
			mark := c.jumpForward(BZ)
			c.expr(token.AssignPrec)
			c.expect(token.COLON, "conditional missing colon")
			end := c.jumpForward(JMP)
			c.patchForward(mark)
			c.expr(token.CondPrec)
			c.patchForward(end)

		case token.LOR:
			mark := c.jumpForward(BNZ)
			c.expr(token.LanPrec)
			c.patchForward(mark)
			c.typ = symtab.INT

		case token.LAN:
			mark := c.jumpForward(BZ)
			c.expr(token.OrPrec)
			c.patchForward(mark)
			c.typ = symtab.INT

		case token.ADD:
			c.emit(PSH)
			c.expr(token.MulPrec)
			if t > symtab.PTR {
				c.scale()
			}
			c.emit(ADD)
			c.typ = t

		case token.SUB:
			c.emit(PSH)
			c.expr(token.MulPrec)
			switch {
			case t > symtab.PTR && t == c.typ:
				// Pointer difference counts elements.
				c.emit(SUB)
				c.emit(PSH)
				c.emitArg(IMM, symtab.WordSize)
				c.emit(DIV)
				c.typ = symtab.INT
			case t > symtab.PTR:
				c.scale()
				c.emit(SUB)
				c.typ = t
			default:
				c.emit(SUB)
				c.typ = t
			}

		case token.INC, token.DEC:
			c.lvalue("bad lvalue in post-increment", true)
			add, sub := ADD, SUB
			if op == token.DEC {
				add, sub = SUB, ADD
			}
			step := c.step(t)
			c.emit(PSH)
			c.emitArg(IMM, step)
			c.emit(add)
			c.emitStore(t)
			// The accumulator holds the stored value; undo the step to
			// yield the old one.
			c.emit(PSH)
			c.emitArg(IMM, step)
			c.emit(sub)

		case token.LBRACKET:
			c.emit(PSH)
			c.expr(token.AssignPrec)
			c.expect(token.RBRACKET, "close bracket expected")
			if t > symtab.PTR {
				c.scale()
			} else if t < symtab.PTR {
				c.errorf("pointer type expected")
			}
			c.emit(ADD)
			c.typ = t - symtab.PTR
			c.emitLoad(c.typ)

		default:
			c.emit(PSH)
			c.expr(op.Precedence() + 1)
			c.emit(binaryOps[op])
			c.typ = symtab.INT
		}
	}
}

// unary compiles a primary expression or a prefix operator applied to one.
func (c *compiler) unary() {
	switch c.tok.Type {
	case token.EOF:
		c.errorf("unexpected end of input in expression")

	case token.NUM:
		c.emitArg(IMM, c.tok.Val)
		c.next()
		c.typ = symtab.INT

	case token.STR:
		c.emitArg(IMM, c.tok.Val)
		operand := len(c.code) - 1
		c.next()
		// Adjacent literals are each stored; the expression refers to
		// the last one.
		for c.tok.Type == token.STR {
			c.code[operand] = c.tok.Val
			c.next()
		}
		c.typ = symtab.CHAR + symtab.PTR

	case token.SIZEOF:
		c.next()
		c.expect(token.LPAREN, "open paren expected in sizeof")
		ty := c.pointers(c.baseType())
		c.expect(token.RPAREN, "close paren expected in sizeof")
		c.emitArg(IMM, ty.Size())
		c.typ = symtab.INT

	case token.ID:
		c.identifier()

	case token.LPAREN:
		c.next()
		if c.tok.Type.IsType() {
			ty := c.pointers(c.baseType())
			c.expect(token.RPAREN, "bad cast")
			c.expr(token.PostfixPrec)
			c.typ = ty
		} else {
			c.expr(token.AssignPrec)
			c.expect(token.RPAREN, "close paren expected")
		}

	case token.MUL:
		c.next()
		c.expr(token.PostfixPrec)
		if c.typ <= symtab.INT {
			c.errorf("bad dereference")
		}
		c.typ -= symtab.PTR
		c.emitLoad(c.typ)

	case token.AND:
		c.next()
		c.expr(token.PostfixPrec)
		if op, ok := c.lastOp(); !ok || !op.IsLoad() {
			c.errorf("bad address-of")
		}
		c.dropLastOp()
		c.typ += symtab.PTR

	case token.NOT:
		c.next()
		c.expr(token.PostfixPrec)
		c.emit(PSH)
		c.emitArg(IMM, 0)
		c.emit(EQ)
		c.typ = symtab.INT

	case token.TILDE:
		c.next()
		c.expr(token.PostfixPrec)
		c.emit(PSH)
		c.emitArg(IMM, -1)
		c.emit(XOR)
		c.typ = symtab.INT

	case token.ADD:
		c.next()
		c.expr(token.PostfixPrec)
		c.typ = symtab.INT

	case token.SUB:
		c.next()
		if c.tok.Type == token.NUM {
			c.emitArg(IMM, -c.tok.Val)
			c.next()
		} else {
			c.emitArg(IMM, -1)
			c.emit(PSH)
			c.expr(token.PostfixPrec)
			c.emit(MUL)
		}
		c.typ = symtab.INT

	case token.INC, token.DEC:
		op := ADD
		if c.tok.Type == token.DEC {
			op = SUB
		}
		c.next()
		c.expr(token.PostfixPrec)
		c.lvalue("bad lvalue in pre-increment", true)
		c.emit(PSH)
		c.emitArg(IMM, c.step(c.typ))
		c.emit(op)
		c.emitStore(c.typ)

	default:
		c.errorf("bad expression")
	}
}

// identifier compiles a call, an enum constant, or a variable load.
func (c *compiler) identifier() {
	s := *c.sym(int(c.tok.Val))
	c.next()

	if c.tok.Type == token.LPAREN {
		c.next()
		var argc int64
		for c.tok.Type != token.RPAREN {
			c.expr(token.AssignPrec)
			c.emit(PSH)
			argc++
			if c.tok.Type == token.COMMA {
				c.next()
			} else if c.tok.Type != token.RPAREN {
				c.errorf("close paren expected in call")
			}
		}
		c.next()

		switch s.Class {
		case symtab.Sys:
			c.emit(Opcode(s.Value))
		case symtab.Fun:
			c.emitArg(JSR, s.Value)
		case symtab.Unbound:
			c.errorf("undefined function %s", s.Name)
		default:
			c.errorf("%s is not a function", s.Name)
		}
		if argc > 0 {
			c.emitArg(ADJ, argc)
		}
		c.typ = s.Type
		return
	}

	switch s.Class {
	case symtab.Num:
		c.emitArg(IMM, s.Value)
		c.typ = symtab.INT
		return
	case symtab.Loc:
		c.emitArg(LEA, c.loc-s.Value)
	case symtab.Glo:
		c.emitArg(IMM, s.Value)
	default:
		c.errorf("undefined variable %s", s.Name)
	}
	c.typ = s.Type
	c.emitLoad(c.typ)
}

// scale multiplies the accumulator by the word size for pointer arithmetic.
// The left operand is already on the stack.
func (c *compiler) scale() {
	c.emit(PSH)
	c.emitArg(IMM, symtab.WordSize)
	c.emit(MUL)
}

// step is the increment applied by ++ and -- to a value of type t.
func (c *compiler) step(t symtab.Type) int64 {
	if t > symtab.PTR {
		return symtab.WordSize
	}
	return 1
}
