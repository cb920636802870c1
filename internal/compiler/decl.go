package compiler

import (
	"github.com/kolkov/c4/internal/symtab"
	"github.com/kolkov/c4/internal/token"
)

// declaration compiles one top-level declaration: an optional base type or
// enum followed by a comma-separated list of globals and function
// definitions, terminated by ';' or by the closing brace of a function.
func (c *compiler) declaration() {
	bt := symtab.INT
	switch c.tok.Type {
	case token.INT:
		c.next()
	case token.CHAR:
		c.next()
		bt = symtab.CHAR
	case token.ENUM:
		c.next()
		c.enumDecl()
	}

	for c.tok.Type != token.SEMICOLON && c.tok.Type != token.RBRACE {
		ty := c.pointers(bt)
		if c.tok.Type != token.ID {
			c.errorf("bad global declaration")
		}
		i := int(c.tok.Val)
		if c.sym(i).Class != symtab.Unbound {
			c.errorf("duplicate global definition")
		}
		c.next()

		if c.tok.Type == token.LPAREN {
			c.function(i, ty)
		} else {
			s := c.sym(i)
			s.Class = symtab.Glo
			s.Type = ty
			s.Value = c.data.Alloc(symtab.WordSize)
		}
		if c.tok.Type == token.COMMA {
			c.next()
		}
	}
	c.next()
}

// enumDecl compiles an enum body after the enum keyword. The tag name is
// optional and ignored; constants count up from 0 or from the last
// explicit initializer.
func (c *compiler) enumDecl() {
	if c.tok.Type != token.LBRACE {
		c.next()
	}
	if c.tok.Type != token.LBRACE {
		return
	}
	c.next()

	var v int64
	for c.tok.Type != token.RBRACE {
		if c.tok.Type != token.ID {
			c.errorf("bad enum identifier")
		}
		i := int(c.tok.Val)
		if c.sym(i).Class != symtab.Unbound {
			c.errorf("duplicate enum definition")
		}
		c.next()
		if c.tok.Type == token.ASSIGN {
			c.next()
			neg := c.tok.Type == token.SUB
			if neg {
				c.next()
			}
			if c.tok.Type != token.NUM {
				c.errorf("bad enum initializer")
			}
			v = c.tok.Val
			if neg {
				v = -v
			}
			c.next()
		}
		s := c.sym(i)
		s.Class = symtab.Num
		s.Type = symtab.INT
		s.Value = v
		v++
		if c.tok.Type == token.COMMA {
			c.next()
		}
	}
	c.next()
}

// function compiles a function definition starting at its parameter list.
// The symbol is bound before the body so the function can call itself.
//
// Frame layout after ENT, in words relative to bp:
//
//	bp+n+1 .. bp+2   parameters, first to last
//	bp+1             return address
//	bp+0             caller's bp
//	bp-1 ..          locals
//
// A parameter in slot k and a local in slot k are both addressed by
// LEA (loc - k), where loc is the number of parameters plus one.
func (c *compiler) function(i int, ret symtab.Type) {
	s := c.sym(i)
	s.Class = symtab.Fun
	s.Type = ret
	s.Value = int64(len(c.code))
	c.funcs = append(c.funcs, Function{Name: s.Name, Addr: len(c.code)})
	c.targets = make(map[int]bool)

	c.next() // consume '('
	var slot int64
	for c.tok.Type != token.RPAREN {
		ty := c.pointers(c.baseType())
		if c.tok.Type != token.ID {
			c.errorf("bad parameter declaration")
		}
		c.declareLocal(int(c.tok.Val), ty, slot, "duplicate parameter definition")
		slot++
		c.next()
		if c.tok.Type == token.COMMA {
			c.next()
		} else if c.tok.Type != token.RPAREN {
			c.errorf("close paren expected in parameter list")
		}
	}
	c.next()
	if c.tok.Type != token.LBRACE {
		c.errorf("bad function definition")
	}
	c.next()

	slot++
	c.loc = slot
	for c.tok.Type.IsType() {
		bt := c.baseType()
		for c.tok.Type != token.SEMICOLON {
			ty := c.pointers(bt)
			if c.tok.Type != token.ID {
				c.errorf("bad local declaration")
			}
			slot++
			c.declareLocal(int(c.tok.Val), ty, slot, "duplicate local definition")
			c.next()
			if c.tok.Type == token.COMMA {
				c.next()
			}
		}
		c.next()
	}

	c.emitArg(ENT, slot-c.loc)
	for c.tok.Type != token.RBRACE {
		if c.tok.Type == token.EOF {
			c.errorf("unexpected end of input in function body")
		}
		c.stmt()
	}
	c.epilogue()
	c.syms.ExitScope()
}

// declareLocal binds symbol i as a parameter or local in the given frame
// slot, saving any global binding it hides.
func (c *compiler) declareLocal(i int, ty symtab.Type, slot int64, dup string) {
	if c.sym(i).Class == symtab.Loc {
		c.errorf("%s", dup)
	}
	if err := c.syms.Shadow(i); err != nil {
		c.errorf("%s", err)
	}
	s := c.sym(i)
	s.Class = symtab.Loc
	s.Type = ty
	s.Value = slot
}

// epilogue returns 0 from a function whose body can fall off its end.
func (c *compiler) epilogue() {
	if op, ok := c.lastOp(); ok && op == LEV {
		return
	}
	c.emitArg(IMM, 0)
	c.emit(LEV)
}
