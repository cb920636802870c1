package compiler

import "github.com/kolkov/c4/internal/token"

// stmt compiles one statement.
func (c *compiler) stmt() {
	switch c.tok.Type {
	case token.IF:
		c.next()
		c.expect(token.LPAREN, "open paren expected")
		c.expr(token.AssignPrec)
		c.expect(token.RPAREN, "close paren expected")
		mark := c.jumpForward(BZ)
		c.stmt()
		if c.tok.Type == token.ELSE {
			c.next()
			end := c.jumpForward(JMP)
			c.patchForward(mark)
			c.stmt()
			mark = end
		}
		c.patchForward(mark)

	case token.WHILE:
		c.next()
		top := c.labelBackward()
		c.expect(token.LPAREN, "open paren expected")
		c.expr(token.AssignPrec)
		c.expect(token.RPAREN, "close paren expected")
		mark := c.jumpForward(BZ)
		c.stmt()
		c.jumpBackward(top)
		c.patchForward(mark)

	case token.RETURN:
		c.next()
		if c.tok.Type != token.SEMICOLON {
			c.expr(token.AssignPrec)
		}
		c.emit(LEV)
		c.expect(token.SEMICOLON, "semicolon expected")

	case token.LBRACE:
		c.next()
		for c.tok.Type != token.RBRACE {
			if c.tok.Type == token.EOF {
				c.errorf("unexpected end of input in block")
			}
			c.stmt()
		}
		c.next()

	case token.SEMICOLON:
		c.next()

	default:
		c.expr(token.AssignPrec)
		c.expect(token.SEMICOLON, "semicolon expected")
	}
}
