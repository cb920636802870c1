// Package lexer provides on-demand tokenization of c4 source code.
//
// The lexer is pulled one token at a time by the compiler. Identifiers are
// interned into the symbol table while scanning and string literal bytes are
// written straight into the data segment, so a token carries only a small
// payload: a number, a symbol index, or a guest address.
package lexer

import (
	"github.com/kolkov/c4/internal/symtab"
	"github.com/kolkov/c4/internal/token"
)

// Token represents a scanned token with its line and payload.
type Token struct {
	Type token.Token
	Line int
	// Val is the value of a NUM, the guest address of a STR, or the symbol
	// index of an ID or keyword.
	Val int64
	// Text is the error message of an ILLEGAL token.
	Text string
}

// Lexer tokenizes c4 source code.
type Lexer struct {
	src  []byte // Source code
	ch   byte   // Current character (0 at EOF)
	off  int    // Offset of ch
	line int    // Line of ch

	syms *symtab.Table
	data *Segment
}

// New creates a new Lexer that interns into syms and stores string
// literals in data.
func New(src []byte, syms *symtab.Table, data *Segment) *Lexer {
	l := &Lexer{
		src:  src,
		off:  -1,
		line: 1,
		syms: syms,
		data: data,
	}
	l.next()
	return l
}

// NewFromString creates a new Lexer from a string.
func NewFromString(src string, syms *symtab.Table, data *Segment) *Lexer {
	return New([]byte(src), syms, data)
}

// Scan scans and returns the next token.
func (l *Lexer) Scan() Token {
	if msg := l.skipSpace(); msg != "" {
		return Token{Type: token.ILLEGAL, Line: l.line, Text: msg}
	}

	line := l.line
	if l.ch == 0 && l.off >= len(l.src) {
		return Token{Type: token.EOF, Line: line}
	}

	ch := l.ch
	l.next()
	switch ch {
	case '=':
		return l.pick('=', token.EQ, token.ASSIGN, line)
	case '+':
		return l.pick('+', token.INC, token.ADD, line)
	case '-':
		return l.pick('-', token.DEC, token.SUB, line)
	case '!':
		return l.pick('=', token.NE, token.NOT, line)
	case '|':
		return l.pick('|', token.LOR, token.OR, line)
	case '&':
		return l.pick('&', token.LAN, token.AND, line)
	case '<':
		if l.ch == '<' {
			l.next()
			return Token{Type: token.SHL, Line: line}
		}
		return l.pick('=', token.LE, token.LT, line)
	case '>':
		if l.ch == '>' {
			l.next()
			return Token{Type: token.SHR, Line: line}
		}
		return l.pick('=', token.GE, token.GT, line)
	case '^':
		return Token{Type: token.XOR, Line: line}
	case '%':
		return Token{Type: token.MOD, Line: line}
	case '*':
		return Token{Type: token.MUL, Line: line}
	case '/':
		return Token{Type: token.DIV, Line: line}
	case '[':
		return Token{Type: token.LBRACKET, Line: line}
	case '?':
		return Token{Type: token.COND, Line: line}
	case ']':
		return Token{Type: token.RBRACKET, Line: line}
	case '(':
		return Token{Type: token.LPAREN, Line: line}
	case ')':
		return Token{Type: token.RPAREN, Line: line}
	case '{':
		return Token{Type: token.LBRACE, Line: line}
	case '}':
		return Token{Type: token.RBRACE, Line: line}
	case ',':
		return Token{Type: token.COMMA, Line: line}
	case ';':
		return Token{Type: token.SEMICOLON, Line: line}
	case ':':
		return Token{Type: token.COLON, Line: line}
	case '~':
		return Token{Type: token.TILDE, Line: line}
	case '"':
		return l.scanString(line)
	case '\'':
		return l.scanChar(line)
	}

	switch {
	case isDigit(ch):
		return l.scanNumber(ch, line)
	case isIdentStart(ch):
		return l.scanIdent(line)
	}
	return Token{Type: token.ILLEGAL, Line: line, Text: "unexpected character " + quoteByte(ch)}
}

// pick returns two if the current character is second (consuming it), one
// otherwise.
func (l *Lexer) pick(second byte, two, one token.Token, line int) Token {
	if l.ch == second {
		l.next()
		return Token{Type: two, Line: line}
	}
	return Token{Type: one, Line: line}
}

func (l *Lexer) scanIdent(line int) Token {
	start := l.off - 1
	h := int64(l.src[start])
	for isIdentContinue(l.ch) {
		h = h*147 + int64(l.ch)
		l.next()
	}
	name := string(l.src[start:l.endOffset()])
	h = (h << 6) + int64(len(name))

	i := l.syms.InternHash(h, name)
	return Token{Type: l.syms.Get(i).Tok, Line: line, Val: int64(i)}
}

func (l *Lexer) scanNumber(first byte, line int) Token {
	v := int64(first - '0')
	switch {
	case v != 0:
		for isDigit(l.ch) {
			v = v*10 + int64(l.ch-'0')
			l.next()
		}
	case l.ch == 'x' || l.ch == 'X':
		l.next()
		for isHexDigit(l.ch) {
			v = v*16 + hexValue(l.ch)
			l.next()
		}
	default:
		for l.ch >= '0' && l.ch <= '7' {
			v = v*8 + int64(l.ch-'0')
			l.next()
		}
	}
	return Token{Type: token.NUM, Line: line, Val: v}
}

// scanString copies the literal into the data segment, NUL-terminates and
// word-aligns it. The payload is the guest address of the first byte.
func (l *Lexer) scanString(line int) Token {
	addr := l.data.Addr()
	for l.ch != '"' {
		if l.atEOF() {
			return Token{Type: token.ILLEGAL, Line: line, Text: "unterminated string literal"}
		}
		l.data.Append(l.escaped())
	}
	l.next() // consume closing quote
	l.data.Align()
	return Token{Type: token.STR, Line: line, Val: addr}
}

// scanChar reads a single-quoted literal. Exactly one decoded byte is
// accepted.
func (l *Lexer) scanChar(line int) Token {
	var buf []byte
	for l.ch != '\'' {
		if l.atEOF() {
			return Token{Type: token.ILLEGAL, Line: line, Text: "unterminated character literal"}
		}
		buf = append(buf, l.escaped())
	}
	l.next() // consume closing quote
	if len(buf) != 1 {
		return Token{Type: token.ILLEGAL, Line: line, Text: "bad character literal"}
	}
	return Token{Type: token.NUM, Line: line, Val: int64(buf[0])}
}

// escaped consumes one literal character. \n is the only translated escape;
// any other \x yields x.
func (l *Lexer) escaped() byte {
	ch := l.ch
	l.next()
	if ch != '\\' || l.atEOF() {
		return ch
	}
	ch = l.ch
	l.next()
	if ch == 'n' {
		return '\n'
	}
	return ch
}

// skipSpace skips whitespace, // and /* */ comments, and # lines. It
// returns an error message for an unterminated block comment.
func (l *Lexer) skipSpace() string {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' || l.ch == '\f' || l.ch == '\v':
			l.next()
		case l.ch == '#':
			l.skipLine()
		case l.ch == '/' && l.peek() == '/':
			l.skipLine()
		case l.ch == '/' && l.peek() == '*':
			l.next()
			l.next()
			for !(l.ch == '*' && l.peek() == '/') {
				if l.atEOF() {
					return "unterminated comment"
				}
				l.next()
			}
			l.next()
			l.next()
		case l.ch == 0 && !l.atEOF():
			// Stray NUL bytes are whitespace.
			l.next()
		default:
			return ""
		}
	}
}

func (l *Lexer) skipLine() {
	for l.ch != '\n' && !l.atEOF() {
		l.next()
	}
}

func (l *Lexer) next() {
	if l.off < len(l.src) && l.off >= 0 && l.src[l.off] == '\n' {
		l.line++
	}
	l.off++
	if l.off >= len(l.src) {
		l.off = len(l.src)
		l.ch = 0
		return
	}
	l.ch = l.src[l.off]
}

func (l *Lexer) peek() byte {
	if l.off+1 < len(l.src) {
		return l.src[l.off+1]
	}
	return 0
}

func (l *Lexer) atEOF() bool {
	return l.off >= len(l.src)
}

// endOffset returns the correct end offset for slicing l.src.
func (l *Lexer) endOffset() int {
	if l.atEOF() {
		return len(l.src)
	}
	return l.off
}

// Helper functions

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch byte) int64 {
	if ch >= '0' && ch <= '9' {
		return int64(ch - '0')
	}
	if ch >= 'a' && ch <= 'f' {
		return int64(ch - 'a' + 10)
	}
	return int64(ch - 'A' + 10)
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func quoteByte(ch byte) string {
	if ch >= 0x20 && ch < 0x7f {
		return "'" + string(rune(ch)) + "'"
	}
	const hex = "0123456789abcdef"
	return "0x" + string(hex[ch>>4]) + string(hex[ch&15])
}
