// Package token defines lexical tokens for the c4 C subset.
package token

// Token represents a lexical token type.
//
// Operators are declared in ascending binding order; Precedence reports the
// rank used by the expression compiler.
type Token uint8

const (
	// Special tokens
	ILLEGAL Token = iota // <illegal>
	EOF                  // EOF

	// Punctuation
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	NOT       // !
	TILDE     // ~

	// Literals and names
	NUM // number
	STR // string
	ID  // identifier

	// Keywords
	keywordStart
	CHAR   // char
	ELSE   // else
	ENUM   // enum
	IF     // if
	INT    // int
	RETURN // return
	SIZEOF // sizeof
	WHILE  // while
	keywordEnd

	// Operators, loosest first
	operatorStart
	ASSIGN   // =
	COND     // ?
	LOR      // ||
	LAN      // &&
	OR       // |
	XOR      // ^
	AND      // &
	EQ       // ==
	NE       // !=
	LT       // <
	GT       // >
	LE       // <=
	GE       // >=
	SHL      // <<
	SHR      // >>
	ADD      // +
	SUB      // -
	MUL      // *
	DIV      // /
	MOD      // %
	INC      // ++
	DEC      // --
	LBRACKET // [
	operatorEnd
)

// Precedence levels. Higher binds tighter.
const (
	LowestPrec  = 0
	AssignPrec  = 1
	CondPrec    = 2
	LorPrec     = 3
	LanPrec     = 4
	OrPrec      = 5
	XorPrec     = 6
	AndPrec     = 7
	EqualPrec   = 8
	RelPrec     = 9
	ShiftPrec   = 10
	AddPrec     = 11
	MulPrec     = 12
	PostfixPrec = 13
)

// Precedence returns the binding rank of t when it appears after an operand,
// or LowestPrec if t is not an infix or postfix operator.
func (t Token) Precedence() int {
	switch t {
	case ASSIGN:
		return AssignPrec
	case COND:
		return CondPrec
	case LOR:
		return LorPrec
	case LAN:
		return LanPrec
	case OR:
		return OrPrec
	case XOR:
		return XorPrec
	case AND:
		return AndPrec
	case EQ, NE:
		return EqualPrec
	case LT, GT, LE, GE:
		return RelPrec
	case SHL, SHR:
		return ShiftPrec
	case ADD, SUB:
		return AddPrec
	case MUL, DIV, MOD:
		return MulPrec
	case INC, DEC, LBRACKET:
		return PostfixPrec
	}
	return LowestPrec
}

// IsOperator returns true if the token is an operator.
func (t Token) IsOperator() bool {
	return t > operatorStart && t < operatorEnd
}

// IsKeyword returns true if the token is a keyword.
func (t Token) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

// IsType returns true for the base type keywords.
func (t Token) IsType() bool {
	return t == CHAR || t == INT
}

var names = [...]string{
	ILLEGAL:   "<illegal>",
	EOF:       "EOF",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	RBRACKET:  "]",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	NOT:       "!",
	TILDE:     "~",
	NUM:       "number",
	STR:       "string",
	ID:        "identifier",
	CHAR:      "char",
	ELSE:      "else",
	ENUM:      "enum",
	IF:        "if",
	INT:       "int",
	RETURN:    "return",
	SIZEOF:    "sizeof",
	WHILE:     "while",
	ASSIGN:    "=",
	COND:      "?",
	LOR:       "||",
	LAN:       "&&",
	OR:        "|",
	XOR:       "^",
	AND:       "&",
	EQ:        "==",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	SHL:       "<<",
	SHR:       ">>",
	ADD:       "+",
	SUB:       "-",
	MUL:       "*",
	DIV:       "/",
	MOD:       "%",
	INC:       "++",
	DEC:       "--",
	LBRACKET:  "[",
}

// String returns the source spelling of the token.
func (t Token) String() string {
	if int(t) < len(names) && names[t] != "" {
		return names[t]
	}
	return "<unknown>"
}

// Keywords maps keyword spellings to their tokens, in the order they are
// interned into a fresh symbol table. "void" is an alias of "char".
var Keywords = []struct {
	Name  string
	Token Token
}{
	{"char", CHAR},
	{"else", ELSE},
	{"enum", ENUM},
	{"if", IF},
	{"int", INT},
	{"return", RETURN},
	{"sizeof", SIZEOF},
	{"while", WHILE},
	{"void", CHAR},
}

// LookupKeyword returns the token for a keyword, or ID if name is not one.
func LookupKeyword(name string) Token {
	for _, kw := range Keywords {
		if kw.Name == name {
			return kw.Token
		}
	}
	return ID
}
