package token

import "testing"

func TestPrecedence(t *testing.T) {
	tests := []struct {
		tok  Token
		want int
	}{
		{ASSIGN, AssignPrec},
		{COND, CondPrec},
		{LOR, LorPrec},
		{LAN, LanPrec},
		{OR, OrPrec},
		{XOR, XorPrec},
		{AND, AndPrec},
		{EQ, EqualPrec},
		{NE, EqualPrec},
		{LT, RelPrec},
		{GE, RelPrec},
		{SHL, ShiftPrec},
		{SHR, ShiftPrec},
		{ADD, AddPrec},
		{SUB, AddPrec},
		{MUL, MulPrec},
		{MOD, MulPrec},
		{INC, PostfixPrec},
		{DEC, PostfixPrec},
		{LBRACKET, PostfixPrec},
		{SEMICOLON, LowestPrec},
		{ID, LowestPrec},
		{RPAREN, LowestPrec},
	}

	for _, tt := range tests {
		if got := tt.tok.Precedence(); got != tt.want {
			t.Errorf("%s.Precedence() = %d, want %d", tt.tok, got, tt.want)
		}
	}
}

// Operators are declared loosest first, so declaration order never
// contradicts Precedence.
func TestOperatorOrder(t *testing.T) {
	prev := LowestPrec
	for tok := operatorStart + 1; tok < operatorEnd; tok++ {
		if !tok.IsOperator() {
			t.Errorf("%s.IsOperator() = false", tok)
		}
		p := tok.Precedence()
		if p < prev {
			t.Errorf("%s has precedence %d below preceding operator's %d", tok, p, prev)
		}
		prev = p
	}
}

func TestClassification(t *testing.T) {
	for _, kw := range Keywords {
		if !kw.Token.IsKeyword() {
			t.Errorf("%s.IsKeyword() = false", kw.Token)
		}
		if kw.Token.IsOperator() {
			t.Errorf("%s.IsOperator() = true", kw.Token)
		}
	}
	for _, tok := range []Token{ID, NUM, STR, LPAREN, NOT, TILDE} {
		if tok.IsKeyword() || tok.IsOperator() {
			t.Errorf("%s classified as keyword or operator", tok)
		}
	}
	if !CHAR.IsType() || !INT.IsType() || ENUM.IsType() {
		t.Error("IsType should hold for char and int only")
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		name string
		want Token
	}{
		{"while", WHILE},
		{"sizeof", SIZEOF},
		{"void", CHAR},
		{"main", ID},
		{"For", ID},
	}

	for _, tt := range tests {
		if got := LookupKeyword(tt.name); got != tt.want {
			t.Errorf("LookupKeyword(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{EOF, "EOF"},
		{LAN, "&&"},
		{LBRACKET, "["},
		{RETURN, "return"},
		{ID, "identifier"},
		{Token(255), "<unknown>"},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
