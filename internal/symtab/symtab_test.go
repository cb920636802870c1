package symtab

import (
	"testing"

	"github.com/kolkov/c4/internal/token"
)

func TestNewInternsKeywords(t *testing.T) {
	tab := New()
	for _, kw := range token.Keywords {
		i, ok := tab.Find(Hash(kw.Name), kw.Name)
		if !ok {
			t.Errorf("keyword %q not interned", kw.Name)
			continue
		}
		s := tab.Get(i)
		if s.Tok != kw.Token || s.Class != Keyword {
			t.Errorf("%q: tok=%s class=%s", kw.Name, s.Tok, s.Class)
		}
	}
}

func TestHash(t *testing.T) {
	tests := []struct {
		name string
		want int64
	}{
		{"a", 'a'<<6 + 1},
		{"ab", ('a'*147+'b')<<6 + 2},
		{"", 0},
	}

	for _, tt := range tests {
		if got := Hash(tt.name); got != tt.want {
			t.Errorf("Hash(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestIntern(t *testing.T) {
	tab := New()
	n := tab.Len()

	a := tab.Intern("alpha")
	b := tab.Intern("beta")
	if a == b {
		t.Fatal("distinct names share an index")
	}
	if again := tab.Intern("alpha"); again != a {
		t.Errorf("Intern(alpha) = %d, want %d", again, a)
	}
	if tab.Len() != n+2 {
		t.Errorf("Len = %d, want %d", tab.Len(), n+2)
	}

	s := tab.Get(a)
	if s.Name != "alpha" || s.Tok != token.ID || s.Class != Unbound {
		t.Errorf("new symbol = %+v", s)
	}
}

func TestDeclare(t *testing.T) {
	tab := New()
	i := tab.Declare("printf", Sys, INT, 33)

	s := tab.Get(i)
	if s.Class != Sys || s.Type != INT || s.Value != 33 {
		t.Errorf("declared symbol = %+v", s.Attrs)
	}
	if j := tab.Intern("printf"); j != i {
		t.Errorf("Intern after Declare = %d, want %d", j, i)
	}
}

func TestShadowing(t *testing.T) {
	tab := New()
	x := tab.Declare("x", Glo, INT, 0x10000)
	y := tab.Declare("y", Fun, CHAR, 12)
	z := tab.Intern("z")

	for _, i := range []int{x, y, z} {
		if err := tab.Shadow(i); err != nil {
			t.Fatalf("Shadow(%d): %v", i, err)
		}
		tab.Get(i).Attrs = Attrs{Class: Loc, Type: INT + PTR, Value: 2}
	}
	if err := tab.Shadow(x); err == nil {
		t.Error("shadowing twice in one scope should fail")
	}
	if !tab.Get(x).Shadowed() {
		t.Error("x should report Shadowed")
	}

	tab.ExitScope()

	want := map[int]Attrs{
		x: {Glo, INT, 0x10000},
		y: {Fun, CHAR, 12},
		z: {Unbound, CHAR, 0},
	}
	for i, attrs := range want {
		s := tab.Get(i)
		if s.Attrs != attrs {
			t.Errorf("%s restored to %+v, want %+v", s.Name, s.Attrs, attrs)
		}
		if s.Shadowed() {
			t.Errorf("%s still shadowed", s.Name)
		}
	}

	// A new scope may shadow the same names again.
	if err := tab.Shadow(x); err != nil {
		t.Errorf("Shadow after ExitScope: %v", err)
	}
}

func TestTypeSize(t *testing.T) {
	tests := []struct {
		typ  Type
		size int64
		str  string
	}{
		{CHAR, 1, "char"},
		{INT, 8, "int"},
		{CHAR + PTR, 8, "char*"},
		{INT + PTR, 8, "int*"},
		{CHAR + 2*PTR, 8, "char**"},
		{INT + 3*PTR, 8, "int***"},
	}

	for _, tt := range tests {
		if got := tt.typ.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.str, got, tt.size)
		}
		if got := tt.typ.String(); got != tt.str {
			t.Errorf("Type(%d).String() = %q, want %q", int(tt.typ), got, tt.str)
		}
		if got := tt.typ.IsPointer(); got != (tt.typ >= PTR) {
			t.Errorf("%s.IsPointer() = %v", tt.str, got)
		}
	}
}

func TestClassString(t *testing.T) {
	for c, want := range map[Class]string{
		Unbound:   "unbound",
		Sys:       "syscall",
		Fun:       "function",
		Glo:       "global",
		Loc:       "local",
		Num:       "enum",
		Class(99): "invalid",
	} {
		if got := c.String(); got != want {
			t.Errorf("Class(%d).String() = %q, want %q", int(c), got, want)
		}
	}
}
