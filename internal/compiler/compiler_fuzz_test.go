package compiler

import (
	"testing"
)

// FuzzCompile tests that the compiler reports errors instead of panicking
// and that every program it accepts is well formed.
func FuzzCompile(f *testing.F) {
	seeds := []string{
		// Minimal
		"",
		"int main() { }",
		"int main() { return 0; }",

		// Declarations
		"int g, *p; char c, **argv;",
		"enum { A, B = 5, C }; enum E { X = -1 };",
		"int f(int a, char *b) { int x, y; char *z; return a; }",

		// Statements
		"int main() { if (1) return 1; else return 2; }",
		"int main() { int i; i = 0; while (i < 10) i++; return i; }",
		"int main() { { ; } ; }",

		// Expressions
		"int main() { int a, b; a = b = 1 + 2 * 3 - 4 / 5 % 6; }",
		"int main() { return 1 ? 2 : 3 ? 4 : 5; }",
		"int main() { return 1 || 0 && 1 | 2 ^ 3 & 4; }",
		"int main() { return 1 << 2 >> 1 == 2 != 3 < 4 <= 5 > 6 >= 7; }",
		"int main() { int *p; p = malloc(8); *p = 3; return p[0] + *p++ + --*p; }",
		"int main() { char *s; s = \"abc\"; return sizeof(char *) + sizeof(int) + (int)s[1]; }",
		"int main() { int x; return !x + ~x + -x + &x - &x; }",

		// Calls and syscalls
		"int f(int n) { return n ? n * f(n - 1) : 1; } int main() { return f(5); }",
		"int main(int argc, char **argv) { printf(\"%s %d\\n\", argv[0], argc); exit(0); }",
		"int main() { int fd; fd = open(\"x\", 0); read(fd, 0, 0); close(fd); free(malloc(1)); }",
		"int main() { char *p; p = malloc(4); memset(p, 0, 4); return memcmp(p, p, 4); }",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	// Invalid inputs exercise error paths
	invalid := []string{
		"int main() {",
		"int main() { return ); }",
		"int main() { 1 = 2; }",
		"int main() { (1 ? a : b) = 2; }",
		"int main() { return x; }",
		"int main( {",
		"enum { 1 };",
		"int x; int x;",
		"int main() { return 'ab'; }",
		"int main() { printf(\"abc); }",
		"int f() { return 0; }",
	}

	for _, inv := range invalid {
		f.Add(inv)
	}

	f.Fuzz(func(t *testing.T, src string) {
		const maxLen = 10000
		if len(src) > maxLen {
			return
		}

		prog, err := Compile(src)
		if err != nil {
			if _, ok := err.(*Error); !ok {
				t.Fatalf("error type = %T, want *Error", err)
			}
			return
		}

		if len(prog.Lines) != len(prog.Code) {
			t.Fatalf("len(Lines) = %d, len(Code) = %d", len(prog.Lines), len(prog.Code))
		}
		if prog.Entry < 0 || prog.Entry >= len(prog.Code) {
			t.Fatalf("entry %d outside code", prog.Entry)
		}
		if len(prog.Data)%8 != 0 {
			t.Fatalf("data segment length %d not word aligned", len(prog.Data))
		}

		for pc := 0; pc < len(prog.Code); {
			op := Opcode(prog.Code[pc])
			if !op.Valid() {
				t.Fatalf("invalid opcode %d at %d", prog.Code[pc], pc)
			}
			if op.HasOperand() {
				if pc+1 >= len(prog.Code) {
					t.Fatalf("%s at %d missing operand", op, pc)
				}
				switch op {
				case JMP, JSR, BZ, BNZ:
					if target := prog.Code[pc+1]; target < 0 || target > int64(len(prog.Code)) {
						t.Fatalf("%s at %d jumps to %d outside code", op, pc, target)
					}
				}
				pc++
			}
			pc++
		}
	})
}
