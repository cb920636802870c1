package vm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kolkov/c4/internal/compiler"
)

// FuzzRun tests that any program the compiler accepts either finishes or
// stops with an *Error, and never panics the host.
func FuzzRun(f *testing.F) {
	seeds := []string{
		"int main() { return 0; }",
		"int main() { int *p; p = 0; return *p; }",
		"int main() { int z; z = 0; return 1 / z; }",
		"int f(int n) { return f(n + 1); } int main() { return f(0); }",
		"int main() { while (1) ; }",
		"int main() { char *p; p = malloc(16); memset(p, 65, 15); p[15] = 0; printf(\"%s %d %x\\n\", p, 1, 2); free(p); return 0; }",
		"int main() { int *p; p = malloc(8); p = p - 100000; *p = 1; return 0; }",
		"int main(int argc, char **argv) { return argv[argc - 1][0]; }",
		"int main() { printf(\"%s\", 12); return 0; }",
		"int main() { return memcmp(malloc(4), malloc(4), 4) + read(0, malloc(8), 8); }",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		const maxLen = 4000
		if len(src) > maxLen {
			return
		}
		// open(..., O_CREAT) would create files in the working directory.
		if strings.Contains(src, "open") {
			return
		}

		prog, err := compiler.Compile(src)
		if err != nil {
			return
		}

		config := Config{
			Stdin:     strings.NewReader("fuzz input"),
			Stdout:    &bytes.Buffer{},
			HeapSize:  4096,
			StackSize: 4096,
			MaxCycles: 100000,
		}
		_, err = New(prog, config).Run([]string{"fuzz", "arg"})
		if err != nil {
			var vmErr *Error
			if !errors.As(err, &vmErr) {
				t.Fatalf("error type = %T, want *Error", err)
			}
		}
	})
}
