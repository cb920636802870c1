package c4

import (
	"errors"

	"github.com/kolkov/c4/internal/compiler"
)

// Version is the c4 version string.
const Version = "0.1.0"

// Run compiles and executes a c4 program in one step and returns its exit
// status. For repeated execution of the same program, use Compile followed
// by Program.Run.
//
// Example:
//
//	status, err := c4.Run(`int main() { printf("hi\n"); return 0; }`, []string{"hi"}, nil)
func Run(source string, args []string, config *Config) (int, error) {
	prog, err := Compile(source)
	if err != nil {
		return 1, err
	}
	return prog.Run(args, config)
}

// Compile compiles c4 source into a Program. The returned Program can be
// run any number of times.
//
// Example:
//
//	prog, err := c4.Compile(source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	status, err := prog.Run([]string{"prog", "arg"}, nil)
func Compile(source string) (*Program, error) {
	compiled, err := compiler.Compile(source)
	if err != nil {
		var ce *compiler.Error
		if errors.As(err, &ce) {
			return nil, &CompileError{Line: ce.Line, Message: ce.Message}
		}
		return nil, &CompileError{Message: err.Error()}
	}

	return &Program{
		compiled: compiled,
		source:   source,
	}, nil
}

// MustCompile is like Compile but panics if the program cannot be compiled.
// It simplifies initialization of global program variables.
func MustCompile(source string) *Program {
	prog, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return prog
}
