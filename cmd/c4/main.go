// c4 - C in four functions
//
// Compiles a small subset of C to bytecode and runs it on a stack machine.
// Arguments after the source file are passed to main as argv[1:].
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kolkov/c4"
)

// version is set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	shortUsage = "usage: c4 [-s] [-d] file.c [args ...]"
	longUsage  = `Arguments:
  -s                print source listing with generated code and exit
  -d                trace each executed instruction to stderr

Other:
  -h, --help        show this help message
  -version          show c4 version and exit
`
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	listing := false
	debug := false

	var i int
	for i = 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-s":
			listing = true
		case "-d":
			debug = true
		case "-h", "--help":
			fmt.Fprintf(stdout, "c4 %s - C in four functions\n\n%s\n\n%s", version, shortUsage, longUsage)
			return 0
		case "-version", "--version":
			fmt.Fprintf(stdout, "c4 version %s\n", version)
			fmt.Fprintf(stdout, "  commit: %s\n", commit)
			fmt.Fprintf(stdout, "  built:  %s\n", date)
			return 0
		default:
			return errorExitf(stderr, "flag provided but not defined: %s", arg)
		}
	}

	rest := args[i:]
	if len(rest) == 0 {
		return errorExitf(stderr, shortUsage)
	}

	path := rest[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return errorExitf(stderr, "could not open(%s)", path)
	}

	prog, err := c4.Compile(string(source))
	if err != nil {
		return errorExit(stderr, err)
	}

	if listing {
		fmt.Fprint(stdout, prog.Listing())
		return 0
	}

	config := &c4.Config{
		Stdin:  stdin,
		Stdout: stdout,
	}
	if debug {
		config.Trace = stderr
	}

	status, err := prog.Run(rest, config)
	if err != nil {
		return errorExit(stderr, err)
	}
	return status
}

// errorExitf prints a formatted error message and returns exit code 1
func errorExitf(stderr io.Writer, format string, args ...interface{}) int {
	fmt.Fprintf(stderr, "c4: "+format+"\n", args...)
	return 1
}

// errorExit prints err and returns exit code 1
func errorExit(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "c4: %v\n", err)
	return 1
}
