// Package runtime provides the host side of c4 syscalls: printf formatting
// and the file descriptor table behind open, read and close.
package runtime

import (
	"fmt"
	"strings"

	"github.com/coregx/coregex"
)

// directive matches one C printf conversion. Flags, width and precision
// carry over to Go's fmt unchanged. Length modifiers are accepted and
// dropped: every argument is already a full machine word.
var directive = mustCompile(`%[-+ #0]*[0-9]*(\.[0-9]*)?(hh|h|ll|l|z|j|t)?[diouxXcsp%]`)

// mustCompile compiles a pattern known to be valid, panicking on error.
func mustCompile(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// CStringReader reads NUL-terminated strings out of guest memory.
type CStringReader interface {
	CString(addr int64) (string, error)
}

// Format expands a C format string against argument words. Text outside
// recognized directives, including malformed ones, is copied as is.
// Arguments beyond the end of args read as 0.
func Format(format string, args []int64, mem CStringReader) (string, error) {
	var sb strings.Builder
	next := 0
	arg := func() int64 {
		next++
		if next <= len(args) {
			return args[next-1]
		}
		return 0
	}

	last := 0
	for _, loc := range directive.FindAllStringIndex(format, -1) {
		sb.WriteString(format[last:loc[0]])
		last = loc[1]

		conv := format[loc[0]:loc[1]]
		verb := conv[len(conv)-1]
		prefix := strings.TrimRight(conv[:len(conv)-1], "hlzjt") // "%" plus flags, width, precision

		switch verb {
		case '%':
			sb.WriteByte('%')
		case 'd', 'i':
			fmt.Fprintf(&sb, prefix+"d", arg())
		case 'u':
			fmt.Fprintf(&sb, prefix+"d", uint64(arg()))
		case 'o', 'x', 'X':
			fmt.Fprintf(&sb, prefix+string(verb), uint64(arg()))
		case 'c':
			fmt.Fprintf(&sb, prefix+"s", string([]byte{byte(arg())}))
		case 's':
			s, err := mem.CString(arg())
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, prefix+"s", s)
		case 'p':
			fmt.Fprintf(&sb, "%#"+prefix[1:]+"x", uint64(arg()))
		}
	}
	sb.WriteString(format[last:])
	return sb.String(), nil
}
