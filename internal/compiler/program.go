package compiler

import (
	"fmt"
	"strings"
)

// DataBase is the guest address at which the data segment is mapped.
// Addresses below it are never valid, so a null pointer always faults.
const DataBase = 0x10000

// Program represents a compiled c4 program ready for VM execution.
type Program struct {
	// Code holds instruction words. Addresses are indexes into Code.
	Code []int64

	// Data holds string literals and globals, mapped at DataBase.
	Data []byte

	// Entry is the code address of main.
	Entry int

	// Exit is the address of the PSH, EXIT trampoline main returns into.
	Exit int

	// Lines holds the source line of each code word.
	Lines []int

	// Functions lists user functions in definition order.
	Functions []Function
}

// Function records where a user function starts.
type Function struct {
	Name string
	Addr int
}

// Disassemble returns a human-readable disassembly of the program.
func (p *Program) Disassemble() string {
	var sb strings.Builder

	if len(p.Data) > 0 {
		sb.WriteString("=== Data ===\n")
		p.dumpData(&sb)
		sb.WriteString("\n")
	}

	sb.WriteString("=== Code ===\n")
	labels := p.labels()
	for pc := 0; pc < len(p.Code); {
		if name, ok := labels[pc]; ok {
			fmt.Fprintf(&sb, "%s:\n", name)
		}
		pc = p.disassembleAt(&sb, pc, "  ")
	}
	return sb.String()
}

// Listing interleaves source lines with the instructions generated for
// them, in the style of c4 -s.
func (p *Program) Listing(source string) string {
	var sb strings.Builder
	lines := strings.SplitAfter(source, "\n")
	pc := 0
	for i, text := range lines {
		if text == "" {
			continue
		}
		line := i + 1
		fmt.Fprintf(&sb, "%d: %s", line, text)
		if !strings.HasSuffix(text, "\n") {
			sb.WriteString("\n")
		}
		for pc < len(p.Code) && pc < len(p.Lines) && p.Lines[pc] <= line {
			pc = p.disassembleAt(&sb, pc, "    ")
		}
	}
	for pc < len(p.Code) {
		pc = p.disassembleAt(&sb, pc, "    ")
	}
	return sb.String()
}

// disassembleAt writes the instruction at pc and returns the address of
// the next one.
func (p *Program) disassembleAt(sb *strings.Builder, pc int, indent string) int {
	op := Opcode(p.Code[pc])
	fmt.Fprintf(sb, "%s%04d: %-4s", indent, pc, op)
	pc++
	if op.HasOperand() && pc < len(p.Code) {
		arg := p.Code[pc]
		pc++
		switch op {
		case JMP, JSR, BZ, BNZ:
			fmt.Fprintf(sb, " %04d", arg)
		case IMM:
			if s, ok := p.stringAt(arg); ok {
				fmt.Fprintf(sb, " %d ; %q", arg, s)
			} else {
				fmt.Fprintf(sb, " %d", arg)
			}
		default:
			fmt.Fprintf(sb, " %d", arg)
		}
	}
	sb.WriteString("\n")
	return pc
}

func (p *Program) labels() map[int]string {
	labels := make(map[int]string, len(p.Functions)+1)
	for _, fn := range p.Functions {
		labels[fn.Addr] = fn.Name
	}
	labels[p.Exit] = "<exit>"
	return labels
}

// stringAt returns the printable NUL-terminated string at guest address
// addr, if addr points at the start of one.
func (p *Program) stringAt(addr int64) (string, bool) {
	off := addr - DataBase
	if off < 0 || off >= int64(len(p.Data)) {
		return "", false
	}
	if off > 0 && p.Data[off-1] != 0 {
		return "", false
	}
	end := off
	for end < int64(len(p.Data)) && p.Data[end] != 0 {
		if p.Data[end] < 0x20 && p.Data[end] != '\n' && p.Data[end] != '\t' {
			return "", false
		}
		end++
	}
	if end == off {
		return "", false
	}
	return string(p.Data[off:end]), true
}

func (p *Program) dumpData(sb *strings.Builder) {
	for off := 0; off < len(p.Data); off += 8 {
		end := min(off+8, len(p.Data))
		fmt.Fprintf(sb, "  %#06x:", DataBase+off)
		for _, b := range p.Data[off:end] {
			fmt.Fprintf(sb, " %02x", b)
		}
		sb.WriteString("\n")
	}
}
