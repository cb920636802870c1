// Package compiler compiles c4 source into bytecode for the VM in a single
// pass. Parsing and code generation are fused: every grammar reduction
// emits its instructions as soon as it is recognized, and forward jumps are
// backpatched once their targets are known.
package compiler

// Opcode represents a virtual machine instruction.
// Instructions share the code stream with their operands; an opcode
// listed before PSH carries exactly one operand word.
type Opcode int64

const (
	LEA Opcode = iota // a = bp + n*word: LEA n
	IMM               // a = n: IMM n
	JMP               // pc = addr: JMP addr
	JSR               // push return address, pc = addr: JSR addr
	BZ                // if a == 0 { pc = addr }: BZ addr
	BNZ               // if a != 0 { pc = addr }: BNZ addr
	ENT               // push bp, bp = sp, reserve n words: ENT n
	ADJ               // pop n argument words: ADJ n
	LEV               // sp = bp, pop bp, pop pc
	LI                // a = *(int *)a
	LC                // a = *(char *)a
	SI                // *(int *)pop = a
	SC                // *(char *)pop = a
	PSH               // push a

	// Binary operators: a = pop OP a
	OR
	XOR
	AND
	EQ
	NE
	LT
	GT
	LE
	GE
	SHL
	SHR
	ADD
	SUB
	MUL
	DIV
	MOD

	// Syscalls, arguments on the stack with the last one on top
	OPEN // open(path, flags)
	READ // read(fd, buf, n)
	CLOS // close(fd)
	PRTF // printf(fmt, ...), argument count taken from the following ADJ
	MALC // malloc(n)
	FREE // free(p)
	MSET // memset(p, c, n)
	MCMP // memcmp(p, q, n)
	EXIT // exit(status)

	numOpcodes
)

var opcodeNames = [...]string{
	LEA:  "LEA",
	IMM:  "IMM",
	JMP:  "JMP",
	JSR:  "JSR",
	BZ:   "BZ",
	BNZ:  "BNZ",
	ENT:  "ENT",
	ADJ:  "ADJ",
	LEV:  "LEV",
	LI:   "LI",
	LC:   "LC",
	SI:   "SI",
	SC:   "SC",
	PSH:  "PSH",
	OR:   "OR",
	XOR:  "XOR",
	AND:  "AND",
	EQ:   "EQ",
	NE:   "NE",
	LT:   "LT",
	GT:   "GT",
	LE:   "LE",
	GE:   "GE",
	SHL:  "SHL",
	SHR:  "SHR",
	ADD:  "ADD",
	SUB:  "SUB",
	MUL:  "MUL",
	DIV:  "DIV",
	MOD:  "MOD",
	OPEN: "OPEN",
	READ: "READ",
	CLOS: "CLOS",
	PRTF: "PRTF",
	MALC: "MALC",
	FREE: "FREE",
	MSET: "MSET",
	MCMP: "MCMP",
	EXIT: "EXIT",
}

// String returns a human-readable name for the opcode.
func (op Opcode) String() string {
	if op.Valid() {
		return opcodeNames[op]
	}
	return "?"
}

// Valid reports whether op is a known instruction.
func (op Opcode) Valid() bool {
	return op >= 0 && op < numOpcodes
}

// HasOperand reports whether op is followed by an operand word.
func (op Opcode) HasOperand() bool {
	return op >= LEA && op <= ADJ
}

// IsLoad reports whether op loads through the address in the accumulator.
// A trailing load marks the expression just compiled as an lvalue.
func (op Opcode) IsLoad() bool {
	return op == LC || op == LI
}

// Syscalls maps the syscall names visible to C code to their opcodes, in
// the order they are declared in a fresh symbol table.
var Syscalls = []struct {
	Name string
	Op   Opcode
}{
	{"open", OPEN},
	{"read", READ},
	{"close", CLOS},
	{"printf", PRTF},
	{"malloc", MALC},
	{"free", FREE},
	{"memset", MSET},
	{"memcmp", MCMP},
	{"exit", EXIT},
}
