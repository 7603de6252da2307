package compiler

import (
	"math"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/durian/token"
)

// EntryPoint is the symbol the generated program starts at. The program is
// linked against libc, which calls it like a C main function.
const EntryPoint = "main"

const (
	labelPrefix = "L_"
	formatInt   = "fmt_int"
	formatChar  = "fmt_char"
	indent      = "    "
)

// Header is the fixed text at the start of every listing.
const Header = `format ELF64

section '.data' writeable
` + formatInt + ` db "%lld", 10, 0
` + formatChar + ` db "%c", 0

section '.text' executable
public ` + EntryPoint + `
extrn printf

` + EntryPoint + `:
    push rbp
    mov rbp, rsp
`

// Epilogue is the fixed text at the end of every listing. It discards
// whatever is left on the operand stack and returns 0.
const Epilogue = `    mov rsp, rbp
    pop rbp
    xor rax, rax
    ret
`

// emitter accumulates assembly text using rax as the primary and rbx as the
// secondary scratch register.
type emitter struct {
	b strings.Builder
}

func (e *emitter) String() string {
	return e.b.String()
}

func (e *emitter) line(parts ...string) {
	e.b.WriteString(indent)
	for _, p := range parts {
		e.b.WriteString(p)
	}
	e.b.WriteString("\n")
}

func (e *emitter) preamble() {
	e.b.WriteString(Header)
}

func (e *emitter) epilogue() {
	e.b.WriteString(Epilogue)
}

// comment writes the source tokens of the next fragment as an assembler
// comment, e.g. "; 3:1 push 42".
func (e *emitter) comment(toks ...token.Token) {
	words := make([]string, len(toks))
	for i, t := range toks {
		words[i] = t.Literal
	}
	e.line("; ", toks[0].Pos.String(), " ", strings.Join(words, " "))
}

var binaryOps = map[token.Kind][]string{
	token.ADD:  {"add rax, rbx", "push rax"},
	token.SUB:  {"sub rax, rbx", "push rax"},
	token.MUL:  {"mul rbx", "push rax"},
	token.IMUL: {"imul rax, rbx", "push rax"},
	token.DIV:  {"xor rdx, rdx", "div rbx", "push rax"},
	token.IDIV: {"cqo", "idiv rbx", "push rax"},
	token.MOD:  {"cqo", "idiv rbx", "push rdx"},
}

// binary pops the right operand into rbx and the left into rax, combines
// them, and pushes the result.
func (e *emitter) binary(kind token.Kind) {
	e.line("pop rbx")
	e.line("pop rax")
	for _, instr := range binaryOps[kind] {
		e.line(instr)
	}
}

func (e *emitter) dup() {
	e.line("pop rax")
	e.line("push rax")
	e.line("push rax")
}

func (e *emitter) drop() {
	e.line("pop rax")
}

func (e *emitter) swap() {
	e.line("pop rax")
	e.line("pop rbx")
	e.line("push rax")
	e.line("push rbx")
}

// push pushes an immediate. Values outside the sign-extended imm32 range go
// through rax.
func (e *emitter) push(v int64) {
	n := strconv.FormatInt(v, 10)
	if fitsImm32(v) {
		e.line("push ", n)
		return
	}
	e.line("mov rax, ", n)
	e.line("push rax")
}

func (e *emitter) label(sym string) {
	e.b.WriteString(sym)
	e.b.WriteString(":\n")
}

func (e *emitter) jump(sym string) {
	e.line("jmp ", sym)
}

func (e *emitter) jumpIfEqual(v int64, sym string) {
	e.line("pop rax")
	n := strconv.FormatInt(v, 10)
	if fitsImm32(v) {
		e.line("cmp rax, ", n)
	} else {
		e.line("mov rbx, ", n)
		e.line("cmp rax, rbx")
	}
	e.line("je ", sym)
}

// popArgument moves the top of the stack into the second argument register.
func (e *emitter) popArgument() {
	e.line("pop rsi")
}

func (e *emitter) printf(format string) {
	e.line("mov rdi, ", format)
	e.line("xor rax, rax")
	e.line("call printf")
}

func fitsImm32(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}
