// Package token defines the instruction keywords and tokens produced when
// lexing durian source code.
package token

import (
	"fmt"
	"strconv"

	"github.com/deepnoodle-ai/durian/interner"
)

// Kind describes the kind of a token.
type Kind int

// Position points to a particular token in an input string.
type Position struct {
	Line   int // 1-indexed line number
	Column int // 1-indexed rune column
	Index  int // 0-indexed token index within the line
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// NoPos is the zero value Position, representing an unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Kind    Kind
	Int     int64           // set for INT
	Handle  interner.Handle // set for IDENT
	Literal string
	Pos     Position
}

// String returns a short description of the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case INT:
		return "integer " + strconv.FormatInt(t.Int, 10)
	case IDENT:
		return fmt.Sprintf("identifier %q", t.Literal)
	case EOL:
		return "end of line"
	}
	return fmt.Sprintf("instruction %q", t.Literal)
}

// Token kinds
const (
	ILLEGAL Kind = iota

	// Payload and structural kinds
	INT
	IDENT
	EOL

	// Arithmetic
	ADD
	SUB
	MUL
	IMUL
	DIV
	IDIV
	MOD

	// Stack
	DUP
	POP
	DROP
	SWAP
	PUSH

	// Control
	LABEL
	JMP
	JE

	// I/O
	PRINTINT
	PRINTCHAR
)

var kindNames = [...]string{
	ILLEGAL:   "ILLEGAL",
	INT:       "INT",
	IDENT:     "IDENT",
	EOL:       "EOL",
	ADD:       "ADD",
	SUB:       "SUB",
	MUL:       "MUL",
	IMUL:      "IMUL",
	DIV:       "DIV",
	IDIV:      "IDIV",
	MOD:       "MOD",
	DUP:       "DUP",
	POP:       "POP",
	DROP:      "DROP",
	SWAP:      "SWAP",
	PUSH:      "PUSH",
	LABEL:     "LABEL",
	JMP:       "JMP",
	JE:        "JE",
	PRINTINT:  "PRINTINT",
	PRINTCHAR: "PRINTCHAR",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Describe returns the human readable name used when a kind is expected.
func (k Kind) Describe() string {
	switch k {
	case INT:
		return "integer literal"
	case IDENT:
		return "identifier"
	case EOL:
		return "end of line"
	}
	return "instruction"
}

// IsInstruction reports whether tokens of this kind are instructions rather
// than operands or structural markers.
func (k Kind) IsInstruction() bool {
	return k >= ADD && k <= PRINTCHAR
}

// Reserved instruction keywords
var keywords = map[string]Kind{
	"add":       ADD,
	"sub":       SUB,
	"mul":       MUL,
	"imul":      IMUL,
	"div":       DIV,
	"idiv":      IDIV,
	"mod":       MOD,
	"dup":       DUP,
	"pop":       POP,
	"drop":      DROP,
	"swap":      SWAP,
	"push":      PUSH,
	"label":     LABEL,
	"jmp":       JMP,
	"je":        JE,
	"printint":  PRINTINT,
	"printchar": PRINTCHAR,
}

// Single-character operator symbols
var operators = map[rune]Kind{
	'+': ADD,
	'-': SUB,
	'*': IMUL,
	'/': IDIV,
	'%': MOD,
}

// LookupKeyword returns the instruction kind for an exact, case-sensitive
// keyword match.
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywords[word]
	return k, ok
}

// LookupOperator returns the instruction kind for a single-character operator.
func LookupOperator(r rune) (Kind, bool) {
	k, ok := operators[r]
	return k, ok
}

// Keywords returns the reserved instruction names, in no particular order.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	return names
}
