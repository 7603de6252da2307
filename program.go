package durian

import (
	"io"

	"github.com/deepnoodle-ai/durian/compiler"
	"github.com/deepnoodle-ai/durian/errors"
	"github.com/deepnoodle-ai/durian/token"
)

// Program is the compiled representation of durian source code.
// It is immutable after creation and safe for concurrent use.
type Program struct {
	asm    *compiler.Assembly
	tokens *token.Sequence
	names  []string

	// Metadata
	source   string
	filename string
}

// Assembly returns the generated assembly text.
func (p *Program) Assembly() string {
	return p.asm.String()
}

func (p *Program) String() string {
	return p.asm.String()
}

// WriteTo writes the generated assembly to w.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	return p.asm.WriteTo(w)
}

// Tokens returns a copy of the token sequence the program was compiled from.
func (p *Program) Tokens() []token.Token {
	return p.tokens.Tokens()
}

// Names returns the interned identifiers, indexed by handle.
func (p *Program) Names() []string {
	return append([]string(nil), p.names...)
}

// Labels returns the assembly symbols of the declared labels.
func (p *Program) Labels() []string {
	return p.asm.Labels()
}

// Warnings returns the non-fatal diagnostics raised during compilation.
func (p *Program) Warnings() []*errors.Warning {
	return p.asm.Warnings()
}

// Depth returns the simulated stack depth in bytes at the end of the program.
func (p *Program) Depth() int {
	return p.asm.Depth()
}

// Source returns the original source code that was compiled.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.filename
}
