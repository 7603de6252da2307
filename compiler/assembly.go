package compiler

import (
	"io"

	"github.com/deepnoodle-ai/durian/errors"
)

// Assembly is a generated assembly listing along with what the compiler
// learned while producing it. It is immutable.
type Assembly struct {
	text     string
	depth    int
	labels   []string
	warnings []*errors.Warning
}

// String returns the assembly source text.
func (a *Assembly) String() string {
	return a.text
}

// WriteTo writes the assembly text to w.
func (a *Assembly) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, a.text)
	return int64(n), err
}

// Depth returns the simulated stack depth in bytes at the end of the program.
func (a *Assembly) Depth() int {
	return a.depth
}

// Labels returns the declared label symbols in declaration order.
func (a *Assembly) Labels() []string {
	return append([]string(nil), a.labels...)
}

// Warnings returns the non-fatal diagnostics raised during generation.
func (a *Assembly) Warnings() []*errors.Warning {
	return append([]*errors.Warning(nil), a.warnings...)
}
