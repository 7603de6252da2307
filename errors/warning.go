package errors

import (
	"fmt"
)

// Warning is a non-fatal diagnostic. It points at a likely crash in the
// generated program rather than a defect in the source, so compilation
// continues. Warning implements error so warnings can be aggregated and
// promoted when requested.
type Warning struct {
	Code       ErrorCode
	Message    string
	Filename   string
	Line       int
	Column     int
	Index      int
	Depth      int // simulated stack depth in bytes at the call site
	SourceLine string
}

// NewAlignmentWarning reports a call site whose simulated stack depth is not
// a multiple of 16 bytes.
func NewAlignmentWarning(loc SourceLocation, instruction string, depth int) *Warning {
	return &Warning{
		Code:     W3001,
		Message:  fmt.Sprintf("stack is misaligned by %d bytes at %s call", ((depth%16)+16)%16, instruction),
		Filename: loc.Filename,
		Line:     loc.Line,
		Column:   loc.Column,
		Index:    loc.Index,
		Depth:    depth,
	}
}

func (w *Warning) Error() string {
	loc := SourceLocation{Filename: w.Filename, Line: w.Line, Column: w.Column}
	return fmt.Sprintf("warning: %s (%s, token %d)", w.Message, loc, w.Index)
}

// ToFormatted converts to the FormattedError type for display.
func (w *Warning) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:     w.Code,
		Kind:     "warning",
		Message:  w.Message,
		Filename: w.Filename,
		Line:     w.Line,
		Column:   w.Column,
		Note:     fmt.Sprintf("simulated stack depth is %d bytes; calls expect a multiple of 16", w.Depth),
	}
	if w.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: w.Line, Text: w.SourceLine, IsMain: true},
		}
	}
	return fe
}
