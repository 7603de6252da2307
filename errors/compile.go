package errors

import (
	"fmt"
	"strings"
)

// CompileError is a fatal diagnostic. Compilation stops at the first one.
type CompileError struct {
	Kind        Kind
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	Index       int
	SourceLine  string
	Suggestions []Suggestion
	Note        string
}

// NewLexicalError creates a LexicalError at the given location.
func NewLexicalError(code ErrorCode, loc SourceLocation, format string, args ...any) *CompileError {
	return newCompileError(LexicalError, code, loc, fmt.Sprintf(format, args...))
}

// NewSyntaxError creates a SyntaxError at the given location.
func NewSyntaxError(code ErrorCode, loc SourceLocation, format string, args ...any) *CompileError {
	return newCompileError(SyntaxError, code, loc, fmt.Sprintf(format, args...))
}

func newCompileError(kind Kind, code ErrorCode, loc SourceLocation, msg string) *CompileError {
	return &CompileError{
		Kind:     kind,
		Code:     code,
		Message:  msg,
		Filename: loc.Filename,
		Line:     loc.Line,
		Column:   loc.Column,
		Index:    loc.Index,
	}
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, token %d)", e.Line, e.Index)
	}
	return b.String()
}

// Location returns where the error occurred.
func (e *CompileError) Location() SourceLocation {
	return SourceLocation{
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Index:    e.Index,
	}
}

// WithFilename sets the filename if one is not already present.
func (e *CompileError) WithFilename(filename string) *CompileError {
	if e.Filename == "" {
		e.Filename = filename
	}
	return e
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      e.Code,
		Kind:      e.Kind.String(),
		Message:   e.Message,
		Filename:  e.Filename,
		Line:      e.Line,
		Column:    e.Column,
		EndColumn: e.EndColumn,
		Note:      e.Note,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}
