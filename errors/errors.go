// Package errors defines the diagnostics reported while compiling durian
// programs, along with a formatter for displaying them.
package errors

import (
	"fmt"
)

// Kind classifies a fatal compile error.
type Kind int

const (
	// LexicalError is an unrecognized character or a malformed integer literal.
	LexicalError Kind = iota + 1
	// SyntaxError is a missing, misplaced or wrong-kind operand token.
	SyntaxError
)

func (k Kind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case SyntaxError:
		return "syntax error"
	}
	return "error"
}

// SourceLocation represents a token position in source code.
type SourceLocation struct {
	Filename string
	Line     int // 1-based line number
	Column   int // 1-based column number
	Index    int // 0-based token index within the line
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the Formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}
