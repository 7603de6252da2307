package errors

// ErrorCode represents a unique identifier for diagnostic types.
// Codes are organized by category:
//   - E1xxx: Lexical errors
//   - E2xxx: Syntax errors
//   - W3xxx: Warnings about the generated program
type ErrorCode string

const (
	// Lexical errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unrecognized character
	E1002 ErrorCode = "E1002" // Invalid integer literal

	// Syntax errors (E2xxx)
	E2001 ErrorCode = "E2001" // Missing operand
	E2002 ErrorCode = "E2002" // Unexpected operand kind
	E2003 ErrorCode = "E2003" // Unexpected token
	E2004 ErrorCode = "E2004" // Duplicate label
	E2005 ErrorCode = "E2005" // Undefined label

	// Warnings (W3xxx)
	W3001 ErrorCode = "W3001" // Stack misaligned at call site
)

var codeDescriptions = map[ErrorCode]string{
	E1001: "unrecognized character",
	E1002: "invalid integer literal",

	E2001: "missing operand",
	E2002: "unexpected operand kind",
	E2003: "unexpected token",
	E2004: "duplicate label",
	E2005: "undefined label",

	W3001: "stack misaligned at call site",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the diagnostic category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "lexical"
	case '2':
		return "syntax"
	case '3':
		return "warning"
	default:
		return "unknown"
	}
}
