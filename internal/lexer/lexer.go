// Package lexer converts durian source text into a token sequence.
package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/deepnoodle-ai/durian/errors"
	"github.com/deepnoodle-ai/durian/interner"
	"github.com/deepnoodle-ai/durian/token"
)

// Lexer scans one source text. A Lexer is single use.
type Lexer struct {
	input    []rune
	source   string
	filename string
	names    *interner.Interner

	pos   int // index into input of the current rune
	line  int // 1-indexed line of the current rune
	col   int // 1-indexed column of the current rune
	index int // tokens emitted so far on the current line
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFilename sets the filename reported in diagnostics.
func WithFilename(filename string) Option {
	return func(l *Lexer) {
		l.filename = filename
	}
}

// WithInterner makes the Lexer intern identifiers into an existing table.
func WithInterner(names *interner.Interner) Option {
	return func(l *Lexer) {
		l.names = names
	}
}

// New returns a Lexer for the given source.
func New(source string, opts ...Option) *Lexer {
	l := &Lexer{
		input:  []rune(source),
		source: source,
		line:   1,
		col:    1,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.names == nil {
		l.names = interner.New()
	}
	return l
}

// Tokenize scans source into a token sequence and the interner holding its
// identifier names.
func Tokenize(source string, opts ...Option) (*token.Sequence, *interner.Interner, error) {
	l := New(source, opts...)
	seq, err := l.Run()
	if err != nil {
		return nil, nil, err
	}
	return seq, l.Interner(), nil
}

// Interner returns the table identifiers are interned into.
func (l *Lexer) Interner() *interner.Interner {
	return l.names
}

// Run scans the whole input. It stops at the first lexical error.
func (l *Lexer) Run() (*token.Sequence, error) {
	seq := token.NewSequence()
	for l.pos < len(l.input) {
		r := l.input[l.pos]
		switch {
		case r == '\n':
			l.emit(seq, token.Token{Kind: token.EOL, Literal: "\n"}, l.position())
			l.advance(1)
			l.newline()
		case r == '\r' && l.peek() == '\n':
			l.advance(1)
		case unicode.IsSpace(r):
			l.advance(1)
		case unicode.IsLetter(r):
			l.readWord(seq)
		case isDigit(r):
			if err := l.readInt(seq); err != nil {
				return nil, err
			}
		default:
			kind, ok := token.LookupOperator(r)
			if !ok {
				return nil, l.errorf(errors.E1001, l.position(), 1, "unrecognized character %q", r)
			}
			l.emit(seq, token.Token{Kind: kind, Literal: string(r)}, l.position())
			l.advance(1)
		}
	}
	return seq, nil
}

func (l *Lexer) readWord(seq *token.Sequence) {
	start := l.position()
	word := l.readWhile(unicode.IsLetter)
	if kind, ok := token.LookupKeyword(word); ok {
		l.emit(seq, token.Token{Kind: kind, Literal: word}, start)
		return
	}
	l.emit(seq, token.Token{
		Kind:    token.IDENT,
		Handle:  l.names.Intern(word),
		Literal: word,
	}, start)
}

func (l *Lexer) readInt(seq *token.Sequence) error {
	start := l.position()
	digits := l.readWhile(isDigit)
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		width := len([]rune(digits))
		return l.errorf(errors.E1002, start, width, "integer literal %s does not fit in 64 bits", digits)
	}
	l.emit(seq, token.Token{Kind: token.INT, Int: value, Literal: digits}, start)
	return nil
}

func (l *Lexer) readWhile(accept func(rune) bool) string {
	begin := l.pos
	for l.pos < len(l.input) && accept(l.input[l.pos]) {
		l.advance(1)
	}
	return string(l.input[begin:l.pos])
}

func (l *Lexer) emit(seq *token.Sequence, tok token.Token, pos token.Position) {
	tok.Pos = pos
	seq.Append(tok)
	l.index++
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.col, Index: l.index}
}

func (l *Lexer) advance(n int) {
	l.pos += n
	l.col += n
}

func (l *Lexer) newline() {
	l.line++
	l.col = 1
	l.index = 0
}

func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) errorf(code errors.ErrorCode, pos token.Position, width int, format string, args ...any) *errors.CompileError {
	err := errors.NewLexicalError(code, errors.SourceLocation{
		Filename: l.filename,
		Line:     pos.Line,
		Column:   pos.Column,
		Index:    pos.Index,
	}, format, args...)
	err.EndColumn = pos.Column + width - 1
	err.SourceLine = SourceLine(l.source, pos.Line)
	return err
}

// SourceLine returns the text of the given 1-indexed line, without the
// trailing line break.
func SourceLine(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
