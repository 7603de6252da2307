// Package compiler generates x86-64 assembly from a durian token sequence.
//
// # Single Pass Generation
//
// The compiler walks the token sequence once, left to right, with an explicit
// index. Each instruction token appends one fixed assembly fragment. Tokens
// that carry an operand (push, label, jmp, je) read the operand with
// Sequence.PeekRight, check its kind, and advance the index past it so the
// operand is never treated as an instruction of its own.
//
// # Stack Depth
//
// The generated code keeps the program's operand stack on the native call
// stack. The compiler tracks the net number of bytes pushed since the end of
// the prologue. Before each call into libc the depth should be a multiple of
// 16; when it is not, the compiler records an alignment warning. The warning
// never changes the emitted code. Depth is tracked linearly and does not
// follow jumps.
//
// # Labels
//
// Label and jump operands are interned identifiers. A label resolves to the
// symbol "L_<name>". Declaring a label twice, or jumping to a label that is
// never declared, is a syntax error.
package compiler

import (
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/durian/errors"
	"github.com/deepnoodle-ai/durian/interner"
	"github.com/deepnoodle-ai/durian/internal/lexer"
	"github.com/deepnoodle-ai/durian/token"
)

// WordSize is the number of bytes one stack slot occupies.
const WordSize = 8

// CallAlignment is the stack alignment, in bytes, expected at call sites.
const CallAlignment = 16

// Config holds compiler configuration options.
type Config struct {
	// Filename is the source filename, used in diagnostics.
	Filename string

	// Source is the original source code, used to quote lines in diagnostics.
	Source string

	// Logger receives alignment warnings and generation summaries. The zero
	// value discards everything.
	Logger *zerolog.Logger
}

type jumpRef struct {
	handle interner.Handle
	tok    token.Token
}

// Compiler turns one token sequence into assembly. A Compiler is single use.
type Compiler struct {
	seq      *token.Sequence
	names    *interner.Interner
	filename string
	source   string
	log      zerolog.Logger

	out       *emitter
	depth     int
	lineInstr int // instructions seen on the current line

	labels     map[interner.Handle]token.Token
	labelOrder []string
	jumps      []jumpRef
	warnings   []*errors.Warning
}

// Compile generates assembly for seq. Identifiers in seq must have been
// interned into names. Pass nil for cfg to use default settings.
func Compile(seq *token.Sequence, names *interner.Interner, cfg *Config) (*Assembly, error) {
	return New(seq, names, cfg).Run()
}

// New creates and returns a new Compiler. Pass nil for cfg to use defaults.
func New(seq *token.Sequence, names *interner.Interner, cfg *Config) *Compiler {
	c := &Compiler{
		seq:    seq,
		names:  names,
		log:    zerolog.Nop(),
		out:    &emitter{},
		labels: map[interner.Handle]token.Token{},
	}
	if cfg != nil {
		c.filename = cfg.Filename
		c.source = cfg.Source
		if cfg.Logger != nil {
			c.log = *cfg.Logger
		}
	}
	if c.names == nil {
		c.names = interner.New()
	}
	return c
}

// Run generates the complete assembly listing. It stops at the first error.
func (c *Compiler) Run() (*Assembly, error) {
	c.out.preamble()
	for i := 0; i < c.seq.Len(); {
		n, err := c.compile(i)
		if err != nil {
			return nil, err
		}
		i += n
	}
	if err := c.checkJumps(); err != nil {
		return nil, err
	}
	c.out.epilogue()

	c.log.Debug().
		Str("file", c.filename).
		Int("tokens", c.seq.Len()).
		Int("labels", len(c.labelOrder)).
		Int("warnings", len(c.warnings)).
		Int("depth", c.depth).
		Msg("generated assembly")

	return &Assembly{
		text:     c.out.String(),
		depth:    c.depth,
		labels:   c.labelOrder,
		warnings: c.warnings,
	}, nil
}

// compile emits the fragment for the instruction at index i and returns the
// number of tokens it consumed.
func (c *Compiler) compile(i int) (int, error) {
	tok := c.seq.At(i)
	if tok.Kind == token.EOL {
		c.lineInstr = 0
		return 1, nil
	}
	if !tok.Kind.IsInstruction() {
		return 0, c.unexpected(i, tok)
	}
	defer func() { c.lineInstr++ }()

	switch tok.Kind {
	case token.ADD, token.SUB, token.MUL, token.IMUL, token.DIV, token.IDIV, token.MOD:
		c.out.comment(tok)
		c.out.binary(tok.Kind)
		c.depth -= WordSize
		return 1, nil

	case token.DUP:
		c.out.comment(tok)
		c.out.dup()
		c.depth += WordSize
		return 1, nil

	case token.POP, token.DROP:
		c.out.comment(tok)
		c.out.drop()
		c.depth -= WordSize
		return 1, nil

	case token.SWAP:
		c.out.comment(tok)
		c.out.swap()
		return 1, nil

	case token.PUSH:
		operand, err := c.expect(tok, i, token.INT)
		if err != nil {
			return 0, err
		}
		c.out.comment(tok, operand)
		c.out.push(operand.Int)
		c.depth += WordSize
		return 2, nil

	case token.LABEL:
		operand, err := c.expect(tok, i, token.IDENT)
		if err != nil {
			return 0, err
		}
		if prev, ok := c.labels[operand.Handle]; ok {
			err := c.syntaxError(errors.E2004, operand, "label %q is already declared", operand.Literal)
			err.Note = "first declared at " + prev.Pos.String()
			return 0, err
		}
		c.labels[operand.Handle] = operand
		sym := c.symbol(operand.Handle)
		c.labelOrder = append(c.labelOrder, sym)
		c.out.comment(tok, operand)
		c.out.label(sym)
		return 2, nil

	case token.JMP:
		operand, err := c.expect(tok, i, token.IDENT)
		if err != nil {
			return 0, err
		}
		c.jumps = append(c.jumps, jumpRef{handle: operand.Handle, tok: operand})
		c.out.comment(tok, operand)
		c.out.jump(c.symbol(operand.Handle))
		return 2, nil

	case token.JE:
		value, err := c.expect(tok, i, token.INT)
		if err != nil {
			return 0, err
		}
		target, err := c.expect(tok, i+1, token.IDENT)
		if err != nil {
			return 0, err
		}
		c.jumps = append(c.jumps, jumpRef{handle: target.Handle, tok: target})
		c.out.comment(tok, value, target)
		c.out.jumpIfEqual(value.Int, c.symbol(target.Handle))
		c.depth -= WordSize
		return 3, nil

	case token.PRINTINT, token.PRINTCHAR:
		c.out.comment(tok)
		c.out.popArgument()
		c.depth -= WordSize
		c.checkAlignment(tok)
		if tok.Kind == token.PRINTINT {
			c.out.printf(formatInt)
		} else {
			c.out.printf(formatChar)
		}
		return 1, nil
	}
	return 0, c.unexpected(i, tok)
}

// expect reads the operand following index i, which must be of the given
// kind. instr is the instruction that owns the operand.
func (c *Compiler) expect(instr token.Token, i int, kind token.Kind) (token.Token, error) {
	operand, err := c.seq.PeekRight(i)
	if err != nil {
		return token.Token{}, c.syntaxError(errors.E2001, instr,
			"%s expects an %s operand but the input ends", instr.Literal, kind.Describe())
	}
	if operand.Kind != kind {
		return token.Token{}, c.syntaxError(errors.E2002, operand,
			"%s expects an %s operand, found %s", instr.Literal, kind.Describe(), operand)
	}
	return operand, nil
}

func (c *Compiler) checkAlignment(tok token.Token) {
	if c.depth%CallAlignment == 0 {
		return
	}
	w := errors.NewAlignmentWarning(c.location(tok), tok.Literal, c.depth)
	w.SourceLine = c.sourceLine(tok.Pos.Line)
	c.warnings = append(c.warnings, w)

	c.log.Warn().
		Str("file", c.filename).
		Int("line", tok.Pos.Line).
		Int("token", tok.Pos.Index).
		Int("instruction", c.lineInstr).
		Int("depth", c.depth).
		Str("call", tok.Literal).
		Msg("stack misaligned at call site")
}

func (c *Compiler) checkJumps() error {
	for _, j := range c.jumps {
		if _, ok := c.labels[j.handle]; !ok {
			return c.syntaxError(errors.E2005, j.tok, "jump to undefined label %q", j.tok.Literal)
		}
	}
	return nil
}

func (c *Compiler) unexpected(i int, tok token.Token) *errors.CompileError {
	err := c.syntaxError(errors.E2003, tok, "unexpected %s", tok)
	if prev, perr := c.seq.PeekLeft(i); perr == nil {
		if prev.Kind.IsInstruction() {
			err.Note = "instruction " + prev.Literal + " does not take this operand"
		} else {
			err.Note = "follows " + prev.String()
		}
	}
	if tok.Kind == token.IDENT {
		err.Suggestions = errors.SuggestSimilar(tok.Literal, token.Keywords())
	}
	return err
}

func (c *Compiler) syntaxError(code errors.ErrorCode, tok token.Token, format string, args ...any) *errors.CompileError {
	err := errors.NewSyntaxError(code, c.location(tok), format, args...)
	if n := len([]rune(tok.Literal)); n > 1 && tok.Kind != token.EOL {
		err.EndColumn = tok.Pos.Column + n - 1
	}
	err.SourceLine = c.sourceLine(tok.Pos.Line)
	return err
}

func (c *Compiler) location(tok token.Token) errors.SourceLocation {
	return errors.SourceLocation{
		Filename: c.filename,
		Line:     tok.Pos.Line,
		Column:   tok.Pos.Column,
		Index:    tok.Pos.Index,
	}
}

func (c *Compiler) sourceLine(line int) string {
	if c.source == "" {
		return ""
	}
	return lexer.SourceLine(c.source, line)
}

func (c *Compiler) symbol(h interner.Handle) string {
	return labelPrefix + c.names.Resolve(h)
}
