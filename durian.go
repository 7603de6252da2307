// Package durian compiles programs written in a small stack language to
// x86-64 assembly for the flat assembler, and optionally on to a native
// executable.
//
//	prog, err := durian.Compile("push 34 push 35 add printint\n")
//	if err != nil {
//		return err
//	}
//	fmt.Print(prog.Assembly())
package durian

import (
	"context"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/durian/compiler"
	"github.com/deepnoodle-ai/durian/errors"
	"github.com/deepnoodle-ai/durian/internal/lexer"
	"github.com/deepnoodle-ai/durian/internal/toolchain"
	"github.com/deepnoodle-ai/durian/token"
)

// Option configures a durian compilation or build.
type Option func(*options)

type options struct {
	filename         string
	logger           *zerolog.Logger
	warningsAsErrors bool
	toolchain        toolchain.Config
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) lexerOpts() []lexer.Option {
	var opts []lexer.Option
	if o.filename != "" {
		opts = append(opts, lexer.WithFilename(o.filename))
	}
	return opts
}

func (o *options) toolchainConfig() *toolchain.Config {
	cfg := o.toolchain
	cfg.Logger = o.logger
	return &cfg
}

// WithFilename sets the filename reported in diagnostics.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithLogger sets the logger that receives alignment warnings and build
// progress. By default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithWarningsAsErrors makes Compile fail when the program produces any
// warnings.
func WithWarningsAsErrors(enabled bool) Option {
	return func(o *options) {
		o.warningsAsErrors = enabled
	}
}

// WithAssembler sets the assembler executable used by Build.
func WithAssembler(path string) Option {
	return func(o *options) {
		o.toolchain.Assembler = path
	}
}

// WithLinker sets the linker executable and, optionally, the flags passed
// to it ahead of the object file.
func WithLinker(path string, flags ...string) Option {
	return func(o *options) {
		o.toolchain.Linker = path
		if flags != nil {
			o.toolchain.LinkerFlags = flags
		}
	}
}

// WithWorkDir sets the directory under which Build creates its scratch
// directory.
func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.toolchain.WorkDir = dir
	}
}

// WithKeepWorkDir leaves Build's scratch directory, including the written
// assembly and object file, in place.
func WithKeepWorkDir(keep bool) Option {
	return func(o *options) {
		o.toolchain.KeepWorkDir = keep
	}
}

// Tokenize splits source into tokens. Identifiers are interned; the returned
// names resolve token handles back to their text.
func Tokenize(source string, opts ...Option) (*token.Sequence, []string, error) {
	o := collectOptions(opts...)
	seq, names, err := lexer.Tokenize(source, o.lexerOpts()...)
	if err != nil {
		return nil, nil, err
	}
	return seq, names.Names(), nil
}

// Compile tokenizes source and generates its assembly. The first lexical or
// syntax error stops compilation and is returned as an *errors.CompileError.
// Warnings are attached to the returned Program unless warnings are treated
// as errors, in which case they are returned together as one error.
func Compile(source string, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)

	seq, names, err := lexer.Tokenize(source, o.lexerOpts()...)
	if err != nil {
		return nil, err
	}
	asm, err := compiler.Compile(seq, names, &compiler.Config{
		Filename: o.filename,
		Source:   source,
		Logger:   o.logger,
	})
	if err != nil {
		return nil, err
	}
	if o.warningsAsErrors {
		if err := warningsError(asm.Warnings()); err != nil {
			return nil, err
		}
	}
	return &Program{
		asm:      asm,
		tokens:   seq,
		names:    names.Names(),
		source:   source,
		filename: o.filename,
	}, nil
}

// Build assembles and links a compiled program into a native executable at
// output. It requires the configured assembler and linker to be installed.
func Build(ctx context.Context, prog *Program, output string, opts ...Option) (*BuildResult, error) {
	o := collectOptions(opts...)
	res, err := toolchain.New(o.toolchainConfig()).Build(ctx, prog.asm, output)
	if err != nil {
		return nil, err
	}
	return &BuildResult{
		BuildID:    res.BuildID,
		Executable: res.Executable,
		WorkDir:    res.WorkDir,
	}, nil
}

// BuildFile is a convenience function that compiles source and builds it.
// It is equivalent to Compile() followed by Build().
func BuildFile(ctx context.Context, source, output string, opts ...Option) (*Program, *BuildResult, error) {
	prog, err := Compile(source, opts...)
	if err != nil {
		return nil, nil, err
	}
	res, err := Build(ctx, prog, output, opts...)
	if err != nil {
		return prog, nil, err
	}
	return prog, res, nil
}

// BuildResult describes a successful build.
type BuildResult struct {
	BuildID    string
	Executable string

	// WorkDir is only meaningful when the work directory was kept.
	WorkDir string
}

func warningsError(warnings []*errors.Warning) error {
	var result *multierror.Error
	for _, w := range warnings {
		result = multierror.Append(result, w)
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = formatWarnings
	return result
}

func formatWarnings(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}
