// Package toolchain turns generated assembly into a native executable by
// running an external assembler and linker.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultAssembler is the flat assembler, which understands the
	// generated "format ELF64" listings.
	DefaultAssembler = "fasm"

	// DefaultLinker links the object against libc, which provides printf
	// and calls main.
	DefaultLinker = "cc"
)

// DefaultLinkerFlags are passed to the linker ahead of the object file.
var DefaultLinkerFlags = []string{"-no-pie"}

// Config holds toolchain configuration options.
type Config struct {
	Assembler   string
	Linker      string
	LinkerFlags []string

	// WorkDir is the parent of the per-build directory. Defaults to the
	// system temp directory.
	WorkDir string

	// KeepWorkDir leaves the per-build directory in place after Build.
	KeepWorkDir bool

	Logger *zerolog.Logger
}

// Driver runs the assembler and linker.
type Driver struct {
	assembler   string
	linker      string
	linkerFlags []string
	workDir     string
	keep        bool
	log         zerolog.Logger
}

// Result describes the files produced by one build.
type Result struct {
	BuildID    string
	WorkDir    string
	AsmPath    string
	ObjectPath string
	Executable string
}

// CommandError is returned when an external tool exits unsuccessfully.
type CommandError struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// New creates a Driver. Pass nil for cfg to use defaults.
func New(cfg *Config) *Driver {
	d := &Driver{
		assembler:   DefaultAssembler,
		linker:      DefaultLinker,
		linkerFlags: DefaultLinkerFlags,
		workDir:     os.TempDir(),
		log:         zerolog.Nop(),
	}
	if cfg == nil {
		return d
	}
	if cfg.Assembler != "" {
		d.assembler = cfg.Assembler
	}
	if cfg.Linker != "" {
		d.linker = cfg.Linker
	}
	if cfg.LinkerFlags != nil {
		d.linkerFlags = cfg.LinkerFlags
	}
	if cfg.WorkDir != "" {
		d.workDir = cfg.WorkDir
	}
	d.keep = cfg.KeepWorkDir
	if cfg.Logger != nil {
		d.log = *cfg.Logger
	}
	return d
}

// Commands returns the assembler and linker command lines for the given
// paths, in the order they run.
func (d *Driver) Commands(asmPath, objPath, exePath string) [][]string {
	assemble := []string{d.assembler, asmPath, objPath}
	link := append([]string{d.linker}, d.linkerFlags...)
	link = append(link, objPath, "-o", exePath)
	return [][]string{assemble, link}
}

// Build writes the assembly into a fresh work directory, assembles it and
// links the result to exePath.
func (d *Driver) Build(ctx context.Context, asm io.WriterTo, exePath string) (*Result, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generating build id: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(d.workDir, "durian-"+id.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating work dir: %w", err)
	}
	log := d.log.With().Str("build_id", id.String()).Logger()
	if !d.keep {
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				log.Warn().Err(err).Str("dir", dir).Msg("failed to remove work dir")
			}
		}()
	}

	res := &Result{
		BuildID:    id.String(),
		WorkDir:    dir,
		AsmPath:    filepath.Join(dir, "out.asm"),
		ObjectPath: filepath.Join(dir, "out.o"),
		Executable: exePath,
	}
	if err := writeFile(res.AsmPath, asm); err != nil {
		return nil, err
	}
	log.Debug().Str("path", res.AsmPath).Msg("wrote assembly")

	for _, argv := range d.Commands(res.AsmPath, res.ObjectPath, res.Executable) {
		if err := run(ctx, log, argv); err != nil {
			return nil, err
		}
	}
	log.Info().Str("output", exePath).Msg("build complete")
	return res, nil
}

func writeFile(path string, src io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := src.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func run(ctx context.Context, log zerolog.Logger, argv []string) error {
	log.Debug().Strs("argv", argv).Msg("running")
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return &CommandError{Tool: argv[0], Args: argv[1:], Output: out.String(), Err: err}
	}
	return nil
}
