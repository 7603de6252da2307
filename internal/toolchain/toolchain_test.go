package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestDefaults(t *testing.T) {
	d := New(nil)
	cmds := d.Commands("/w/out.asm", "/w/out.o", "/bin/prog")
	require.Equal(t, [][]string{
		{"fasm", "/w/out.asm", "/w/out.o"},
		{"cc", "-no-pie", "/w/out.o", "-o", "/bin/prog"},
	}, cmds)
}

func TestCommandsCustom(t *testing.T) {
	d := New(&Config{
		Assembler:   "/opt/fasm/fasm",
		Linker:      "gcc",
		LinkerFlags: []string{},
	})
	cmds := d.Commands("a.asm", "a.o", "a")
	require.Equal(t, []string{"/opt/fasm/fasm", "a.asm", "a.o"}, cmds[0])
	require.Equal(t, []string{"gcc", "a.o", "-o", "a"}, cmds[1])
}

func TestCommandsDoNotShareFlags(t *testing.T) {
	d := New(&Config{LinkerFlags: make([]string, 1, 8)})
	first := d.Commands("x.asm", "x.o", "x")
	second := d.Commands("y.asm", "y.o", "y")
	require.Equal(t, "x.o", first[1][2])
	require.Equal(t, "y.o", second[1][2])
}

func TestBuildRemovesWorkDir(t *testing.T) {
	requireTool(t, "true")
	base := t.TempDir()
	d := New(&Config{Assembler: "true", Linker: "true", WorkDir: base})

	res, err := d.Build(context.Background(), strings.NewReader("format ELF64\n"), filepath.Join(base, "prog"))
	require.NoError(t, err)
	require.NotEmpty(t, res.BuildID)
	require.Equal(t, filepath.Join(base, "durian-"+res.BuildID), res.WorkDir)
	require.Equal(t, filepath.Join(base, "prog"), res.Executable)

	_, err = os.Stat(res.WorkDir)
	require.True(t, os.IsNotExist(err))
}

func TestBuildKeepWorkDir(t *testing.T) {
	requireTool(t, "true")
	base := t.TempDir()
	d := New(&Config{Assembler: "true", Linker: "true", WorkDir: base, KeepWorkDir: true})

	res, err := d.Build(context.Background(), strings.NewReader("format ELF64\n"), filepath.Join(base, "prog"))
	require.NoError(t, err)

	data, err := os.ReadFile(res.AsmPath)
	require.NoError(t, err)
	require.Equal(t, "format ELF64\n", string(data))
}

func TestBuildUniqueWorkDirs(t *testing.T) {
	requireTool(t, "true")
	base := t.TempDir()
	d := New(&Config{Assembler: "true", Linker: "true", WorkDir: base, KeepWorkDir: true})

	a, err := d.Build(context.Background(), strings.NewReader(""), filepath.Join(base, "a"))
	require.NoError(t, err)
	b, err := d.Build(context.Background(), strings.NewReader(""), filepath.Join(base, "b"))
	require.NoError(t, err)
	require.NotEqual(t, a.BuildID, b.BuildID)
	require.NotEqual(t, a.WorkDir, b.WorkDir)
}

func TestBuildToolFailure(t *testing.T) {
	requireTool(t, "false")
	base := t.TempDir()
	d := New(&Config{Assembler: "false", Linker: "true", WorkDir: base})

	_, err := d.Build(context.Background(), strings.NewReader(""), filepath.Join(base, "prog"))
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, "false", cmdErr.Tool)
	require.Len(t, cmdErr.Args, 2)
	require.True(t, strings.HasPrefix(cmdErr.Error(), "false failed: "))

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
}

func TestBuildMissingTool(t *testing.T) {
	base := t.TempDir()
	d := New(&Config{Assembler: "durian-no-such-assembler", WorkDir: base})

	_, err := d.Build(context.Background(), strings.NewReader(""), filepath.Join(base, "prog"))
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, "durian-no-such-assembler", cmdErr.Tool)
}

func TestBuildCanceled(t *testing.T) {
	requireTool(t, "true")
	base := t.TempDir()
	d := New(&Config{Assembler: "true", Linker: "true", WorkDir: base})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Build(ctx, strings.NewReader(""), filepath.Join(base, "prog"))
	require.Error(t, err)
}

func TestBuildLogs(t *testing.T) {
	requireTool(t, "true")
	base := t.TempDir()
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	d := New(&Config{Assembler: "true", Linker: "true", WorkDir: base, Logger: &logger})

	res, err := d.Build(context.Background(), strings.NewReader(""), filepath.Join(base, "prog"))
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, `"build_id":"`+res.BuildID+`"`)
	require.Contains(t, out, `"message":"build complete"`)
	require.Contains(t, out, `"argv":["true",`)
}

func TestCommandErrorOutput(t *testing.T) {
	err := &CommandError{Tool: "fasm", Err: errors.New("exit status 2"), Output: "  error: bad line\n"}
	require.Equal(t, "fasm failed: exit status 2\nerror: bad line", err.Error())
	require.Equal(t, "exit status 2", errors.Unwrap(err).Error())
}
