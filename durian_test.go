package durian

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/durian/compiler"
	"github.com/deepnoodle-ai/durian/errors"
	"github.com/deepnoodle-ai/durian/token"
)

func TestBasicUsage(t *testing.T) {
	prog, err := Compile("push 2 push 3 add printint")
	require.NoError(t, err)

	asm := prog.Assembly()
	require.True(t, strings.HasPrefix(asm, compiler.Header))
	require.True(t, strings.HasSuffix(asm, compiler.Epilogue))
	require.Equal(t, 1, strings.Count(asm, "\n"+compiler.EntryPoint+":\n"))
	require.Equal(t, 1, strings.Count(asm, "ret\n"))

	push2 := strings.Index(asm, "    push 2\n")
	push3 := strings.Index(asm, "    push 3\n")
	add := strings.Index(asm, "    add rax, rbx\n")
	call := strings.Index(asm, "    call printf\n")
	require.True(t, push2 > 0 && push2 < push3 && push3 < add && add < call)

	require.Equal(t, 0, prog.Depth())
	require.Empty(t, prog.Warnings())
	require.Equal(t, asm, prog.String())
}

func TestMisalignedPrintWarns(t *testing.T) {
	prog, err := Compile("push 1 push 2 push 3 add printint")
	require.NoError(t, err)
	warnings := prog.Warnings()
	require.Len(t, warnings, 1)
	require.Equal(t, errors.W3001, warnings[0].Code)
	require.Equal(t, 8, warnings[0].Depth)
	require.Equal(t, 8, prog.Depth())
}

func TestWarningsAsErrors(t *testing.T) {
	source := "push 1 push 2 printint\npush 3 printchar\n"

	prog, err := Compile(source)
	require.NoError(t, err)
	require.Len(t, prog.Warnings(), 2)

	_, err = Compile(source, WithWarningsAsErrors(true), WithFilename("two.dur"))
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, stderrors.As(err, &merr))
	require.Len(t, merr.Errors, 2)

	var w *errors.Warning
	require.True(t, stderrors.As(merr.Errors[1], &w))
	require.Equal(t, 2, w.Line)
	require.Equal(t, "two.dur", w.Filename)

	lines := strings.Split(err.Error(), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "warning: "))
}

func TestWarningsAsErrorsClean(t *testing.T) {
	prog, err := Compile("push 7 printint", WithWarningsAsErrors(true))
	require.NoError(t, err)
	require.Empty(t, prog.Warnings())
}

func TestCompileLexicalError(t *testing.T) {
	_, err := Compile("push 1\npush 99999999999999999999\n", WithFilename("big.dur"))
	require.Error(t, err)

	var cerr *errors.CompileError
	require.True(t, stderrors.As(err, &cerr))
	require.Equal(t, errors.LexicalError, cerr.Kind)
	require.Equal(t, errors.E1002, cerr.Code)
	require.Equal(t, "big.dur", cerr.Filename)
	require.Equal(t, 2, cerr.Line)
	require.Equal(t, 6, cerr.Column)
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("push 1 push", WithFilename("short.dur"))
	require.Error(t, err)

	var cerr *errors.CompileError
	require.True(t, stderrors.As(err, &cerr))
	require.Equal(t, errors.SyntaxError, cerr.Kind)
	require.Equal(t, errors.E2001, cerr.Code)
	require.Equal(t, "short.dur", cerr.Filename)
	require.Equal(t, 1, cerr.Line)
	require.Equal(t, 8, cerr.Column)
	require.Equal(t, "push 1 push", cerr.SourceLine)
}

func TestTrailingOperandInstructions(t *testing.T) {
	for _, src := range []string{"push", "label", "jmp", "je", "je 1", "label x\nje 0"} {
		_, err := Compile(src)
		var cerr *errors.CompileError
		require.True(t, stderrors.As(err, &cerr), "source: %q", src)
		require.Equal(t, errors.E2001, cerr.Code, "source: %q", src)
	}
}

func TestLabelsAndJumps(t *testing.T) {
	source := "label loop\npush 1 printint\njmp loop\nlabel done\n"
	prog, err := Compile(source)
	require.NoError(t, err)

	require.Equal(t, []string{"L_loop", "L_done"}, prog.Labels())
	require.Equal(t, []string{"loop", "done"}, prog.Names())
	require.Contains(t, prog.Assembly(), "\nL_loop:\n")
	require.Contains(t, prog.Assembly(), "    jmp L_loop\n")
}

func TestTokenize(t *testing.T) {
	seq, names, err := Tokenize("label top push 10 jmp top")
	require.NoError(t, err)
	require.Equal(t, 6, seq.Len())
	require.Equal(t, []string{"top"}, names)
	require.Equal(t, seq.At(1).Handle, seq.At(5).Handle)
	require.Equal(t, token.INT, seq.At(3).Kind)
	require.Equal(t, int64(10), seq.At(3).Int)
}

func TestTokenizeError(t *testing.T) {
	_, _, err := Tokenize("push 1 $", WithFilename("bad.dur"))
	var cerr *errors.CompileError
	require.True(t, stderrors.As(err, &cerr))
	require.Equal(t, errors.E1001, cerr.Code)
	require.Equal(t, "bad.dur", cerr.Filename)
	require.Equal(t, 8, cerr.Column)
}

func TestProgramMetadata(t *testing.T) {
	source := "push 5 dup mul printint\n"
	prog, err := Compile(source, WithFilename("square.dur"))
	require.NoError(t, err)
	require.Equal(t, source, prog.Source())
	require.Equal(t, "square.dur", prog.Filename())

	toks := prog.Tokens()
	require.Len(t, toks, 6)
	require.Equal(t, token.EOL, toks[5].Kind)

	toks[0].Kind = token.ILLEGAL
	require.Equal(t, token.PUSH, prog.Tokens()[0].Kind)

	var buf bytes.Buffer
	n, err := prog.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(len(prog.Assembly())), n)
	require.Equal(t, prog.Assembly(), buf.String())
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	_, err := Compile("push 1 push 2 printint", WithLogger(logger), WithFilename("log.dur"))
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"message":"stack misaligned at call site"`)
	require.Contains(t, buf.String(), `"file":"log.dur"`)
}

func TestNilOption(t *testing.T) {
	_, err := Compile("push 1 printint", nil)
	require.NoError(t, err)
}

func TestConcurrentCompile(t *testing.T) {
	source := "label a push 1 push 2 add printint jmp a\n"
	want, err := Compile(source)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prog, err := Compile(source)
			if err == nil {
				results[i] = prog.Assembly()
			}
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, want.Assembly(), got)
	}
}

func TestBuildToolFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	prog, err := Compile("push 1 printint")
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = Build(context.Background(), prog, filepath.Join(dir, "prog"),
		WithAssembler("false"), WithWorkDir(dir))
	require.Error(t, err)
	require.Contains(t, err.Error(), "false failed")
}

func TestBuildFileCompileError(t *testing.T) {
	prog, res, err := BuildFile(context.Background(), "push x", filepath.Join(t.TempDir(), "prog"))
	require.Error(t, err)
	require.Nil(t, prog)
	require.Nil(t, res)
}

func TestBuildNative(t *testing.T) {
	for _, tool := range []string{"fasm", "cc"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not available", tool)
		}
	}
	dir := t.TempDir()
	exe := filepath.Join(dir, "sum")
	_, res, err := BuildFile(context.Background(), "push 34 push 35 add printint\n", exe, WithWorkDir(dir))
	require.NoError(t, err)
	require.Equal(t, exe, res.Executable)

	out, err := exec.Command(exe).Output()
	require.NoError(t, err)
	require.Equal(t, "69\n", string(out))
}
