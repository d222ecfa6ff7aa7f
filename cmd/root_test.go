package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/gregriff/ask/config"
	"github.com/gregriff/ask/internal/prompt"
	"github.com/gregriff/ask/internal/questions"
)

// setup isolates config and models and installs a fake llama-cli that prints
// its arguments followed by the prompt file.
func setup(t *testing.T, models ...string) (modelsDir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake binary")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "cfg"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))

	modelsDir = filepath.Join(home, "models")
	require.NoError(t, os.MkdirAll(modelsDir, 0o755))
	for _, m := range models {
		require.NoError(t, os.WriteFile(filepath.Join(modelsDir, m), nil, 0o644))
	}
	t.Setenv("MODELS_PATH", modelsDir)

	bin := filepath.Join(home, "llama-cli")
	script := "#!/bin/sh\necho \"ARGS $*\"\nfor a; do last=$a; done\ncat \"$last\"\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	t.Setenv("LLAMA_CPP_PATH", bin)
	return modelsDir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAskWithArguments(t *testing.T) {
	setup(t, "gemma-2-9b-it-Q8_0.gguf")

	out, err := execute(t, "", "-q", "what", "is", "a", "monad?")
	require.NoError(t, err)
	assert.Contains(t, out, "ARGS --no-escape --temp 0.3 -c 0 --n-predict -2 -m ")
	assert.Contains(t, out, "<start_of_turn>user\nwhat is a monad?<end_of_turn>")
}

func TestAskReadsStdin(t *testing.T) {
	setup(t, "gemma-2-9b-it.gguf")

	out, err := execute(t, "from stdin", "-q", "-p", "empty", "-t", "0.7")
	require.NoError(t, err)
	assert.Contains(t, out, "--temp 0.7")
	assert.Contains(t, out, "from stdin")
}

func TestAskPromptFilesAreDeterministic(t *testing.T) {
	setup(t, "gemma-2-9b-it.gguf")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q.txt"), []byte("#! comment\nthe question\n"), 0o644))
	
	_, err := execute(t, "", "-q", "-f", filepath.Join(dir, "*.txt"), "-o", "{f}.out")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "q.txt.out"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "--temp 0 ")
	assert.Contains(t, string(got), "the question")
	assert.NotContains(t, string(got), "comment")
}

func TestAskModelRolesAndPin(t *testing.T) {
	setup(t, "gemma-2-9b-it.gguf", "Qwen2.5-Coder-32B-Instruct-Q4.gguf", "Phi-3-mini.gguf")

	out, err := execute(t, "", "-q", "-p", "code_review", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "Qwen2.5-Coder-32B-Instruct-Q4.gguf")
	assert.Contains(t, out, "<|im_start|>system\nYou are Qwen")

	out, err = execute(t, "", "-q", "-p", "code_review", "-m", "Phi-3", "-T", "llama", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "Phi-3-mini.gguf")
	assert.Contains(t, out, "<s>[INST]")
}

func TestAskCodeGeneration(t *testing.T) {
	setup(t, "Qwen2.5-Coder-32B-Instruct.gguf")
	src := filepath.Join(t.TempDir(), "main.py")
	require.NoError(t, os.WriteFile(src, []byte("def add(a, b):\n    return\n"), 0o644))

	out, err := execute(t, "", "-q", "-p", "code_generation", "-f", src, "15")
	require.NoError(t, err)
	assert.Contains(t, out, "--n-predict 200")
	assert.NotContains(t, out, "--n-predict -2")
	assert.Contains(t, out, "<|fim_prefix|>def add(a, b):\n<|fim_suffix|>    return\n<|fim_middle|>")
}

func TestAskCodeGenerationNeedsFileAndOffset(t *testing.T) {
	setup(t, "Qwen2.5-Coder-32B-Instruct.gguf")

	_, err := execute(t, "", "-p", "code_generation", "12")
	assert.ErrorContains(t, err, "needs a code file")

	_, err = execute(t, "", "-p", "code_generation", "-f", "main.go", "here")
	assert.ErrorContains(t, err, "cursor byte offset")
}

func TestAskRejectsRoundsBelowOne(t *testing.T) {
	setup(t, "gemma-2-9b-it.gguf")

	for _, n := range []string{"0", "-2"} {
		out, err := execute(t, "", "--rounds="+n, "x")
		assert.ErrorContains(t, err, "rounds must be at least 1", n)
		assert.Empty(t, out)
	}
}

func TestAskUnknownPreset(t *testing.T) {
	setup(t, "gemma-2-9b-it.gguf")

	_, err := execute(t, "", "-p", "nope", "x")
	var unknown *prompt.UnknownPresetError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nope", unknown.Name)
}

func TestAskModelNotFound(t *testing.T) {
	setup(t)

	_, err := execute(t, "", "-m", "missing", "x")
	assert.ErrorContains(t, err, `model "missing" not found`)
}

func TestAskProcessFailure(t *testing.T) {
	setup(t, "gemma-2-9b-it.gguf")
	bin := filepath.Join(t.TempDir(), "failing")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho 'out of memory' >&2\nexit 2\n"), 0o755))
	t.Setenv("LLAMA_CPP_PATH", bin)

	_, err := execute(t, "", "x")
	assert.ErrorContains(t, err, "out of memory")
}

func TestList(t *testing.T) {
	setup(t)

	out, err := execute(t, "", "--list")
	require.NoError(t, err)
	for _, want := range []string{"explain_this", "code_generation", "qwen-fim", "mixtral-8x7b-instruct", "im-end-stop"} {
		assert.Contains(t, out, want)
	}
}

func TestPresetName(t *testing.T) {
	orig := invokedAs
	t.Cleanup(func() { invokedAs = orig })

	invokedAs = func() string { return "explain" }
	assert.Equal(t, "explain_this", presetName(""))
	assert.Equal(t, "summarize", presetName("summarize"))

	invokedAs = func() string { return "ask" }
	assert.Equal(t, "default", presetName(""))
}

func TestModelName(t *testing.T) {
	cfg := config.Config{DefaultModel: "chat", CodeInstructModel: "instruct", CodeGenerationModel: "gen"}
	for name, want := range map[string]string{
		"default":         "chat",
		"ask_user":        "instruct",
		"code_review":     "instruct",
		"code_generation": "gen",
	} {
		p, err := prompt.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, want, modelName(&options{}, p, cfg), name)
	}

	p, _ := prompt.Lookup("code_generation")
	assert.Equal(t, "mine", modelName(&options{model: "mine"}, p, cfg))
}

func TestNewPrompterReleasesTerminal(t *testing.T) {
	// fakeTTY hands out a temp file in place of /dev/tty and remembers it.
	fakeTTY := func(t *testing.T, got **os.File) func() (*os.File, error) {
		return func() (*os.File, error) {
			f, err := os.CreateTemp(t.TempDir(), "tty")
			*got = f
			return f, err
		}
	}

	t.Run("line prompter owns the terminal", func(t *testing.T) {
		var tty *os.File
		p, release := newPrompter(fakeTTY(t, &tty), false)

		line, ok := p.(*questions.LinePrompter)
		require.True(t, ok)
		assert.Same(t, tty, line.In)
		require.NoError(t, release())
		_, err := tty.Read(make([]byte, 1))
		assert.ErrorIs(t, err, os.ErrClosed)
	})

	t.Run("tui closes the terminal at once", func(t *testing.T) {
		var tty *os.File
		p, release := newPrompter(fakeTTY(t, &tty), true)

		assert.IsType(t, &questions.TeaPrompter{}, p)
		_, err := tty.Read(make([]byte, 1))
		assert.ErrorIs(t, err, os.ErrClosed)
		assert.NoError(t, release())
	})

	t.Run("no terminal falls back to stdin", func(t *testing.T) {
		p, release := newPrompter(func() (*os.File, error) { return nil, os.ErrNotExist }, true)

		line, ok := p.(*questions.LinePrompter)
		require.True(t, ok)
		assert.Same(t, os.Stdin, line.In)
		assert.NoError(t, release())
	})
}

func TestNewLoggerLevels(t *testing.T) {
	log, err := newLogger(false, false)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = newLogger(true, false)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = newLogger(false, true)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
}
