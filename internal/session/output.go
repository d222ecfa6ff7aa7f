package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ExpandOutput fills the {n} round, {m} model base name and {f} source file
// placeholders of an output file pattern.
func ExpandOutput(pattern string, round int, model, source string) string {
	return strings.NewReplacer(
		"{n}", strconv.Itoa(round),
		"{m}", filepath.Base(model),
		"{f}", source,
	).Replace(pattern)
}

// PromptFileContent is the text written to the prompt file: the rendered
// prompt, an extra newline when it already ends in one (llama.cpp drops the
// last newline), then the assistant prefix on its own line.
func PromptFileContent(rendered, extra string) string {
	var b strings.Builder
	b.WriteString(rendered)
	if strings.HasSuffix(rendered, "\n") {
		b.WriteByte('\n')
	}
	if extra != "" {
		b.WriteString(extra)
		if !strings.HasSuffix(extra, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// writePromptFile stores content in a new temporary file and returns its path.
func writePromptFile(dir, content string) (string, error) {
	f, err := os.CreateTemp(dir, "ask-prompt-*.txt")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func outputExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
