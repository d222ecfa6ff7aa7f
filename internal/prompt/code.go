package prompt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// MaxCodeFileSize is the exclusive upper bound on the size of a file used for
// code generation.
const MaxCodeFileSize = 50_000

// shebangWindow is how many leading bytes are searched for a shebang line
// when the cursor sits closer to the start of the file.
const shebangWindow = 128

// CodeSource is a file split at the cursor for fill-in-the-middle completion.
type CodeSource struct {
	Path   string
	Offset int
	Prefix string
	Suffix string
	// Language is empty when neither the extension nor a shebang tells.
	Language string
}

// InputTooLargeError is returned for code files at or above MaxCodeFileSize.
type InputTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, code generation accepts files below %d bytes", e.Path, e.Size, e.Limit)
}

var extensionLanguages = map[string]string{
	".py":   "python",
	".c":    "c",
	".cpp":  "cpp",
	".h":    "cpp",
	".hpp":  "cpp",
	".java": "java",
	".js":   "javascript",
	".ts":   "typescript",
	".html": "html",
	".css":  "css",
	".scss": "scss",
	".sass": "sass",
	".less": "less",
	".php":  "php",
	".sql":  "sql",
	".rb":   "ruby",
	".rs":   "rust",
	".vim":  "vimscript",
}

// LoadCodeSource reads path and splits it at the byte offset. Offsets outside
// the file are clamped to its bounds.
func LoadCodeSource(path string, offset int) (*CodeSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() >= MaxCodeFileSize {
		return nil, &InputTooLargeError{Path: path, Size: info.Size(), Limit: MaxCodeFileSize}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewCodeSource(path, content, offset), nil
}

// NewCodeSource splits content at offset.
func NewCodeSource(path string, content []byte, offset int) *CodeSource {
	offset = min(max(offset, 0), len(content))
	return &CodeSource{
		Path:     path,
		Offset:   offset,
		Prefix:   string(content[:offset]),
		Suffix:   string(content[offset:]),
		Language: DetectLanguage(path, content, offset),
	}
}

// DetectLanguage guesses the language from the file extension, then from a
// shebang line. It returns "" when neither matches.
func DetectLanguage(path string, content []byte, offset int) string {
	if lang, ok := extensionLanguages[filepath.Ext(path)]; ok {
		return lang
	}
	if !bytes.HasPrefix(content, []byte("#!")) {
		return ""
	}
	head := content[:min(max(offset, shebangWindow), len(content))]
	shebang, _, _ := bytes.Cut(head, []byte("\n"))
	switch {
	case bytes.Contains(shebang, []byte("python")):
		return "python"
	case bytes.Contains(shebang, []byte("bash")), bytes.Contains(shebang, []byte("/sh")):
		return "bash"
	}
	return ""
}
