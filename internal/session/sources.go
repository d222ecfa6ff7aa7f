package session

import (
	"fmt"
	"path/filepath"

	"github.com/gregriff/ask/internal/prompt"
)

// Source is one prompt input of a run.
type Source struct {
	// Name is the prompt or code file path, empty for free text. It fills
	// the {f} placeholder of the output pattern.
	Name  string
	Input prompt.Input
}

// TextSource wraps free text from the command line or stdin.
func TextSource(text, context string) Source {
	return Source{Input: prompt.Input{User: text, Context: context}}
}

// FileSources loads every structured prompt file matching pattern, in
// lexical order. No match is not an error.
func FileSources(pattern, ignorePrefix, context string) ([]Source, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad prompt file pattern %q: %w", pattern, err)
	}
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		in, err := prompt.LoadPromptFile(p, ignorePrefix)
		if err != nil {
			return nil, err
		}
		in.Context = context
		sources = append(sources, Source{Name: p, Input: in})
	}
	return sources, nil
}

// CodeSource loads a code file for fill-in-the-middle completion at offset.
func CodeSource(path string, offset int) (Source, error) {
	code, err := prompt.LoadCodeSource(path, offset)
	if err != nil {
		return Source{}, err
	}
	return Source{Name: path, Input: prompt.Input{User: path, Code: code}}, nil
}
