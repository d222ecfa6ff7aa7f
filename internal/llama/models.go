// Package llama plans and runs invocations of the llama.cpp command line binary:
// it finds model files, assembles flags, applies per-model quirks and spawns
// the process.
package llama

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// shardPattern matches split GGUF files such as model-00001-of-00003.gguf.
var shardPattern = regexp.MustCompile(`(?i)-(\d+)-of-(\d+)\.gguf$`)

// ModelNotFoundError is returned when no model file matches a name and the
// name is not a path to a file either.
type ModelNotFoundError struct {
	Name string
	Path string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %q not found (tried %s)", e.Name, e.Path)
}

// ModelOverrideError reports a model override that could not be used. It is
// recoverable: the previously resolved model stays in effect.
type ModelOverrideError struct {
	Name string
	Err  error
}

func (e *ModelOverrideError) Error() string {
	return fmt.Sprintf("using %s as model: %v", e.Name, e.Err)
}

func (e *ModelOverrideError) Unwrap() error { return e.Err }

var errNoMatch = errors.New("no model file matches")

// ModelFinder locates GGUF files in a models directory.
type ModelFinder struct {
	Dir string
	Log *zap.Logger
}

// Candidates returns the files in Dir whose name contains name, sorted, with
// every shard but the first of a split model left out.
func (f *ModelFinder) Candidates(name string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(f.Dir, "*"+name+"*.gguf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	out := matches[:0]
	for _, m := range matches {
		if isLaterShard(m) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func isLaterShard(path string) bool {
	sm := shardPattern.FindStringSubmatch(filepath.Base(path))
	if sm == nil {
		return false
	}
	n, err := strconv.Atoi(sm[1])
	return err == nil && n != 1
}

// Resolve returns the model file for name. Without a match in Dir, name is
// taken as a path.
func (f *ModelFinder) Resolve(name string) (string, error) {
	candidates, err := f.Candidates(name)
	if err != nil {
		return "", err
	}
	path := name
	if len(candidates) > 0 {
		path = candidates[0]
		if len(candidates) > 1 {
			f.logger().Warn("several models match, using the first",
				zap.String("name", name),
				zap.String("model", path),
				zap.Strings("others", candidates[1:]),
			)
		}
	}
	if !isFile(path) {
		return "", &ModelNotFoundError{Name: name, Path: path}
	}
	return path, nil
}

// ResolveOverride is the variant of Resolve for model hints attached to a
// question. It never falls back to a literal path.
func (f *ModelFinder) ResolveOverride(name string) (string, error) {
	candidates, err := f.Candidates(name)
	if err != nil {
		return "", &ModelOverrideError{Name: name, Err: err}
	}
	if len(candidates) == 0 {
		return "", &ModelOverrideError{Name: name, Err: errNoMatch}
	}
	if !isFile(candidates[0]) {
		return "", &ModelOverrideError{Name: name, Err: fmt.Errorf("%s exists but is not a file", candidates[0])}
	}
	return candidates[0], nil
}

func (f *ModelFinder) logger() *zap.Logger {
	if f.Log == nil {
		return zap.NewNop()
	}
	return f.Log
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
