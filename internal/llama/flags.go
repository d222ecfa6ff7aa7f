package llama

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

const (
	// DefaultTemperature is used unless the run is a single deterministic pass over files.
	DefaultTemperature = 0.3
	// FillContext as --n-predict makes llama.cpp generate until the context is full.
	FillContext = "-2"
	// FIMPredict caps fill-in-the-middle completions.
	FIMPredict = "200"
	gpuLayers  = "99"
)

var predictFlags = []string{"-n", "--n-predict", "--predict"}

// Settings are the generic knobs of an invocation.
type Settings struct {
	Binary      string
	ModelsDir   string
	ContextSize string
	Temperature float64
	// NoLimit is the "skip generation limit" switch; it forces GPU offload.
	NoLimit     bool
	Quiet       bool
	Passthrough []string
	GOOS        string
	Quirks      QuirkSettings
}

// Validate checks settings that llama.cpp would reject late.
func (s Settings) Validate() error {
	if s.Temperature < 0 {
		return fmt.Errorf("temperature must not be negative, got %v", s.Temperature)
	}
	return nil
}

// BaseFlags assembles the generic flags in their fixed order: no-escape,
// temperature, GPU offload, verbose prompt, context size, pass-through flags,
// then the fill-context default unless a prediction length is already set.
func BaseFlags(s Settings, fim bool) []string {
	args := []string{"--no-escape", "--temp", strconv.FormatFloat(s.Temperature, 'f', -1, 64)}
	if s.NoLimit || s.GOOS == "darwin" {
		args = append(args, "-ngl", gpuLayers)
	}
	if !s.Quiet {
		args = append(args, "--verbose-prompt")
	}
	ctx := s.ContextSize
	if ctx == "" {
		ctx = "0"
	}
	args = append(args, "-c", ctx)
	if fim {
		args = append(args, "--n-predict", FIMPredict)
	}
	args = append(args, s.Passthrough...)
	if !hasAnyFlag(args, predictFlags...) {
		args = append(args, "--n-predict", FillContext)
	}
	return args
}

// ChooseTemperature applies the default policy: an explicit value wins, a
// single round over files only is deterministic, anything else gets
// DefaultTemperature.
func ChooseTemperature(explicit *float64, rounds int, hasFreeText bool) float64 {
	switch {
	case explicit != nil:
		return *explicit
	case rounds == 1 && !hasFreeText:
		return 0
	}
	return DefaultTemperature
}

// SplitPassthrough splits raw pass-through flags with shell quoting rules.
// Variables are left as written. Text that is not valid shell, such as an
// unquoted <|im_end|> stop string, is split on whitespace instead.
func SplitPassthrough(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields, err := shell.Fields(raw, func(name string) string { return "$" + name })
	if err != nil {
		return strings.Fields(raw)
	}
	return fields
}

func hasAnyFlag(args []string, flags ...string) bool {
	return slices.ContainsFunc(args, func(a string) bool { return slices.Contains(flags, a) })
}
