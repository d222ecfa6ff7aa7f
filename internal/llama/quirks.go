package llama

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/gregriff/ask/internal/templates"
)

// QuirkSettings toggle the quirk table.
type QuirkSettings struct {
	// IMEndStopAlways adds the <|im_end|> stop sequence to every invocation,
	// not only to yi-34b and starling models.
	IMEndStopAlways bool
	// Disabled lists quirk names that are skipped.
	Disabled []string
}

// Quirk is a corrective patch of the flags for some models.
type Quirk struct {
	Name  string
	Match func(model string, tmpl *templates.Template, s QuirkSettings) bool
	Patch func(args []string) []string
}

// Quirks are applied in order after the generic flags. Every patch is idempotent.
var Quirks = []Quirk{
	{
		Name:  "codellama-70b-stop",
		Match: nameContains("codellama-70b"),
		Patch: addPair("-r", "EOT: true"),
	},
	{
		Name: "im-end-stop",
		Match: func(model string, tmpl *templates.Template, s QuirkSettings) bool {
			return s.IMEndStopAlways || nameContains("yi-34b", "starling")(model, tmpl, s)
		},
		Patch: addPair("-r", "<|im_end|>"),
	},
	{
		Name:  "deepseek-v2-lite-batch",
		Match: usesTemplate(templates.DeepSeekV2Lite),
		Patch: setFlag("-b", "256"),
	},
	{
		// there is not enough memory for a 4096 context
		Name:  "deepseek-v2.5-context",
		Match: usesTemplate(templates.DeepSeekV25),
		Patch: setFlag("-c", "2048"),
	},
}

// ApplyQuirks returns a copy of args with every enabled, matching quirk applied.
func ApplyQuirks(args []string, model string, tmpl *templates.Template, s QuirkSettings) []string {
	args = slices.Clone(args)
	for _, q := range Quirks {
		if slices.Contains(s.Disabled, q.Name) || !q.Match(model, tmpl, s) {
			continue
		}
		args = q.Patch(args)
	}
	return args
}

// QuirkNames lists the quirk table.
func QuirkNames() []string {
	names := make([]string, len(Quirks))
	for i, q := range Quirks {
		names[i] = q.Name
	}
	return names
}

func nameContains(subs ...string) func(string, *templates.Template, QuirkSettings) bool {
	return func(model string, _ *templates.Template, _ QuirkSettings) bool {
		base := strings.ToLower(filepath.Base(model))
		for _, s := range subs {
			if strings.Contains(base, s) {
				return true
			}
		}
		return false
	}
}

func usesTemplate(t *templates.Template) func(string, *templates.Template, QuirkSettings) bool {
	return func(_ string, tmpl *templates.Template, _ QuirkSettings) bool {
		return tmpl == t
	}
}

// addPair appends flag and value unless that exact pair is already present.
func addPair(flag, value string) func([]string) []string {
	return func(args []string) []string {
		for i := 0; i+1 < len(args); i++ {
			if args[i] == flag && args[i+1] == value {
				return args
			}
		}
		return append(args, flag, value)
	}
}

// setFlag overwrites the value of flag, appending it when absent.
func setFlag(flag, value string) func([]string) []string {
	return func(args []string) []string {
		if i := slices.Index(args, flag); i >= 0 && i+1 < len(args) {
			args[i+1] = value
			return args
		}
		return append(args, flag, value)
	}
}
