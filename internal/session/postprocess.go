package session

import (
	"strings"

	"github.com/gregriff/ask/internal/prompt"
	"github.com/gregriff/ask/internal/templates"
)

// Postprocess cleans raw model output. The preset's step takes precedence over
// the template's; without either the output is returned unchanged.
func Postprocess(p prompt.Prompt, t *templates.Template, raw string) string {
	if p.Postprocess != nil {
		return p.Postprocess(raw)
	}
	if t != nil {
		return t.Postprocess(raw)
	}
	return raw
}

// HasPostprocess reports whether Postprocess may change the output.
func HasPostprocess(p prompt.Prompt, t *templates.Template) bool {
	return p.Postprocess != nil || (t != nil && t.HasPostprocess())
}

// StripEcho removes the user prompt from the start of out when the binary
// echoed it back.
func StripEcho(out, user string) string {
	if user == "" {
		return out
	}
	return strings.TrimPrefix(out, user)
}
