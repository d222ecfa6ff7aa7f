/*
Copyright © 2025 Greg Griffin <greg.griffin2@gmail.com>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/gregriff/ask/internal/llama"
	"github.com/gregriff/ask/internal/prompt"
	"github.com/gregriff/ask/internal/styles"
	"github.com/gregriff/ask/internal/templates"
)

// printList writes the preset, template, rule and quirk tables.
func printList(w io.Writer) error {
	s := styles.ListStyles
	var b strings.Builder
	row := func(name, detail string) {
		fmt.Fprintf(&b, "  %s %s\n", s.Name.Render(fmt.Sprintf("%-*s", styles.NAME_COLUMN_WIDTH, name)), s.Detail.Render(detail))
	}

	b.WriteString(s.Heading.Render("Presets") + "\n")
	for _, p := range prompt.Presets {
		row(p.Name, fmt.Sprintf("%s [%s]", p.Description, p.Role))
	}

	b.WriteString("\n" + s.Heading.Render("Templates") + "\n")
	for _, t := range templates.All {
		kind := "chat"
		if t.FIM {
			kind = "fill-in-the-middle"
		}
		if t.HasPostprocess() {
			kind += ", cleans output"
		}
		row(t.Name, kind)
	}

	b.WriteString("\n" + s.Heading.Render("Model name rules") + "\n")
	for _, r := range templates.ChatRules {
		row(r.Substring, r.Template.Name)
	}
	for _, r := range templates.FIMRules {
		row(r.Substring, r.Template.Name+" (code_generation)")
	}

	b.WriteString("\n" + s.Heading.Render("Quirks") + "\n")
	for _, name := range llama.QuirkNames() {
		row(name, "")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
