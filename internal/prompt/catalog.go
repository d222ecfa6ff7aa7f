package prompt

import (
	"fmt"
	"strings"
)

// Preset is a registered prompt strategy. Not to be modified.
type Preset struct {
	Name        string
	Description string
	Role        Role
	// FIM presets take a code file and cursor offset instead of free text.
	FIM bool
	// Interactive presets need a QuestionPicker.
	Interactive bool
	New         func(d Deps) Strategy
}

// Presets is the ordered preset registry.
var Presets = []Preset{
	{
		Name:        "empty",
		Description: "send the input as is, without system message",
		Role:        RoleChat,
		New:         func(Deps) Strategy { return &fixed{body: passThrough} },
	},
	{
		Name:        "default",
		Description: "send the input as is",
		Role:        RoleChat,
		New: func(Deps) Strategy {
			return &fixed{system: systemConcise, body: passThrough}
		},
	},
	{
		Name:        "cli",
		Description: "produce an executable shell command",
		Role:        RoleChat,
		New: func(d Deps) Strategy {
			return &fixed{system: systemPlain, body: cliBody(d.Shell, d.OS)}
		},
	},
	{
		Name:        "explain_this",
		Description: "explain the input, optionally in a given context",
		Role:        RoleChat,
		New: func(Deps) Strategy {
			return &fixed{system: systemConcise, body: explainBody}
		},
	},
	{
		Name:        "ask_user",
		Description: "pick a question from presets.ini or history, then ask it about the input",
		Role:        RoleCodeInstruct,
		Interactive: true,
		New: func(d Deps) Strategy {
			return &askUser{picker: d.Picker}
		},
	},
	{
		Name:        "gitcommit",
		Description: "write a git commit message for a diff",
		Role:        RoleChat,
		New: func(Deps) Strategy {
			return &fixed{system: systemCreative, body: gitCommitBody, post: CommitMessage}
		},
	},
	{
		Name:        "summarize",
		Description: "summarize the input",
		Role:        RoleChat,
		New: func(Deps) Strategy {
			return &fixed{system: systemCreative, body: summarizeBody}
		},
	},
	{
		Name:        "review",
		Description: "review a piece of text",
		Role:        RoleChat,
		New: func(Deps) Strategy {
			return &fixed{system: systemConcise, body: reviewBody}
		},
	},
	{
		Name:        "code_review",
		Description: "review a code snippet as if in a pull request",
		Role:        RoleCodeInstruct,
		New:         func(Deps) Strategy { return &fixed{body: codeReviewBody} },
	},
	{
		Name:        "code_generation",
		Description: "fill in code at a byte offset of a file",
		Role:        RoleCodeGeneration,
		FIM:         true,
		New:         func(Deps) Strategy { return codeGeneration{} },
	},
}

// UnknownPresetError is returned when no registered preset has the requested name.
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q (valid presets: %s)", e.Name, strings.Join(Names(), ", "))
}

// Lookup finds a preset by name.
func Lookup(name string) (*Preset, error) {
	for i := range Presets {
		if Presets[i].Name == name {
			return &Presets[i], nil
		}
	}
	return nil, &UnknownPresetError{Name: name}
}

// Names returns the preset names in registration order.
func Names() []string {
	names := make([]string, 0, len(Presets))
	for _, p := range Presets {
		names = append(names, p.Name)
	}
	return names
}
