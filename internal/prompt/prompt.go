// Package prompt turns raw user input into the semantic prompt sent to a model:
// a body, an optional system message, an optional output postprocess step and
// an optional model override. Chat-template formatting lives in package templates.
package prompt

// Input is the raw material a preset works on.
type Input struct {
	// User is the free text, stdin content or prompt file body.
	User string
	// System replaces the preset's default system message when non-empty.
	System string
	// Context is the optional context string given with -C.
	Context string
	// Code is set for presets that complete code instead of answering text.
	Code *CodeSource
}

// Prompt is what a preset produces for one input.
type Prompt struct {
	Body   string
	System string

	// Code carries prefix/suffix for fill-in-the-middle presets.
	Code *CodeSource

	// Postprocess cleans the raw model output. nil means identity.
	Postprocess func(string) string

	// Model is a model name hint that should replace the resolved model for
	// each round, unless the caller pinned one.
	Model string
}

// Strategy builds prompts. Interactive strategies may keep per-run state.
type Strategy interface {
	Build(in Input) (Prompt, error)
}

// QuestionPicker resolves the question of the interactive preset, together
// with an optional model name attached to it.
type QuestionPicker interface {
	Pick() (question, model string, err error)
}

// Role selects which configured default model a preset runs on.
type Role string

const (
	RoleChat           Role = "chat"
	RoleCodeInstruct   Role = "code-instruct"
	RoleCodeGeneration Role = "code-generation"
)

// Deps are the collaborators a preset may need when it is instantiated.
type Deps struct {
	Picker QuestionPicker
	Shell  string // value of $SHELL
	OS     string // runtime.GOOS
}
