package prompt

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// LongInputThreshold is the input length, in characters, from which the
// instruction is repeated after the data. Models tend to lose track of an
// instruction that sits far above the end of a long context.
const LongInputThreshold = 4096

// CommitMarker prefixes every non-blank line of a generated commit message.
const CommitMarker = "🤖 "

// EndOfText is the marker llama.cpp prints when generation stops on EOS.
const EndOfText = "[end of text]"

const (
	systemPlain    = "You are a helpful AI assistant."
	systemCreative = "You are a helpful, thoughtful and creative AI assistant."
	systemConcise  = "You are a helpful, thoughtful and creative AI assistant. Give concise answers unless the answer would be better with more detail."
)

const (
	conciseHint      = "(Please be concise unless the answer requires in-depth analysis)"
	commitInstruct   = "Please write a summary of the changes as a git commit message. The first line must be very concise and short. Subsequent paragraph(s) should be concise, but make sure you mention all important and interesting points."
	summarizeBefore  = "Please summarize the following text. Be concise (i.e. avoid superfluous writing), but make sure you mention all important and interesting points."
	summarizeAfter   = "Please summarize the above text. Be concise (i.e. avoid superfluous writing), but make sure you mention all important and interesting points."
	reviewInstruct   = "Please review the following text. Point out (a) mistakes (if any), (b) suggestions for improvements, and (c) other comments that may be relevant. Be thoughtful and creative. Don't just make trivial comments on low hanging fruit. Be engaging. "
	codeReviewIntent = "Please assume this is a code snippet in a github pull request. Please review the following code. Focus on potential problems. Because it is a snippet, do not be concerned with undefined or unknown references as long as they seem to be reasonable. Be concise in your answer."
	cliInstruct      = "[Only give the command. Do not explain unless necessary, but if you explain, put it in the form of comments appropriate for the script/language you are using as output. IMPORTANT: Make sure the output is executable.]"
)

// ErrNoPicker is returned by the interactive preset when it has nobody to ask.
var ErrNoPicker = errors.New("interactive preset needs a question picker")

// IsLong reports whether s falls under the long-input policy.
func IsLong(s string) bool {
	return utf8.RuneCountInString(s) >= LongInputThreshold
}

// fixed is a preset whose body is a pure function of the input.
type fixed struct {
	system string
	body   func(in Input) string
	post   func(string) string
}

func (f *fixed) Build(in Input) (Prompt, error) {
	system := f.system
	if in.System != "" {
		system = in.System
	}
	return Prompt{
		Body:        f.body(in),
		System:      system,
		Postprocess: f.post,
	}, nil
}

func passThrough(in Input) string { return in.User }

// fenced wraps data in an inline code fence after the instruction and repeats
// the instruction after the data for long inputs.
func fenced(instruction, data string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n```")
	b.WriteString(data)
	b.WriteString("```\n")
	if IsLong(data) {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(instruction))
		b.WriteString("\n")
	}
	return b.String()
}

func explainBody(in Input) string {
	if in.Context != "" {
		return fenced(fmt.Sprintf("In the context of %s, please explain the following. Be concise in your answer.", in.Context), in.User)
	}
	return fenced("Please explain the following.", in.User)
}

func reviewBody(in Input) string { return fenced(reviewInstruct, in.User) }

func codeReviewBody(in Input) string { return fenced(codeReviewIntent, in.User) }

func gitCommitBody(in Input) string {
	return "\n" + commitInstruct + "\n\n```\n" + in.User + "\n```\n\n" + commitInstruct + "\n"
}

func summarizeBody(in Input) string {
	return "\n" + summarizeBefore + "\n\n```\n" + in.User + "\n```\n\n" + summarizeAfter + "\n"
}

func cliBody(shell, goos string) func(Input) string {
	osName := osDisplayName(goos)
	return func(in Input) string {
		return fmt.Sprintf("%s\n[Environment: %s; Operating System: %s]\n\n%s\n", cliInstruct, shell, osName, in.User)
	}
}

func osDisplayName(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "":
		return "unknown"
	}
	return strings.ToUpper(goos[:1]) + goos[1:]
}

// CommitMessage drops the end-of-text marker and prefixes every non-blank
// line with CommitMarker. Blank lines stay empty.
func CommitMessage(out string) string {
	out = strings.TrimRight(strings.ReplaceAll(out, EndOfText, ""), " \t\r\n")
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = CommitMarker + strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}

// askUser asks the user for a question once per run and reuses the answer.
type askUser struct {
	picker QuestionPicker

	resolved bool
	question string
	model    string
}

func (a *askUser) Build(in Input) (Prompt, error) {
	if !a.resolved {
		if a.picker == nil {
			return Prompt{}, ErrNoPicker
		}
		q, m, err := a.picker.Pick()
		if err != nil {
			return Prompt{}, fmt.Errorf("picking question: %w", err)
		}
		a.question, a.model, a.resolved = q, m, true
	}

	system := systemCreative
	if in.System != "" {
		system = in.System
	}
	return Prompt{
		Body:   askUserBody(a.question, in.User),
		System: system,
		Model:  a.model,
	}, nil
}

func askUserBody(question, data string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n--- Start of data ---\n\n%s\n\n--- End of data ---\n", question, conciseHint, data)
	if IsLong(data) {
		fmt.Fprintf(&b, "\n%s\n%s\n", question, conciseHint)
	}
	return b.String()
}

// codeGeneration hands the code source through to a fill-in-the-middle template.
type codeGeneration struct{}

func (codeGeneration) Build(in Input) (Prompt, error) {
	if in.Code == nil {
		return Prompt{}, errors.New("code_generation needs a code file and a cursor offset")
	}
	return Prompt{Code: in.Code}, nil
}
