// Package session runs prompts through the llama.cpp binary: one process per
// prompt source and round, strictly one after the other, with the output
// written to files or printed.
package session

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/gregriff/ask/internal/llama"
	"github.com/gregriff/ask/internal/prompt"
)

// RunFunc spawns the binary. llama.Run is the default.
type RunFunc func(ctx context.Context, binary string, args []string, stream io.Writer) (string, error)

// Options are the per-run switches.
type Options struct {
	// Rounds is the number of generations per source.
	Rounds int
	// Output is the output file pattern; empty prints to Stdout.
	Output string
	// Extra is written after the prompt as the start of the answer.
	Extra string
	// Keep leaves the temporary prompt files in place.
	Keep bool
	// PinnedModel disables the model overrides of presets and questions.
	PinnedModel bool
	// TempDir holds the prompt files; empty means os.TempDir.
	TempDir string
	Copy    bool
}

// Session holds everything needed to run a list of sources.
type Session struct {
	Planner  *llama.Planner
	Plan     *llama.Plan
	Strategy prompt.Strategy
	Options  Options

	// Markdown renders printed answers when set.
	Markdown *MarkdownRenderer
	Width    int

	Stdout io.Writer
	Log    *zap.Logger
	Run    RunFunc
	// CopyText puts text on the clipboard. clipboard.WriteAll is the default.
	CopyText func(string) error
}

// RunAll runs every source for every round. The first process failure stops
// the run.
func (s *Session) RunAll(ctx context.Context, sources []Source) error {
	if len(sources) == 0 {
		s.logger().Warn("nothing to do, no prompt source")
		return nil
	}
	for _, src := range sources {
		if err := s.runSource(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) runSource(ctx context.Context, src Source) error {
	log := s.logger()
	if src.Name != "" {
		log.Debug("prompt source", zap.String("file", src.Name))
	}

	p, err := s.Strategy.Build(src.Input)
	if err != nil {
		return err
	}

	for round := range s.Options.Rounds {
		if p.Model != "" && !s.Options.PinnedModel {
			s.Planner.Override(s.Plan, p.Model)
		}

		out := ""
		if s.Options.Output != "" {
			out = ExpandOutput(s.Options.Output, round, s.Plan.Model, src.Name)
			found, err := outputExists(out)
			if err != nil {
				return fmt.Errorf("checking output %s: %w", out, err)
			}
			if found {
				log.Info("skipping existing output", zap.String("path", out))
				continue
			}
		}

		rendered, err := s.Plan.Template.Render(p)
		if err != nil {
			return err
		}
		log.Debug("prompt", zap.String("template", s.Plan.Template.Name), zap.String("text", rendered))

		answer, err := s.infer(ctx, p, src, out, rendered)
		if err != nil {
			return err
		}

		if out != "" {
			if err := os.WriteFile(out, []byte(answer), 0o644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			continue
		}
		if s.Options.Copy {
			if err := s.copyText(answer); err != nil {
				log.Warn("could not copy answer to clipboard", zap.Error(err))
			}
		}
	}
	return nil
}

// infer runs one round and returns the cleaned answer. Printed answers are
// streamed when nothing has to be done to them afterwards.
func (s *Session) infer(ctx context.Context, p prompt.Prompt, src Source, out, rendered string) (string, error) {
	log := s.logger()

	path, err := writePromptFile(s.Options.TempDir, PromptFileContent(rendered, s.Options.Extra))
	if err != nil {
		return "", fmt.Errorf("writing prompt file: %w", err)
	}
	if s.Options.Keep {
		log.Info("keeping prompt file", zap.String("path", path))
	} else {
		defer os.Remove(path)
	}

	args := s.Plan.Args(path)
	log.Debug("running", zap.String("binary", s.Plan.Binary), zap.Strings("args", args))

	var stream io.Writer
	streaming := out == "" && s.Markdown == nil && !HasPostprocess(p, s.Plan.Template)
	if streaming {
		stream = s.stdout()
	}

	raw, err := s.run(ctx, s.Plan.Binary, args, stream)
	if err != nil {
		return "", err
	}
	answer := Postprocess(p, s.Plan.Template, raw)

	switch {
	case out != "":
	case streaming:
		fmt.Fprintln(s.stdout())
	default:
		answer = StripEcho(answer, src.Input.User)
		printed := answer
		if s.Markdown != nil {
			printed = s.Markdown.Render(answer, s.Width)
		}
		fmt.Fprintln(s.stdout(), printed)
	}
	return answer, nil
}

func (s *Session) run(ctx context.Context, binary string, args []string, stream io.Writer) (string, error) {
	if s.Run == nil {
		return llama.Run(ctx, binary, args, stream)
	}
	return s.Run(ctx, binary, args, stream)
}

func (s *Session) copyText(text string) error {
	if s.CopyText == nil {
		return clipboard.WriteAll(text)
	}
	return s.CopyText(text)
}

func (s *Session) stdout() io.Writer {
	if s.Stdout == nil {
		return os.Stdout
	}
	return s.Stdout
}

func (s *Session) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
