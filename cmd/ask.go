/*
Copyright © 2025 Greg Griffin <greg.griffin2@gmail.com>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gregriff/ask/config"
	"github.com/gregriff/ask/internal/llama"
	"github.com/gregriff/ask/internal/prompt"
	"github.com/gregriff/ask/internal/questions"
	"github.com/gregriff/ask/internal/session"
	"github.com/gregriff/ask/internal/templates"
)

// invokedAs is the program name used to pick the default preset.
var invokedAs = func() string { return filepath.Base(os.Args[0]) }

const defaultWidth = 80

func runAsk(cmd *cobra.Command, args []string, opts *options, cfg config.Config, log *zap.Logger) error {
	if opts.rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", opts.rounds)
	}
	preset, err := prompt.Lookup(presetName(opts.preset))
	if err != nil {
		return err
	}

	var pin *templates.Template
	if opts.template != "" {
		t, found := templates.Lookup(opts.template)
		if !found {
			log.Warn("unknown template, using fallback", zap.String("template", opts.template), zap.String("fallback", t.Name))
		}
		pin = t
	}

	sources, hasFreeText, err := collectSources(cmd, args, opts, preset)
	if err != nil {
		return err
	}

	var explicit *float64
	if cmd.Flags().Changed("temperature") {
		explicit = &opts.temperature
	}
	settings := llama.Settings{
		Binary:      llama.FindBinary(cfg.LlamaCppPath),
		ModelsDir:   cfg.ModelsPath,
		ContextSize: cfg.CtxSize,
		Temperature: llama.ChooseTemperature(explicit, opts.rounds, hasFreeText),
		NoLimit:     opts.noLimit,
		Quiet:       opts.quiet,
		Passthrough: llama.SplitPassthrough(opts.passthrough),
		GOOS:        runtime.GOOS,
		Quirks: llama.QuirkSettings{
			IMEndStopAlways: cfg.IMEndStopAlways,
			Disabled:        cfg.DisabledQuirks,
		},
	}
	planner := llama.NewPlanner(settings, pin, log)
	plan, err := planner.Plan(modelName(opts, preset, cfg), preset.FIM)
	if err != nil {
		return err
	}
	log.Debug("plan",
		zap.String("preset", preset.Name),
		zap.String("model", plan.Model),
		zap.String("template", plan.Template.Name),
		zap.Float64("temperature", settings.Temperature),
	)

	deps := prompt.Deps{Shell: os.Getenv("SHELL"), OS: runtime.GOOS}
	if preset.Interactive {
		resolver, release, err := newResolver(cfg, log)
		if err != nil {
			return err
		}
		defer release()
		deps.Picker = resolver
	}

	s := &session.Session{
		Planner:  planner,
		Plan:     plan,
		Strategy: preset.New(deps),
		Options: session.Options{
			Rounds:      opts.rounds,
			Output:      opts.output,
			Extra:       opts.extra,
			Keep:        opts.keep,
			PinnedModel: cmd.Flags().Changed("model"),
			Copy:        opts.copy,
		},
		Stdout: cmd.OutOrStdout(),
		Log:    log,
	}
	if opts.render {
		width := terminalWidth()
		if s.Markdown, err = session.NewMarkdownRenderer(cfg.Style, width); err != nil {
			return err
		}
		s.Width = width
	}
	return s.RunAll(cmd.Context(), sources)
}

func presetName(flag string) string {
	switch {
	case flag != "":
		return flag
	case strings.Contains(invokedAs(), "explain"):
		return "explain_this"
	}
	return "default"
}

// modelName is the -m value, else the configured model for the preset's role.
func modelName(opts *options, preset *prompt.Preset, cfg config.Config) string {
	if opts.model != "" {
		return opts.model
	}
	switch preset.Role {
	case prompt.RoleCodeInstruct:
		return cfg.CodeInstructModel
	case prompt.RoleCodeGeneration:
		return cfg.CodeGenerationModel
	}
	return cfg.DefaultModel
}

// collectSources returns the prompt sources and whether the run has free text.
func collectSources(cmd *cobra.Command, args []string, opts *options, preset *prompt.Preset) ([]session.Source, bool, error) {
	if preset.FIM {
		if opts.file == "" {
			return nil, false, fmt.Errorf("%s needs a code file (-f)", preset.Name)
		}
		raw := opts.context
		if raw == "" && len(args) > 0 {
			raw = args[0]
		}
		offset, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, false, fmt.Errorf("%s needs a cursor byte offset (-C or first argument), got %q", preset.Name, raw)
		}
		src, err := session.CodeSource(opts.file, offset)
		if err != nil {
			return nil, false, err
		}
		return []session.Source{src}, true, nil
	}

	if opts.file != "" {
		sources, err := session.FileSources(opts.file, opts.ignorePrefix, opts.context)
		return sources, false, err
	}

	if len(args) > 0 {
		return []session.Source{session.TextSource(strings.Join(args, " "), opts.context)}, true, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintln(cmd.ErrOrStderr(), "What is your question?")
	}
	text, err := io.ReadAll(in)
	if err != nil {
		return nil, false, fmt.Errorf("reading standard input: %w", err)
	}
	return []session.Source{session.TextSource(string(text), opts.context)}, true, nil
}

// newResolver also returns a release func for the terminal handle the
// prompter reads from.
func newResolver(cfg config.Config, log *zap.Logger) (*questions.Resolver, func() error, error) {
	catalog, err := questions.LoadCatalog(cfg.PresetsFile)
	if err != nil {
		return nil, nil, err
	}
	prompter, release := newPrompter(openTTY, term.IsTerminal(int(os.Stderr.Fd())))
	return &questions.Resolver{
		Catalog:  catalog,
		History:  &questions.History{Path: cfg.HistoryFile},
		Prompter: prompter,
		Log:      log,
	}, release, nil
}

// openTTY opens the controlling terminal.
var openTTY = func() (*os.File, error) { return os.Open("/dev/tty") }

// newPrompter uses the TUI when stderr is a terminal. Answers are read from
// the controlling terminal when there is one, since stdin may carry the data.
// The returned func closes that terminal.
func newPrompter(open func() (*os.File, error), stderrIsTerminal bool) (questions.Prompter, func() error) {
	nop := func() error { return nil }
	tty, err := open()
	if err != nil {
		tty = nil
	}
	if stderrIsTerminal && tty != nil {
		tty.Close()
		return &questions.TeaPrompter{}, nop
	}
	if tty == nil {
		return &questions.LinePrompter{In: os.Stdin, Out: os.Stderr}, nop
	}
	return &questions.LinePrompter{In: tty, Out: os.Stderr}, tty.Close
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
