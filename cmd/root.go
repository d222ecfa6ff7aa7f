/*
Copyright © 2025 Greg Griffin <greg.griffin2@gmail.com>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gregriff/ask/config"
	"github.com/gregriff/ask/internal/prompt"
)

// options holds the flag values of one invocation.
type options struct {
	configFile string

	preset       string
	model        string
	template     string
	temperature  float64
	context      string
	file         string
	output       string
	rounds       int
	ignorePrefix string
	extra        string
	passthrough  string

	noLimit,
	keep,
	quiet,
	verbose,
	render,
	copy,
	list bool
}

// newRootCmd builds the command with its own viper instance and flag set.
func newRootCmd() *cobra.Command {
	var (
		opts   options
		v      = viper.New()
		logger *zap.Logger
	)

	cmd := &cobra.Command{
		Use:   "ask [flags] [prompt...]",
		Short: "Ask a local llama.cpp model",
		Long: `ask wraps a prompt in a preset and the chat template of the model, runs
llama-cli on it and prints or saves the answer.

The prompt is taken from the arguments, from prompt files (-f) or from
standard input. Models are looked up as *<name>*.gguf in the models directory.

Invoked under a name containing "explain", the default preset is explain_this.
`,
		Example: `  git diff --staged | ask -p gitcommit
  ask -p explain_this -C "a bash script" < deploy.sh
  ask -f 'prompts/*.txt' -o 'answers/{f}.{m}.{n}.md' -n 3
  ask -p code_generation -f main.go 1234`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitConfig(v, opts.configFile); err != nil {
				return err
			}
			var err error
			if logger, err = newLogger(opts.verbose, opts.quiet); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return printList(cmd.OutOrStdout())
			}
			return runAsk(cmd, args, &opts, config.Load(v), logger)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.preset, "preset", "p", "", fmt.Sprintf("preset to use, one of %v", prompt.Names()))
	f.StringVarP(&opts.model, "model", "m", "", "model name (substring of a .gguf file in the models directory) or path")
	f.StringVarP(&opts.template, "template", "T", "", "chat template to use instead of the one matched by model name")
	f.StringP("ctx-size", "c", "", "context size, 0 uses the model's (default from config)")
	f.Float64VarP(&opts.temperature, "temperature", "t", 0, "temperature (default 0 for a single round over files, 0.3 otherwise)")
	f.StringVarP(&opts.context, "context", "C", "", "context for the prompt; cursor byte offset for code_generation")
	f.StringVarP(&opts.file, "file", "f", "", "prompt file glob, or the code file for code_generation")
	f.StringVarP(&opts.output, "output", "o", "", "output file, {n}, {m} and {f} are replaced by round, model and prompt file")
	f.IntVarP(&opts.rounds, "rounds", "n", 1, "number of generation rounds")
	f.StringVarP(&opts.ignorePrefix, "ignore-prefix", "x", prompt.DefaultIgnorePrefix, "prefix of prompt file lines to leave out")
	f.StringVarP(&opts.extra, "extra", "X", "", "text the answer starts with")
	f.StringVarP(&opts.passthrough, "passthrough", "P", "", "flags passed to llama-cli as is")
	f.BoolVarP(&opts.noLimit, "no-limit", "g", false, "skip the generation limit and offload all layers to the GPU")
	f.BoolVarP(&opts.keep, "keep", "k", false, "keep the temporary prompt file")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "no verbose prompt, warnings and errors only")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log prompts and commands")
	f.BoolVar(&opts.render, "render", false, "render the answer as markdown")
	f.BoolVar(&opts.copy, "copy", false, "copy the answer to the clipboard")
	f.BoolVar(&opts.list, "list", false, "list presets, templates, model name rules and quirks")
	f.StringVar(&opts.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/ask/ask.toml)")

	_ = v.BindPFlag("ctx-size", f.Lookup("ctx-size"))
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	return cmd
}

// newLogger writes human readable logs to stderr.
func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	switch {
	case verbose:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case quiet:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

// Execute runs the root command and exits 1 on any error.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
