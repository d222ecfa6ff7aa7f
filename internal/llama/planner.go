package llama

import (
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/gregriff/ask/internal/templates"
)

// DefaultBinary is the executable looked up on PATH when none is configured.
const DefaultBinary = "llama-cli"

// Plan is everything needed to run the binary for one prompt source.
type Plan struct {
	Binary   string
	Model    string
	Template *templates.Template
	FIM      bool
	// Flags are the generic flags, before quirks and the model and prompt arguments.
	Flags  []string
	Quirks QuirkSettings
}

// Args returns the argument vector for one run reading its prompt from promptFile.
func (p *Plan) Args(promptFile string) []string {
	args := append(slices.Clone(p.Flags), "-m", p.Model)
	args = ApplyQuirks(args, p.Model, p.Template, p.Quirks)
	return append(args, "-f", promptFile)
}

// Planner turns settings and a model name into a Plan.
type Planner struct {
	Settings Settings
	Finder   *ModelFinder
	// Pin is the chat template chosen explicitly by the user, if any.
	Pin *templates.Template
	Log *zap.Logger
}

// NewPlanner creates a planner looking for models in s.ModelsDir.
func NewPlanner(s Settings, pin *templates.Template, log *zap.Logger) *Planner {
	return &Planner{
		Settings: s,
		Finder:   &ModelFinder{Dir: s.ModelsDir, Log: log},
		Pin:      pin,
		Log:      log,
	}
}

// Plan resolves the model file and the template and assembles the generic flags.
func (p *Planner) Plan(modelName string, fim bool) (*Plan, error) {
	if err := p.Settings.Validate(); err != nil {
		return nil, err
	}
	model, err := p.Finder.Resolve(modelName)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Binary:   p.Settings.Binary,
		Model:    model,
		Template: p.template(model, fim),
		FIM:      fim,
		Flags:    BaseFlags(p.Settings, fim),
		Quirks:   p.Settings.Quirks,
	}, nil
}

// Override switches plan to the model named by hint. A hint that cannot be
// resolved is reported and the plan keeps its current model.
func (p *Planner) Override(plan *Plan, hint string) {
	path, err := p.Finder.ResolveOverride(hint)
	if err != nil {
		p.logger().Error("model override ignored", zap.Error(err), zap.String("model", plan.Model))
		return
	}
	if path == plan.Model {
		return
	}
	p.logger().Debug("model overridden", zap.String("hint", hint), zap.String("model", path))
	plan.Model = path
	plan.Template = p.template(path, plan.FIM)
}

func (p *Planner) template(model string, fim bool) *templates.Template {
	if p.Pin != nil && !fim {
		return p.Pin
	}
	t, matched := templates.Resolve(model, fim)
	if !matched {
		p.logger().Warn("no template found for model, using fallback",
			zap.String("model", model),
			zap.String("template", t.Name),
		)
	}
	return t
}

func (p *Planner) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// FindBinary returns the configured binary, else llama-cli from PATH, else
// the llama.cpp checkout under ~/projects.
func FindBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if path, err := exec.LookPath(DefaultBinary); err == nil {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "projects", "llama.gguf", DefaultBinary)
}
