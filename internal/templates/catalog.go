package templates

import (
	"path/filepath"
	"strings"
)

// Rule maps a model name substring to a template.
type Rule struct {
	Substring string
	Template  *Template
}

// ChatRules are evaluated in order; the first substring found in the model
// name wins.
var ChatRules = []Rule{
	{"command-r-plus", CommandRPlus},
	{"wizardlm", WizardLM},
	{"phi-3-", Phi3},
	{"zephyr", Zephyr},
	{"llama-2", Llama2},
	{"mixtral-8x7b-instruct", Llama2},
	{"dolphin", ChatML},
	{"orange", ChatML},
	{"llama-3", Llama3},
	{"minicpm", MiniCPM},
	{"DeepSeek-V2-Lite", DeepSeekV2Lite},
	{"DeepSeek-V2.5", DeepSeekV25},
	{"qwen2", Qwen},
	{"tinyllama_v1.1", ChatML},
	{"gemma-2", Gemma2},
	{"Mistral-Large-Instruct", MistralLarge},
}

// FIMRules are the fill-in-the-middle counterpart of ChatRules.
var FIMRules = []Rule{
	{"Qwen2", QwenFIM},
	{"codegeex4", CodeGeeX4},
}

// All lists every template, chat templates first.
var All = []*Template{
	ChatML, Qwen, Instruction, Llama2, Llama3, Phi3, Zephyr, Gemma2, MiniCPM,
	DeepSeekV2Lite, DeepSeekV25, MistralLarge, WizardLM, CommandRPlus,
	QwenFIM, CodeGeeX4,
}

// Resolve picks the template for a model file. Only the base name is
// matched, case-insensitively. When no rule matches it returns the fallback
// (ChatML, or QwenFIM for fill-in-the-middle) and matched is false.
func Resolve(model string, fim bool) (t *Template, matched bool) {
	rules, fallback := ChatRules, ChatML
	if fim {
		rules, fallback = FIMRules, QwenFIM
	}
	if t := match(rules, filepath.Base(model)); t != nil {
		return t, true
	}
	return fallback, false
}

func match(rules []Rule, name string) *Template {
	name = strings.ToLower(name)
	for _, r := range rules {
		if strings.Contains(name, strings.ToLower(r.Substring)) {
			return r.Template
		}
	}
	return nil
}

// Lookup finds a chat template by name for an explicit override. Unknown
// names fall back to Instruction and found is false.
func Lookup(name string) (t *Template, found bool) {
	for _, t := range All {
		if !t.FIM && t.Name == name {
			return t, true
		}
	}
	return Instruction, false
}
