// Package templates renders prompts into the exact text a model family expects,
// with its delimiter tokens and turn structure.
package templates

import (
	"errors"
	"strings"

	"github.com/gregriff/ask/internal/prompt"
)

// Template is a chat or fill-in-the-middle format. Not to be modified.
type Template struct {
	Name string
	// FIM templates render a code prefix and suffix instead of a chat turn.
	FIM bool

	chat func(body, system string) string
	fim  func(src *prompt.CodeSource) string
	post func(string) string
}

var (
	errNeedsCode = errors.New("fill-in-the-middle template needs a code source")
	errNeedsChat = errors.New("chat template cannot render a code source")
)

// Render formats p with the template.
func (t *Template) Render(p prompt.Prompt) (string, error) {
	if t.FIM {
		if p.Code == nil {
			return "", errNeedsCode
		}
		return t.fim(p.Code), nil
	}
	if p.Code != nil {
		return "", errNeedsChat
	}
	return t.chat(p.Body, p.System), nil
}

// Postprocess cleans raw model output. Templates without a cleanup step return out unchanged.
func (t *Template) Postprocess(out string) string {
	if t.post == nil {
		return out
	}
	return t.post(out)
}

// HasPostprocess reports whether the template declares a cleanup step.
func (t *Template) HasPostprocess() bool {
	return t.post != nil
}

const qwenIdentity = "You are Qwen, created by Alibaba Cloud. You are a helpful assistant."

// ChatML is the fallback chat template.
var ChatML = &Template{Name: "chatml", chat: chatML}

// QwenFIM is the fallback fill-in-the-middle template.
var QwenFIM = &Template{
	Name: "qwen-fim",
	FIM:  true,
	fim: func(src *prompt.CodeSource) string {
		return "<|fim_prefix|>" + src.Prefix + "<|fim_suffix|>" + src.Suffix + "<|fim_middle|>\n"
	},
	post: TruncateAtEndOfText,
}

// CodeGeeX4 embeds the path and language ahead of suffix-first FIM markers.
var CodeGeeX4 = &Template{
	Name: "codegeex4",
	FIM:  true,
	fim: func(src *prompt.CodeSource) string {
		return "###PATH:" + src.Path + "\n###LANGUAGE:" + src.Language + "\n###MODE:LINE\n" +
			"<|code_suffix|>" + src.Suffix + "<|code_prefix|>" + src.Prefix + "<|code_middle|>\n"
	},
	post: AfterLastMarker(codeMiddleArtifact),
}

// Instruction is an Alpaca style template without a system turn.
var Instruction = &Template{
	Name: "instruction",
	chat: func(body, _ string) string {
		return "\n\n### Instruction:\n\n" + body + "\n\n### Response:\n\n"
	},
}

var (
	Qwen = &Template{
		Name: "qwen",
		chat: func(body, _ string) string { return chatML(body, qwenIdentity) },
	}
	Llama2 = &Template{
		Name: "llama",
		chat: func(body, system string) string {
			if system == "" {
				return "<s>[INST] " + body + " [/INST]"
			}
			return "<s>[INST] <<SYS>>\n" + system + "\n<</SYS>>\n\n" + body + " [/INST]"
		},
	}
	Llama3 = &Template{
		Name: "llama3",
		chat: func(body, system string) string {
			var b strings.Builder
			b.WriteString("<|begin_of_text|>")
			if system != "" {
				b.WriteString("<|start_header_id|>system<|end_header_id|>\n" + system + "<|eot_id|>")
			}
			b.WriteString("<|start_header_id|>user<|end_header_id|>\n" + body + "<|eot_id|><|start_header_id|>assistant<|end_header_id|>\n")
			return b.String()
		},
	}
	Phi3 = &Template{
		Name: "phi3",
		chat: func(body, _ string) string { return "<|user|>\n" + body + "<|end|>\n<|assistant|>\n" },
	}
	Zephyr = &Template{
		Name: "zephyr",
		chat: func(body, _ string) string { return "<|user|>\n" + body + "</s>\n<|assistant|>\n" },
	}
	Gemma2 = &Template{
		Name: "gemma2",
		chat: func(body, _ string) string {
			return "<start_of_turn>user\n" + body + "<end_of_turn>\n<start_of_turn>model\n"
		},
	}
	MiniCPM = &Template{
		Name: "minicpm",
		chat: func(body, _ string) string { return "<用户>" + body + "\n<AI>" },
	}
	DeepSeekV2Lite = &Template{
		Name: "deepseek-v2-lite",
		chat: func(body, system string) string {
			if system == "" {
				return "User: " + body + "\n\nAssistant: "
			}
			return system + "\n\nUser: " + body + "\n\nAssistant: "
		},
	}
	DeepSeekV25 = &Template{
		Name: "deepseek-v2.5",
		chat: func(body, system string) string {
			return "<｜begin▁of▁sentence｜>" + system + "<｜User｜>" + body + "<｜Assistant｜>"
		},
	}
	// the published chat template would put the system message inside [INST],
	// but the plain form is what works with llama.cpp.
	MistralLarge = &Template{
		Name: "mistral-large",
		chat: func(body, _ string) string { return "<s>[INST] " + body + "[/INST] " },
	}
	WizardLM = &Template{
		Name: "wizardlm",
		chat: func(body, _ string) string { return "USER: " + body + "\nASSISTANT: " },
	}
	CommandRPlus = &Template{
		Name: "command-r-plus",
		chat: func(body, system string) string {
			var b strings.Builder
			if system != "" {
				b.WriteString("<|START_OF_TURN_TOKEN|><|SYSTEM_TOKEN|>" + system + "<|END_OF_TURN_TOKEN|>")
			}
			b.WriteString("<|START_OF_TURN_TOKEN|><|USER_TOKEN|>" + body + "<|END_OF_TURN_TOKEN|>")
			b.WriteString("<|START_OF_TURN_TOKEN|><|CHATBOT_TOKEN|><|END_OF_TURN_TOKEN|><|START_OF_TURN_TOKEN|><|CHATBOT_TOKEN|>")
			return b.String()
		},
	}
)

func chatML(body, system string) string {
	var b strings.Builder
	if system != "" {
		b.WriteString("<|im_start|>system\n" + system + "<|im_end|>\n")
	}
	b.WriteString("<|im_start|>user\n" + body + "<|im_end|>\n<|im_start|>assistant\n")
	return b.String()
}
