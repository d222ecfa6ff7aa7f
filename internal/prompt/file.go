package prompt

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	DefaultIgnorePrefix = "#!"
	DefaultSystemPrefix = "SYSTEM:"
)

// ReadPromptFile parses a structured prompt file. Lines starting with
// ignorePrefix are left out of the user text; those continuing with
// systemPrefix are collected into the system message.
func ReadPromptFile(r io.Reader, ignorePrefix, systemPrefix string) (Input, error) {
	var user, system strings.Builder
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			switch {
			case !strings.HasPrefix(line, ignorePrefix):
				user.WriteString(line)
			case strings.HasPrefix(line, ignorePrefix+systemPrefix):
				system.WriteString(line[len(ignorePrefix)+len(systemPrefix):])
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Input{}, err
		}
	}
	return Input{
		User:   user.String(),
		System: strings.TrimSpace(system.String()),
	}, nil
}

// LoadPromptFile opens and parses a structured prompt file.
func LoadPromptFile(path, ignorePrefix string) (Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return Input{}, err
	}
	defer f.Close()
	if ignorePrefix == "" {
		ignorePrefix = DefaultIgnorePrefix
	}
	return ReadPromptFile(f, ignorePrefix, DefaultSystemPrefix)
}
