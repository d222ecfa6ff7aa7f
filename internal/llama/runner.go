package llama

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ProcessError is a non-zero exit of the binary.
type ProcessError struct {
	Binary   string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with status %d", e.Binary, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Binary, e.ExitCode, msg)
}

// Run executes binary and waits for it. Standard output is copied to stream
// as it arrives when stream is not nil, and always returned in full. Invalid
// UTF-8 is replaced.
func Run(ctx context.Context, binary string, args []string, stream io.Writer) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if stream != nil {
		cmd.Stdout = io.MultiWriter(&stdout, stream)
	}
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "", &ProcessError{Binary: binary, ExitCode: exitErr.ExitCode(), Stderr: strings.ToValidUTF8(stderr.String(), "�")}
	}
	if err != nil {
		return "", fmt.Errorf("running %s: %w", binary, err)
	}
	return strings.ToValidUTF8(stdout.String(), "�"), nil
}
