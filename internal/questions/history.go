package questions

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimeLayout is the timestamp format of history lines.
const TimeLayout = "2006-01-02 15:04:05"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// History is the append-only log of asked questions, one
// "<timestamp>\t<question>" line per entry.
type History struct {
	Path string
}

// Recent returns the question text of the last n entries, oldest first.
// A missing file has no entries.
func (h *History) Recent(n int) ([]string, error) {
	f, err := os.Open(h.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", h.Path, err)
	}

	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, line := range lines {
		if _, text, ok := strings.Cut(line, "\t"); ok {
			lines[i] = text
		}
	}
	return lines, nil
}

// Append records question at time t, creating the file and its directory
// when needed. Line breaks and tabs inside the question become spaces.
func (h *History) Append(question string, t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(h.Path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(h.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	question = lineBreaks.Replace(question)
	if _, err := fmt.Fprintf(f, "%s\t%s\n", t.Format(TimeLayout), question); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
