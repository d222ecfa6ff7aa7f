package questions

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"

	"github.com/gregriff/ask/internal/styles"
)

const (
	// RecentCount is the number of history entries offered in the menu.
	RecentCount = 3

	// Label is shown below the menu.
	Label = "Choose a preset (or type a custom question): "
)

// Prompter shows the menu and returns the raw answer line.
type Prompter interface {
	Prompt(menu, label string) (string, error)
}

// Resolver asks the user for a question: a catalog number, a history letter
// or free text. It satisfies prompt.QuestionPicker.
type Resolver struct {
	Catalog  Catalog
	History  *History
	Prompter Prompter
	Now      func() time.Time
	Log      *zap.Logger
}

// Pick shows the menu, resolves the answer and records it in the history.
func (r *Resolver) Pick() (question, model string, err error) {
	var recent []string
	if r.History != nil {
		if recent, err = r.History.Recent(RecentCount); err != nil {
			return "", "", fmt.Errorf("reading question history: %w", err)
		}
	}

	raw, err := r.Prompter.Prompt(RenderMenu(r.Catalog, recent), Label)
	if err != nil {
		return "", "", err
	}
	question, model = Resolve(r.Catalog, recent, raw)
	r.logger().Debug("question picked", zap.String("question", question), zap.String("model", model))

	if r.History != nil {
		if err := r.History.Append(question, r.now()); err != nil {
			r.logger().Warn("could not record question in history", zap.String("path", r.History.Path), zap.Error(err))
		}
	}
	return question, model, nil
}

// Resolve interprets an answer. A number selects a catalog question and its
// model, a letter selects a recent entry ("a" being the oldest shown),
// anything else is the question itself. A resolved question that is itself a
// catalog number is looked up once more, without taking the model.
func Resolve(c Catalog, recent []string, raw string) (question, model string) {
	if q, ok := c.Choice(choiceNumber(raw)); ok {
		question, model = q.Text, q.Model
	} else if i := letterIndex(strings.TrimSpace(raw)); i >= 0 && i < len(recent) {
		question = recent[i]
	} else {
		question = raw
	}

	if q, ok := c.Choice(choiceNumber(question)); ok {
		question = q.Text
	}
	return question, model
}

// choiceNumber parses an all-digit string, returning 0 for anything else.
func choiceNumber(s string) int {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func letterIndex(s string) int {
	if len(s) != 1 || s[0] < 'a' || s[0] >= 'a'+RecentCount {
		return -1
	}
	return int(s[0] - 'a')
}

// RenderMenu lists the catalog with bold names and a short preview of each
// question, followed by the recent history entries.
func RenderMenu(c Catalog, recent []string) string {
	s := styles.MenuStyles
	var b strings.Builder
	for i, q := range c {
		fmt.Fprintf(&b, "%s %s: %s\n",
			s.Index.Render(strconv.Itoa(i+1)+"."),
			s.Name.Render(q.Name),
			s.Preview.Render(truncate.String(q.Text, styles.PREVIEW_WIDTH)),
		)
	}
	for i, q := range recent {
		fmt.Fprintf(&b, "%s %s\n", s.HistoryKey.Render(string(rune('a'+i))+"."), s.History.Render(q))
	}
	return b.String()
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Resolver) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
