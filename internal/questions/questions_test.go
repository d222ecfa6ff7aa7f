package questions

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogINI = `[DEFAULT]
ignored = yes

[bugs]
question = Are there any bugs in this code?
model = Qwen2.5-Coder

[tldr]
question: Summarize this # in one line

[again]
question = 1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testCatalog(t *testing.T) Catalog {
	t.Helper()
	c, err := LoadCatalog(writeFile(t, "presets.ini", catalogINI))
	require.NoError(t, err)
	return c
}

func TestLoadCatalog(t *testing.T) {
	c := testCatalog(t)
	require.Len(t, c, 3)
	assert.Equal(t, Question{Name: "bugs", Text: "Are there any bugs in this code?", Model: "Qwen2.5-Coder"}, c[0])
	assert.Equal(t, Question{Name: "tldr", Text: "Summarize this # in one line"}, c[1])
	assert.Equal(t, "again", c[2].Name)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	c, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestLoadCatalogRequiresQuestion(t *testing.T) {
	_, err := LoadCatalog(writeFile(t, "presets.ini", "[broken]\nmodel = x\n"))
	var missing *MissingQuestionError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "broken", missing.Section)
}

func TestHistory(t *testing.T) {
	h := &History{Path: filepath.Join(t.TempDir(), "cache", "ask", "history.txt")}

	recent, err := h.Recent(RecentCount)
	require.NoError(t, err)
	assert.Empty(t, recent)

	at := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)
	for _, q := range []string{"one", "two", "three", "four\nlines"} {
		require.NoError(t, h.Append(q, at))
	}

	raw, err := os.ReadFile(h.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "2024-05-01 13:04:05\tone\n"))

	recent, err = h.Recent(RecentCount)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three", "four lines"}, recent)
}

func TestResolve(t *testing.T) {
	c := testCatalog(t)
	recent := []string{"old question", "2", "newest question"}

	tests := []struct {
		name     string
		raw      string
		question string
		model    string
	}{
		{"number selects question and model", "1", "Are there any bugs in this code?", "Qwen2.5-Coder"},
		{"number without model", "2", "Summarize this # in one line", ""},
		{"number out of range is free text", "9", "9", ""},
		{"zero is free text", "0", "0", ""},
		{"letter selects history", "a", "old question", ""},
		{"letter is trimmed", " c ", "newest question", ""},
		{"numeric history entry is looked up once", "b", "Summarize this # in one line", ""},
		{"catalog question that is a number is looked up once", "3", "Are there any bugs in this code?", ""},
		{"free text", "What does this do?", "What does this do?", ""},
		{"padded number is free text", " 1", " 1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, m := Resolve(c, recent, tt.raw)
			assert.Equal(t, tt.question, q)
			assert.Equal(t, tt.model, m)
		})
	}
}

func TestResolveLetterBeyondHistory(t *testing.T) {
	q, _ := Resolve(nil, []string{"only"}, "b")
	assert.Equal(t, "b", q)
}

func TestRenderMenu(t *testing.T) {
	c := Catalog{{Name: "long", Text: strings.Repeat("x", 50)}}
	menu := RenderMenu(c, []string{"recent one"})

	assert.Contains(t, menu, "long")
	assert.Contains(t, menu, strings.Repeat("x", 30))
	assert.NotContains(t, menu, strings.Repeat("x", 31))
	assert.Contains(t, menu, "a.")
	assert.Contains(t, menu, "recent one")
}

type scriptedPrompter struct {
	answer string
	menu   string
}

func (p *scriptedPrompter) Prompt(menu, _ string) (string, error) {
	p.menu = menu
	return p.answer, nil
}

func TestResolverPickRecordsHistory(t *testing.T) {
	h := &History{Path: filepath.Join(t.TempDir(), "history.txt")}
	require.NoError(t, h.Append("earlier", time.Now()))
	p := &scriptedPrompter{answer: "1"}
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	r := &Resolver{Catalog: testCatalog(t), History: h, Prompter: p, Now: func() time.Time { return at }}
	q, m, err := r.Pick()
	require.NoError(t, err)
	assert.Equal(t, "Are there any bugs in this code?", q)
	assert.Equal(t, "Qwen2.5-Coder", m)
	assert.Contains(t, p.menu, "earlier")

	recent, err := h.Recent(1)
	require.NoError(t, err)
	assert.Equal(t, []string{q}, recent)

	raw, err := os.ReadFile(h.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "2025-01-02 03:04:05\t"+q)
}

func TestLinePrompter(t *testing.T) {
	var out strings.Builder
	p := &LinePrompter{In: strings.NewReader("a custom question\r\nignored\n"), Out: &out}

	got, err := p.Prompt("1. menu\n", Label)
	require.NoError(t, err)
	assert.Equal(t, "a custom question", got)
	assert.Equal(t, "1. menu\n"+Label, out.String())

	got, err = (&LinePrompter{In: strings.NewReader("no newline"), Out: &out}).Prompt("", Label)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)

	_, err = (&LinePrompter{In: strings.NewReader(""), Out: &out}).Prompt("", Label)
	assert.ErrorIs(t, err, ErrCancelled)
}

func typeKeys(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestPickerModel(t *testing.T) {
	var m tea.Model = newPickerModel("1. bugs\n", Label)
	m = typeKeys(m, "42")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	pm := m.(pickerModel)
	assert.True(t, pm.done)
	assert.Equal(t, "42", pm.input.Value())
	assert.Equal(t, "1. bugs\n"+Label+"42\n", pm.View())
}

func TestPickerModelCancel(t *testing.T) {
	var m tea.Model = newPickerModel("", Label)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.(pickerModel).cancelled)
}
