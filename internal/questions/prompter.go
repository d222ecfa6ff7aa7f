package questions

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gregriff/ask/internal/styles"
)

// ErrCancelled is returned when the user leaves the menu without answering.
var ErrCancelled = errors.New("question selection cancelled")

// LinePrompter prints the menu to Out and reads one line from In.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *LinePrompter) Prompt(menu, label string) (string, error) {
	if _, err := fmt.Fprint(p.Out, menu+label); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			return "", ErrCancelled
		}
	} else if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// TeaPrompter runs a one-line bubbletea input below the menu. It reads keys
// from the controlling terminal, so piped standard input stays untouched,
// and draws on stderr.
type TeaPrompter struct {
	// Options are applied after the defaults.
	Options []tea.ProgramOption
}

func (p *TeaPrompter) Prompt(menu, label string) (string, error) {
	opts := append([]tea.ProgramOption{tea.WithInputTTY(), tea.WithOutput(os.Stderr)}, p.Options...)
	final, err := tea.NewProgram(newPickerModel(menu, label), opts...).Run()
	if err != nil {
		return "", fmt.Errorf("running question menu: %w", err)
	}
	m := final.(pickerModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.input.Value(), nil
}

type pickerModel struct {
	menu  string
	input textinput.Model

	done,
	cancelled bool
}

func newPickerModel(menu, label string) pickerModel {
	ti := textinput.New()
	ti.Prompt = label
	ti.PromptStyle = styles.MenuStyles.Prompt
	ti.Cursor.Style = styles.MenuStyles.Cursor
	ti.Focus()
	return pickerModel{menu: menu, input: ti}
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			m.input.Blur()
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.cancelled = true
			m.input.Blur()
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.done || m.cancelled {
		return m.menu + m.input.Prompt + m.input.Value() + "\n"
	}
	return m.menu + m.input.View()
}
