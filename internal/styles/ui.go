// Package styles contains lipgloss style constants for the text printed by the
// question menu and the --list listing.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("86")      // cream
	ColorSecondary = lipgloss.Color("#CCD4FF") // light blue
	ColorFaint     = lipgloss.Color("#a9a9a9")
)

// MenuStylesStruct defines styles for the interactive question menu.
type MenuStylesStruct struct {
	Index,
	Name,
	Preview,
	HistoryKey,
	History,
	Prompt,
	Cursor lipgloss.Style
}

var MenuStyles = MenuStylesStruct{
	Index: lipgloss.NewStyle(),
	Name:  lipgloss.NewStyle().Bold(true),
	Preview: lipgloss.NewStyle().
		Foreground(ColorSecondary),
	HistoryKey: lipgloss.NewStyle().
		Foreground(ColorPrimary),
	History: lipgloss.NewStyle().
		Foreground(ColorFaint),
	Prompt: lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true),
	Cursor: lipgloss.NewStyle().
		Foreground(ColorPrimary),
}

// ListStylesStruct defines styles for the catalog listing.
type ListStylesStruct struct {
	Heading,
	Name,
	Detail lipgloss.Style
}

var ListStyles = ListStylesStruct{
	Heading: lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, H_PADDING),
	Name: lipgloss.NewStyle().
		Bold(true),
	Detail: lipgloss.NewStyle().
		Foreground(ColorFaint),
}
