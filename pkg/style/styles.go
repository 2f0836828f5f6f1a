package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/mozart/pkg/autoload"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)

	NamespaceStyle = lipgloss.NewStyle().
			Foreground(NamespaceColor)

	ClassmapStyle = lipgloss.NewStyle().
			Foreground(ClassmapColor)
)

var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	SkippedIndicator = MutedStyle.Render("○")
)

// StandardStyle returns the style used for symbols of an autoload standard.
func StandardStyle(standard string) lipgloss.Style {
	switch standard {
	case autoload.StandardPSR4, autoload.StandardPSR0:
		return NamespaceStyle
	case autoload.StandardClassmap, autoload.StandardFiles:
		return ClassmapStyle
	default:
		return MutedStyle
	}
}

func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
