// Package theme holds the winsdk terminal palette.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette, Windows blues with amber accents
var (
	Primary   = lipgloss.Color("#0078d4")
	Secondary = lipgloss.Color("#50e6ff")
	Accent    = lipgloss.Color("#ffb900")

	Success = lipgloss.Color("#16c60c")
	Error   = lipgloss.Color("#e74856")
	Warning = lipgloss.Color("#f9f1a5")
	Info    = lipgloss.Color("#3a96dd")

	TextFaint = lipgloss.Color("#8e8e93")
	Border    = Primary
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func boxed(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
}

var (
	Title    = fg(Primary).Bold(true).Underline(true)
	Subtitle = fg(Secondary).Bold(true)
	Banner   = fg(Primary).Bold(true)

	SuccessStyle = fg(Success).Bold(true)
	ErrorStyle   = fg(Error).Bold(true)
	WarningStyle = fg(Warning).Bold(true)
	InfoStyle    = fg(Info)

	Faint = fg(TextFaint).Faint(true)
	Code  = fg(Accent)

	// CurrentStyle marks the selected SDK
	CurrentStyle = fg(Accent).Bold(true)
	LabelStyle   = fg(Secondary).Bold(true)
	PathStyle    = fg(Info)

	Box        = boxed(Border).Padding(1, 2)
	SuccessBox = boxed(Success).Padding(1, 3).Align(lipgloss.Center)

	TableStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(Border)
	TableHeader = fg(Primary).Bold(true).Padding(0, 1)
	TableCell   = lipgloss.NewStyle().Padding(0, 1)
)

func SuccessMessage(msg string) string { return SuccessStyle.Render("✓ " + msg) }

func ErrorMessage(msg string) string { return ErrorStyle.Render("✗ " + msg) }

func WarningMessage(msg string) string { return WarningStyle.Render("⚠ " + msg) }

func InfoMessage(msg string) string { return InfoStyle.Render("ℹ " + msg) }

// HighlightText renders text in the accent color
func HighlightText(text string) string { return Code.Render(text) }
