package styles

import "github.com/charmbracelet/lipgloss/v2"

// Lipgloss styles for the method browser.
var (
	ListTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color(VSCodeHeading)).MarginLeft(2)
	Selected   = lipgloss.NewStyle().Foreground(lipgloss.Color(VSCodeSelection)).Bold(true)
	Flags      = lipgloss.NewStyle().Foreground(lipgloss.Color(VSCodeKeyword))
	MethodName = lipgloss.NewStyle().Foreground(lipgloss.Color(VSCodeFunction))
	Signature  = lipgloss.NewStyle().Foreground(lipgloss.Color(VSCodeType))
	Dim        = lipgloss.NewStyle().Foreground(lipgloss.Color(VSCodeLineNumber))
	ErrorText  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F44747"))
	MenuBar    = lipgloss.NewStyle().
			Background(lipgloss.Color(VSCodeMenuBg)).
			Foreground(lipgloss.Color(VSCodeForeground)).
			Padding(0, 1)
)
