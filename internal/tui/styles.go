package tui

import "github.com/charmbracelet/lipgloss"

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	labelStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	linkStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Underline(true)

	heroAccentColor        = lipgloss.Color("#2a9d8f")
	heroEmberColor         = lipgloss.Color("#0b2421")
	heroTextColor          = lipgloss.Color("#e9f5db")
	heroSecondaryTextColor = lipgloss.Color("#8ecae6")

	heroTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	fieldStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	fieldFocusedStyle  = fieldStyle.Copy().BorderForeground(heroAccentColor)
	buttonStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 2)
	buttonFocusedStyle = buttonStyle.Copy().Background(heroAccentColor).Foreground(heroTextColor)
	buttonBusyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("244")).Padding(0, 2)
	resultBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Padding(0, 1)
	errorBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("9")).Padding(0, 1)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04100e"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"███████╗  ██████╗   ██╗   ██╗  ",
		"██╔════╝  ██╔══██╗  ██║   ██║  ",
		"█████╗    ██║  ██║  ██║   ██║  ",
		"██╔══╝    ██║  ██║  ██║   ██║  ",
		"███████╗  ██████╔╝  ╚██████╔╝  ",
		"╚══════╝  ╚═════╝    ╚═════╝   ",
	}
)
