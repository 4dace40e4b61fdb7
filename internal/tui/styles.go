package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/choredeck/internal/chores"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")

	// Bucket colors
	colorDeepOrange = lipgloss.Color("#FF5722")
	colorAmber      = lipgloss.Color("#FFC107")
	colorGreen      = lipgloss.Color("#21BA45")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

// Chore buttons, one per bucket.
var bucketStyles = map[chores.Bucket]lipgloss.Style{
	chores.Overdue:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(colorDeepOrange).Padding(0, 1),
	chores.Within24h:  lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(colorAmber).Padding(0, 1),
	chores.Within48h:  lipgloss.NewStyle().Foreground(colorFg).Background(colorSubtle).Padding(0, 1),
	chores.WithinWeek: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(colorGreen).Padding(0, 1),
	chores.Future:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(colorGreen).Padding(0, 1),
}

func bucketStyle(b chores.Bucket) lipgloss.Style {
	if s, ok := bucketStyles[b]; ok {
		return s
	}
	return normalItemStyle
}
