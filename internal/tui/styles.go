package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/quartet/internal/agents"
)

// Adaptive palette: the first value is used on light terminals.
var (
	colorText    = lipgloss.AdaptiveColor{Light: "#1f2335", Dark: "#c0caf5"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6172b0", Dark: "#565f89"}
	colorSurface = lipgloss.AdaptiveColor{Light: "#d5d6db", Dark: "#292e42"}
	colorOK      = lipgloss.AdaptiveColor{Light: "#387068", Dark: "#73daca"}
	colorBusy    = lipgloss.AdaptiveColor{Light: "#8f5e15", Dark: "#e0af68"}
	colorFail    = lipgloss.AdaptiveColor{Light: "#8c4351", Dark: "#f7768e"}
)

// Each role keeps one accent colour across the stage list, the progress
// pips and the result panel.
var roleAccents = map[agents.Role]lipgloss.AdaptiveColor{
	agents.RolePlanner:  {Light: "#2959aa", Dark: "#7aa2f7"},
	agents.RoleCoder:    {Light: "#33635c", Dark: "#9ece6a"},
	agents.RoleReviewer: {Light: "#7847bd", Dark: "#bb9af7"},
	agents.RoleCoach:    {Light: "#965027", Dark: "#ff9e64"},
}

func accentFor(role agents.Role) lipgloss.TerminalColor {
	if c, ok := roleAccents[role]; ok {
		return c
	}
	return colorText
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	badgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true)

	headerRule = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorSurface)
)

var (
	// stageRowStyle draws a thick bar in the role's accent left of each row.
	stageRowStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			PaddingLeft(1)
)

const stageNameWidth = 14

var (
	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(colorSurface).
			Padding(0, 1)

	panelFocusedStyle = panelStyle.
				BorderForeground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorFail).
			Bold(true)
)

// statusColor maps a header status to its badge background.
func statusColor(status string) lipgloss.TerminalColor {
	switch status {
	case "Running":
		return colorBusy
	case "Completed":
		return colorOK
	case "Failed", "Canceled":
		return colorFail
	default:
		return colorSurface
	}
}
