package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// Header shows run progress as one pip per stage, a status badge, and the
// key help footer.
type Header struct {
	Stage  int // One-based; zero before the first stage starts
	Total  int
	Status string

	help  help.Model
	keys  KeyMap
	width int
}

// NewHeader creates a header that documents keys in its footer.
func NewHeader(keys KeyMap) Header {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(colorText)
	h.Styles.ShortDesc = mutedStyle
	h.Styles.ShortSeparator = mutedStyle
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = mutedStyle
	h.Styles.FullSeparator = mutedStyle

	return Header{
		Status: "Pending",
		help:   h,
		keys:   keys,
	}
}

// SetStage sets the current stage and the stage count.
func (h *Header) SetStage(current, total int) {
	h.Stage = current
	h.Total = total
}

// SetStatus sets the status text.
func (h *Header) SetStatus(status string) {
	h.Status = status
}

// SetWidth sets the component width.
func (h *Header) SetWidth(w int) {
	h.width = w
	h.help.Width = w
}

// ToggleHelp switches the footer between the short and full key lists.
func (h *Header) ToggleHelp() {
	h.help.ShowAll = !h.help.ShowAll
}

// View renders the header for the given stage states.
func (h Header) View(stages []stageState) string {
	progress := mutedStyle.Render("waiting")
	if h.Stage > 0 {
		progress = mutedStyle.Render(fmt.Sprintf("stage %d of %d", h.Stage, h.Total))
	}
	left := strings.Join([]string{titleStyle.Render("quartet"), renderPips(stages), progress}, "  ")

	status := h.Status
	if status == "" {
		status = "Pending"
	}
	badge := badgeStyle.Background(statusColor(status)).Render(status)

	gap := h.width - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 2 {
		gap = 2
	}
	top := left + strings.Repeat(" ", gap) + badge

	return headerRule.Render(top + "\n" + h.help.View(h.keys))
}

// renderPips draws one marker per stage in the stage's accent colour.
func renderPips(stages []stageState) string {
	pips := make([]string, 0, len(stages))
	for _, st := range stages {
		style := lipgloss.NewStyle().Foreground(accentFor(st.role))
		switch st.status {
		case stageRunning:
			pips = append(pips, style.Render("◉"))
		case stageDone:
			pips = append(pips, style.Render("●"))
		case stageFailed:
			pips = append(pips, errorStyle.Render("✕"))
		default:
			pips = append(pips, mutedStyle.Render("○"))
		}
	}
	return strings.Join(pips, " ")
}
