package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// ResultPanel is a scrollable panel that shows the finished run.
type ResultPanel struct {
	Title    string
	viewport viewport.Model
	content  string
	Focused  bool
	width    int
	height   int
}

// NewResultPanel creates a new result panel.
func NewResultPanel(title string) ResultPanel {
	return ResultPanel{
		Title:    title,
		viewport: viewport.New(80, 10),
	}
}

// SetSize sets the panel dimensions.
func (p *ResultPanel) SetSize(width, height int) {
	p.width = width
	p.height = height

	// Title line and borders
	viewportWidth := width - 4
	viewportHeight := height - 4
	if viewportWidth < 10 {
		viewportWidth = 10
	}
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	p.viewport.Width = viewportWidth
	p.viewport.Height = viewportHeight
}

// SetContent replaces the content and scrolls to the top.
func (p *ResultPanel) SetContent(content string) {
	p.content = content
	p.viewport.SetContent(content)
	p.viewport.GotoTop()
}

// ScrollUp scrolls up by n lines.
func (p *ResultPanel) ScrollUp(n int) {
	p.viewport.LineUp(n)
}

// ScrollDown scrolls down by n lines.
func (p *ResultPanel) ScrollDown(n int) {
	p.viewport.LineDown(n)
}

// PageUp scrolls up by one page.
func (p *ResultPanel) PageUp() {
	p.viewport.ViewUp()
}

// PageDown scrolls down by one page.
func (p *ResultPanel) PageDown() {
	p.viewport.ViewDown()
}

// AtTop returns whether the viewport is at the top.
func (p *ResultPanel) AtTop() bool {
	return p.viewport.AtTop()
}

// View renders the panel.
func (p *ResultPanel) View() string {
	contentWidth := p.width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := titleStyle.Render(p.Title)
	indicator := ""
	if !p.AtTop() || !p.viewport.AtBottom() {
		indicator = mutedStyle.Render(fmtPercent(p.viewport.ScrollPercent()))
	}

	spacing := contentWidth - lipgloss.Width(title) - lipgloss.Width(indicator) - 2
	if spacing < 1 {
		spacing = 1
	}
	titleLine := title + strings.Repeat(" ", spacing) + indicator

	style := panelStyle
	if p.Focused {
		style = panelFocusedStyle
	}
	return style.Width(contentWidth).Render(titleLine + "\n" + p.viewport.View())
}
