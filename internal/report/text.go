package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gerunddev/quartet/internal/history"
	"github.com/gerunddev/quartet/internal/pipeline"
)

var (
	colorMagenta = lipgloss.Color("#ab9df2")
	colorGray    = lipgloss.Color("#727072")
	colorCyan    = lipgloss.Color("#78dce8")
)

// styles holds the lipgloss styles for one output writer. Colour is only
// emitted when the writer is a terminal.
type styles struct {
	section lipgloss.Style
	label   lipgloss.Style
	header  lipgloss.Style
	id      lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		section: r.NewStyle().Foreground(colorMagenta).Bold(true),
		label:   r.NewStyle().Foreground(colorGray),
		header:  r.NewStyle().Foreground(colorMagenta).Bold(true),
		id:      r.NewStyle().Foreground(colorCyan),
	}
}

// section is one titled block of text output.
type section struct {
	title string
	body  string
}

func sections(res pipeline.Result) []section {
	return []section{
		{"PLAN", res.Plan},
		{"IMPLEMENTATION", res.Implementation},
		{"REVIEW", res.Review},
		{"COACHING", res.Coaching},
	}
}

// WriteText writes the four stage outputs under "=== TITLE ===" headers.
func WriteText(w io.Writer, res pipeline.Result) error {
	return writeSections(w, newStyles(w), res)
}

func writeSections(w io.Writer, st styles, res pipeline.Result) error {
	for _, s := range sections(res) {
		header := st.section.Render(fmt.Sprintf("=== %s ===", s.title))
		if _, err := fmt.Fprintf(w, "\n%s\n\n%s\n", header, s.body); err != nil {
			return err
		}
	}
	return nil
}

// WriteResult writes res in the given format.
func WriteResult(w io.Writer, f Format, res pipeline.Result) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatYAML:
		return WriteYAML(w, res)
	default:
		return WriteText(w, res)
	}
}

// WriteRun writes a stored run. Text output prefixes the sections with the
// run's metadata.
func WriteRun(w io.Writer, f Format, run *history.Run) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, run)
	case FormatYAML:
		return WriteYAML(w, run)
	}

	st := newStyles(w)
	meta := []struct{ label, value string }{
		{"Run", run.ID},
		{"Task", run.Task},
		{"Profile", run.ProfileName},
		{"Backend", run.Backend},
		{"Created", run.CreatedAt.Local().Format(time.RFC3339)},
	}
	for _, m := range meta {
		if _, err := fmt.Fprintf(w, "%s %s\n", st.label.Render(m.label+":"), m.value); err != nil {
			return err
		}
	}
	return writeSections(w, st, run.Result)
}

// maxTaskWidth bounds the task column of the run list.
const maxTaskWidth = 60

// WriteRunList writes a table of runs with their short IDs.
func WriteRunList(w io.Writer, runs []*history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}

	st := newStyles(w)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "CREATED", "BACKEND", "TASK").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case col == 0:
				return st.id
			}
			return st.label.UnsetForeground()
		})
	for _, run := range runs {
		t.Row(
			run.ShortID(),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Backend,
			truncate(strings.Join(strings.Fields(run.Task), " "), maxTaskWidth),
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
