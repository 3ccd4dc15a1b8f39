package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// RunSummary is what a page run observed.
type RunSummary struct {
	Origin       string
	Dispatched   int64
	Granted      int64
	Denied       int64
	Withdrawn    int64
	StoreHits    int64
	Successes    int
	Failures     int
	ScriptErrors int
}

// RenderRunSummary renders the counters printed after `geoprompt run`.
func RenderRunSummary(t *Theme, s RunSummary) string {
	origin := s.Origin
	if origin == "" {
		origin = OpaqueOriginLabel
	}

	row := func(label string, value any) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			t.Subtle.Width(14).Render(label),
			t.Normal.Render(fmt.Sprint(value)),
		)
	}

	lines := []string{
		t.Title.Render(IconGlobe + "  " + origin),
		"",
		row("prompts", s.Dispatched),
		row("granted", s.Granted),
		row("denied", s.Denied),
		row("withdrawn", s.Withdrawn),
		row("remembered", s.StoreHits),
		row("positions", s.Successes),
		row("errors", s.Failures),
	}
	if s.ScriptErrors > 0 {
		lines = append(lines, t.WarningStyle.Render(fmt.Sprintf("%s  %d uncaught script error(s)", IconWarning, s.ScriptErrors)))
	}
	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
