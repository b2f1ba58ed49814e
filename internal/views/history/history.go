// Package history renders recently finished searches.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	store "github.com/wordsearch/wordsearch/internal/history"
	"github.com/wordsearch/wordsearch/internal/theme"
)

// Model holds the entries shown in the history overlay.
type Model struct {
	Entries []store.Entry
	Err     error
}

// View renders the history as an overlay panel.
func (m Model) View(width int, now time.Time) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := theme.StyleHeader.Render(" RECENT SEARCHES ")
	help := theme.StyleDimmed.Render("esc:close")

	var body string
	switch {
	case m.Err != nil:
		body = theme.StyleError.Render("  history unavailable: " + m.Err.Error())
	case len(m.Entries) == 0:
		body = theme.StyleDimmed.Render("  No searches yet.")
	default:
		lines := make([]string, 0, len(m.Entries))
		for _, e := range m.Entries {
			lines = append(lines, line(e, now))
		}
		body = strings.Join(lines, "\n")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help)
	return lipgloss.NewStyle().
		Width(innerW).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}

func line(e store.Entry, now time.Time) string {
	outcome := string(e.Outcome)
	glyph := lipgloss.NewStyle().Foreground(theme.PhaseColor(outcome)).Render(theme.PhaseGlyph(outcome))
	ago := theme.StyleDimmed.Render(fmt.Sprintf("%8s", since(now.Sub(e.FinishedAt))))

	var detail string
	switch e.Outcome {
	case store.OutcomeCompleted:
		detail = fmt.Sprintf("%d matches in %d files", e.MatchCount, e.TotalFiles)
	case store.OutcomeFailed:
		detail = theme.StyleError.Render(e.ErrorMessage)
	default:
		detail = fmt.Sprintf("stopped at %d/%d files", e.ProcessedFiles, e.TotalFiles)
	}
	return fmt.Sprintf("%s %s %-20s %s", ago, glyph, e.Keyword, detail)
}

// since formats d coarsely: "just now", "5m ago", "3h ago", "2d ago".
func since(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
