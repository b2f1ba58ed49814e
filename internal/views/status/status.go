package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/wordsearch/wordsearch/internal/session"
	"github.com/wordsearch/wordsearch/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Server    string
	Transport string
	Files     int
	State     session.State
	Width     int
}

// New creates a status bar model.
func New(server, transport string) Model {
	return Model{Server: server, Transport: transport, State: session.Idle()}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	phase := m.State.Phase.String()
	phaseStr := lipgloss.NewStyle().Foreground(theme.PhaseColor(phase)).Render(
		fmt.Sprintf("%s %s", theme.PhaseGlyph(phase), phase),
	)

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := phaseStr
	if m.State.Keyword != "" {
		content += sep + theme.StyleSelected.Render(fmt.Sprintf("%q", m.State.Keyword))
	}
	if p := m.State.Progress; p != nil && m.State.Phase == session.PhaseStopped {
		content += sep + fmt.Sprintf("stopped at %d/%d files, %d matches", p.ProcessedFiles, p.TotalFiles, p.MatchCount)
	}
	content += sep + theme.StyleDimmed.Render(fmt.Sprintf("%s via %s", m.Server, m.Transport))
	content += sep + fmt.Sprintf("%d files", m.Files)

	bar := lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)

	return bar
}
