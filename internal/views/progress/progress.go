// Package progress renders the live search progress: a bar that eases
// toward the reported percentage plus the latest counters.
package progress

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/wordsearch/wordsearch/internal/session"
	"github.com/wordsearch/wordsearch/internal/theme"
)

// FPS is the animation frame rate the caller should tick at.
const FPS = 60

const (
	defaultWidth  = 40
	settleEpsilon = 0.001
)

// Model animates the bar with a critically damped spring.
type Model struct {
	bar      progress.Model
	spring   harmonica.Spring
	pos      float64
	vel      float64
	target   float64
	snapshot *session.Snapshot
}

// New creates a progress view.
func New() Model {
	return Model{
		bar: progress.New(
			progress.WithWidth(defaultWidth),
			progress.WithoutPercentage(),
			progress.WithScaledGradient(string(theme.ColorBarStart), string(theme.ColorBarEnd)),
		),
		spring: harmonica.NewSpring(harmonica.FPS(FPS), 6.0, 1.0),
	}
}

// SetWidth sets the bar width in cells.
func (m *Model) SetWidth(w int) {
	if w < 10 {
		w = 10
	}
	m.bar.Width = w
}

// Set updates the snapshot being shown. A nil snapshot resets the bar.
func (m *Model) Set(s *session.Snapshot) {
	m.snapshot = s
	if s == nil {
		m.pos, m.vel, m.target = 0, 0, 0
		return
	}
	m.target = float64(s.Percentage) / 100
}

// Step advances the animation one frame and reports whether the bar is
// still moving.
func (m *Model) Step() bool {
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, m.target)
	if math.Abs(m.pos-m.target) < settleEpsilon && math.Abs(m.vel) < settleEpsilon {
		m.pos, m.vel = m.target, 0
		return false
	}
	return true
}

// Animating reports whether the bar has not yet reached its target.
func (m Model) Animating() bool {
	return m.pos != m.target || m.vel != 0
}

// Position returns the displayed fraction in [0,1].
func (m Model) Position() float64 {
	return math.Max(0, math.Min(1, m.pos))
}

// View renders the bar and counters.
func (m Model) View() string {
	s := m.snapshot
	if s == nil {
		return theme.StyleDimmed.Render("waiting for the server...")
	}

	bar := fmt.Sprintf("%s %3d%%", m.bar.ViewAs(m.Position()), s.Percentage)
	counters := fmt.Sprintf("%d/%d files  %d matches", s.ProcessedFiles, s.TotalFiles, s.MatchCount)
	if s.TotalFiles == 0 {
		counters = fmt.Sprintf("%d files  %d matches", s.ProcessedFiles, s.MatchCount)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Message,
		bar,
		theme.StyleDimmed.Render(counters),
	)
}
