// Package theme provides the Lip Gloss color palette and reusable styles
// for the word search TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Session phase colors.
var (
	ColorIdle      = lipgloss.Color("#4b5563")
	ColorActive    = lipgloss.Color("#2563eb")
	ColorCompleted = lipgloss.Color("#16a34a")
	ColorFailed    = lipgloss.Color("#dc2626")
	ColorStopped   = lipgloss.Color("#d97706")
	ColorDefault   = lipgloss.Color("#9ca3af")
)

// Progress bar gradient.
var (
	ColorBarStart = lipgloss.Color("#06b6d4")
	ColorBarEnd   = lipgloss.Color("#a855f7")
)

// Debug log kind colors.
var (
	ColorKindSession = lipgloss.Color("#7c3aed")
	ColorKindDecode  = lipgloss.Color("#d97706")
	ColorKindHTTP    = lipgloss.Color("#3b82f6")
	ColorKindStale   = lipgloss.Color("#374151")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorAccent  = lipgloss.Color("#67e8f9")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// PhaseColor returns the color for a session phase name as reported by
// session.Phase.String.
func PhaseColor(phase string) lipgloss.Color {
	switch phase {
	case "idle":
		return ColorIdle
	case "active":
		return ColorActive
	case "completed":
		return ColorCompleted
	case "failed":
		return ColorFailed
	case "stopped":
		return ColorStopped
	default:
		return ColorDefault
	}
}

// PhaseGlyph returns a Unicode glyph for a session phase name.
func PhaseGlyph(phase string) string {
	switch phase {
	case "idle":
		return "○"
	case "active":
		return "●>"
	case "completed":
		return "✓"
	case "failed":
		return "✗"
	case "stopped":
		return "■"
	default:
		return "·"
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
		Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent)

	StyleError = lipgloss.NewStyle().
		Foreground(ColorDanger)
)
