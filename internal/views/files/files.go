// Package files renders the server's file listing as a scrollable table.
package files

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wordsearch/wordsearch/internal/client"
	"github.com/wordsearch/wordsearch/internal/theme"
)

const sizeColumnWidth = 12

// Model holds the file table.
type Model struct {
	table table.Model
	count int
	err   error
}

// New creates an empty file table.
func New() Model {
	t := table.New(
		table.WithColumns(columns(40)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.Foreground(theme.ColorAccent).Bold(true)
	t.SetStyles(s)
	return Model{table: t}
}

func columns(width int) []table.Column {
	nameW := width - sizeColumnWidth - 4
	if nameW < 10 {
		nameW = 10
	}
	return []table.Column{
		{Title: "File", Width: nameW},
		{Title: "Size", Width: sizeColumnWidth},
	}
}

// SetFiles replaces the listing.
func (m *Model) SetFiles(files []client.FileDescriptor) {
	rows := make([]table.Row, 0, len(files))
	for _, f := range files {
		rows = append(rows, table.Row{f.Name, f.SizeFormatted})
	}
	m.table.SetRows(rows)
	m.count = len(files)
	m.err = nil
}

// SetError records a failed listing. The previous rows are kept.
func (m *Model) SetError(err error) {
	m.err = err
}

// Count returns the number of listed files.
func (m Model) Count() int { return m.count }

// SetSize fits the table into width x height cells.
func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
	if height < 3 {
		height = 3
	}
	m.table.SetHeight(height)
}

// Update forwards navigation keys to the table.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the file panel.
func (m Model) View() string {
	title := theme.StyleHeader.Render(fmt.Sprintf(" FILES (%d) ", m.count))
	switch {
	case m.err != nil:
		return lipgloss.JoinVertical(lipgloss.Left, title,
			theme.StyleError.Render("  could not list files: "+m.err.Error()))
	case m.count == 0:
		return lipgloss.JoinVertical(lipgloss.Left, title,
			theme.StyleDimmed.Render("  No files reported by the server."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.table.View())
}
