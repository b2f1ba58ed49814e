package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wordsearch/wordsearch/internal/session"
)

// NoteFeed carries controller diagnostics into the UI. Push never blocks:
// when the buffer is full the note is dropped.
type NoteFeed struct {
	ch chan session.Note
}

// NewNoteFeed creates a feed buffering up to size notes.
func NewNoteFeed(size int) *NoteFeed {
	return &NoteFeed{ch: make(chan session.Note, size)}
}

// Push queues n. It is suitable for session.WithNotes.
func (f *NoteFeed) Push(n session.Note) {
	select {
	case f.ch <- n:
	default:
	}
}

type noteMsg session.Note

func (f *NoteFeed) wait() tea.Cmd {
	return func() tea.Msg {
		return noteMsg(<-f.ch)
	}
}
