package status

import (
	"strings"
	"testing"

	"github.com/wordsearch/wordsearch/internal/session"
)

func TestViewIdle(t *testing.T) {
	m := New("http://localhost:3001", "sse")
	m.Width = 100
	v := m.View()
	if !strings.Contains(v, "idle") {
		t.Error("idle status bar should show the phase")
	}
	if !strings.Contains(v, "via sse") {
		t.Error("status bar should show the transport")
	}
}

func TestViewStoppedShowsLastSnapshot(t *testing.T) {
	m := New("http://localhost:3001", "websocket")
	m.Width = 160
	m.State = session.State{
		Phase:    session.PhaseStopped,
		Keyword:  "cat",
		Progress: &session.Snapshot{MatchCount: 9, ProcessedFiles: 2, TotalFiles: 5},
	}
	v := m.View()
	if !strings.Contains(v, `"cat"`) {
		t.Error("status bar should show the keyword")
	}
	if !strings.Contains(v, "stopped at 2/5 files, 9 matches") {
		t.Errorf("status bar should show the stopped snapshot, got:\n%s", v)
	}
}
