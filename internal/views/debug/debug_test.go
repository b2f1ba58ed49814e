package debug

import (
	"strings"
	"testing"
)

func TestAddEntry(t *testing.T) {
	m := New()
	m.Add("sess", "session started")
	if len(m.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m.Entries))
	}
	if m.Entries[0].Kind != "sess" {
		t.Errorf("expected kind 'sess', got %q", m.Entries[0].Kind)
	}
}

func TestMaxEntries(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+50; i++ {
		m.Add("dec", "msg")
	}
	if len(m.Entries) != maxEntries {
		t.Errorf("expected %d entries, got %d", maxEntries, len(m.Entries))
	}
}

func TestScrollUpDown(t *testing.T) {
	m := New()
	for i := 0; i < 20; i++ {
		m.Add("sess", "msg")
	}

	m.ScrollUp(5)
	if m.Offset != 5 {
		t.Errorf("expected offset 5, got %d", m.Offset)
	}

	m.ScrollDown(3)
	if m.Offset != 2 {
		t.Errorf("expected offset 2, got %d", m.Offset)
	}

	m.ScrollDown(10)
	if m.Offset != 0 {
		t.Errorf("expected offset 0, got %d", m.Offset)
	}
}

func TestScrollUpCapped(t *testing.T) {
	m := New()
	for i := 0; i < 5; i++ {
		m.Add("sess", "msg")
	}
	m.ScrollUp(100)
	if m.Offset != 4 {
		t.Errorf("expected offset 4, got %d", m.Offset)
	}
}

func TestViewEmpty(t *testing.T) {
	v := New().View(80, 20)
	if !strings.Contains(v, "No events") {
		t.Error("empty view should show 'No events' message")
	}
}

func TestViewWithEntries(t *testing.T) {
	m := New()
	m.Add("sess", "search started")
	m.Add("err", "connection to search server lost")
	v := m.View(100, 20)
	if !strings.Contains(v, "search started") {
		t.Error("view should contain 'search started'")
	}
	if !strings.Contains(v, "connection to search server lost") {
		t.Error("view should contain the transport error")
	}
}

func TestViewTruncatesLongMessages(t *testing.T) {
	m := New()
	m.Add("dec", strings.Repeat("x", 500))
	v := m.View(60, 20)
	if !strings.Contains(v, "...") {
		t.Error("long message should be truncated")
	}
}

func TestAddResetsScroll(t *testing.T) {
	m := New()
	for i := 0; i < 10; i++ {
		m.Add("sess", "msg")
	}
	m.ScrollUp(5)
	m.Add("sess", "new")
	if m.Offset != 0 {
		t.Error("adding entry should reset scroll to 0")
	}
}
