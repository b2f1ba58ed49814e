package progress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordsearch/wordsearch/internal/session"
)

func TestSpringSettlesOnTarget(t *testing.T) {
	m := New()
	m.Set(&session.Snapshot{Percentage: 50})
	require.True(t, m.Animating())

	frames := 0
	for m.Step() {
		frames++
		require.Less(t, frames, 10*FPS, "spring never settled")
	}
	assert.Equal(t, 0.5, m.Position())
	assert.False(t, m.Animating())
}

func TestSpringMovesMonotonicallyTowardTarget(t *testing.T) {
	m := New()
	m.Set(&session.Snapshot{Percentage: 100})

	prev := m.Position()
	for i := 0; i < 5; i++ {
		m.Step()
		assert.GreaterOrEqual(t, m.Position(), prev)
		prev = m.Position()
	}
	assert.Greater(t, prev, 0.0)
}

func TestSetNilResets(t *testing.T) {
	m := New()
	m.Set(&session.Snapshot{Percentage: 80})
	m.Step()
	m.Set(nil)
	assert.Equal(t, 0.0, m.Position())
	assert.False(t, m.Animating())
	assert.Contains(t, m.View(), "waiting")
}

func TestView(t *testing.T) {
	m := New()
	m.Set(&session.Snapshot{Message: "processing a.txt", MatchCount: 12, ProcessedFiles: 1, TotalFiles: 4, Percentage: 25})
	v := m.View()
	assert.Contains(t, v, "processing a.txt")
	assert.Contains(t, v, " 25%")
	assert.Contains(t, v, "1/4 files  12 matches")

	m.Set(&session.Snapshot{Message: "search started"})
	assert.True(t, strings.Contains(m.View(), "0 files  0 matches"))
}
