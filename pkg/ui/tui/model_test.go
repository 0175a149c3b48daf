package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestModelTracksBatch(t *testing.T) {
	m := apply(t, NewModel(),
		StartMsg{Operation: "Liking profiles", Total: 4},
		StepMsg{Label: "Ana", Outcome: "liked"},
		StepMsg{Label: "Bea", Outcome: "match"},
		StepMsg{Label: "Cid", Outcome: "liked"},
	)

	assert.Equal(t, 3, m.done)
	assert.Equal(t, 2, m.outcomes["liked"])
	assert.Equal(t, 1, m.outcomes["match"])
	assert.InDelta(t, 0.75, m.Percent(), 0.0001)
	assert.False(t, m.finished)

	view := m.View()
	assert.Contains(t, view, "Liking profiles")
	assert.Contains(t, view, "Bea")

	m = apply(t, m, FinishMsg{})
	assert.True(t, m.finished)
}

func TestModelStartResets(t *testing.T) {
	m := apply(t, NewModel(),
		StartMsg{Operation: "first", Total: 1},
		StepMsg{Label: "x", Outcome: "added"},
		FinishMsg{},
		StartMsg{Operation: "second", Total: 2},
	)

	assert.Equal(t, "second", m.operation)
	assert.Zero(t, m.done)
	assert.Empty(t, m.recent)
	assert.False(t, m.finished)
}

func TestModelRecentIsBounded(t *testing.T) {
	m := apply(t, NewModel(), StartMsg{Operation: "sync", Total: 20})
	for i := 0; i < 20; i++ {
		m = apply(t, m, StepMsg{Label: "p", Outcome: "unchanged"})
	}

	assert.Len(t, m.recent, maxRecent)
	assert.Equal(t, 1.0, m.Percent())
}

func TestPercentUnknownTotal(t *testing.T) {
	m := apply(t, NewModel(), StartMsg{Operation: "recs"}, StepMsg{Label: "a", Outcome: "added"})
	assert.Zero(t, m.Percent())
	assert.Contains(t, NewModel().View(), "waiting")
}
