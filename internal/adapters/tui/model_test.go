package tui_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pbuild/internal/adapters/tui"
)

const (
	targetLib  = "/repo/lib"
	targetApp  = "/repo/app"
	targetRoot = "/repo"
)

func updateModel(m *tui.Model, msg tea.Msg) (*tui.Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(*tui.Model), cmd
}

// plannedModel is sized like a terminal and knows three targets.
func plannedModel(t *testing.T) *tui.Model {
	t.Helper()
	m := tui.NewModel(nil)
	m, _ = updateModel(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = updateModel(m, tui.MsgPlan{Targets: []string{targetLib, targetApp, targetRoot}})
	return m
}

func TestModel_Plan(t *testing.T) {
	m := plannedModel(t)

	require.Len(t, m.Targets, 3)
	for i, name := range []string{targetLib, targetApp, targetRoot} {
		assert.Equal(t, name, m.Targets[i].Name)
		assert.Equal(t, tui.StatusPending, m.Targets[i].Status)
		assert.Same(t, m.Targets[i], m.TargetMap[name])
	}
	assert.True(t, m.FollowMode)
}

func TestModel_WindowSize(t *testing.T) {
	m := plannedModel(t)

	width, height := 100, 50
	m, _ = updateModel(m, tea.WindowSizeMsg{Width: width, Height: height})

	expectedListWidth := int(float64(width) * 0.3)
	assert.Equal(t, width-expectedListWidth-4, m.LogWidth)
	assert.Positive(t, m.ListHeight)
	assert.Less(t, m.ListHeight, height)
	assert.Positive(t, m.LogHeight)
	assert.Equal(t, m.LogHeight, m.Targets[0].Logs().Height())
}

func TestModel_BuildLifecycle(t *testing.T) {
	m := plannedModel(t)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	m, _ = updateModel(m, tui.MsgTargetStart{SpanID: "s1", Name: targetApp, StartTime: start})
	node := m.TargetMap[targetApp]
	assert.Equal(t, tui.StatusRunning, node.Status)
	assert.Equal(t, 1, node.Builds)
	assert.Equal(t, 1, m.SelectedIdx, "follow mode selects the running target")

	m, _ = updateModel(m, tui.MsgTargetLog{SpanID: "s1", Data: []byte("compiled\n")})
	m, _ = updateModel(m, tui.MsgTargetLog{SpanID: "unknown", Data: []byte("dropped\n")})
	assert.Contains(t, node.Logs().View(), "compiled")
	assert.NotContains(t, node.Logs().View(), "dropped")

	m, _ = updateModel(m, tui.MsgTargetComplete{SpanID: "s1", EndTime: start.Add(1500 * time.Millisecond)})
	assert.Equal(t, tui.StatusDone, node.Status)
	assert.Equal(t, 1500*time.Millisecond, node.Duration)
	assert.Empty(t, m.SpanMap)

	buildErr := errors.New("exit status 1")
	m, _ = updateModel(m, tui.MsgTargetStart{SpanID: "s2", Name: targetApp, StartTime: start.Add(time.Minute)})
	assert.Equal(t, 2, node.Builds)
	assert.Nil(t, node.Err)

	_, _ = updateModel(m, tui.MsgTargetComplete{SpanID: "s2", EndTime: start.Add(2 * time.Minute), Err: buildErr})
	assert.Equal(t, tui.StatusFailed, node.Status)
	assert.Equal(t, buildErr, node.Err)
	assert.Contains(t, node.Logs().View(), "build #2")
}

func TestModel_IgnoresUnknownTargets(t *testing.T) {
	m := plannedModel(t)

	m, _ = updateModel(m, tui.MsgTargetStart{SpanID: "s1", Name: "/elsewhere", StartTime: time.Now()})
	m, _ = updateModel(m, tui.MsgTargetComplete{SpanID: "s1", EndTime: time.Now()})

	assert.Empty(t, m.SpanMap)
	for _, node := range m.Targets {
		assert.Equal(t, tui.StatusPending, node.Status)
	}
}

func TestModel_Navigation(t *testing.T) {
	m := plannedModel(t)
	m, _ = updateModel(m, tea.WindowSizeMsg{Width: 100, Height: 50})

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, m.SelectedIdx)
	assert.False(t, m.FollowMode, "manual navigation leaves follow mode")

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.SelectedIdx)

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.SelectedIdx, "stops at the last target")

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 1, m.SelectedIdx)

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.SelectedIdx, "stops at the first target")

	// A build started outside follow mode does not move the selection.
	m, _ = updateModel(m, tui.MsgTargetStart{SpanID: "s1", Name: targetRoot, StartTime: time.Now()})
	assert.Equal(t, 0, m.SelectedIdx)

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.FollowMode)
	assert.Equal(t, 2, m.SelectedIdx, "esc jumps to the running target")
}

func TestModel_ListScrollsWithSelection(t *testing.T) {
	m := tui.NewModel(nil)
	names := make([]string, 10)
	for i := range names {
		names[i] = "/repo/pkg" + strings.Repeat("x", i)
	}
	m, _ = updateModel(m, tui.MsgPlan{Targets: names})
	m.ListHeight = 3

	for range 5 {
		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 5, m.SelectedIdx)
	assert.Equal(t, 3, m.ListOffset)

	for range 5 {
		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyUp})
	}
	assert.Equal(t, 0, m.ListOffset)
}

func TestModel_LogScrolling(t *testing.T) {
	m := plannedModel(t)
	m, _ = updateModel(m, tea.WindowSizeMsg{Width: 100, Height: 10})
	m, _ = updateModel(m, tui.MsgTargetStart{SpanID: "s1", Name: targetLib, StartTime: time.Now()})

	var out strings.Builder
	for i := range 40 {
		out.WriteString("line ")
		out.WriteString(strings.Repeat("#", i%5))
		out.WriteString("\n")
	}
	m, _ = updateModel(m, tui.MsgTargetLog{SpanID: "s1", Data: []byte(out.String())})

	logs := m.TargetMap[targetLib].Logs()
	bottom := logs.Offset()
	require.Positive(t, bottom)

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, logs.Offset())

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, min(logs.Height(), bottom), logs.Offset())

	m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, logs.Offset())

	_, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, bottom, logs.Offset())
}

func TestModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		t.Run(key.String(), func(t *testing.T) {
			m := plannedModel(t)
			_, cmd := updateModel(m, key)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}
