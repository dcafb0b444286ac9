package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	listWidthRatio  = 0.3
	paneBorderWidth = 4
)

// TargetStatus is the state of the latest build of a target.
type TargetStatus string

const (
	// StatusPending means the target has not been assigned yet.
	StatusPending TargetStatus = "Pending"
	// StatusRunning means a build of the target is in progress.
	StatusRunning TargetStatus = "Running"
	// StatusDone means the latest build succeeded.
	StatusDone TargetStatus = "Done"
	// StatusFailed means the latest build failed.
	StatusFailed TargetStatus = "Failed"
)

// TargetNode is one row of the target list.
type TargetNode struct {
	Name     string
	Status   TargetStatus
	Builds   int
	Duration time.Duration
	Err      error

	started time.Time
	logs    *logView
}

// Model represents the main TUI state.
type Model struct {
	Targets     []*TargetNode
	TargetMap   map[string]*TargetNode
	SpanMap     map[string]*TargetNode
	SelectedIdx int
	ListOffset  int
	ListHeight  int
	LogWidth    int
	LogHeight   int
	FollowMode  bool
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // one case per message
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case MsgPlan:
		m.Targets = make([]*TargetNode, len(msg.Targets))
		m.TargetMap = make(map[string]*TargetNode, len(msg.Targets))
		m.SpanMap = make(map[string]*TargetNode)
		m.SelectedIdx = 0
		m.ListOffset = 0
		for i, name := range msg.Targets {
			node := &TargetNode{Name: name, Status: StatusPending, logs: newLogView()}
			if m.LogWidth > 0 && m.LogHeight > 0 {
				node.logs.Resize(m.LogWidth, m.LogHeight)
			}
			m.Targets[i] = node
			m.TargetMap[name] = node
		}

	case MsgTargetStart:
		node, ok := m.TargetMap[msg.Name]
		if !ok {
			return m, nil
		}
		node.Builds++
		node.Status = StatusRunning
		node.Err = nil
		node.started = msg.StartTime
		if node.Builds > 1 {
			_, _ = fmt.Fprintf(node.logs, "--- build #%d ---\n", node.Builds)
		}
		m.SpanMap[msg.SpanID] = node

		if m.FollowMode {
			m.selectTarget(msg.Name)
		}

	case MsgTargetLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.logs.Write(msg.Data)
		}

	case MsgTargetComplete:
		node, ok := m.SpanMap[msg.SpanID]
		if !ok {
			return m, nil
		}
		delete(m.SpanMap, msg.SpanID)
		node.Duration = msg.EndTime.Sub(node.started)
		node.Err = msg.Err
		if msg.Err != nil {
			node.Status = StatusFailed
		} else {
			node.Status = StatusDone
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Targets)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
		}
	case "esc":
		m.FollowMode = true
		for _, node := range m.Targets {
			if node.Status == StatusRunning {
				m.selectTarget(node.Name)
				break
			}
		}
	case "pgup":
		if node := m.Selected(); node != nil {
			node.logs.Scroll(-node.logs.Height())
		}
	case "pgdown":
		if node := m.Selected(); node != nil {
			node.logs.Scroll(node.logs.Height())
		}
	case "home":
		if node := m.Selected(); node != nil {
			node.logs.ScrollToTop()
		}
	case "end":
		if node := m.Selected(); node != nil {
			node.logs.ScrollToBottom()
		}
	}
	return nil
}

func (m *Model) resize(width, height int) {
	listWidth := int(float64(width) * listWidthRatio)
	m.LogWidth = width - listWidth - paneBorderWidth
	m.LogHeight = height - lipgloss.Height(titleStyle.Render("LOGS"))
	m.ListHeight = height - lipgloss.Height(titleStyle.Render("TARGETS")+"\n\n")
	m.ensureVisible()

	for _, node := range m.Targets {
		node.logs.Resize(m.LogWidth, m.LogHeight)
	}
}

// Selected returns the target whose output is shown.
func (m *Model) Selected() *TargetNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Targets) {
		return m.Targets[m.SelectedIdx]
	}
	return nil
}

func (m *Model) selectTarget(name string) {
	for i, node := range m.Targets {
		if node.Name == name {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
	if node := m.Selected(); node != nil {
		node.logs.ScrollToBottom()
	}
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}
