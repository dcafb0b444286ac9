package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.targetList(),
		m.logPane(),
	)
}

func (m *Model) targetList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("TARGETS") + "\n\n")

	start := m.ListOffset
	end := min(m.ListOffset+m.ListHeight, len(m.Targets))
	start = min(start, end)

	for i := start; i < end; i++ {
		s.WriteString(m.renderTargetRow(i, m.Targets[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderTargetRow(index int, node *TargetNode) string {
	rowStyle := targetStyle(node)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if node.Status != StatusDone && node.Status != StatusFailed {
			rowStyle = selectedStyle
		}
	}

	content := fmt.Sprintf("%s %s", targetIcon(node), node.Name)
	if node.Status == StatusDone || node.Status == StatusFailed {
		content += " " + node.Duration.Round(time.Millisecond).String()
	}
	return cursor + rowStyle.Render(content)
}

func targetIcon(node *TargetNode) string {
	switch node.Status {
	case StatusRunning:
		return "●"
	case StatusDone:
		return "✓"
	case StatusFailed:
		return "✗"
	default:
		return "○"
	}
}

func targetStyle(node *TargetNode) lipgloss.Style {
	switch node.Status {
	case StatusRunning:
		return targetRunningStyle
	case StatusDone:
		return targetDoneStyle
	case StatusFailed:
		return targetFailedStyle
	default:
		return targetPendingStyle
	}
}

func (m *Model) logPane() string {
	node := m.Selected()
	if node == nil {
		return logStyle.Render(titleStyle.Render("LOGS (Waiting...)"))
	}

	mode := " (Manual)"
	if m.FollowMode {
		mode = " (Following)"
	}

	header := titleStyle.Render("LOGS: " + node.Name + mode)
	if node.Status == StatusFailed {
		header = failureTitleStyle.Render("FAILED: " + node.Name + mode)
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			node.logs.View(),
		),
	)
}
