package tui

// LogView exposes the log pane of a target for testing.
type LogView = logView

// NewLogView exposes newLogView for testing.
var NewLogView = newLogView

// Logs returns the log pane of the target.
func (n *TargetNode) Logs() *LogView {
	return n.logs
}
