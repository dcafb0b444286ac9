package tui

import "time"

// MsgPlan initializes the target list.
type MsgPlan struct {
	Targets []string
}

// MsgTargetStart marks the start of one build of a target.
type MsgTargetStart struct {
	SpanID    string
	Name      string
	StartTime time.Time
}

// MsgTargetLog carries build output of a running build.
type MsgTargetLog struct {
	SpanID string
	Data   []byte
}

// MsgTargetComplete marks the end of a build. Err is nil on success.
type MsgTargetComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
