package domain

import (
	"encoding/json"
	"errors"

	"go.trai.ch/zerr"
)

// MessageKind is the discriminator of a channel frame.
type MessageKind string

const (
	// KindReady is sent by a worker once it can receive assignments.
	KindReady MessageKind = "ready"
	// KindAssign is broadcast by the coordinator to start a target's build.
	KindAssign MessageKind = "assign"
	// KindCompleted is sent by a worker after a successful build.
	KindCompleted MessageKind = "completed"
	// KindFailed is sent by a worker after a failed build.
	KindFailed MessageKind = "failed"
)

// Message is one frame on the channel between the coordinator and its workers.
// Only the fields relevant to Kind are carried on the wire.
type Message struct {
	Kind         MessageKind
	Target       Target
	Watch        bool
	WatchOptions *WatchOptions
	Result       string
	Error        string
}

// ReadyMessage announces that the worker for target is alive.
func ReadyMessage(target Target) Message {
	return Message{Kind: KindReady, Target: target}
}

// AssignMessage asks the worker for target to build.
func AssignMessage(target Target, watch bool, opts *WatchOptions) Message {
	return Message{Kind: KindAssign, Target: target, Watch: watch, WatchOptions: opts}
}

// CompletedMessage reports a successful build of target.
func CompletedMessage(target Target, result string) Message {
	return Message{Kind: KindCompleted, Target: target, Result: result}
}

// FailedMessage reports a failed build of target.
func FailedMessage(target Target, reason string) Message {
	return Message{Kind: KindFailed, Target: target, Error: reason}
}

// IsOutcome reports whether m carries a build outcome.
func (m Message) IsOutcome() bool {
	return m.Kind == KindCompleted || m.Kind == KindFailed
}

type readyFrame struct {
	Kind   MessageKind `json:"kind"`
	Target Target      `json:"target"`
}

type assignFrame struct {
	Kind         MessageKind   `json:"kind"`
	Target       Target        `json:"target"`
	Watch        bool          `json:"watch"`
	WatchOptions *WatchOptions `json:"watchOptions,omitempty"`
}

type completedFrame struct {
	Kind   MessageKind `json:"kind"`
	Target Target      `json:"target"`
	Result string      `json:"result"`
}

type failedFrame struct {
	Kind   MessageKind `json:"kind"`
	Target Target      `json:"target"`
	Error  string      `json:"error"`
}

type anyFrame struct {
	Kind         MessageKind   `json:"kind"`
	Target       Target        `json:"target"`
	Watch        bool          `json:"watch"`
	WatchOptions *WatchOptions `json:"watchOptions"`
	Result       string        `json:"result"`
	Error        string        `json:"error"`
}

// MarshalJSON encodes the frame shape that belongs to m.Kind.
func (m Message) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case KindReady:
		return json.Marshal(readyFrame{Kind: m.Kind, Target: m.Target})
	case KindAssign:
		return json.Marshal(assignFrame{Kind: m.Kind, Target: m.Target, Watch: m.Watch, WatchOptions: m.WatchOptions})
	case KindCompleted:
		return json.Marshal(completedFrame{Kind: m.Kind, Target: m.Target, Result: m.Result})
	case KindFailed:
		return json.Marshal(failedFrame{Kind: m.Kind, Target: m.Target, Error: m.Error})
	default:
		return nil, zerr.With(zerr.Wrap(ErrMalformedMessage, "unknown message kind"), "kind", string(m.Kind))
	}
}

// UnmarshalJSON decodes a frame and rejects unknown kinds or frames without a target.
func (m *Message) UnmarshalJSON(data []byte) error {
	var f anyFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return zerr.Wrap(errors.Join(ErrMalformedMessage, err), "decode frame")
	}
	switch f.Kind {
	case KindReady, KindAssign, KindCompleted, KindFailed:
	default:
		return zerr.With(zerr.Wrap(ErrMalformedMessage, "unknown message kind"), "kind", string(f.Kind))
	}
	if f.Target == "" {
		return zerr.With(zerr.Wrap(ErrMalformedMessage, "missing target"), "kind", string(f.Kind))
	}
	*m = Message{
		Kind:         f.Kind,
		Target:       f.Target,
		Watch:        f.Watch,
		WatchOptions: f.WatchOptions,
		Result:       f.Result,
		Error:        f.Error,
	}
	if m.Kind != KindAssign {
		m.Watch = false
		m.WatchOptions = nil
	}
	return nil
}
