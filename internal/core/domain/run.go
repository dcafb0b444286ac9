package domain

import (
	"fmt"
	"strconv"
	"time"

	"go.trai.ch/zerr"
)

// DefaultReadyTimeout bounds the readiness barrier when nothing else is configured.
const DefaultReadyTimeout = 60 * time.Second

// RunSpec describes one invocation of the coordinator.
type RunSpec struct {
	// Targets is the ordered set of build units. Order breaks ties when slots are scarce.
	Targets []Target
	// Concurrency is the maximum number of simultaneously active workers.
	Concurrency int
	// Watch keeps the run alive and lets workers rebuild on change.
	Watch bool
	// WatchOptions are forwarded to workers in Assign frames when Watch is set.
	WatchOptions *WatchOptions
	// ReadyTimeout bounds the readiness barrier. Zero disables the bound.
	ReadyTimeout time.Duration
}

// Validate rejects specs the coordinator cannot run.
func (s RunSpec) Validate() error {
	if len(s.Targets) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRun, ErrNoTargets)
	}
	if s.Concurrency < 1 {
		return zerr.With(fmt.Errorf("%w: %w", ErrInvalidRun, ErrInvalidConcurrency), "concurrency", s.Concurrency)
	}
	if s.ReadyTimeout < 0 {
		return zerr.With(zerr.Wrap(ErrInvalidRun, "negative ready timeout"), "ready_timeout", s.ReadyTimeout.String())
	}
	seen := make(map[Target]struct{}, len(s.Targets))
	for _, t := range s.Targets {
		if _, ok := seen[t]; ok {
			return zerr.With(fmt.Errorf("%w: %w", ErrInvalidRun, ErrDuplicateTarget), "target", t.String())
		}
		seen[t] = struct{}{}
	}
	return nil
}

// RunStatus is the state of the coordinator's run state machine.
type RunStatus int

const (
	// StatusAwaitingReady waits for every worker to announce readiness.
	StatusAwaitingReady RunStatus = iota
	// StatusRunning dispatches work. Watch runs stay here.
	StatusRunning
	// StatusSucceeded means every target finished without error.
	StatusSucceeded
	// StatusFailed means the run settled with an error.
	StatusFailed
)

// String returns a human readable status.
func (s RunStatus) String() string {
	switch s {
	case StatusAwaitingReady:
		return "awaiting-ready"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Terminal reports whether no further transition can happen.
func (s RunStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// BuildOutcome is the payload of the most recent completion of a target.
type BuildOutcome struct {
	Failed bool
	Result string
	Error  string
	At     time.Time
}

// WorkerState is the coordinator's record of one worker.
type WorkerState struct {
	Target      Target
	Ready       bool
	Active      bool
	Finished    bool
	LastOutcome *BuildOutcome
}

// Eligible reports whether the worker may receive an assignment now.
func (w WorkerState) Eligible() bool {
	return w.Ready && !w.Active && !w.Finished
}
