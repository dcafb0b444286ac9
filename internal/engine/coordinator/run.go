package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/pbuild/internal/engine/dispatch"
	"go.trai.ch/zerr"
)

// Run is one pending or settled invocation of the coordinator.
// All worker state is owned by the run's event loop goroutine.
type Run struct {
	c    *Coordinator
	spec domain.RunSpec
	hub  ports.MessageHub

	records []domain.WorkerState
	handles []ports.Process
	spans   []ports.Span
	since   []time.Time
	index   map[domain.Target]int
	ready   int
	status  domain.RunStatus

	snapshots chan chan []domain.WorkerState
	done      chan struct{}
	err       error
}

func newRun(c *Coordinator, spec domain.RunSpec, hub ports.MessageHub) *Run {
	n := len(spec.Targets)
	r := &Run{
		c:         c,
		spec:      spec,
		hub:       hub,
		records:   make([]domain.WorkerState, n),
		handles:   make([]ports.Process, n),
		spans:     make([]ports.Span, n),
		since:     make([]time.Time, n),
		index:     make(map[domain.Target]int, n),
		status:    domain.StatusAwaitingReady,
		snapshots: make(chan chan []domain.WorkerState),
		done:      make(chan struct{}),
	}
	for i, t := range spec.Targets {
		r.records[i] = domain.WorkerState{Target: t}
		r.index[t] = i
	}
	return r
}

// Done is closed once the run has settled.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Err returns the reason the run failed. It is nil for a successful run and
// must only be read after Done is closed.
func (r *Run) Err() error {
	return r.err
}

// Wait blocks until the run settles or ctx is done.
func (r *Run) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// States returns a copy of every worker record in target order.
func (r *Run) States(ctx context.Context) ([]domain.WorkerState, error) {
	reply := make(chan []domain.WorkerState, 1)
	select {
	case r.snapshots <- reply:
		return <-reply, nil
	case <-r.done:
		return r.copyStates(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Run) loop(ctx context.Context) {
	var barrier <-chan time.Time
	if r.spec.ReadyTimeout > 0 {
		timer := time.NewTimer(r.spec.ReadyTimeout)
		defer timer.Stop()
		barrier = timer.C
	}
	inbound := r.hub.Inbound()

	for !r.status.Terminal() {
		select {
		case <-ctx.Done():
			r.settle(domain.StatusFailed, ctx.Err())
		case <-barrier:
			r.settle(domain.StatusFailed, r.barrierError())
		case reply := <-r.snapshots:
			reply <- r.copyStates()
		case msg, ok := <-inbound:
			if !ok {
				r.settle(domain.StatusFailed, domain.ErrChannelClosed)
				continue
			}
			r.handle(msg)
			if r.status != domain.StatusAwaitingReady {
				barrier = nil
			}
		}
	}
}

func (r *Run) handle(msg domain.Message) {
	idx, ok := r.index[msg.Target]
	if !ok {
		r.c.logger.With("target", msg.Target.String()).Warn("dropping frame for unknown target")
		return
	}

	switch msg.Kind {
	case domain.KindReady:
		r.onReady(idx)
	case domain.KindCompleted, domain.KindFailed:
		r.onOutcome(idx, msg)
	default:
		r.log(msg.Target).Warn(fmt.Sprintf("dropping unexpected %s frame", msg.Kind))
	}
}

func (r *Run) onReady(idx int) {
	rec := &r.records[idx]
	if rec.Ready {
		return
	}
	rec.Ready = true
	r.ready++

	if r.status == domain.StatusAwaitingReady && r.ready == len(r.records) {
		r.status = domain.StatusRunning
		r.dispatch()
	}
}

func (r *Run) onOutcome(idx int, msg domain.Message) {
	rec := &r.records[idx]
	// Only an assigned target reports, and in watch mode a finished one keeps reporting rebuilds.
	if !rec.Active && !(r.spec.Watch && rec.Finished) {
		r.log(rec.Target).Warn(fmt.Sprintf("dropping %s frame for unassigned target", msg.Kind))
		return
	}

	failed := msg.Kind == domain.KindFailed
	now := r.c.now()

	rec.Active = false
	rec.Finished = true
	rec.LastOutcome = &domain.BuildOutcome{
		Failed: failed,
		Result: msg.Result,
		Error:  msg.Error,
		At:     now,
	}

	r.c.recorder.ObserveBuild(rec.Target.String(), failed, now.Sub(r.since[idx]))
	r.since[idx] = now
	r.endSpan(idx, msg)

	if failed {
		r.c.logger.Error(zerr.Wrap(errors.New(msg.Error), "an error occurred in "+rec.Target.String()))
	}

	if !r.spec.Watch {
		if failed {
			r.settle(domain.StatusFailed, &domain.BuildError{Target: rec.Target, Reason: msg.Error})
			return
		}
		if r.allFinished() {
			r.settle(domain.StatusSucceeded, nil)
			return
		}
	}

	r.dispatch()
}

func (r *Run) dispatch() {
	if r.status != domain.StatusRunning {
		return
	}

	var opts *domain.WatchOptions
	if r.spec.Watch {
		opts = r.spec.WatchOptions
	}

	for _, target := range dispatch.Select(r.records, r.spec.Concurrency) {
		idx := r.index[target]
		r.records[idx].Active = true
		r.since[idx] = r.c.now()
		r.startSpan(idx)

		if err := r.hub.Broadcast(domain.AssignMessage(target, r.spec.Watch, opts)); err != nil {
			r.settle(domain.StatusFailed, zerr.With(zerr.Wrap(err, "failed to assign target"), "target", target.String()))
			return
		}
	}

	r.c.recorder.SetActiveWorkers(r.activeCount())
}

func (r *Run) settle(status domain.RunStatus, err error) {
	if r.status.Terminal() {
		return
	}
	r.status = status
	r.err = err

	for i, h := range r.handles {
		if h == nil {
			continue
		}
		if terr := h.Terminate(); terr != nil {
			r.log(r.records[i].Target).Warn(zerr.Wrap(terr, "failed to terminate worker").Error())
		}
	}
	if cerr := r.hub.Close(); cerr != nil {
		r.c.logger.Warn(zerr.Wrap(cerr, "failed to close message channel").Error())
	}

	for i, span := range r.spans {
		if span == nil {
			continue
		}
		span.RecordError(domain.ErrTerminated)
		span.End()
		r.spans[i] = nil
	}

	r.c.recorder.SetActiveWorkers(0)
	r.c.recorder.IncRun(runOutcome(status, err))
	close(r.done)
}

func (r *Run) startSpan(idx int) {
	_, span := r.c.tracer.Start(context.Background(), r.records[idx].Target.String())
	span.SetAttribute("target", r.records[idx].Target.String())
	span.SetAttribute("watch", r.spec.Watch)
	r.spans[idx] = span
}

// endSpan closes the span of the build that reported msg. Watch rebuilds have
// no assignment, so their span is opened on arrival.
func (r *Run) endSpan(idx int, msg domain.Message) {
	span := r.spans[idx]
	if span == nil {
		r.startSpan(idx)
		span = r.spans[idx]
	}
	r.spans[idx] = nil

	if msg.Kind == domain.KindFailed {
		span.RecordError(errors.New(msg.Error))
	} else if msg.Result != "" {
		_, _ = span.Write([]byte(msg.Result))
	}
	span.End()
}

func (r *Run) barrierError() error {
	var missing []string
	for _, rec := range r.records {
		if !rec.Ready {
			missing = append(missing, rec.Target.String())
		}
	}
	return zerr.With(
		zerr.Wrap(domain.ErrBarrierTimeout, "still waiting on "+strings.Join(missing, ", ")),
		"ready_timeout", r.spec.ReadyTimeout.String(),
	)
}

func (r *Run) allFinished() bool {
	for _, rec := range r.records {
		if !rec.Finished {
			return false
		}
	}
	return true
}

func (r *Run) activeCount() int {
	n := 0
	for _, rec := range r.records {
		if rec.Active {
			n++
		}
	}
	return n
}

func (r *Run) copyStates() []domain.WorkerState {
	states := make([]domain.WorkerState, len(r.records))
	copy(states, r.records)
	return states
}

func (r *Run) log(target domain.Target) ports.Logger {
	return r.c.logger.With("target", target.String())
}

func runOutcome(status domain.RunStatus, err error) string {
	switch {
	case status == domain.StatusSucceeded:
		return "succeeded"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, domain.ErrBarrierTimeout):
		return "barrier_timeout"
	default:
		return "failed"
	}
}
