package tui

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/pbuild/internal/core/domain"
)

// Renderer wraps the TUI Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	stopped atomic.Bool
	errCh   chan error
	done    chan struct{}
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
		done:    make(chan struct{}),
	}
}

// Start launches the TUI in a background goroutine. Quitting the TUI before
// Stop is called ends the run with domain.ErrInterrupted.
func (r *Renderer) Start(ctx context.Context) error {
	go func() {
		defer close(r.done)
		_, err := r.program.Run()
		if err == nil && !r.stopped.Load() {
			err = domain.ErrInterrupted
		}
		r.errCh <- err
	}()

	go func() {
		select {
		case <-ctx.Done():
			_ = r.Stop()
		case <-r.done:
		}
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	if r.stopped.Swap(true) {
		return nil
	}
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit forwards the targets of the run to the TUI.
func (r *Renderer) OnPlanEmit(targets []string) {
	r.program.Send(MsgPlan{Targets: targets})
}

// OnTargetStart forwards build start events to the TUI.
func (r *Renderer) OnTargetStart(spanID, name string, startTime time.Time) {
	r.program.Send(MsgTargetStart{
		SpanID:    spanID,
		Name:      name,
		StartTime: startTime,
	})
}

// OnTargetLog forwards build output to the TUI.
func (r *Renderer) OnTargetLog(spanID string, data []byte) {
	r.program.Send(MsgTargetLog{
		SpanID: spanID,
		Data:   data,
	})
}

// OnTargetComplete forwards build outcomes to the TUI.
func (r *Renderer) OnTargetComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgTargetComplete{
		SpanID:  spanID,
		EndTime: endTime,
		Err:     err,
	})
}
