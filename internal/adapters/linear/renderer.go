// Package linear provides a line-buffered renderer that prints build output
// chronologically, each line prefixed with its target.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/pbuild/internal/ui/output"
	"go.trai.ch/pbuild/internal/ui/style"
)

// Renderer implements ports.Renderer.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	targets map[string]*targetState // spanID -> state
}

type targetState struct {
	name      string
	startTime time.Time
	buf       bytes.Buffer
}

// NewRenderer creates a new Renderer. Nil writers default to the process's
// stdout and stderr.
func NewRenderer(stdout, stderr io.Writer, profile func() termenv.Profile) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if profile == nil {
		profile = output.ColorProfileANSI
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewWithProfile(stderr, profile),
		targets: make(map[string]*targetState),
	}
}

// Start is a no-op; the renderer prints synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes partial lines of builds that are still running.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, st := range r.targets {
		r.flushLocked(st)
	}
	return nil
}

// Wait is a no-op; the renderer prints synchronously.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the targets of the run.
func (r *Renderer) OnPlanEmit(targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Planning to build %d target(s): %s\n",
		len(targets), strings.Join(targets, ", "))
}

// OnTargetStart prints a start message.
func (r *Renderer) OnTargetStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.targets[spanID] = &targetState{name: name, startTime: startTime}

	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnTargetLog prints complete lines of output with the target prefix. A
// trailing partial line is held back until it is completed or the build ends.
func (r *Renderer) OnTargetLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.targets[spanID]
	if !ok {
		return
	}

	st.buf.Write(data)
	for {
		i := bytes.IndexByte(st.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := st.buf.Next(i + 1)
		r.printLineLocked(st.name, line)
	}
}

// OnTargetComplete flushes pending output and prints the outcome.
func (r *Renderer) OnTargetComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.targets[spanID]
	if !ok {
		return
	}
	r.flushLocked(st)
	delete(r.targets, spanID)

	duration := endTime.Sub(st.startTime).Round(time.Millisecond)
	prefix := fmt.Sprintf("[%s]", st.name)

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(r.output.Color(style.Hex(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
		return
	}
	symbol := r.output.String(style.Check).Foreground(r.output.Color(style.Hex(style.Green))).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
}

// flushLocked must be called with r.mu held.
func (r *Renderer) flushLocked(st *targetState) {
	if st.buf.Len() > 0 {
		r.printLineLocked(st.name, st.buf.Bytes())
		st.buf.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
