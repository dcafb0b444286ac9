// Package process launches worker processes and holds their handles.
package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxLineSize caps a single forwarded output line.
const maxLineSize = 1 << 20

// Spawner implements ports.ProcessSpawner by re-executing a binary in worker
// mode.
type Spawner struct {
	executable string
	args       []string
	logger     ports.Logger
}

// NewSpawner creates a Spawner that launches the running executable.
func NewSpawner(logger ports.Logger) (*Spawner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine executable path")
	}
	return NewSpawnerFor(logger, exe), nil
}

// NewSpawnerFor creates a Spawner that launches executable with args placed
// before the worker arguments.
func NewSpawnerFor(logger ports.Logger, executable string, args ...string) *Spawner {
	return &Spawner{executable: executable, args: args, logger: logger}
}

// Spawn starts a worker for target in its own process group, with target as
// its working directory. Worker output is forwarded to the logger line by line.
func (s *Spawner) Spawn(_ context.Context, target domain.Target, addr string) (ports.Process, error) {
	args := make([]string, 0, len(s.args)+5)
	args = append(args, s.args...)
	args = append(args, "worker", "--channel", addr, "--target", target.String())

	//nolint:gosec // G204: executable is this binary, args are fixed flags
	cmd := exec.Command(s.executable, args...)
	cmd.Dir = target.String()
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrSpawnFailed, err), "target", target.String())
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrSpawnFailed, err), "target", target.String())
	}

	if err := cmd.Start(); err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrSpawnFailed, err), "target", target.String())
	}

	log := s.logger.With("target", target.String())
	p := &Process{
		cmd:    cmd,
		pid:    cmd.Process.Pid,
		logger: log,
		done:   make(chan struct{}),
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go forward(&readers, stdout, log)
	go forward(&readers, stderr, log)

	go func() {
		readers.Wait()
		p.exited(cmd.Wait())
	}()

	return p, nil
}

func forward(wg *sync.WaitGroup, r io.Reader, log ports.Logger) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		log.Info(scanner.Text())
	}
	// Drain whatever is left so the child never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}

// Process is the handle of a spawned worker.
type Process struct {
	cmd    *exec.Cmd
	pid    int
	logger ports.Logger
	done   chan struct{}

	mu         sync.Mutex
	terminated bool
	finished   bool
}

// PID returns the process id of the worker.
func (p *Process) PID() int {
	return p.pid
}

// Done is closed once the worker has exited and its output is drained.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Terminate sends SIGTERM to the worker's process group. It does not wait for
// the worker to exit.
func (p *Process) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminated || p.finished {
		return nil
	}
	p.terminated = true

	if err := syscall.Kill(-p.pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrTerminateFailed, err), "pid", p.pid)
	}
	return nil
}

func (p *Process) exited(err error) {
	p.mu.Lock()
	terminated := p.terminated
	p.finished = true
	p.mu.Unlock()

	if err != nil && !terminated {
		p.logger.Warn(zerr.Wrap(err, "worker exited").Error())
	}
	close(p.done)
}
