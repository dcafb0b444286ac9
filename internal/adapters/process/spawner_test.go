package process_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pbuild/internal/adapters/process"
	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const waitFor = 10 * time.Second

// lines collects log lines written from the forwarding goroutines.
type lines struct {
	mu  sync.Mutex
	all []string
}

func (l *lines) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = append(l.all, s)
}

func (l *lines) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.all...)
}

func shellSpawner(t *testing.T, target string, script string) (*process.Spawner, *lines) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	child := mocks.NewMockLogger(ctrl)
	got := &lines{}

	log.EXPECT().With("target", target).Return(child)
	child.EXPECT().Info(gomock.Any()).Do(got.add).AnyTimes()
	child.EXPECT().Warn(gomock.Any()).AnyTimes()

	return process.NewSpawnerFor(log, "/bin/sh", "-c", script, "sh"), got
}

func waitDone(t *testing.T, p *process.Process) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(waitFor):
		require.FailNow(t, "worker did not exit")
	}
}

func TestSpawner_PassesWorkerArguments(t *testing.T) {
	dir := t.TempDir()
	spawner, got := shellSpawner(t, dir, `echo "$@"`)

	handle, err := spawner.Spawn(context.Background(), domain.Target(dir), "unix:///tmp/pbuild-x.sock")
	require.NoError(t, err)
	p := handle.(*process.Process)
	assert.Positive(t, p.PID())
	waitDone(t, p)

	assert.Equal(t, []string{"worker --channel unix:///tmp/pbuild-x.sock --target " + dir}, got.get())
}

func TestSpawner_RunsInTargetDirectory(t *testing.T) {
	dir := t.TempDir()
	spawner, got := shellSpawner(t, dir, `pwd -P`)

	handle, err := spawner.Spawn(context.Background(), domain.Target(dir), "unix:///tmp/pbuild-x.sock")
	require.NoError(t, err)
	waitDone(t, handle.(*process.Process))

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{want}, got.get())
}

func TestSpawner_ForwardsStderr(t *testing.T) {
	dir := t.TempDir()
	spawner, got := shellSpawner(t, dir, `echo "failed to compile" >&2`)

	handle, err := spawner.Spawn(context.Background(), domain.Target(dir), "unix:///tmp/pbuild-x.sock")
	require.NoError(t, err)
	waitDone(t, handle.(*process.Process))

	assert.Equal(t, []string{"failed to compile"}, got.get())
}

func TestSpawner_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	log := mocks.NewMockLogger(gomock.NewController(t))
	spawner := process.NewSpawnerFor(log, "/bin/sh", "-c", "true", "sh")

	_, err := spawner.Spawn(context.Background(), domain.Target(dir), "unix:///tmp/pbuild-x.sock")
	require.ErrorIs(t, err, domain.ErrSpawnFailed)
}

func TestProcess_TerminateStopsProcessGroup(t *testing.T) {
	dir := t.TempDir()
	spawner, _ := shellSpawner(t, dir, `sleep 30 & wait`)

	handle, err := spawner.Spawn(context.Background(), domain.Target(dir), "unix:///tmp/pbuild-x.sock")
	require.NoError(t, err)

	require.NoError(t, handle.Terminate())
	waitDone(t, handle.(*process.Process))

	require.NoError(t, handle.Terminate())
}

func TestProcess_TerminateAfterExit(t *testing.T) {
	dir := t.TempDir()
	spawner, _ := shellSpawner(t, dir, `exit 0`)

	handle, err := spawner.Spawn(context.Background(), domain.Target(dir), "unix:///tmp/pbuild-x.sock")
	require.NoError(t, err)
	waitDone(t, handle.(*process.Process))

	require.NoError(t, handle.Terminate())
}
