package worker_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/pbuild/internal/core/ports/mocks"
	"go.trai.ch/pbuild/internal/engine/worker"
	"go.uber.org/mock/gomock"
)

const (
	addr   = "unix:///tmp/pbuild-test.sock"
	target = domain.Target("/repo/app")
)

type fixture struct {
	dialer  *mocks.MockChannelDialer
	client  *mocks.MockChannelClient
	loader  *mocks.MockConfigLoader
	builder *mocks.MockBuilder
	watcher *mocks.MockWatcher
	frames  chan domain.Message
	agent   *worker.Agent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		dialer:  mocks.NewMockChannelDialer(ctrl),
		client:  mocks.NewMockChannelClient(ctrl),
		loader:  mocks.NewMockConfigLoader(ctrl),
		builder: mocks.NewMockBuilder(ctrl),
		watcher: mocks.NewMockWatcher(ctrl),
		frames:  make(chan domain.Message, 8),
	}

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	logger.EXPECT().With(gomock.Any(), gomock.Any()).Return(logger).AnyTimes()

	f.dialer.EXPECT().Dial(gomock.Any(), addr).Return(ports.ChannelClient(f.client), nil)
	f.client.EXPECT().Send(domain.ReadyMessage(target)).Return(nil)
	f.client.EXPECT().Receive().Return((<-chan domain.Message)(f.frames)).AnyTimes()
	f.client.EXPECT().Close().Return(nil)

	f.agent = worker.New(f.dialer, f.loader, f.builder, f.watcher, logger)
	return f
}

func TestServe_OneShotSuccess(t *testing.T) {
	f := newFixture(t)
	cfg := &domain.TargetConfig{Command: []string{"make"}}

	f.frames <- domain.AssignMessage("/repo/other", false, nil)
	f.frames <- domain.AssignMessage(target, false, nil)

	f.loader.EXPECT().LoadTarget(target.String()).Return(cfg, nil)
	f.builder.EXPECT().Build(gomock.Any(), target, cfg).Return("compiled 3 files", nil)
	f.client.EXPECT().Send(domain.CompletedMessage(target, "compiled 3 files")).Return(nil)

	err := f.agent.Serve(t.Context(), addr, target)
	require.NoError(t, err)
}

func TestServe_OneShotFailure(t *testing.T) {
	f := newFixture(t)
	cfg := &domain.TargetConfig{Command: []string{"make"}}
	buildErr := errors.New("exit status 2")

	f.frames <- domain.AssignMessage(target, false, nil)

	f.loader.EXPECT().LoadTarget(target.String()).Return(cfg, nil)
	f.builder.EXPECT().Build(gomock.Any(), target, cfg).Return("main.go:3: syntax error\n", buildErr)
	f.client.EXPECT().Send(domain.FailedMessage(target, "exit status 2\nmain.go:3: syntax error")).Return(nil)

	err := f.agent.Serve(t.Context(), addr, target)
	require.ErrorIs(t, err, buildErr)
}

func TestServe_ConfigErrorIsReported(t *testing.T) {
	f := newFixture(t)

	f.frames <- domain.AssignMessage(target, false, nil)

	f.loader.EXPECT().LoadTarget(target.String()).Return(nil, domain.ErrTargetConfigNotFound)
	f.client.EXPECT().Send(domain.FailedMessage(target, domain.ErrTargetConfigNotFound.Error())).Return(nil)

	err := f.agent.Serve(t.Context(), addr, target)
	require.ErrorIs(t, err, domain.ErrTargetConfigNotFound)
}

func TestServe_ChannelClosedBeforeAssignment(t *testing.T) {
	f := newFixture(t)
	close(f.frames)

	err := f.agent.Serve(t.Context(), addr, target)
	require.NoError(t, err)
}

func TestServe_DialError(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mocks.NewMockChannelDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), addr).Return(nil, domain.ErrChannelDialFailed)

	agent := worker.New(dialer, nil, nil, nil, nil)
	err := agent.Serve(t.Context(), addr, target)
	require.ErrorIs(t, err, domain.ErrChannelDialFailed)
}

func TestServe_WatchRebuildsOnChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		cfg := &domain.TargetConfig{
			Command: []string{"make"},
			Watch:   &domain.WatchOptions{Poll: 100},
		}
		changes := make(chan struct{}, 1)

		f.loader.EXPECT().LoadTarget(target.String()).Return(cfg, nil).AnyTimes()
		f.watcher.EXPECT().
			Watch(gomock.Any(), target.String(), domain.WatchOptions{AggregateTimeout: 500, Poll: 100}).
			Return((<-chan struct{})(changes), nil)

		gomock.InOrder(
			f.builder.EXPECT().Build(gomock.Any(), target, cfg).Return("first", nil),
			f.builder.EXPECT().Build(gomock.Any(), target, cfg).Return("", errors.New("exit status 1")),
		)

		sent := make(chan domain.Message, 2)
		f.client.EXPECT().Send(gomock.Any()).DoAndReturn(func(msg domain.Message) error {
			sent <- msg
			return nil
		}).Times(2)

		done := make(chan error, 1)
		go func() {
			done <- f.agent.Serve(context.Background(), addr, target)
		}()

		f.frames <- domain.AssignMessage(target, true, &domain.WatchOptions{AggregateTimeout: 500})
		synctest.Wait()
		assert.Equal(t, domain.CompletedMessage(target, "first"), <-sent)

		changes <- struct{}{}
		synctest.Wait()
		assert.Equal(t, domain.FailedMessage(target, "exit status 1"), <-sent)

		close(f.frames)
		synctest.Wait()
		require.NoError(t, <-done)
	})
}
