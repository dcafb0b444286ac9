package coordinator_test

import (
	"sync"
	"testing"
	"testing/synctest"

	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/pbuild/internal/core/ports/mocks"
	"go.trai.ch/pbuild/internal/engine/coordinator"
	"go.uber.org/mock/gomock"
)

const testAddr = "unix:///tmp/pbuild-test.sock"

// harness wires a coordinator to mocks and records every broadcast frame.
type harness struct {
	ctrl     *gomock.Controller
	hub      *mocks.MockMessageHub
	hubs     *mocks.MockHubFactory
	spawner  *mocks.MockProcessSpawner
	recorder *mocks.MockRecorder
	logger   *mocks.MockLogger
	procs    map[domain.Target]*mocks.MockProcess
	inbound  chan domain.Message
	coord    *coordinator.Coordinator
	outcome  string

	mu   sync.Mutex
	sent []domain.Message
}

type harnessOption func(*harness)

// withSpawnError makes spawning target fail.
func withSpawnError(target domain.Target, err error) harnessOption {
	return func(h *harness) {
		h.spawner.EXPECT().Spawn(gomock.Any(), target, testAddr).Return(nil, err)
		delete(h.procs, target)
	}
}

// withOutcome requires the run to be counted exactly once under outcome.
func withOutcome(outcome string) harnessOption {
	return func(h *harness) {
		h.outcome = outcome
	}
}

// withBroadcastError makes the first broadcast fail.
func withBroadcastError(err error) harnessOption {
	return func(h *harness) {
		h.hub.EXPECT().Broadcast(gomock.Any()).Return(err)
	}
}

func newHarness(t *testing.T, targets []domain.Target, opts ...harnessOption) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		ctrl:     ctrl,
		hub:      mocks.NewMockMessageHub(ctrl),
		hubs:     mocks.NewMockHubFactory(ctrl),
		spawner:  mocks.NewMockProcessSpawner(ctrl),
		recorder: mocks.NewMockRecorder(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		procs:    make(map[domain.Target]*mocks.MockProcess),
		inbound:  make(chan domain.Message, 64),
	}
	for _, target := range targets {
		h.procs[target] = mocks.NewMockProcess(ctrl)
	}
	for _, opt := range opts {
		opt(h)
	}

	for _, target := range targets {
		if p, ok := h.procs[target]; ok {
			h.spawner.EXPECT().Spawn(gomock.Any(), target, testAddr).Return(p, nil)
		}
	}

	h.hubs.EXPECT().Listen(gomock.Any()).Return(h.hub, nil).AnyTimes()
	h.hub.EXPECT().Address().Return(testAddr).AnyTimes()
	h.hub.EXPECT().Inbound().Return((<-chan domain.Message)(h.inbound)).AnyTimes()
	h.hub.EXPECT().Close().Return(nil).AnyTimes()
	h.hub.EXPECT().Broadcast(gomock.Any()).DoAndReturn(func(msg domain.Message) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.sent = append(h.sent, msg)
		return nil
	}).AnyTimes()

	h.recorder.EXPECT().SetActiveWorkers(gomock.Any()).AnyTimes()
	h.recorder.EXPECT().ObserveBuild(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	if h.outcome != "" {
		h.recorder.EXPECT().IncRun(h.outcome).Times(1)
	} else {
		h.recorder.EXPECT().IncRun(gomock.Any()).AnyTimes()
	}

	h.logger.EXPECT().With(gomock.Any(), gomock.Any()).Return(h.logger).AnyTimes()
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	h.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	h.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) { return len(p), nil }).AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().End().AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).Return(t.Context(), ports.Span(span)).AnyTimes()

	h.coord = coordinator.New(h.spawner, h.hubs, tracer, h.recorder, h.logger)
	return h
}

// expectTerminate requires exactly one termination request per target.
func (h *harness) expectTerminate(targets ...domain.Target) {
	for _, target := range targets {
		h.procs[target].EXPECT().Terminate().Return(nil).Times(1)
	}
}

// send delivers frames to the coordinator and waits until it has processed them.
func (h *harness) send(msgs ...domain.Message) {
	for _, msg := range msgs {
		h.inbound <- msg
		synctest.Wait()
	}
}

func (h *harness) broadcasts() []domain.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.Message(nil), h.sent...)
}

// assigned returns the targets of all broadcast Assign frames in send order.
func (h *harness) assigned() []domain.Target {
	var targets []domain.Target
	for _, msg := range h.broadcasts() {
		if msg.Kind == domain.KindAssign {
			targets = append(targets, msg.Target)
		}
	}
	return targets
}

func settled(r *coordinator.Run) bool {
	select {
	case <-r.Done():
		return true
	default:
		return false
	}
}
