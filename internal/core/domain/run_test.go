package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pbuild/internal/core/domain"
)

func TestRunSpec_Validate(t *testing.T) {
	tests := []struct {
		name string
		spec domain.RunSpec
		want error
	}{
		{
			name: "valid",
			spec: domain.RunSpec{Targets: []domain.Target{"a", "b"}, Concurrency: 1},
		},
		{
			name: "no targets",
			spec: domain.RunSpec{Concurrency: 1},
			want: domain.ErrNoTargets,
		},
		{
			name: "zero concurrency",
			spec: domain.RunSpec{Targets: []domain.Target{"a"}},
			want: domain.ErrInvalidConcurrency,
		},
		{
			name: "duplicate targets",
			spec: domain.RunSpec{Targets: []domain.Target{"a", "b", "a"}, Concurrency: 2},
			want: domain.ErrDuplicateTarget,
		},
		{
			name: "negative ready timeout",
			spec: domain.RunSpec{Targets: []domain.Target{"a"}, Concurrency: 1, ReadyTimeout: -time.Second},
			want: domain.ErrInvalidRun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrInvalidRun)
		})
	}
}

func TestRunStatus(t *testing.T) {
	assert.False(t, domain.StatusAwaitingReady.Terminal())
	assert.False(t, domain.StatusRunning.Terminal())
	assert.True(t, domain.StatusSucceeded.Terminal())
	assert.True(t, domain.StatusFailed.Terminal())

	assert.Equal(t, "awaiting-ready", domain.StatusAwaitingReady.String())
	assert.Equal(t, "status(9)", domain.RunStatus(9).String())
}

func TestWorkerState_Eligible(t *testing.T) {
	assert.True(t, domain.WorkerState{Ready: true}.Eligible())
	assert.False(t, domain.WorkerState{}.Eligible())
	assert.False(t, domain.WorkerState{Ready: true, Active: true}.Eligible())
	assert.False(t, domain.WorkerState{Ready: true, Finished: true}.Eligible())
}

func TestBuildError(t *testing.T) {
	err := error(&domain.BuildError{Target: "/repo/app", Reason: "syntax error"})

	assert.True(t, errors.Is(err, domain.ErrBuildFailed))
	assert.Equal(t, "an error occurred while building: /repo/app: syntax error", err.Error())
}
