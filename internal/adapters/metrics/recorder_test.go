package metrics_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pbuild/internal/adapters/metrics"
	"go.trai.ch/pbuild/internal/core/ports"
)

var _ ports.Recorder = (*metrics.PrometheusRecorder)(nil)

func TestPrometheusRecorder(t *testing.T) {
	pr := metrics.NewPrometheusRecorder()

	pr.SetActiveWorkers(3)
	pr.ObserveBuild("/repo/app", false, 150*time.Millisecond)
	pr.ObserveBuild("/repo/lib", true, 2*time.Second)
	pr.ObserveBuild("/repo", false, time.Second)
	pr.SetActiveWorkers(0)
	pr.IncRun("failed")

	families, err := pr.Registry().Gather()
	require.NoError(t, err)

	byName := map[string]int{}
	for _, mf := range families {
		byName[mf.GetName()] = len(mf.GetMetric())
	}
	assert.Equal(t, map[string]int{
		"pbuild_active_workers":                1,
		"pbuild_target_builds_total":           2,
		"pbuild_target_build_duration_seconds": 2,
		"pbuild_runs_total":                    1,
	}, byName)
}

func TestPrometheusRecorder_ServeListener(t *testing.T) {
	pr := metrics.NewPrometheusRecorder()
	pr.IncRun("succeeded")

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pr.ServeListener(ctx, lis) }()

	resp, err := http.Get("http://" + lis.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `pbuild_runs_total{outcome="succeeded"} 1`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "metrics server did not stop")
	}
}
