package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pbuild/internal/adapters/telemetry"
	"go.trai.ch/pbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newTracer(t *testing.T) (*telemetry.OTelTracer, *mocks.MockRenderer) {
	t.Helper()
	renderer := mocks.NewMockRenderer(gomock.NewController(t))
	tracer := telemetry.NewOTelTracer("test", renderer)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, renderer
}

func TestOTelTracer_OutputPrecedesCompletion(t *testing.T) {
	tracer, renderer := newTracer(t)

	var logged []byte
	gomock.InOrder(
		renderer.EXPECT().OnTargetStart(gomock.Any(), "/repo/app", gomock.Any()),
		renderer.EXPECT().OnTargetLog(gomock.Any(), gomock.Any()).
			Do(func(_ string, data []byte) { logged = append(logged, data...) }).
			MinTimes(1),
		renderer.EXPECT().OnTargetComplete(gomock.Any(), gomock.Any(), nil),
	)

	_, span := tracer.Start(context.Background(), "/repo/app")
	span.SetAttribute("target", "/repo/app")
	span.SetAttribute("watch", false)
	_, err := span.Write([]byte("bundle.js 12kB\n"))
	require.NoError(t, err)
	span.End()

	assert.Equal(t, "bundle.js 12kB\n", string(logged))
}

func TestOTelTracer_RecordError(t *testing.T) {
	tracer, renderer := newTracer(t)

	renderer.EXPECT().OnTargetStart(gomock.Any(), gomock.Any(), gomock.Any())
	renderer.EXPECT().OnTargetComplete(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ string, _ any, err error) { require.EqualError(t, err, "terminated before completion") })

	_, span := tracer.Start(context.Background(), "/repo/app")
	span.RecordError(errors.New("terminated before completion"))
	span.End()
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	tracer, renderer := newTracer(t)
	renderer.EXPECT().OnPlanEmit([]string{"/repo/lib", "/repo"})

	tracer.EmitPlan(context.Background(), []string{"/repo/lib", "/repo"})
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx, span := tracer.Start(context.Background(), "/repo/app")
	require.NotNil(t, ctx)

	n, err := span.Write([]byte("output"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	span.SetAttribute("target", "/repo/app")
	span.RecordError(errors.New("boom"))
	span.End()
	tracer.EmitPlan(ctx, []string{"/repo/app"})
}
