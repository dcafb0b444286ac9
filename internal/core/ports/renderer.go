package ports

import (
	"context"
	"time"
)

// Renderer presents build progress. It is fed by the telemetry bridge.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start begins the renderer's lifecycle.
	Start(ctx context.Context) error
	// Stop flushes buffered output.
	Stop() error
	// Wait blocks until the renderer has terminated.
	Wait() error

	// OnPlanEmit is called once with the ordered targets of the run.
	OnPlanEmit(targets []string)
	// OnTargetStart is called when a target's build is assigned.
	OnTargetStart(spanID, name string, startTime time.Time)
	// OnTargetLog is called with output attached to the build.
	OnTargetLog(spanID string, data []byte)
	// OnTargetComplete is called when the build's outcome arrives. err is nil on success.
	OnTargetComplete(spanID string, endTime time.Time, err error)
}
