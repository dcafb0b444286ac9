package ports

import (
	"context"

	"go.trai.ch/pbuild/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=process.go -destination=mocks/mock_process.go -package=mocks

// ProcessSpawner launches worker processes.
type ProcessSpawner interface {
	// Spawn starts a worker bound to target that joins the channel at addr.
	Spawn(ctx context.Context, target domain.Target, addr string) (Process, error)
}

// Process is a handle on one running worker process.
type Process interface {
	// PID returns the operating system process id.
	PID() int
	// Terminate requests the process to stop without waiting for it.
	// Calling it on an exited process, or more than once, is not an error.
	Terminate() error
}
