// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pbuild/internal/adapters/config"
	_ "go.trai.ch/pbuild/internal/adapters/ipc"
	_ "go.trai.ch/pbuild/internal/adapters/logger"
	_ "go.trai.ch/pbuild/internal/adapters/metrics"
	_ "go.trai.ch/pbuild/internal/adapters/process"
	_ "go.trai.ch/pbuild/internal/adapters/shell"
	_ "go.trai.ch/pbuild/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/pbuild/internal/app"
	_ "go.trai.ch/pbuild/internal/engine/worker"
)
