package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pbuild/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/pbuild/internal/adapters/ipc"     //nolint:depguard // Wired in app layer
	"go.trai.ch/pbuild/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/pbuild/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/pbuild/internal/adapters/process" //nolint:depguard // Wired in app layer
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/pbuild/internal/engine/worker"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds everything a pbuild command needs.
type Components struct {
	App    *App
	Worker *worker.Agent
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.ResolverNodeID,
			process.NodeID,
			ipc.HubNodeID,
			metrics.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			worker.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			agent, err := graft.Dep[*worker.Agent](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Worker: agent, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.TargetResolver](ctx)
	if err != nil {
		return nil, err
	}

	spawner, err := graft.Dep[ports.ProcessSpawner](ctx)
	if err != nil {
		return nil, err
	}

	hubs, err := graft.Dep[ports.HubFactory](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[*metrics.PrometheusRecorder](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, resolver, spawner, hubs, recorder, log), nil
}
