package worker

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pbuild/internal/adapters/config"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pbuild/internal/adapters/ipc"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pbuild/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pbuild/internal/adapters/shell"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pbuild/internal/adapters/watcher" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pbuild/internal/core/ports"
)

// NodeID is the unique identifier for the worker agent Graft node.
const NodeID graft.ID = "engine.worker"

func init() {
	graft.Register(graft.Node[*Agent]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			ipc.DialerNodeID,
			config.NodeID,
			shell.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Agent, error) {
			dialer, err := graft.Dep[ports.ChannelDialer](ctx)
			if err != nil {
				return nil, err
			}

			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			builder, err := graft.Dep[ports.Builder](ctx)
			if err != nil {
				return nil, err
			}

			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(dialer, loader, builder, w, log), nil
		},
	})
}
