package ipc

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pbuild/internal/adapters/logger"
	"go.trai.ch/pbuild/internal/core/ports"
)

const (
	// HubNodeID is the unique identifier for the hub factory Graft node.
	HubNodeID graft.ID = "adapter.ipc.hub"
	// DialerNodeID is the unique identifier for the dialer Graft node.
	DialerNodeID graft.ID = "adapter.ipc.dialer"
)

func init() {
	graft.Register(graft.Node[ports.HubFactory]{
		ID:        HubNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.HubFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log), nil
		},
	})

	graft.Register(graft.Node[ports.ChannelDialer]{
		ID:        DialerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ChannelDialer, error) {
			return NewDialer(), nil
		},
	})
}
