package ports

import (
	"context"

	"go.trai.ch/pbuild/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=channel.go -destination=mocks/mock_channel.go -package=mocks

// MessageHub is the coordinator's end of the message channel.
type MessageHub interface {
	// Address is what workers dial to join the channel.
	Address() string
	// Inbound delivers worker frames in arrival order. It is closed when the hub stops.
	Inbound() <-chan domain.Message
	// Broadcast delivers msg to every connected worker.
	Broadcast(msg domain.Message) error
	// Close disconnects all workers and stops accepting new ones.
	Close() error
}

// HubFactory opens a hub for one run.
type HubFactory interface {
	Listen(ctx context.Context) (MessageHub, error)
}

// ChannelClient is a worker's end of the message channel.
type ChannelClient interface {
	// Send delivers msg to the coordinator.
	Send(msg domain.Message) error
	// Receive yields every broadcast frame. It is closed when the channel goes away.
	Receive() <-chan domain.Message
	// Close leaves the channel.
	Close() error
}

// ChannelDialer connects a worker to a coordinator's hub.
type ChannelDialer interface {
	Dial(ctx context.Context, addr string) (ChannelClient, error)
}
