package ipc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// closeTimeout bounds how long Close waits for the hub to acknowledge a
// half-closed stream.
const closeTimeout = 2 * time.Second

// Dialer connects workers to a hub.
type Dialer struct{}

// NewDialer creates a new Dialer.
func NewDialer() *Dialer {
	return &Dialer{}
}

// Dial opens a stream to the hub at addr. The stream lives as long as ctx.
func (d *Dialer) Dial(ctx context.Context, addr string) (ports.ChannelClient, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
	)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrChannelDialFailed, err), "address", addr)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := conn.NewStream(streamCtx, &connectStream, connectMethod)
	if err != nil {
		cancel()
		_ = conn.Close()
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrChannelDialFailed, err), "address", addr)
	}

	c := &Client{
		conn:    conn,
		stream:  stream,
		cancel:  cancel,
		frames:  make(chan domain.Message, 16),
		closing: make(chan struct{}),
	}
	go c.pump()
	return c, nil
}

// Client is a worker's end of the channel.
type Client struct {
	conn    *grpc.ClientConn
	stream  grpc.ClientStream
	cancel  context.CancelFunc
	frames  chan domain.Message
	closing chan struct{}

	sendMu sync.Mutex
	close  sync.Once
}

// Send writes one frame to the hub.
func (c *Client) Send(msg domain.Message) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := c.stream.SendMsg(&msg); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrChannelSendFailed, err), "kind", string(msg.Kind))
	}
	return nil
}

// Receive delivers frames broadcast by the hub. It is closed when the stream
// ends.
func (c *Client) Receive() <-chan domain.Message {
	return c.frames
}

// Close half-closes the stream and waits for the hub to end it, so frames
// already sent are delivered before the connection is torn down.
func (c *Client) Close() error {
	var err error
	c.close.Do(func() {
		c.sendMu.Lock()
		_ = c.stream.CloseSend()
		c.sendMu.Unlock()
		close(c.closing)

		timer := time.NewTimer(closeTimeout)
		defer timer.Stop()
	drain:
		for {
			select {
			case _, ok := <-c.frames:
				if !ok {
					break drain
				}
			case <-timer.C:
				break drain
			}
		}

		c.cancel()
		if cerr := c.conn.Close(); cerr != nil {
			err = zerr.Wrap(cerr, "failed to close channel connection")
		}
	})
	return err
}

func (c *Client) pump() {
	defer close(c.frames)
	for {
		var msg domain.Message
		if err := c.stream.RecvMsg(&msg); err != nil {
			return
		}
		select {
		case c.frames <- msg:
		case <-c.closing:
		}
	}
}
