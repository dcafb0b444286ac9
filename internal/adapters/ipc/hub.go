package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Factory opens one hub per run.
type Factory struct {
	logger ports.Logger
}

// NewFactory creates a new Factory.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{logger: logger}
}

// Listen opens a hub on a fresh socket in the temp directory.
func (f *Factory) Listen(_ context.Context) (ports.MessageHub, error) {
	return Listen(domain.ChannelSocketPath(uuid.NewString()), f.logger)
}

// peer is one connected worker stream.
type peer struct {
	stream grpc.ServerStream
	mu     sync.Mutex
}

func (p *peer) send(msg *domain.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stream.SendMsg(msg)
}

// Hub is the coordinator's end of the channel.
type Hub struct {
	socket  string
	server  *grpc.Server
	logger  ports.Logger
	inbound chan domain.Message

	mu       sync.Mutex
	peers    map[*peer]struct{}
	closed   bool
	done     chan struct{}
	handlers sync.WaitGroup
	close    sync.Once
}

// Listen serves a hub on the Unix socket at path, replacing a stale socket file.
func Listen(path string, logger ports.Logger) (*Hub, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, zerr.With(zerr.Wrap(err, "failed to remove stale socket"), "socket", path)
	}

	lis, err := net.Listen("unix", path)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrChannelListenFailed, err), "socket", path)
	}
	if err := os.Chmod(path, domain.PrivateFilePerm); err != nil {
		_ = lis.Close()
		return nil, zerr.Wrap(err, "failed to set socket permissions")
	}

	h := &Hub{
		socket:  path,
		server:  grpc.NewServer(grpc.ForceServerCodec(jsonCodec{})),
		logger:  logger,
		inbound: make(chan domain.Message),
		peers:   make(map[*peer]struct{}),
		done:    make(chan struct{}),
	}
	h.server.RegisterService(&serviceDesc, h)

	go func() {
		if err := h.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			h.logger.Error(zerr.Wrap(err, "message channel stopped"))
		}
		_ = h.Close()
	}()

	return h, nil
}

// Address returns the dial target of the hub.
func (h *Hub) Address() string {
	return "unix://" + h.socket
}

// Inbound delivers frames sent by workers.
func (h *Hub) Inbound() <-chan domain.Message {
	return h.inbound
}

// Broadcast sends msg to every connected worker. Workers that cannot be
// reached are disconnected.
func (h *Hub) Broadcast(msg domain.Message) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return zerr.Wrap(domain.ErrChannelSendFailed, "message channel is closed")
	}
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		if err := p.send(&msg); err != nil {
			h.logger.Warn(zerr.Wrap(err, "dropping unreachable worker").Error())
			h.removePeer(p)
		}
	}
	return nil
}

// Close stops the hub. Every worker stream ends, and Inbound is closed once
// no frame can be delivered anymore.
func (h *Hub) Close() error {
	var err error
	h.close.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.done)
		h.mu.Unlock()

		h.server.Stop()
		h.handlers.Wait()
		close(h.inbound)

		if rerr := os.Remove(h.socket); rerr != nil && !os.IsNotExist(rerr) {
			err = zerr.Wrap(rerr, "failed to remove socket")
		}
	})
	return err
}

func (h *Hub) connect(stream grpc.ServerStream) error {
	p := &peer{stream: stream}
	if !h.addPeer(p) {
		return status.Error(codes.Unavailable, "message channel is closed")
	}
	defer h.handlers.Done()
	defer h.removePeer(p)

	for {
		var msg domain.Message
		if err := stream.RecvMsg(&msg); err != nil {
			if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
				return nil
			}
			h.logger.Warn(zerr.Wrap(err, "worker stream failed").Error())
			return err
		}

		select {
		case h.inbound <- msg:
		case <-h.done:
			return nil
		case <-stream.Context().Done():
			return nil
		}
	}
}

func (h *Hub) addPeer(p *peer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.peers[p] = struct{}{}
	h.handlers.Add(1)
	return true
}

func (h *Hub) removePeer(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, p)
}
