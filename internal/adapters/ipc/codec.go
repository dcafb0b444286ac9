// Package ipc implements the message channel between the coordinator and its
// workers as a bidirectional gRPC stream over a Unix domain socket. Frames are
// JSON encoded.
package ipc

import (
	"encoding/json"

	"google.golang.org/grpc"
)

const (
	serviceName   = "pbuild.channel.v1.Channel"
	connectMethod = "/" + serviceName + "/Connect"
)

// jsonCodec carries domain.Message frames as JSON instead of protobuf.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}

// connector is implemented by the hub; grpc checks registrations against it.
type connector interface {
	connect(stream grpc.ServerStream) error
}

var connectStream = grpc.StreamDesc{
	StreamName:    "Connect",
	ServerStreams: true,
	ClientStreams: true,
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*connector)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName: connectStream.StreamName,
			Handler: func(srv any, stream grpc.ServerStream) error {
				return srv.(connector).connect(stream)
			},
			ServerStreams: connectStream.ServerStreams,
			ClientStreams: connectStream.ClientStreams,
		},
	},
	Metadata: "pbuild/channel.proto",
}
