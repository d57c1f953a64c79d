package agent

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	AgentService_PrepareArtifact_FullMethodName = "/vorpal.agent.AgentService/PrepareArtifact"
)

type AgentServiceClient interface {
	PrepareArtifact(ctx context.Context, in *PrepareArtifactRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[PrepareArtifactResponse], error)
}

type agentServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAgentServiceClient(cc grpc.ClientConnInterface) AgentServiceClient {
	return &agentServiceClient{cc}
}

func (c *agentServiceClient) PrepareArtifact(ctx context.Context, in *PrepareArtifactRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[PrepareArtifactResponse], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &AgentService_ServiceDesc.Streams[0], AgentService_PrepareArtifact_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[PrepareArtifactRequest, PrepareArtifactResponse]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type AgentService_PrepareArtifactClient = grpc.ServerStreamingClient[PrepareArtifactResponse]

type AgentServiceServer interface {
	PrepareArtifact(*PrepareArtifactRequest, grpc.ServerStreamingServer[PrepareArtifactResponse]) error
	mustEmbedUnimplementedAgentServiceServer()
}

type UnimplementedAgentServiceServer struct{}

func (UnimplementedAgentServiceServer) PrepareArtifact(*PrepareArtifactRequest, grpc.ServerStreamingServer[PrepareArtifactResponse]) error {
	return status.Errorf(codes.Unimplemented, "method PrepareArtifact not implemented")
}
func (UnimplementedAgentServiceServer) mustEmbedUnimplementedAgentServiceServer() {}

func RegisterAgentServiceServer(s grpc.ServiceRegistrar, srv AgentServiceServer) {
	s.RegisterService(&AgentService_ServiceDesc, srv)
}

func _AgentService_PrepareArtifact_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(PrepareArtifactRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(AgentServiceServer).PrepareArtifact(m, &grpc.GenericServerStream[PrepareArtifactRequest, PrepareArtifactResponse]{ServerStream: stream})
}

type AgentService_PrepareArtifactServer = grpc.ServerStreamingServer[PrepareArtifactResponse]

var AgentService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "vorpal.agent.AgentService",
	HandlerType: (*AgentServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "PrepareArtifact",
			Handler:       _AgentService_PrepareArtifact_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "agent.proto",
}
