package archive

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ArchiveService_Check_FullMethodName = "/vorpal.archive.ArchiveService/Check"
	ArchiveService_Pull_FullMethodName  = "/vorpal.archive.ArchiveService/Pull"
	ArchiveService_Push_FullMethodName  = "/vorpal.archive.ArchiveService/Push"
)

type ArchiveServiceClient interface {
	Check(ctx context.Context, in *CheckRequest, opts ...grpc.CallOption) (*CheckResponse, error)
	Pull(ctx context.Context, in *PullRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Chunk], error)
	Push(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[PushChunk, PushResponse], error)
}

type archiveServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewArchiveServiceClient(cc grpc.ClientConnInterface) ArchiveServiceClient {
	return &archiveServiceClient{cc}
}

func (c *archiveServiceClient) Check(ctx context.Context, in *CheckRequest, opts ...grpc.CallOption) (*CheckResponse, error) {
	out := new(CheckResponse)
	if err := c.cc.Invoke(ctx, ArchiveService_Check_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *archiveServiceClient) Pull(ctx context.Context, in *PullRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Chunk], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &ArchiveService_ServiceDesc.Streams[0], ArchiveService_Pull_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[PullRequest, Chunk]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *archiveServiceClient) Push(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[PushChunk, PushResponse], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &ArchiveService_ServiceDesc.Streams[1], ArchiveService_Push_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[PushChunk, PushResponse]{ClientStream: stream}
	return x, nil
}

type ArchiveService_PullClient = grpc.ServerStreamingClient[Chunk]
type ArchiveService_PushClient = grpc.ClientStreamingClient[PushChunk, PushResponse]

type ArchiveServiceServer interface {
	Check(context.Context, *CheckRequest) (*CheckResponse, error)
	Pull(*PullRequest, grpc.ServerStreamingServer[Chunk]) error
	Push(grpc.ClientStreamingServer[PushChunk, PushResponse]) error
	mustEmbedUnimplementedArchiveServiceServer()
}

type UnimplementedArchiveServiceServer struct{}

func (UnimplementedArchiveServiceServer) Check(context.Context, *CheckRequest) (*CheckResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Check not implemented")
}
func (UnimplementedArchiveServiceServer) Pull(*PullRequest, grpc.ServerStreamingServer[Chunk]) error {
	return status.Errorf(codes.Unimplemented, "method Pull not implemented")
}
func (UnimplementedArchiveServiceServer) Push(grpc.ClientStreamingServer[PushChunk, PushResponse]) error {
	return status.Errorf(codes.Unimplemented, "method Push not implemented")
}
func (UnimplementedArchiveServiceServer) mustEmbedUnimplementedArchiveServiceServer() {}

func RegisterArchiveServiceServer(s grpc.ServiceRegistrar, srv ArchiveServiceServer) {
	s.RegisterService(&ArchiveService_ServiceDesc, srv)
}

func _ArchiveService_Check_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CheckRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArchiveServiceServer).Check(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ArchiveService_Check_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArchiveServiceServer).Check(ctx, req.(*CheckRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ArchiveService_Pull_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(PullRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ArchiveServiceServer).Pull(m, &grpc.GenericServerStream[PullRequest, Chunk]{ServerStream: stream})
}

func _ArchiveService_Push_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(ArchiveServiceServer).Push(&grpc.GenericServerStream[PushChunk, PushResponse]{ServerStream: stream})
}

type ArchiveService_PullServer = grpc.ServerStreamingServer[Chunk]
type ArchiveService_PushServer = grpc.ClientStreamingServer[PushChunk, PushResponse]

var ArchiveService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "vorpal.archive.ArchiveService",
	HandlerType: (*ArchiveServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Check", Handler: _ArchiveService_Check_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Pull",
			Handler:       _ArchiveService_Pull_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "Push",
			Handler:       _ArchiveService_Push_Handler,
			ClientStreams: true,
		},
	},
	Metadata: "archive.proto",
}
