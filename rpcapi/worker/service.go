package worker

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	WorkerService_BuildArtifact_FullMethodName = "/vorpal.worker.WorkerService/BuildArtifact"
)

type WorkerServiceClient interface {
	BuildArtifact(ctx context.Context, in *BuildArtifactRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[BuildArtifactResponse], error)
}

type workerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewWorkerServiceClient(cc grpc.ClientConnInterface) WorkerServiceClient {
	return &workerServiceClient{cc}
}

func (c *workerServiceClient) BuildArtifact(ctx context.Context, in *BuildArtifactRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[BuildArtifactResponse], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &WorkerService_ServiceDesc.Streams[0], WorkerService_BuildArtifact_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[BuildArtifactRequest, BuildArtifactResponse]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type WorkerService_BuildArtifactClient = grpc.ServerStreamingClient[BuildArtifactResponse]

type WorkerServiceServer interface {
	BuildArtifact(*BuildArtifactRequest, grpc.ServerStreamingServer[BuildArtifactResponse]) error
	mustEmbedUnimplementedWorkerServiceServer()
}

type UnimplementedWorkerServiceServer struct{}

func (UnimplementedWorkerServiceServer) BuildArtifact(*BuildArtifactRequest, grpc.ServerStreamingServer[BuildArtifactResponse]) error {
	return status.Errorf(codes.Unimplemented, "method BuildArtifact not implemented")
}
func (UnimplementedWorkerServiceServer) mustEmbedUnimplementedWorkerServiceServer() {}

func RegisterWorkerServiceServer(s grpc.ServiceRegistrar, srv WorkerServiceServer) {
	s.RegisterService(&WorkerService_ServiceDesc, srv)
}

func _WorkerService_BuildArtifact_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(BuildArtifactRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(WorkerServiceServer).BuildArtifact(m, &grpc.GenericServerStream[BuildArtifactRequest, BuildArtifactResponse]{ServerStream: stream})
}

type WorkerService_BuildArtifactServer = grpc.ServerStreamingServer[BuildArtifactResponse]

var WorkerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "vorpal.worker.WorkerService",
	HandlerType: (*WorkerServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "BuildArtifact",
			Handler:       _WorkerService_BuildArtifact_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "worker.proto",
}
