package artifact

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ArtifactService_GetArtifact_FullMethodName      = "/vorpal.artifact.ArtifactService/GetArtifact"
	ArtifactService_GetArtifactAlias_FullMethodName = "/vorpal.artifact.ArtifactService/GetArtifactAlias"
	ArtifactService_StoreArtifact_FullMethodName    = "/vorpal.artifact.ArtifactService/StoreArtifact"
)

type ArtifactServiceClient interface {
	GetArtifact(ctx context.Context, in *GetArtifactRequest, opts ...grpc.CallOption) (*Artifact, error)
	GetArtifactAlias(ctx context.Context, in *GetArtifactAliasRequest, opts ...grpc.CallOption) (*GetArtifactAliasResponse, error)
	StoreArtifact(ctx context.Context, in *StoreArtifactRequest, opts ...grpc.CallOption) (*StoreArtifactResponse, error)
}

type artifactServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewArtifactServiceClient(cc grpc.ClientConnInterface) ArtifactServiceClient {
	return &artifactServiceClient{cc}
}

func (c *artifactServiceClient) GetArtifact(ctx context.Context, in *GetArtifactRequest, opts ...grpc.CallOption) (*Artifact, error) {
	out := new(Artifact)
	if err := c.cc.Invoke(ctx, ArtifactService_GetArtifact_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *artifactServiceClient) GetArtifactAlias(ctx context.Context, in *GetArtifactAliasRequest, opts ...grpc.CallOption) (*GetArtifactAliasResponse, error) {
	out := new(GetArtifactAliasResponse)
	if err := c.cc.Invoke(ctx, ArtifactService_GetArtifactAlias_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *artifactServiceClient) StoreArtifact(ctx context.Context, in *StoreArtifactRequest, opts ...grpc.CallOption) (*StoreArtifactResponse, error) {
	out := new(StoreArtifactResponse)
	if err := c.cc.Invoke(ctx, ArtifactService_StoreArtifact_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type ArtifactServiceServer interface {
	GetArtifact(context.Context, *GetArtifactRequest) (*Artifact, error)
	GetArtifactAlias(context.Context, *GetArtifactAliasRequest) (*GetArtifactAliasResponse, error)
	StoreArtifact(context.Context, *StoreArtifactRequest) (*StoreArtifactResponse, error)
	mustEmbedUnimplementedArtifactServiceServer()
}

type UnimplementedArtifactServiceServer struct{}

func (UnimplementedArtifactServiceServer) GetArtifact(context.Context, *GetArtifactRequest) (*Artifact, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetArtifact not implemented")
}
func (UnimplementedArtifactServiceServer) GetArtifactAlias(context.Context, *GetArtifactAliasRequest) (*GetArtifactAliasResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetArtifactAlias not implemented")
}
func (UnimplementedArtifactServiceServer) StoreArtifact(context.Context, *StoreArtifactRequest) (*StoreArtifactResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method StoreArtifact not implemented")
}
func (UnimplementedArtifactServiceServer) mustEmbedUnimplementedArtifactServiceServer() {}

func RegisterArtifactServiceServer(s grpc.ServiceRegistrar, srv ArtifactServiceServer) {
	s.RegisterService(&ArtifactService_ServiceDesc, srv)
}

func _ArtifactService_GetArtifact_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetArtifactRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArtifactServiceServer).GetArtifact(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ArtifactService_GetArtifact_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArtifactServiceServer).GetArtifact(ctx, req.(*GetArtifactRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ArtifactService_GetArtifactAlias_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetArtifactAliasRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArtifactServiceServer).GetArtifactAlias(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ArtifactService_GetArtifactAlias_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArtifactServiceServer).GetArtifactAlias(ctx, req.(*GetArtifactAliasRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ArtifactService_StoreArtifact_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StoreArtifactRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArtifactServiceServer).StoreArtifact(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ArtifactService_StoreArtifact_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArtifactServiceServer).StoreArtifact(ctx, req.(*StoreArtifactRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ArtifactService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "vorpal.artifact.ArtifactService",
	HandlerType: (*ArtifactServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetArtifact", Handler: _ArtifactService_GetArtifact_Handler},
		{MethodName: "GetArtifactAlias", Handler: _ArtifactService_GetArtifactAlias_Handler},
		{MethodName: "StoreArtifact", Handler: _ArtifactService_StoreArtifact_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "artifact.proto",
}
