// Package docrpc describes the DocumentService gRPC API shared by the client
// and the server. Messages are protobuf well-known types, so the service
// needs no generated code:
//
//	GetDoc(StringValue path)              -> Struct{exists, data}
//	SetDoc(Struct{path, merge, data})     -> Empty
//	Ping(Empty)                           -> StringValue "OK"
package docrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "moodkeeper.v1.DocumentService"

const (
	GetDocFullMethod = "/" + ServiceName + "/GetDoc"
	SetDocFullMethod = "/" + ServiceName + "/SetDoc"
	PingFullMethod   = "/" + ServiceName + "/Ping"
)

// DocumentServiceClient is the client API of DocumentService.
type DocumentServiceClient interface {
	GetDoc(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	SetDoc(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type documentServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDocumentServiceClient(cc grpc.ClientConnInterface) DocumentServiceClient {
	return &documentServiceClient{cc: cc}
}

func (c *documentServiceClient) GetDoc(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetDocFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentServiceClient) SetDoc(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, SetDocFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, PingFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DocumentServiceServer is the server API of DocumentService.
type DocumentServiceServer interface {
	GetDoc(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error)
	SetDoc(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
	Ping(ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error)
}

// UnimplementedDocumentServiceServer can be embedded to satisfy the server
// interface before every method exists.
type UnimplementedDocumentServiceServer struct{}

func (UnimplementedDocumentServiceServer) GetDoc(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDoc not implemented")
}

func (UnimplementedDocumentServiceServer) SetDoc(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetDoc not implemented")
}

func (UnimplementedDocumentServiceServer) Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func RegisterDocumentServiceServer(s grpc.ServiceRegistrar, srv DocumentServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func getDocHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentServiceServer).GetDoc(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetDocFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentServiceServer).GetDoc(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func setDocHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentServiceServer).SetDoc(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SetDocFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentServiceServer).SetDoc(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentServiceServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PingFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentServiceServer).Ping(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the grpc.ServiceDesc for DocumentService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocumentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetDoc", Handler: getDocHandler},
		{MethodName: "SetDoc", Handler: setDocHandler},
		{MethodName: "Ping", Handler: pingHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "moodkeeper/v1/document.proto",
}
