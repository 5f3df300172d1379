package proto

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "taxivision.drafts.DraftService"

const (
	LoadFullMethod    = "/" + ServiceName + "/Load"
	SaveFullMethod    = "/" + ServiceName + "/Save"
	PublishFullMethod = "/" + ServiceName + "/Publish"
	PingFullMethod    = "/" + ServiceName + "/Ping"
)

type DraftServiceClient interface {
	Load(ctx context.Context, in *LoadRequest, opts ...grpc.CallOption) (*LoadResponse, error)
	Save(ctx context.Context, in *SaveRequest, opts ...grpc.CallOption) (*SaveResponse, error)
	Publish(ctx context.Context, in *PublishRequest, opts ...grpc.CallOption) (*PublishResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type draftServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDraftServiceClient(cc grpc.ClientConnInterface) DraftServiceClient {
	return &draftServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in Message, decode func(*structpb.Struct) (Resp, error), opts ...grpc.CallOption) (Resp, error) {
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, in.Struct(), out, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	resp, err := decode(out)
	if err != nil {
		var zero Resp
		return zero, fmt.Errorf("%s: %w", method, err)
	}
	return resp, nil
}

func (c *draftServiceClient) Load(ctx context.Context, in *LoadRequest, opts ...grpc.CallOption) (*LoadResponse, error) {
	return invoke(ctx, c.cc, LoadFullMethod, in, DecodeLoadResponse, opts...)
}

func (c *draftServiceClient) Save(ctx context.Context, in *SaveRequest, opts ...grpc.CallOption) (*SaveResponse, error) {
	return invoke(ctx, c.cc, SaveFullMethod, in, DecodeSaveResponse, opts...)
}

func (c *draftServiceClient) Publish(ctx context.Context, in *PublishRequest, opts ...grpc.CallOption) (*PublishResponse, error) {
	return invoke(ctx, c.cc, PublishFullMethod, in, DecodePublishResponse, opts...)
}

func (c *draftServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke(ctx, c.cc, PingFullMethod, in, DecodePingResponse, opts...)
}

// DraftServiceServer is the server API of the draft service. Embed
// UnimplementedDraftServiceServer for forward compatibility.
type DraftServiceServer interface {
	Load(context.Context, *LoadRequest) (*LoadResponse, error)
	Save(context.Context, *SaveRequest) (*SaveResponse, error)
	Publish(context.Context, *PublishRequest) (*PublishResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

type UnimplementedDraftServiceServer struct{}

func (UnimplementedDraftServiceServer) Load(context.Context, *LoadRequest) (*LoadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Load not implemented")
}

func (UnimplementedDraftServiceServer) Save(context.Context, *SaveRequest) (*SaveResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Save not implemented")
}

func (UnimplementedDraftServiceServer) Publish(context.Context, *PublishRequest) (*PublishResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Publish not implemented")
}

func (UnimplementedDraftServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func RegisterDraftServiceServer(s grpc.ServiceRegistrar, srv DraftServiceServer) {
	s.RegisterService(&DraftService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler. The
// interceptor chain sees the decoded typed request.
func unaryHandler[Req any, Resp Message](method string, decode func(*structpb.Struct) (Req, error), call func(DraftServiceServer, context.Context, Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		req, err := decode(in)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		handler := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(DraftServiceServer), ctx, req.(Req))
			if err != nil {
				return nil, err
			}
			return resp.Struct(), nil
		}
		if interceptor == nil {
			return handler(ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, req, info, handler)
	}
}

var DraftService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DraftServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Load",
			Handler: unaryHandler(LoadFullMethod, DecodeLoadRequest, func(s DraftServiceServer, ctx context.Context, r *LoadRequest) (*LoadResponse, error) {
				return s.Load(ctx, r)
			}),
		},
		{
			MethodName: "Save",
			Handler: unaryHandler(SaveFullMethod, DecodeSaveRequest, func(s DraftServiceServer, ctx context.Context, r *SaveRequest) (*SaveResponse, error) {
				return s.Save(ctx, r)
			}),
		},
		{
			MethodName: "Publish",
			Handler: unaryHandler(PublishFullMethod, DecodePublishRequest, func(s DraftServiceServer, ctx context.Context, r *PublishRequest) (*PublishResponse, error) {
				return s.Publish(ctx, r)
			}),
		},
		{
			MethodName: "Ping",
			Handler: unaryHandler(PingFullMethod, DecodePingRequest, func(s DraftServiceServer, ctx context.Context, r *PingRequest) (*PingResponse, error) {
				return s.Ping(ctx, r)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taxivision/drafts.proto",
}
