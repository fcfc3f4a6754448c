// Package v1alpha1 handles the room admin grpc service interface
package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The admin service speaks only well-known protobuf types, so it needs no
// generated message code.
const (
	RoomAdminServiceName = "themeclash.admin.v1alpha1.RoomAdmin"

	GetRoomFullMethod   = "/" + RoomAdminServiceName + "/GetRoom"
	ListRoomsFullMethod = "/" + RoomAdminServiceName + "/ListRooms"
	EvictIdleFullMethod = "/" + RoomAdminServiceName + "/EvictIdle"
)

// RoomAdminServer is the server side of the admin service
type RoomAdminServer interface {
	GetRoom(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListRooms(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	EvictIdle(context.Context, *durationpb.Duration) (*structpb.Struct, error)
}

// RegisterRoomAdminServer registers srv on s
func RegisterRoomAdminServer(s grpc.ServiceRegistrar, srv RoomAdminServer) {
	s.RegisterService(&roomAdminServiceDesc, srv)
}

var roomAdminServiceDesc = grpc.ServiceDesc{
	ServiceName: RoomAdminServiceName,
	HandlerType: (*RoomAdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetRoom",
			Handler: unaryHandler(GetRoomFullMethod, func(srv RoomAdminServer, ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
				return srv.GetRoom(ctx, in)
			}),
		},
		{
			MethodName: "ListRooms",
			Handler: unaryHandler(ListRoomsFullMethod, func(srv RoomAdminServer, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
				return srv.ListRooms(ctx, in)
			}),
		},
		{
			MethodName: "EvictIdle",
			Handler: unaryHandler(EvictIdleFullMethod, func(srv RoomAdminServer, ctx context.Context, in *durationpb.Duration) (*structpb.Struct, error) {
				return srv.EvictIdle(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

func unaryHandler[Req any](
	fullMethod string,
	call func(RoomAdminServer, context.Context, *Req) (*structpb.Struct, error),
) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RoomAdminServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RoomAdminServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RoomAdminClient is the client side of the admin service
type RoomAdminClient interface {
	GetRoom(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListRooms(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	EvictIdle(ctx context.Context, in *durationpb.Duration, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type roomAdminClient struct {
	cc grpc.ClientConnInterface
}

// NewRoomAdminClient creates a client over cc
func NewRoomAdminClient(cc grpc.ClientConnInterface) RoomAdminClient {
	return &roomAdminClient{cc: cc}
}

func (c *roomAdminClient) GetRoom(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetRoomFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roomAdminClient) ListRooms(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListRoomsFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roomAdminClient) EvictIdle(ctx context.Context, in *durationpb.Duration, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EvictIdleFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
