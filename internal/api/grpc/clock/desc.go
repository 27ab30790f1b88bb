package clock

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "dstclock.v1.ClockService"
	// GetClockStateMethod is the full method name of GetClockState.
	GetClockStateMethod = "/" + ServiceName + "/GetClockState"
)

// StatusServer is the server API of ClockService.
type StatusServer interface {
	GetClockState(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes ClockService for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are package-level by gRPC convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StatusServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetClockState",
			Handler:    getClockStateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dstclock/v1/clock.proto",
}

// Register registers srv on registrar.
func Register(registrar grpc.ServiceRegistrar, srv StatusServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

func getClockStateHandler(
	srv any,
	ctx context.Context, //nolint:revive // Signature fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	server, _ := srv.(StatusServer)
	if interceptor == nil {
		return server.GetClockState(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetClockStateMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		empty, _ := req.(*emptypb.Empty)

		return server.GetClockState(ctx, empty)
	}

	return interceptor(ctx, in, info, handler)
}
