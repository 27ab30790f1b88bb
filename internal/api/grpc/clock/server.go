package clock

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/dst-clock/internal/domain/clock"
)

// Service abstracts the clock state the transport layer depends on.
type Service interface {
	Snapshot(ctx context.Context) *domain.Snapshot
}

// Server implements ClockService.
type Server struct {
	// service provides the clock state.
	service Service
	// host is reported with every state so clients know which clock answered.
	host string
}

// NewServer wires the provided service into a gRPC handler.
func NewServer(service Service, host string) *Server {
	return &Server{
		service: service,
		host:    host,
	}
}

// GetClockState returns the state of the clock after its last iteration.
func (s *Server) GetClockState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot := s.service.Snapshot(ctx)
	if snapshot == nil {
		return nil, status.Error(codes.Unavailable, "clock has not started")
	}

	state, err := ToStruct(snapshot, s.host)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode clock state")
	}

	return state, nil
}
