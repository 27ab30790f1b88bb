package status

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	api "github.com/oshokin/dst-clock/internal/api/grpc/clock"
	"github.com/oshokin/dst-clock/internal/logger"
)

// ErrNoListenAddress indicates a missing listen address.
var ErrNoListenAddress = errors.New("no status listen address configured")

// Serve runs the status gRPC server on listenAddress until ctx is canceled.
func Serve(ctx context.Context, listenAddress string, svc api.Service, host string) error {
	ctx = logger.WithName(ctx, "status")

	if listenAddress == "" {
		return ErrNoListenAddress
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	return ServeListener(ctx, lis, svc, host)
}

// ServeListener runs the status gRPC server on lis until ctx is canceled.
func ServeListener(ctx context.Context, lis net.Listener, svc api.Service, host string) error {
	grpcServer := grpc.NewServer()
	api.Register(grpcServer, api.NewServer(svc, host))

	logger.InfoKV(ctx, "Status server listening", "listen_address", lis.Addr().String())

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down status server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Status server stopped")

	return nil
}
