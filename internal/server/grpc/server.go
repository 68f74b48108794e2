// Package grpc exposes the trophy services as the gRPC service
// trophy.TrophyService, encoded with a JSON codec.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/server/services"
	"google.golang.org/grpc"
)

// Services are the business services the transport calls into.
type Services struct {
	Auth          *services.AuthService
	Projects      *services.ProjectService
	Ledger        *services.LedgerService
	Notifications *services.NotificationService
}

type GRPCServer struct {
	address       string
	auth          *services.AuthService
	projects      *services.ProjectService
	ledger        *services.LedgerService
	notifications *services.NotificationService
	logger        logging.Logger
}

var _ TrophyServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(address string, l logging.Logger, svc Services) *GRPCServer {
	return &GRPCServer{
		address:       address,
		auth:          svc.Auth,
		projects:      svc.Projects,
		ledger:        svc.Ledger,
		notifications: svc.Notifications,
		logger:        l.With("module", "grpc_server"),
	}
}

// NewServer builds a grpc.Server with the interceptors installed and the
// service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	RegisterTrophyServiceServer(srv, s)
	return srv
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}
