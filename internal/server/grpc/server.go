// Package grpc exposes the draft service over gRPC: Load, Save, Publish
// and Ping, guarded by partner access tokens and a per-partner save limit.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/logging"
	pb "github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/proto"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/models"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/services"
)

// DraftService is the business logic behind the handlers.
type DraftService interface {
	Load(ctx context.Context, partnerID, entityID string) (*models.Listing, *models.Draft, error)
	Save(ctx context.Context, partnerID, entityID, draftID string, changes listing.Fields) (*models.Draft, error)
	Publish(ctx context.Context, partnerID, entityID, draftID string) (*models.Listing, error)
}

var _ DraftService = (*services.DraftService)(nil)

type GRPCServer struct {
	pb.UnimplementedDraftServiceServer
	address   string
	drafts    DraftService
	limiter   *services.PartnerLimiter
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, ds DraftService, limiter *services.PartnerLimiter, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		drafts:    ds,
		limiter:   limiter,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor, s.rateLimitInterceptor))
	pb.RegisterDraftServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
