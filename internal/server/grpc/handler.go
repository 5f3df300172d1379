package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	pb "github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/proto"
)

func (s *GRPCServer) Load(ctx context.Context, req *pb.LoadRequest) (*pb.LoadResponse, error) {
	l, d, err := s.drafts.Load(ctx, partnerFromContext(ctx), req.EntityID)
	if err != nil {
		return nil, s.toStatus(ctx, "load", err)
	}

	resp := &pb.LoadResponse{EntityID: l.EntityID, Fields: l.Fields, UpdatedAt: l.UpdatedAt}
	if d != nil {
		resp.DraftID = d.ID
		resp.DraftFields = d.Fields
		resp.UpdatedAt = d.UpdatedAt
	}
	return resp, nil
}

func (s *GRPCServer) Save(ctx context.Context, req *pb.SaveRequest) (*pb.SaveResponse, error) {
	d, err := s.drafts.Save(ctx, partnerFromContext(ctx), req.EntityID, req.DraftID, req.Changes)
	if err != nil {
		return nil, s.toStatus(ctx, "save", err)
	}
	return &pb.SaveResponse{Success: true, DraftID: d.ID, UpdatedAt: d.UpdatedAt}, nil
}

func (s *GRPCServer) Publish(ctx context.Context, req *pb.PublishRequest) (*pb.PublishResponse, error) {
	l, err := s.drafts.Publish(ctx, partnerFromContext(ctx), req.EntityID, req.DraftID)
	if err != nil {
		return nil, s.toStatus(ctx, "publish", err)
	}
	return &pb.PublishResponse{Success: true, PublishedAt: l.PublishedAt}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

// toStatus maps service errors to gRPC codes. Unexpected errors are logged
// and hidden behind Internal.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "draft not found")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "listing belongs to another partner")
	case errors.Is(err, common.ErrAlreadyPublished):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrDraftRejected):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrorInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}
