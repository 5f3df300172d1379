package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/draft"
	pb "github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/proto"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.DraftServiceClient
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewDraftClient connects to the draft service at endpointURL and signs
// every call with accessToken.
func NewDraftClient(endpointURL, accessToken string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewDraftServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Load(ctx context.Context, entityID string) (*draft.Listing, error) {
	resp, err := s.client.Load(ctx, &pb.LoadRequest{EntityID: entityID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &draft.Listing{
		EntityID:    resp.EntityID,
		Fields:      resp.Fields,
		DraftID:     resp.DraftID,
		DraftFields: resp.DraftFields,
	}, nil
}

func (s *GRPCClient) Save(ctx context.Context, req draft.SaveRequest) (*draft.SaveResult, error) {
	resp, err := s.client.Save(ctx, &pb.SaveRequest{
		EntityID: req.EntityID,
		DraftID:  req.DraftID,
		Changes:  req.Changes,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("save: %w: %s", ErrRejected, resp.Error)
	}
	return &draft.SaveResult{DraftID: resp.DraftID, UpdatedAt: resp.UpdatedAt}, nil
}

func (s *GRPCClient) Publish(ctx context.Context, entityID, draftID string) error {
	resp, err := s.client.Publish(ctx, &pb.PublishRequest{EntityID: entityID, DraftID: draftID})
	if err != nil {
		return s.mapError(err)
	}
	if !resp.Success {
		return fmt.Errorf("publish: %w: %s", ErrRejected, resp.Error)
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.AlreadyExists:
		return common.ErrAlreadyPublished
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", common.ErrDraftRejected, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorInvalidRequest, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
