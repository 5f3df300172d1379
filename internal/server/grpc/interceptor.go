package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	pb "github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/proto"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/auth"
)

type ctxKey string

const partnerIDKey ctxKey = "partnerID"

func partnerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(partnerIDKey).(string)
	return id
}

// accessTokenInterceptor authenticates every call except Ping and stores
// the partner id in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if info.FullMethod == pb.PingFullMethod {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	partnerID, err := auth.GetPartnerIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		s.logger.Warn(ctx, "rejected token", "method", info.FullMethod, "error", err)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, partnerIDKey, partnerID)
	return handler(ctx, req)
}

// rateLimitInterceptor throttles Save per partner. It must run after
// accessTokenInterceptor.
func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if info.FullMethod == pb.SaveFullMethod && !s.limiter.Allow(partnerFromContext(ctx)) {
		return nil, status.Error(codes.ResourceExhausted, common.ErrRateLimited.Error())
	}
	return handler(ctx, req)
}
