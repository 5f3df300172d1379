package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	pb "github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/proto"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/auth"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/services"
)

func newTestServer(secret string) *GRPCServer {
	return &GRPCServer{
		logger:    nopLogger{},
		jwtSecret: []byte(secret),
		drafts:    &fakeDrafts{},
	}
}

func withToken(token string) context.Context {
	md := metadata.New(map[string]string{common.AccessTokenHeaderName: token})
	return metadata.NewIncomingContext(context.Background(), md)
}

func mustToken(t *testing.T, partnerID, secret string, validity time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken(partnerID, []byte(secret), validity)
	require.NoError(t, err)
	return tok
}

func TestInterceptor_PingAllowsWithoutToken(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: pb.PingFullMethod}
	handlerCalled := false

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	require.True(t, handlerCalled)
	require.Equal(t, "ok", resp)
}

func TestInterceptor_Rejections(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: pb.SaveFullMethod}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler must not be called")
		return nil, nil
	}

	tests := []struct {
		name string
		ctx  context.Context
		msg  string
	}{
		{"missing token", context.Background(), "missing token"},
		{"malformed token", withToken("not-a-valid-jwt"), "invalid token"},
		{"wrong secret", withToken(mustToken(t, "p-1", "other", time.Hour)), "invalid token"},
		{"expired", withToken(mustToken(t, "p-1", "secret", -time.Minute)), "token expired"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.accessTokenInterceptor(tc.ctx, nil, info, h)
			require.Equal(t, codes.Unauthenticated, status.Code(err))
			require.Equal(t, tc.msg, status.Convert(err).Message())
		})
	}
}

func TestInterceptor_ValidTokenSetsPartner(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: pb.LoadFullMethod}

	var got string
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		got = partnerFromContext(ctx)
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(withToken(mustToken(t, "partner-7", "secret", time.Hour)), nil, info, h)
	require.NoError(t, err)
	require.Equal(t, "partner-7", got)
}

func TestRateLimitInterceptor(t *testing.T) {
	s := newTestServer("secret")
	s.limiter = services.NewPartnerLimiter(0.001, 1)
	ctx := context.WithValue(context.Background(), partnerIDKey, "p-1")
	h := func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil }

	save := &grpc.UnaryServerInfo{FullMethod: pb.SaveFullMethod}
	_, err := s.rateLimitInterceptor(ctx, nil, save, h)
	require.NoError(t, err)

	_, err = s.rateLimitInterceptor(ctx, nil, save, h)
	require.Equal(t, codes.ResourceExhausted, status.Code(err))

	// other methods are not limited
	load := &grpc.UnaryServerInfo{FullMethod: pb.LoadFullMethod}
	_, err = s.rateLimitInterceptor(ctx, nil, load, h)
	require.NoError(t, err)
}
