package proto

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

func TestSaveRequest_RoundTrip(t *testing.T) {
	in := &SaveRequest{
		EntityID: "partner-1",
		DraftID:  "d-1",
		Changes: listing.Fields{
			"title":    listing.Text("Fast"),
			"rating":   listing.Number(4.5),
			"services": listing.List("airport", "night"),
			"website":  listing.Unset(),
		},
	}

	out, err := DecodeSaveRequest(in.Struct())
	require.NoError(t, err)
	assert.Equal(t, in.EntityID, out.EntityID)
	assert.Equal(t, in.DraftID, out.DraftID)
	assert.True(t, in.Changes.Equal(out.Changes), "got %v", out.Changes)
}

func TestSaveResponse_Timestamps(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 123000000, time.FixedZone("CET", 3600))
	out, err := DecodeSaveResponse((&SaveResponse{Success: true, DraftID: "d", UpdatedAt: at}).Struct())
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.True(t, at.Equal(out.UpdatedAt))

	out, err = DecodeSaveResponse((&SaveResponse{Error: "nope"}).Struct())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.True(t, out.UpdatedAt.IsZero())
	assert.Equal(t, "nope", out.Error)
}

func TestLoadResponse_EmptyDraft(t *testing.T) {
	out, err := DecodeLoadResponse((&LoadResponse{EntityID: "p", Fields: listing.Fields{}}).Struct())
	require.NoError(t, err)
	assert.Empty(t, out.DraftID)
	assert.Nil(t, out.DraftFields)
	assert.NotNil(t, out.Fields)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		s    *structpb.Struct
	}{
		{"nil", nil},
		{"entity not string", mustStruct(t, map[string]any{"entity_id": 5.0})},
		{"changes not struct", mustStruct(t, map[string]any{"changes": "x"})},
		{"list of numbers", mustStruct(t, map[string]any{"changes": map[string]any{"services": []any{1.0}}})},
		{"nested object", mustStruct(t, map[string]any{"changes": map[string]any{"title": map[string]any{}}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSaveRequest(tt.s)
			require.ErrorIs(t, err, ErrMalformedMessage)
		})
	}

	_, err := DecodeSaveResponse(mustStruct(t, map[string]any{"updated_at": "yesterday"}))
	require.ErrorIs(t, err, ErrMalformedMessage)
	_, err = DecodeSaveResponse(mustStruct(t, map[string]any{"success": "yes"}))
	require.ErrorIs(t, err, ErrMalformedMessage)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

type echoServer struct {
	UnimplementedDraftServiceServer
	saved *SaveRequest
}

func (e *echoServer) Save(_ context.Context, r *SaveRequest) (*SaveResponse, error) {
	e.saved = r
	return &SaveResponse{Success: true, DraftID: "draft-" + r.EntityID}, nil
}

func (e *echoServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func dialBufconn(t *testing.T, srv DraftServiceServer, opts ...grpc.ServerOption) DraftServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterDraftServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewDraftServiceClient(conn)
}

func TestService_OverGRPC(t *testing.T) {
	srv := &echoServer{}
	var seenMethod string
	var seenReq any
	c := dialBufconn(t, srv, grpc.UnaryInterceptor(func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		seenMethod, seenReq = info.FullMethod, req
		return h(ctx, req)
	}))
	ctx := context.Background()

	resp, err := c.Save(ctx, &SaveRequest{EntityID: "p1", Changes: listing.Fields{"phone": listing.Text("0900")}})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "draft-p1", resp.DraftID)
	assert.Equal(t, "0900", srv.saved.Changes["phone"].AsText())
	assert.Equal(t, SaveFullMethod, seenMethod)
	assert.IsType(t, &SaveRequest{}, seenReq)

	ping, err := c.Ping(ctx, &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)

	_, err = c.Publish(ctx, &PublishRequest{EntityID: "p1", DraftID: "d"})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
