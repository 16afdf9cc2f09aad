package clients

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	pb "github.com/platformbuilds/evitalab-core/internal/grpc/evitapb"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

type fakeEvita struct {
	pb.UnimplementedEvitaServer
	sessionsOpened atomic.Int32
	lastSessionID  atomic.Value
}

func (f *fakeEvita) CreateReadOnlySession(_ context.Context, in *pb.GrpcEvitaSessionRequest) (*pb.GrpcEvitaSessionResponse, error) {
	f.sessionsOpened.Add(1)
	return &pb.GrpcEvitaSessionResponse{SessionId: "session-" + in.CatalogName}, nil
}

func (f *fakeEvita) GetAllEntityTypes(ctx context.Context, _ *emptypb.Empty) (*pb.GrpcEntityTypesResponse, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	ids := md.Get(pb.SessionIDMetadataKey)
	if len(ids) == 0 {
		return nil, status.Error(codes.Unauthenticated, "no session")
	}
	f.lastSessionID.Store(ids[0])
	return &pb.GrpcEntityTypesResponse{EntityTypes: []string{"Brand", "Product"}}, nil
}

func startFake(t *testing.T, fake *fakeEvita) *EvitaClients {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ForceServerCodec(pb.Codec{}))
	pb.RegisterEvitaServiceServer(srv, fake)
	pb.RegisterEvitaSessionServiceServer(srv, fake)
	pb.RegisterEvitaManagementServiceServer(srv, fake)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	clients := NewEvitaClients(time.Second, logger.NewNop(),
		WithTarget(func(*models.Connection) string { return "passthrough:///bufnet" }),
		WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})),
	)
	t.Cleanup(func() { _ = clients.Close() })
	return clients
}

func TestEvitaConn_ReadOnlySessionIsCachedPerCatalog(t *testing.T) {
	fake := &fakeEvita{}
	clients := startFake(t, fake)
	conn, err := models.NewConnection("local", "http://localhost:5555")
	require.NoError(t, err)

	ec, err := clients.Get(conn)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		ctx, err := ec.ReadOnlySession(context.Background(), "evita")
		require.NoError(t, err)
		resp, err := ec.Session.GetAllEntityTypes(ctx, &emptypb.Empty{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Brand", "Product"}, resp.EntityTypes)
	}
	assert.Equal(t, int32(1), fake.sessionsOpened.Load())
	assert.Equal(t, "session-evita", fake.lastSessionID.Load())

	ec.InvalidateSession("evita")
	_, err = ec.ReadOnlySession(context.Background(), "evita")
	require.NoError(t, err)
	assert.Equal(t, int32(2), fake.sessionsOpened.Load())

	same, err := clients.Get(conn)
	require.NoError(t, err)
	assert.Same(t, ec, same)
}

func TestEvitaConn_UnimplementedIsWrapped(t *testing.T) {
	clients := startFake(t, &fakeEvita{})
	conn, err := models.NewConnection("local", "http://localhost:5555")
	require.NoError(t, err)
	ec, err := clients.Get(conn)
	require.NoError(t, err)

	_, err = ec.Management.ServerStatus(context.Background(), &emptypb.Empty{})
	require.Error(t, err)
	wrapped := WrapError(errs.Scope{Connection: conn.Name}, "server status", err)
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(wrapped))
	assert.Contains(t, wrapped.Error(), "local")
}

func TestWrapError(t *testing.T) {
	scope := errs.Scope{Connection: "local", Catalog: "evita"}
	cases := []struct {
		err  error
		kind errs.Kind
	}{
		{status.Error(codes.DeadlineExceeded, "slow"), errs.KindTimeout},
		{context.DeadlineExceeded, errs.KindTimeout},
		{status.Error(codes.Unavailable, "down"), errs.KindConnectivity},
		{status.Error(codes.Internal, "boom"), errs.KindServer},
		{status.Error(codes.Unknown, "boom"), errs.KindServer},
		{status.Error(codes.InvalidArgument, "bad query"), errs.KindQuery},
		{status.Error(codes.PermissionDenied, "no"), errs.KindUnexpected},
		{errors.New("plain"), errs.KindUnexpected},
	}
	for _, tc := range cases {
		got := WrapError(scope, "query", tc.err)
		assert.Equal(t, tc.kind, errs.KindOf(got), "%v", tc.err)
	}
	assert.Nil(t, WrapError(scope, "query", nil))
}

func TestIsSessionGone(t *testing.T) {
	assert.True(t, IsSessionGone(status.Error(codes.Unauthenticated, "x")))
	assert.True(t, IsSessionGone(status.Error(codes.NotFound, "Session not found")))
	assert.False(t, IsSessionGone(status.Error(codes.NotFound, "entity not found")))
	assert.False(t, IsSessionGone(errors.New("x")))
}
