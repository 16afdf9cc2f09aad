package evitadb

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/grpc/clients"
	pb "github.com/platformbuilds/evitalab-core/internal/grpc/evitapb"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

type fakeServer struct {
	pb.UnimplementedEvitaServer

	sessions       atomic.Int32
	rwSessions     atomic.Int32
	closedSessions atomic.Int32
	expireNext     atomic.Bool

	mu             sync.Mutex
	schemaRequests []string
	definedTypes   []string
}

func sessionOf(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if ids := md.Get(pb.SessionIDMetadataKey); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

func (f *fakeServer) CreateReadOnlySession(_ context.Context, in *pb.GrpcEvitaSessionRequest) (*pb.GrpcEvitaSessionResponse, error) {
	n := f.sessions.Add(1)
	return &pb.GrpcEvitaSessionResponse{SessionId: in.CatalogName + "-ro-" + string(rune('0'+n))}, nil
}

func (f *fakeServer) CreateReadWriteSession(_ context.Context, in *pb.GrpcEvitaSessionRequest) (*pb.GrpcEvitaSessionResponse, error) {
	f.rwSessions.Add(1)
	return &pb.GrpcEvitaSessionResponse{SessionId: in.CatalogName + "-rw"}, nil
}

func (f *fakeServer) Close(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	f.closedSessions.Add(1)
	return &emptypb.Empty{}, nil
}

func (f *fakeServer) GetCatalogSchema(ctx context.Context, _ *pb.GrpcGetCatalogSchemaRequest) (*pb.GrpcCatalogSchemaResponse, error) {
	if sessionOf(ctx) == "" {
		return nil, status.Error(codes.Unauthenticated, "no session")
	}
	return &pb.GrpcCatalogSchemaResponse{CatalogSchema: &pb.GrpcCatalogSchema{Name: "evita", Version: 1}}, nil
}

func (f *fakeServer) GetAllEntityTypes(context.Context, *emptypb.Empty) (*pb.GrpcEntityTypesResponse, error) {
	return &pb.GrpcEntityTypesResponse{EntityTypes: []string{"Brand", "Category", "Product"}}, nil
}

func (f *fakeServer) GetEntitySchema(_ context.Context, in *pb.GrpcEntitySchemaRequest) (*pb.GrpcEntitySchemaResponse, error) {
	f.mu.Lock()
	f.schemaRequests = append(f.schemaRequests, in.EntityType)
	f.mu.Unlock()
	return &pb.GrpcEntitySchemaResponse{EntitySchema: &pb.GrpcEntitySchema{
		Name: in.EntityType,
		Attributes: map[string]*pb.GrpcAttributeSchema{
			"code": {Name: "code", Representative: wrapperspb.Bool(true)},
		},
	}}, nil
}

func (f *fakeServer) Query(_ context.Context, in *pb.GrpcQueryRequest) (*pb.GrpcQueryResponse, error) {
	if f.expireNext.CompareAndSwap(true, false) {
		return nil, status.Error(codes.Unauthenticated, "session expired")
	}
	if in.Query == "invalid" {
		return nil, status.Error(codes.InvalidArgument, "cannot parse query")
	}
	return &pb.GrpcQueryResponse{RecordPage: &pb.GrpcDataChunk{
		SealedEntities:   []*pb.GrpcSealedEntity{{EntityType: "Product", PrimaryKey: 42}},
		PageNumber:       1,
		PageSize:         20,
		TotalRecordCount: 1,
	}}, nil
}

func (f *fakeServer) DefineEntitySchema(ctx context.Context, in *pb.GrpcDefineEntitySchemaRequest) (*pb.GrpcSuccessResponse, error) {
	if sessionOf(ctx) != "evita-rw" {
		return nil, status.Error(codes.PermissionDenied, "read-write session required")
	}
	f.mu.Lock()
	f.definedTypes = append(f.definedTypes, in.EntityType)
	f.mu.Unlock()
	return &pb.GrpcSuccessResponse{Success: true}, nil
}

func (f *fakeServer) GetTrafficRecordingHistoryList(_ context.Context, in *pb.GrpcTrafficRecordingHistoryRequest) (*pb.GrpcTrafficRecordingHistoryResponse, error) {
	return &pb.GrpcTrafficRecordingHistoryResponse{TrafficRecord: []*pb.GrpcTrafficRecord{{
		SessionId:    uuid.NewString(),
		Type:         pb.GrpcTrafficRecordingType_SESSION_START,
		SessionStart: &pb.GrpcTrafficSessionStartContainer{CatalogVersion: int64(in.Limit)},
	}}}, nil
}

func (f *fakeServer) ServerStatus(context.Context, *emptypb.Empty) (*pb.GrpcEvitaServerStatusResponse, error) {
	return &pb.GrpcEvitaServerStatusResponse{ServerName: "evitaDB", Version: "2025.1.0", ReadOnly: wrapperspb.Bool(false)}, nil
}

func (f *fakeServer) ListTaskStatuses(_ context.Context, in *pb.GrpcTaskStatusesRequest) (*pb.GrpcTaskStatusesResponse, error) {
	return &pb.GrpcTaskStatusesResponse{
		TaskStatus: []*pb.GrpcTaskStatus{{
			TaskId:          uuid.NewString(),
			TaskName:        "backup",
			SimplifiedState: pb.GrpcTaskSimplifiedState_TASK_RUNNING,
		}},
		PageNumber:           in.PageNumber,
		PageSize:             in.PageSize,
		TotalNumberOfRecords: 11,
	}, nil
}

func startServer(t *testing.T, fake *fakeServer) (*clients.EvitaClients, *models.Connection) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ForceServerCodec(pb.Codec{}))
	pb.RegisterEvitaServiceServer(srv, fake)
	pb.RegisterEvitaSessionServiceServer(srv, fake)
	pb.RegisterEvitaManagementServiceServer(srv, fake)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	pool := clients.NewEvitaClients(time.Second, logger.NewNop(),
		clients.WithTarget(func(*models.Connection) string { return "passthrough:///bufnet" }),
		clients.WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})),
	)
	t.Cleanup(func() { _ = pool.Close() })

	conn, err := models.NewConnection("local", "http://localhost:5555")
	require.NoError(t, err)
	return pool, conn
}

func TestDriver_GetCatalogSchemaFetchesEveryEntitySchema(t *testing.T) {
	fake := &fakeServer{}
	pool, conn := startServer(t, fake)
	d := NewDriver2025(pool, logger.NewNop())

	schema, err := d.GetCatalogSchema(context.Background(), conn, "evita")
	require.NoError(t, err)
	assert.Len(t, schema.EntitySchemas, 3)
	assert.ElementsMatch(t, []string{"Brand", "Category", "Product"}, fake.schemaRequests)
	assert.Equal(t, []string{"code"}, schema.EntitySchemas["Product"].RepresentativeAttributes)
	assert.Equal(t, int32(1), fake.sessions.Load())
}

func TestDriver_ExpiredSessionIsReopenedOnNextCall(t *testing.T) {
	fake := &fakeServer{}
	pool, conn := startServer(t, fake)
	d := NewDriver2025(pool, logger.NewNop())

	_, err := d.Query(context.Background(), conn, "evita", "query(collection('Product'))")
	require.NoError(t, err)

	fake.expireNext.Store(true)
	_, err = d.Query(context.Background(), conn, "evita", "query(collection('Product'))")
	require.Error(t, err)

	resp, err := d.Query(context.Background(), conn, "evita", "query(collection('Product'))")
	require.NoError(t, err)
	page, err := resp.RecordPage.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(42), page.Data[0].PrimaryKey)
	assert.Equal(t, int32(2), fake.sessions.Load())
}

func TestDriver_InvalidQueryIsQueryError(t *testing.T) {
	pool, conn := startServer(t, &fakeServer{})
	d := NewDriver2025(pool, logger.NewNop())

	_, err := d.Query(context.Background(), conn, "evita", "invalid")
	assert.Equal(t, errs.KindQuery, errs.KindOf(err))
}

func TestDriver_CreateCollectionUsesReadWriteSession(t *testing.T) {
	fake := &fakeServer{}
	pool, conn := startServer(t, fake)
	d := NewDriver2024(pool, logger.NewNop())

	require.NoError(t, d.CreateCollection(context.Background(), conn, "evita", "Tag"))
	assert.Equal(t, []string{"Tag"}, fake.definedTypes)
	assert.Equal(t, int32(1), fake.rwSessions.Load())
	assert.Equal(t, int32(1), fake.closedSessions.Load())
}

func TestDriver_TrafficRecordingByGeneration(t *testing.T) {
	pool, conn := startServer(t, &fakeServer{})
	criteria := models.TrafficRecordingCriteria{Limit: 7}

	records, err := NewDriver2025(pool, logger.NewNop()).GetTrafficRecordHistory(context.Background(), conn, "evita", criteria)
	require.NoError(t, err)
	require.Len(t, records, 1)
	start, ok := records[0].(*models.SessionStartRecord)
	require.True(t, ok)
	assert.Equal(t, int64(7), start.CatalogVersion)

	_, err = NewDriver2024(pool, logger.NewNop()).GetTrafficRecordHistory(context.Background(), conn, "evita", criteria)
	require.Error(t, err)
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
	assert.Contains(t, err.Error(), "evitadb-2024.8")
}

func TestDriver_ServerStatusAndTasks(t *testing.T) {
	pool, conn := startServer(t, &fakeServer{})
	d := NewDriver2025(pool, logger.NewNop())

	st, err := d.GetServerStatus(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, "evitaDB", st.ServerName)
	assert.True(t, st.ReadOnly.IsSupported())

	tasks, err := d.GetTaskStatuses(context.Background(), conn, 1, 5, []models.TaskState{models.TaskRunning})
	require.NoError(t, err)
	assert.Equal(t, int32(3), tasks.LastPageNumber)
	require.Len(t, tasks.Data, 1)
	assert.Equal(t, models.TaskRunning, tasks.Data[0].State)
}

func TestDriver_UnimplementedCallIsWrapped(t *testing.T) {
	pool, conn := startServer(t, &fakeServer{})
	d := NewDriver2025(pool, logger.NewNop())

	_, err := d.GetCatalogs(context.Background(), conn)
	require.Error(t, err)
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}

func TestRegistry_NewestFirst(t *testing.T) {
	entries := Registry(clients.NewEvitaClients(time.Second, logger.NewNop()), logger.NewNop())
	require.Len(t, entries, 2)
	assert.Equal(t, "evitadb-2025.1", entries[0].Driver.Name())
	assert.Equal(t, "2024.8", entries[1].MinVersion)
}
