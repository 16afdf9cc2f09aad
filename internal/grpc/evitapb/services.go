package evitapb

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	EvitaServiceName           = "io.evitadb.externalApi.grpc.generated.EvitaService"
	EvitaSessionServiceName    = "io.evitadb.externalApi.grpc.generated.EvitaSessionService"
	EvitaManagementServiceName = "io.evitadb.externalApi.grpc.generated.EvitaManagementService"

	// SessionIDMetadataKey carries the session id on every session service call.
	SessionIDMetadataKey = "sessionid"
)

// Codec encodes the wire messages as JSON. The messages are plain structs, so the
// default proto codec cannot serve them; clients use it via grpc.ForceCodec and
// servers via grpc.ForceServerCodec.
type Codec struct{}

func (Codec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (Codec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

func (Codec) Name() string { return "json" }

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, "/"+service+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

/* ========= EvitaService ========= */

type EvitaServiceClient interface {
	CreateReadOnlySession(ctx context.Context, in *GrpcEvitaSessionRequest, opts ...grpc.CallOption) (*GrpcEvitaSessionResponse, error)
	CreateReadWriteSession(ctx context.Context, in *GrpcEvitaSessionRequest, opts ...grpc.CallOption) (*GrpcEvitaSessionResponse, error)
	DefineCatalog(ctx context.Context, in *GrpcDefineCatalogRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error)
	RenameCatalog(ctx context.Context, in *GrpcRenameCatalogRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error)
	DeleteCatalogIfExists(ctx context.Context, in *GrpcDeleteCatalogIfExistsRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error)
}

type evitaServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEvitaServiceClient(cc grpc.ClientConnInterface) EvitaServiceClient {
	return &evitaServiceClient{cc}
}

func (c *evitaServiceClient) CreateReadOnlySession(ctx context.Context, in *GrpcEvitaSessionRequest, opts ...grpc.CallOption) (*GrpcEvitaSessionResponse, error) {
	return invoke[GrpcEvitaSessionResponse](ctx, c.cc, EvitaServiceName, "CreateReadOnlySession", in, opts)
}

func (c *evitaServiceClient) CreateReadWriteSession(ctx context.Context, in *GrpcEvitaSessionRequest, opts ...grpc.CallOption) (*GrpcEvitaSessionResponse, error) {
	return invoke[GrpcEvitaSessionResponse](ctx, c.cc, EvitaServiceName, "CreateReadWriteSession", in, opts)
}

func (c *evitaServiceClient) DefineCatalog(ctx context.Context, in *GrpcDefineCatalogRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error) {
	return invoke[GrpcSuccessResponse](ctx, c.cc, EvitaServiceName, "DefineCatalog", in, opts)
}

func (c *evitaServiceClient) RenameCatalog(ctx context.Context, in *GrpcRenameCatalogRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error) {
	return invoke[GrpcSuccessResponse](ctx, c.cc, EvitaServiceName, "RenameCatalog", in, opts)
}

func (c *evitaServiceClient) DeleteCatalogIfExists(ctx context.Context, in *GrpcDeleteCatalogIfExistsRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error) {
	return invoke[GrpcSuccessResponse](ctx, c.cc, EvitaServiceName, "DeleteCatalogIfExists", in, opts)
}

/* ========= EvitaSessionService ========= */

type EvitaSessionServiceClient interface {
	GetCatalogSchema(ctx context.Context, in *GrpcGetCatalogSchemaRequest, opts ...grpc.CallOption) (*GrpcCatalogSchemaResponse, error)
	GetAllEntityTypes(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GrpcEntityTypesResponse, error)
	GetEntitySchema(ctx context.Context, in *GrpcEntitySchemaRequest, opts ...grpc.CallOption) (*GrpcEntitySchemaResponse, error)
	Query(ctx context.Context, in *GrpcQueryRequest, opts ...grpc.CallOption) (*GrpcQueryResponse, error)
	DefineEntitySchema(ctx context.Context, in *GrpcDefineEntitySchemaRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error)
	RenameCollection(ctx context.Context, in *GrpcRenameCollectionRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error)
	DeleteCollection(ctx context.Context, in *GrpcDeleteCollectionRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error)
	BackupCatalog(ctx context.Context, in *GrpcBackupCatalogRequest, opts ...grpc.CallOption) (*GrpcTaskStatusResponse, error)
	GetTrafficRecordingHistoryList(ctx context.Context, in *GrpcTrafficRecordingHistoryRequest, opts ...grpc.CallOption) (*GrpcTrafficRecordingHistoryResponse, error)
	Close(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type evitaSessionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEvitaSessionServiceClient(cc grpc.ClientConnInterface) EvitaSessionServiceClient {
	return &evitaSessionServiceClient{cc}
}

func (c *evitaSessionServiceClient) GetCatalogSchema(ctx context.Context, in *GrpcGetCatalogSchemaRequest, opts ...grpc.CallOption) (*GrpcCatalogSchemaResponse, error) {
	return invoke[GrpcCatalogSchemaResponse](ctx, c.cc, EvitaSessionServiceName, "GetCatalogSchema", in, opts)
}

func (c *evitaSessionServiceClient) GetAllEntityTypes(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GrpcEntityTypesResponse, error) {
	return invoke[GrpcEntityTypesResponse](ctx, c.cc, EvitaSessionServiceName, "GetAllEntityTypes", in, opts)
}

func (c *evitaSessionServiceClient) GetEntitySchema(ctx context.Context, in *GrpcEntitySchemaRequest, opts ...grpc.CallOption) (*GrpcEntitySchemaResponse, error) {
	return invoke[GrpcEntitySchemaResponse](ctx, c.cc, EvitaSessionServiceName, "GetEntitySchema", in, opts)
}

func (c *evitaSessionServiceClient) Query(ctx context.Context, in *GrpcQueryRequest, opts ...grpc.CallOption) (*GrpcQueryResponse, error) {
	return invoke[GrpcQueryResponse](ctx, c.cc, EvitaSessionServiceName, "Query", in, opts)
}

func (c *evitaSessionServiceClient) DefineEntitySchema(ctx context.Context, in *GrpcDefineEntitySchemaRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error) {
	return invoke[GrpcSuccessResponse](ctx, c.cc, EvitaSessionServiceName, "DefineEntitySchema", in, opts)
}

func (c *evitaSessionServiceClient) RenameCollection(ctx context.Context, in *GrpcRenameCollectionRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error) {
	return invoke[GrpcSuccessResponse](ctx, c.cc, EvitaSessionServiceName, "RenameCollection", in, opts)
}

func (c *evitaSessionServiceClient) DeleteCollection(ctx context.Context, in *GrpcDeleteCollectionRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error) {
	return invoke[GrpcSuccessResponse](ctx, c.cc, EvitaSessionServiceName, "DeleteCollection", in, opts)
}

func (c *evitaSessionServiceClient) BackupCatalog(ctx context.Context, in *GrpcBackupCatalogRequest, opts ...grpc.CallOption) (*GrpcTaskStatusResponse, error) {
	return invoke[GrpcTaskStatusResponse](ctx, c.cc, EvitaSessionServiceName, "BackupCatalog", in, opts)
}

func (c *evitaSessionServiceClient) GetTrafficRecordingHistoryList(ctx context.Context, in *GrpcTrafficRecordingHistoryRequest, opts ...grpc.CallOption) (*GrpcTrafficRecordingHistoryResponse, error) {
	return invoke[GrpcTrafficRecordingHistoryResponse](ctx, c.cc, EvitaSessionServiceName, "GetTrafficRecordingHistoryList", in, opts)
}

func (c *evitaSessionServiceClient) Close(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, EvitaSessionServiceName, "Close", in, opts)
}

/* ========= EvitaManagementService ========= */

type EvitaManagementServiceClient interface {
	ServerStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GrpcEvitaServerStatusResponse, error)
	GetCatalogStatistics(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GrpcCatalogStatisticsResponse, error)
	RestoreCatalogFromServerFile(ctx context.Context, in *GrpcRestoreCatalogFromServerFileRequest, opts ...grpc.CallOption) (*GrpcTaskStatusResponse, error)
	ListTaskStatuses(ctx context.Context, in *GrpcTaskStatusesRequest, opts ...grpc.CallOption) (*GrpcTaskStatusesResponse, error)
	CancelTask(ctx context.Context, in *GrpcCancelTaskRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error)
	ListFilesToFetch(ctx context.Context, in *GrpcFilesToFetchRequest, opts ...grpc.CallOption) (*GrpcFilesToFetchResponse, error)
	DeleteFile(ctx context.Context, in *GrpcDeleteFileToFetchRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error)
}

type evitaManagementServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEvitaManagementServiceClient(cc grpc.ClientConnInterface) EvitaManagementServiceClient {
	return &evitaManagementServiceClient{cc}
}

func (c *evitaManagementServiceClient) ServerStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GrpcEvitaServerStatusResponse, error) {
	return invoke[GrpcEvitaServerStatusResponse](ctx, c.cc, EvitaManagementServiceName, "ServerStatus", in, opts)
}

func (c *evitaManagementServiceClient) GetCatalogStatistics(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*GrpcCatalogStatisticsResponse, error) {
	return invoke[GrpcCatalogStatisticsResponse](ctx, c.cc, EvitaManagementServiceName, "GetCatalogStatistics", in, opts)
}

func (c *evitaManagementServiceClient) RestoreCatalogFromServerFile(ctx context.Context, in *GrpcRestoreCatalogFromServerFileRequest, opts ...grpc.CallOption) (*GrpcTaskStatusResponse, error) {
	return invoke[GrpcTaskStatusResponse](ctx, c.cc, EvitaManagementServiceName, "RestoreCatalogFromServerFile", in, opts)
}

func (c *evitaManagementServiceClient) ListTaskStatuses(ctx context.Context, in *GrpcTaskStatusesRequest, opts ...grpc.CallOption) (*GrpcTaskStatusesResponse, error) {
	return invoke[GrpcTaskStatusesResponse](ctx, c.cc, EvitaManagementServiceName, "ListTaskStatuses", in, opts)
}

func (c *evitaManagementServiceClient) CancelTask(ctx context.Context, in *GrpcCancelTaskRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error) {
	return invoke[GrpcSuccessResponse](ctx, c.cc, EvitaManagementServiceName, "CancelTask", in, opts)
}

func (c *evitaManagementServiceClient) ListFilesToFetch(ctx context.Context, in *GrpcFilesToFetchRequest, opts ...grpc.CallOption) (*GrpcFilesToFetchResponse, error) {
	return invoke[GrpcFilesToFetchResponse](ctx, c.cc, EvitaManagementServiceName, "ListFilesToFetch", in, opts)
}

func (c *evitaManagementServiceClient) DeleteFile(ctx context.Context, in *GrpcDeleteFileToFetchRequest, opts ...grpc.CallOption) (*GrpcSuccessResponse, error) {
	return invoke[GrpcSuccessResponse](ctx, c.cc, EvitaManagementServiceName, "DeleteFile", in, opts)
}

/* ========= Server side (used by in-process fakes) ========= */

// EvitaSessionServiceServer is implemented by fake servers in tests.
type EvitaSessionServiceServer interface {
	GetCatalogSchema(context.Context, *GrpcGetCatalogSchemaRequest) (*GrpcCatalogSchemaResponse, error)
	GetAllEntityTypes(context.Context, *emptypb.Empty) (*GrpcEntityTypesResponse, error)
	GetEntitySchema(context.Context, *GrpcEntitySchemaRequest) (*GrpcEntitySchemaResponse, error)
	Query(context.Context, *GrpcQueryRequest) (*GrpcQueryResponse, error)
	DefineEntitySchema(context.Context, *GrpcDefineEntitySchemaRequest) (*GrpcSuccessResponse, error)
	RenameCollection(context.Context, *GrpcRenameCollectionRequest) (*GrpcSuccessResponse, error)
	DeleteCollection(context.Context, *GrpcDeleteCollectionRequest) (*GrpcSuccessResponse, error)
	BackupCatalog(context.Context, *GrpcBackupCatalogRequest) (*GrpcTaskStatusResponse, error)
	GetTrafficRecordingHistoryList(context.Context, *GrpcTrafficRecordingHistoryRequest) (*GrpcTrafficRecordingHistoryResponse, error)
	Close(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

type EvitaServiceServer interface {
	CreateReadOnlySession(context.Context, *GrpcEvitaSessionRequest) (*GrpcEvitaSessionResponse, error)
	CreateReadWriteSession(context.Context, *GrpcEvitaSessionRequest) (*GrpcEvitaSessionResponse, error)
	DefineCatalog(context.Context, *GrpcDefineCatalogRequest) (*GrpcSuccessResponse, error)
	RenameCatalog(context.Context, *GrpcRenameCatalogRequest) (*GrpcSuccessResponse, error)
	DeleteCatalogIfExists(context.Context, *GrpcDeleteCatalogIfExistsRequest) (*GrpcSuccessResponse, error)
}

type EvitaManagementServiceServer interface {
	ServerStatus(context.Context, *emptypb.Empty) (*GrpcEvitaServerStatusResponse, error)
	GetCatalogStatistics(context.Context, *emptypb.Empty) (*GrpcCatalogStatisticsResponse, error)
	RestoreCatalogFromServerFile(context.Context, *GrpcRestoreCatalogFromServerFileRequest) (*GrpcTaskStatusResponse, error)
	ListTaskStatuses(context.Context, *GrpcTaskStatusesRequest) (*GrpcTaskStatusesResponse, error)
	CancelTask(context.Context, *GrpcCancelTaskRequest) (*GrpcSuccessResponse, error)
	ListFilesToFetch(context.Context, *GrpcFilesToFetchRequest) (*GrpcFilesToFetchResponse, error)
	DeleteFile(context.Context, *GrpcDeleteFileToFetchRequest) (*GrpcSuccessResponse, error)
}

func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + service + "/" + method}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func RegisterEvitaServiceServer(s grpc.ServiceRegistrar, srv EvitaServiceServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: EvitaServiceName,
		HandlerType: (*EvitaServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			unary(EvitaServiceName, "CreateReadOnlySession", EvitaServiceServer.CreateReadOnlySession),
			unary(EvitaServiceName, "CreateReadWriteSession", EvitaServiceServer.CreateReadWriteSession),
			unary(EvitaServiceName, "DefineCatalog", EvitaServiceServer.DefineCatalog),
			unary(EvitaServiceName, "RenameCatalog", EvitaServiceServer.RenameCatalog),
			unary(EvitaServiceName, "DeleteCatalogIfExists", EvitaServiceServer.DeleteCatalogIfExists),
		},
	}, srv)
}

func RegisterEvitaSessionServiceServer(s grpc.ServiceRegistrar, srv EvitaSessionServiceServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: EvitaSessionServiceName,
		HandlerType: (*EvitaSessionServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			unary(EvitaSessionServiceName, "GetCatalogSchema", EvitaSessionServiceServer.GetCatalogSchema),
			unary(EvitaSessionServiceName, "GetAllEntityTypes", EvitaSessionServiceServer.GetAllEntityTypes),
			unary(EvitaSessionServiceName, "GetEntitySchema", EvitaSessionServiceServer.GetEntitySchema),
			unary(EvitaSessionServiceName, "Query", EvitaSessionServiceServer.Query),
			unary(EvitaSessionServiceName, "DefineEntitySchema", EvitaSessionServiceServer.DefineEntitySchema),
			unary(EvitaSessionServiceName, "RenameCollection", EvitaSessionServiceServer.RenameCollection),
			unary(EvitaSessionServiceName, "DeleteCollection", EvitaSessionServiceServer.DeleteCollection),
			unary(EvitaSessionServiceName, "BackupCatalog", EvitaSessionServiceServer.BackupCatalog),
			unary(EvitaSessionServiceName, "GetTrafficRecordingHistoryList", EvitaSessionServiceServer.GetTrafficRecordingHistoryList),
			unary(EvitaSessionServiceName, "Close", EvitaSessionServiceServer.Close),
		},
	}, srv)
}

func RegisterEvitaManagementServiceServer(s grpc.ServiceRegistrar, srv EvitaManagementServiceServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: EvitaManagementServiceName,
		HandlerType: (*EvitaManagementServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			unary(EvitaManagementServiceName, "ServerStatus", EvitaManagementServiceServer.ServerStatus),
			unary(EvitaManagementServiceName, "GetCatalogStatistics", EvitaManagementServiceServer.GetCatalogStatistics),
			unary(EvitaManagementServiceName, "RestoreCatalogFromServerFile", EvitaManagementServiceServer.RestoreCatalogFromServerFile),
			unary(EvitaManagementServiceName, "ListTaskStatuses", EvitaManagementServiceServer.ListTaskStatuses),
			unary(EvitaManagementServiceName, "CancelTask", EvitaManagementServiceServer.CancelTask),
			unary(EvitaManagementServiceName, "ListFilesToFetch", EvitaManagementServiceServer.ListFilesToFetch),
			unary(EvitaManagementServiceName, "DeleteFile", EvitaManagementServiceServer.DeleteFile),
		},
	}, srv)
}

// UnimplementedEvitaServer can be embedded by fakes implementing any of the three
// server interfaces; unimplemented calls fail with codes.Unimplemented.
type UnimplementedEvitaServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedEvitaServer) CreateReadOnlySession(context.Context, *GrpcEvitaSessionRequest) (*GrpcEvitaSessionResponse, error) {
	return nil, unimplemented("CreateReadOnlySession")
}
func (UnimplementedEvitaServer) CreateReadWriteSession(context.Context, *GrpcEvitaSessionRequest) (*GrpcEvitaSessionResponse, error) {
	return nil, unimplemented("CreateReadWriteSession")
}
func (UnimplementedEvitaServer) DefineCatalog(context.Context, *GrpcDefineCatalogRequest) (*GrpcSuccessResponse, error) {
	return nil, unimplemented("DefineCatalog")
}
func (UnimplementedEvitaServer) RenameCatalog(context.Context, *GrpcRenameCatalogRequest) (*GrpcSuccessResponse, error) {
	return nil, unimplemented("RenameCatalog")
}
func (UnimplementedEvitaServer) DeleteCatalogIfExists(context.Context, *GrpcDeleteCatalogIfExistsRequest) (*GrpcSuccessResponse, error) {
	return nil, unimplemented("DeleteCatalogIfExists")
}
func (UnimplementedEvitaServer) GetCatalogSchema(context.Context, *GrpcGetCatalogSchemaRequest) (*GrpcCatalogSchemaResponse, error) {
	return nil, unimplemented("GetCatalogSchema")
}
func (UnimplementedEvitaServer) GetAllEntityTypes(context.Context, *emptypb.Empty) (*GrpcEntityTypesResponse, error) {
	return nil, unimplemented("GetAllEntityTypes")
}
func (UnimplementedEvitaServer) GetEntitySchema(context.Context, *GrpcEntitySchemaRequest) (*GrpcEntitySchemaResponse, error) {
	return nil, unimplemented("GetEntitySchema")
}
func (UnimplementedEvitaServer) Query(context.Context, *GrpcQueryRequest) (*GrpcQueryResponse, error) {
	return nil, unimplemented("Query")
}
func (UnimplementedEvitaServer) DefineEntitySchema(context.Context, *GrpcDefineEntitySchemaRequest) (*GrpcSuccessResponse, error) {
	return nil, unimplemented("DefineEntitySchema")
}
func (UnimplementedEvitaServer) RenameCollection(context.Context, *GrpcRenameCollectionRequest) (*GrpcSuccessResponse, error) {
	return nil, unimplemented("RenameCollection")
}
func (UnimplementedEvitaServer) DeleteCollection(context.Context, *GrpcDeleteCollectionRequest) (*GrpcSuccessResponse, error) {
	return nil, unimplemented("DeleteCollection")
}
func (UnimplementedEvitaServer) BackupCatalog(context.Context, *GrpcBackupCatalogRequest) (*GrpcTaskStatusResponse, error) {
	return nil, unimplemented("BackupCatalog")
}
func (UnimplementedEvitaServer) GetTrafficRecordingHistoryList(context.Context, *GrpcTrafficRecordingHistoryRequest) (*GrpcTrafficRecordingHistoryResponse, error) {
	return nil, unimplemented("GetTrafficRecordingHistoryList")
}
func (UnimplementedEvitaServer) Close(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}
func (UnimplementedEvitaServer) ServerStatus(context.Context, *emptypb.Empty) (*GrpcEvitaServerStatusResponse, error) {
	return nil, unimplemented("ServerStatus")
}
func (UnimplementedEvitaServer) GetCatalogStatistics(context.Context, *emptypb.Empty) (*GrpcCatalogStatisticsResponse, error) {
	return nil, unimplemented("GetCatalogStatistics")
}
func (UnimplementedEvitaServer) RestoreCatalogFromServerFile(context.Context, *GrpcRestoreCatalogFromServerFileRequest) (*GrpcTaskStatusResponse, error) {
	return nil, unimplemented("RestoreCatalogFromServerFile")
}
func (UnimplementedEvitaServer) ListTaskStatuses(context.Context, *GrpcTaskStatusesRequest) (*GrpcTaskStatusesResponse, error) {
	return nil, unimplemented("ListTaskStatuses")
}
func (UnimplementedEvitaServer) CancelTask(context.Context, *GrpcCancelTaskRequest) (*GrpcSuccessResponse, error) {
	return nil, unimplemented("CancelTask")
}
func (UnimplementedEvitaServer) ListFilesToFetch(context.Context, *GrpcFilesToFetchRequest) (*GrpcFilesToFetchResponse, error) {
	return nil, unimplemented("ListFilesToFetch")
}
func (UnimplementedEvitaServer) DeleteFile(context.Context, *GrpcDeleteFileToFetchRequest) (*GrpcSuccessResponse, error) {
	return nil, unimplemented("DeleteFile")
}
