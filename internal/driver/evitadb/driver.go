// Package evitadb implements the drivers speaking the evitaDB gRPC API. Generations
// share the transport and differ only in the features their servers provide.
package evitadb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/platformbuilds/evitalab-core/internal/driver"
	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/grpc/clients"
	pb "github.com/platformbuilds/evitalab-core/internal/grpc/evitapb"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

type features struct {
	scopes     bool
	traffic    bool
	readOnly   bool
	catalogIDs bool
}

var (
	generation2025 = features{scopes: true, traffic: true, readOnly: true, catalogIDs: true}
	generation2024 = features{catalogIDs: true}
)

// Driver is one evitaDB protocol generation.
type Driver struct {
	name     string
	features features
	conv     converter
	clients  *clients.EvitaClients
	logger   logger.Logger
}

var _ driver.Driver = (*Driver)(nil)

func newDriver(name string, f features, c *clients.EvitaClients, log logger.Logger) *Driver {
	return &Driver{
		name:     name,
		features: f,
		conv:     converter{features: f},
		clients:  c,
		logger:   log.With("driver", name),
	}
}

// NewDriver2025 supports servers from 2025.1 on: traffic recording, entity scopes
// and the read-only server flag.
func NewDriver2025(c *clients.EvitaClients, log logger.Logger) *Driver {
	return newDriver("evitadb-2025.1", generation2025, c, log)
}

// NewDriver2024 supports 2024.8 servers.
func NewDriver2024(c *clients.EvitaClients, log logger.Logger) *Driver {
	return newDriver("evitadb-2024.8", generation2024, c, log)
}

// Registry returns the generations newest first, as the resolver requires.
func Registry(c *clients.EvitaClients, log logger.Logger) []driver.RegistryEntry {
	return []driver.RegistryEntry{
		{MinVersion: "2025.1", Driver: NewDriver2025(c, log)},
		{MinVersion: "2024.8", Driver: NewDriver2024(c, log)},
	}
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) Release(connectionID string) {
	d.clients.Remove(connectionID)
}

func scopeOf(conn *models.Connection, catalogName string) errs.Scope {
	return errs.Scope{Connection: conn.Name, Catalog: catalogName}
}

// inSession runs fn with a read-only session of the catalog. A session the server
// forgot is dropped from the cache so the next call opens a fresh one.
func (d *Driver) inSession(ctx context.Context, ec *clients.EvitaConn, conn *models.Connection, catalogName, op string, fn func(ctx context.Context) error) error {
	sctx, err := ec.ReadOnlySession(ctx, catalogName)
	if err != nil {
		return err
	}
	if err := fn(sctx); err != nil {
		if clients.IsSessionGone(err) {
			ec.InvalidateSession(catalogName)
			d.logger.Warn("session no longer valid, dropped", "connection", conn.Name, "catalog", catalogName)
		}
		return clients.WrapError(scopeOf(conn, catalogName), op, err)
	}
	return nil
}

func (d *Driver) unsupported(conn *models.Connection, catalogName, op string) error {
	return errs.Unexpected(scopeOf(conn, catalogName), "%s is not supported by servers of generation %s", op, d.name)
}

func (d *Driver) GetServerStatus(ctx context.Context, conn *models.Connection) (*models.ServerStatus, error) {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	resp, err := ec.Management.ServerStatus(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, clients.WrapError(scopeOf(conn, ""), "fetch server status", err)
	}
	return d.conv.serverStatus(resp), nil
}

func (d *Driver) GetCatalogs(ctx context.Context, conn *models.Connection) ([]*models.CatalogStatistics, error) {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	resp, err := ec.Management.GetCatalogStatistics(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, clients.WrapError(scopeOf(conn, ""), "fetch catalogs", err)
	}
	catalogs := make([]*models.CatalogStatistics, 0, len(resp.CatalogStatistics))
	for _, s := range resp.CatalogStatistics {
		c, err := d.conv.catalogStatistics(s)
		if err != nil {
			return nil, errs.WithScope(err, scopeOf(conn, ""))
		}
		catalogs = append(catalogs, c)
	}
	return catalogs, nil
}

// GetCatalogSchema fetches the catalog schema and then every entity schema
// concurrently within the same session.
func (d *Driver) GetCatalogSchema(ctx context.Context, conn *models.Connection, catalogName string) (*models.CatalogSchema, error) {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	var (
		catalog  *pb.GrpcCatalogSchema
		entities []*pb.GrpcEntitySchema
	)
	err = d.inSession(ctx, ec, conn, catalogName, "fetch catalog schema", func(ctx context.Context) error {
		resp, err := ec.Session.GetCatalogSchema(ctx, &pb.GrpcGetCatalogSchemaRequest{NameVariants: true})
		if err != nil {
			return err
		}
		catalog = resp.CatalogSchema

		types, err := ec.Session.GetAllEntityTypes(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		entities = make([]*pb.GrpcEntitySchema, len(types.EntityTypes))
		g, gctx := errgroup.WithContext(ctx)
		for i, entityType := range types.EntityTypes {
			i, entityType := i, entityType
			g.Go(func() error {
				resp, err := ec.Session.GetEntitySchema(gctx, &pb.GrpcEntitySchemaRequest{EntityType: entityType, NameVariants: true})
				if err != nil {
					return err
				}
				entities[i] = resp.EntitySchema
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}

	schema, err := d.conv.catalogSchema(catalog, entities)
	if err != nil {
		return nil, errs.WithScope(err, scopeOf(conn, catalogName))
	}
	d.logger.Debug("catalog schema fetched", "connection", conn.Name, "catalog", catalogName, "entity_types", len(entities))
	return schema, nil
}

func (d *Driver) Query(ctx context.Context, conn *models.Connection, catalogName, query string) (*models.Response, error) {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	var resp *pb.GrpcQueryResponse
	err = d.inSession(ctx, ec, conn, catalogName, "execute query", func(ctx context.Context) error {
		var err error
		resp, err = ec.Session.Query(ctx, &pb.GrpcQueryRequest{Query: query})
		return err
	})
	if err != nil {
		return nil, err
	}
	out, err := d.conv.response(resp)
	if err != nil {
		return nil, errs.WithScope(err, scopeOf(conn, catalogName))
	}
	return out, nil
}

func (d *Driver) CreateCatalog(ctx context.Context, conn *models.Connection, catalogName string) error {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	if _, err := ec.Evita.DefineCatalog(ctx, &pb.GrpcDefineCatalogRequest{CatalogName: catalogName}); err != nil {
		return clients.WrapError(scopeOf(conn, catalogName), "create catalog", err)
	}
	return nil
}

func (d *Driver) RenameCatalog(ctx context.Context, conn *models.Connection, catalogName, newCatalogName string) error {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	resp, err := ec.Evita.RenameCatalog(ctx, &pb.GrpcRenameCatalogRequest{CatalogName: catalogName, NewCatalogName: newCatalogName})
	if err != nil {
		return clients.WrapError(scopeOf(conn, catalogName), "rename catalog", err)
	}
	ec.InvalidateSession(catalogName)
	ec.InvalidateSession(newCatalogName)
	if !resp.Success {
		return errs.Unexpected(scopeOf(conn, catalogName), "server refused to rename catalog to %q", newCatalogName)
	}
	return nil
}

func (d *Driver) DropCatalog(ctx context.Context, conn *models.Connection, catalogName string) error {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	resp, err := ec.Evita.DeleteCatalogIfExists(ctx, &pb.GrpcDeleteCatalogIfExistsRequest{CatalogName: catalogName})
	if err != nil {
		return clients.WrapError(scopeOf(conn, catalogName), "drop catalog", err)
	}
	ec.InvalidateSession(catalogName)
	if !resp.Success {
		return errs.Unexpected(scopeOf(conn, catalogName), "catalog does not exist")
	}
	return nil
}

func (d *Driver) mutateCollection(ctx context.Context, conn *models.Connection, catalogName, entityType, op string, call func(ec *clients.EvitaConn, ctx context.Context) (*pb.GrpcSuccessResponse, error)) error {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	scope := errs.Scope{Connection: conn.Name, Catalog: catalogName, EntityType: entityType}
	return ec.WithReadWriteSession(ctx, catalogName, func(ctx context.Context) error {
		resp, err := call(ec, ctx)
		if err != nil {
			return clients.WrapError(scope, op, err)
		}
		if !resp.Success {
			return errs.Unexpected(scope, "server refused to %s", op)
		}
		return nil
	})
}

func (d *Driver) CreateCollection(ctx context.Context, conn *models.Connection, catalogName, entityType string) error {
	return d.mutateCollection(ctx, conn, catalogName, entityType, "create collection",
		func(ec *clients.EvitaConn, ctx context.Context) (*pb.GrpcSuccessResponse, error) {
			return ec.Session.DefineEntitySchema(ctx, &pb.GrpcDefineEntitySchemaRequest{EntityType: entityType})
		})
}

func (d *Driver) RenameCollection(ctx context.Context, conn *models.Connection, catalogName, entityType, newName string) error {
	return d.mutateCollection(ctx, conn, catalogName, entityType, "rename collection",
		func(ec *clients.EvitaConn, ctx context.Context) (*pb.GrpcSuccessResponse, error) {
			return ec.Session.RenameCollection(ctx, &pb.GrpcRenameCollectionRequest{EntityType: entityType, NewName: newName})
		})
}

func (d *Driver) DropCollection(ctx context.Context, conn *models.Connection, catalogName, entityType string) error {
	return d.mutateCollection(ctx, conn, catalogName, entityType, "drop collection",
		func(ec *clients.EvitaConn, ctx context.Context) (*pb.GrpcSuccessResponse, error) {
			return ec.Session.DeleteCollection(ctx, &pb.GrpcDeleteCollectionRequest{EntityType: entityType})
		})
}

func (d *Driver) BackupCatalog(ctx context.Context, conn *models.Connection, catalogName string, includingWAL bool, pastMoment *time.Time) (*models.TaskStatus, error) {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	req := &pb.GrpcBackupCatalogRequest{IncludingWAL: includingWAL}
	if pastMoment != nil {
		req.PastMoment = timestamppb.New(*pastMoment)
	}
	var resp *pb.GrpcTaskStatusResponse
	err = d.inSession(ctx, ec, conn, catalogName, "backup catalog", func(ctx context.Context) error {
		var err error
		resp, err = ec.Session.BackupCatalog(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	status, err := taskStatus(resp.TaskStatus)
	if err != nil {
		return nil, errs.WithScope(err, scopeOf(conn, catalogName))
	}
	return status, nil
}

func (d *Driver) RestoreCatalog(ctx context.Context, conn *models.Connection, fileID uuid.UUID, catalogName string) (*models.TaskStatus, error) {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	resp, err := ec.Management.RestoreCatalogFromServerFile(ctx, &pb.GrpcRestoreCatalogFromServerFileRequest{
		FileId:      fileID.String(),
		CatalogName: catalogName,
	})
	if err != nil {
		return nil, clients.WrapError(scopeOf(conn, catalogName), "restore catalog", err)
	}
	status, err := taskStatus(resp.TaskStatus)
	if err != nil {
		return nil, errs.WithScope(err, scopeOf(conn, catalogName))
	}
	return status, nil
}

func (d *Driver) GetTaskStatuses(ctx context.Context, conn *models.Connection, pageNumber, pageSize int32, states []models.TaskState) (*models.PaginatedList[*models.TaskStatus], error) {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	req := &pb.GrpcTaskStatusesRequest{PageNumber: pageNumber, PageSize: pageSize}
	for _, s := range states {
		gs, err := toGrpcTaskState(s)
		if err != nil {
			return nil, errs.WithScope(err, scopeOf(conn, ""))
		}
		req.SimplifiedState = append(req.SimplifiedState, gs)
	}
	resp, err := ec.Management.ListTaskStatuses(ctx, req)
	if err != nil {
		return nil, clients.WrapError(scopeOf(conn, ""), "list tasks", err)
	}
	list := &models.PaginatedList[*models.TaskStatus]{
		PageNumber:       resp.PageNumber,
		PageSize:         resp.PageSize,
		LastPageNumber:   lastPageNumber(resp.TotalNumberOfRecords, resp.PageSize),
		TotalRecordCount: resp.TotalNumberOfRecords,
		Data:             make([]*models.TaskStatus, 0, len(resp.TaskStatus)),
	}
	for _, t := range resp.TaskStatus {
		status, err := taskStatus(t)
		if err != nil {
			return nil, errs.WithScope(err, scopeOf(conn, ""))
		}
		list.Data = append(list.Data, status)
	}
	return list, nil
}

func (d *Driver) CancelTask(ctx context.Context, conn *models.Connection, taskID uuid.UUID) (bool, error) {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return false, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	resp, err := ec.Management.CancelTask(ctx, &pb.GrpcCancelTaskRequest{TaskId: taskID.String()})
	if err != nil {
		return false, clients.WrapError(scopeOf(conn, ""), "cancel task", err)
	}
	return resp.Success, nil
}

func (d *Driver) ListFilesToFetch(ctx context.Context, conn *models.Connection, origin string, pageNumber, pageSize int32) (*models.PaginatedList[*models.ServerFile], error) {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	req := &pb.GrpcFilesToFetchRequest{PageNumber: pageNumber, PageSize: pageSize}
	if origin != "" {
		req.Origin = []string{origin}
	}
	resp, err := ec.Management.ListFilesToFetch(ctx, req)
	if err != nil {
		return nil, clients.WrapError(scopeOf(conn, ""), "list files", err)
	}
	list := &models.PaginatedList[*models.ServerFile]{
		PageNumber:       resp.PageNumber,
		PageSize:         resp.PageSize,
		LastPageNumber:   lastPageNumber(resp.TotalNumberOfRecords, resp.PageSize),
		TotalRecordCount: resp.TotalNumberOfRecords,
		Data:             make([]*models.ServerFile, 0, len(resp.FilesToFetch)),
	}
	for _, f := range resp.FilesToFetch {
		file, err := serverFile(f)
		if err != nil {
			return nil, errs.WithScope(err, scopeOf(conn, ""))
		}
		list.Data = append(list.Data, file)
	}
	return list, nil
}

func (d *Driver) DeleteFile(ctx context.Context, conn *models.Connection, fileID uuid.UUID) (bool, error) {
	ec, err := d.clients.Get(conn)
	if err != nil {
		return false, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	resp, err := ec.Management.DeleteFile(ctx, &pb.GrpcDeleteFileToFetchRequest{FileId: fileID.String()})
	if err != nil {
		return false, clients.WrapError(scopeOf(conn, ""), "delete file", err)
	}
	return resp.Success, nil
}

func (d *Driver) GetTrafficRecordHistory(ctx context.Context, conn *models.Connection, catalogName string, criteria models.TrafficRecordingCriteria) ([]models.TrafficRecord, error) {
	if !d.features.traffic {
		return nil, d.unsupported(conn, catalogName, "traffic recording")
	}
	ec, err := d.clients.Get(conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ec.Call(ctx)
	defer cancel()

	grpcCriteria, err := trafficCriteria(criteria)
	if err != nil {
		return nil, errs.WithScope(err, scopeOf(conn, catalogName))
	}
	var resp *pb.GrpcTrafficRecordingHistoryResponse
	err = d.inSession(ctx, ec, conn, catalogName, "fetch traffic history", func(ctx context.Context) error {
		var err error
		resp, err = ec.Session.GetTrafficRecordingHistoryList(ctx, &pb.GrpcTrafficRecordingHistoryRequest{
			Limit:    criteria.Limit,
			Criteria: grpcCriteria,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	records := make([]models.TrafficRecord, 0, len(resp.TrafficRecord))
	for _, r := range resp.TrafficRecord {
		record, err := d.conv.trafficRecord(r)
		if err != nil {
			return nil, errs.WithScope(err, scopeOf(conn, catalogName))
		}
		records = append(records, record)
	}
	return records, nil
}

func lastPageNumber(total, pageSize int32) int32 {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
