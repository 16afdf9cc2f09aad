package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/platformbuilds/evitalab-core/internal/driver"
	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/metrics"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/tracing"
	"github.com/platformbuilds/evitalab-core/pkg/cache"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// DriverResolver resolves and forgets drivers per connection.
type DriverResolver interface {
	ResolveDriver(ctx context.Context, conn *models.Connection) (driver.Driver, error)
	Invalidate(connectionID string)
}

// ConnectionService owns the connection registry, the resolved drivers and the
// catalog schema cache. It is the SchemaProvider of the query builders.
type ConnectionService struct {
	resolver DriverResolver
	store    cache.ConnectionStore
	logger   logger.Logger
	tracer   *tracing.QueryTracer

	mu            sync.RWMutex
	preconfigured map[string]*models.Connection
	stored        map[string]*models.Connection

	schemaMu sync.RWMutex
	schemas  map[string]*models.CatalogSchema
	// generations is bumped on every eviction; a fetch stores its result only
	// if the generation it started with is still current.
	generations map[string]uint64
	fetches     singleflight.Group
}

func NewConnectionService(resolver DriverResolver, store cache.ConnectionStore, log logger.Logger, preconfigured []*models.Connection) *ConnectionService {
	s := &ConnectionService{
		resolver:      resolver,
		store:         store,
		logger:        log,
		tracer:        tracing.GetGlobalTracer(),
		preconfigured: make(map[string]*models.Connection),
		stored:        make(map[string]*models.Connection),
		schemas:       make(map[string]*models.CatalogSchema),
		generations:   make(map[string]uint64),
	}
	for _, c := range preconfigured {
		s.preconfigured[c.ID] = c
	}
	s.updateGauge()
	return s
}

// Load reads user defined connections from the store. Stored connections shadowed
// by a preconfigured one of the same name are skipped.
func (s *ConnectionService) Load(ctx context.Context) error {
	conns, err := s.store.LoadConnections(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range conns {
		if s.nameTakenLocked(c.Name, c.ID) {
			s.logger.Warn("stored connection shadowed by preconfigured one", "name", c.Name, "id", c.ID)
			continue
		}
		s.stored[c.ID] = c
	}
	s.updateGaugeLocked()
	s.logger.Info("connections loaded", "preconfigured", len(s.preconfigured), "stored", len(s.stored))
	return nil
}

// ListConnections returns preconfigured connections first, each group by name.
func (s *ConnectionService) ListConnections() []*models.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Connection, 0, len(s.preconfigured)+len(s.stored))
	for _, c := range s.preconfigured {
		out = append(out, c)
	}
	for _, c := range s.stored {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Preconfigured != out[j].Preconfigured {
			return out[i].Preconfigured
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *ConnectionService) GetConnection(id string) (*models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.preconfigured[id]; ok {
		return c, nil
	}
	if c, ok := s.stored[id]; ok {
		return c, nil
	}
	return nil, errs.ConnectionNotFound(id)
}

// AddConnection registers and persists a user defined connection. Names are
// unique ignoring case.
func (s *ConnectionService) AddConnection(ctx context.Context, name, serverURL string) (*models.Connection, error) {
	conn, err := models.NewConnection(name, serverURL)
	if err != nil {
		return nil, errs.UnexpectedWrap(errs.Scope{Connection: name}, err, "invalid connection")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTakenLocked(conn.Name, "") {
		return nil, errs.DuplicateConnection(conn.Name)
	}
	if err := s.store.SaveConnection(ctx, conn); err != nil {
		return nil, errs.UnexpectedWrap(errs.Scope{Connection: conn.Name}, err, "could not store connection")
	}
	s.stored[conn.ID] = conn
	s.updateGaugeLocked()
	s.logger.Info("connection added", "id", conn.ID, "name", conn.Name, "server_url", conn.ServerURL)
	return conn, nil
}

// RemoveConnection deletes a user defined connection and drops everything cached
// for it. Preconfigured connections can only be removed from configuration.
func (s *ConnectionService) RemoveConnection(ctx context.Context, id string) error {
	s.mu.Lock()
	if c, ok := s.preconfigured[id]; ok {
		s.mu.Unlock()
		return errs.Unexpected(errs.Scope{Connection: c.Name}, "preconfigured connection cannot be removed")
	}
	conn, ok := s.stored[id]
	if !ok {
		s.mu.Unlock()
		return errs.ConnectionNotFound(id)
	}
	if err := s.store.DeleteConnection(ctx, id); err != nil {
		s.mu.Unlock()
		return errs.UnexpectedWrap(errs.Scope{Connection: conn.Name}, err, "could not delete stored connection")
	}
	delete(s.stored, id)
	s.updateGaugeLocked()
	s.mu.Unlock()

	s.forget(id)
	s.logger.Info("connection removed", "id", id, "name", conn.Name)
	return nil
}

// ReplacePreconfigured swaps the operator provided connections, e.g. after the
// preconfigured file changed. Connections that disappeared or changed their URL
// lose their driver and cached schemas.
func (s *ConnectionService) ReplacePreconfigured(conns []*models.Connection) {
	next := make(map[string]*models.Connection, len(conns))
	for _, c := range conns {
		next[c.ID] = c
	}

	s.mu.Lock()
	var stale []string
	for id, old := range s.preconfigured {
		if c, ok := next[id]; !ok || c.ServerURL != old.ServerURL {
			stale = append(stale, id)
		}
	}
	s.preconfigured = next
	s.updateGaugeLocked()
	s.mu.Unlock()

	for _, id := range stale {
		s.forget(id)
	}
	s.logger.Info("preconfigured connections reloaded", "count", len(next), "invalidated", len(stale))
}

func (s *ConnectionService) forget(connectionID string) {
	s.resolver.Invalidate(connectionID)
	prefix := connectionID + "/"
	s.schemaMu.Lock()
	for key := range s.schemas {
		if strings.HasPrefix(key, prefix) {
			delete(s.schemas, key)
		}
	}
	var keys []string
	for key := range s.generations {
		if strings.HasPrefix(key, prefix) {
			s.generations[key]++
			keys = append(keys, key)
		}
	}
	s.schemaMu.Unlock()
	for _, key := range keys {
		s.fetches.Forget(key)
	}
}

func (s *ConnectionService) nameTakenLocked(name, exceptID string) bool {
	for _, group := range []map[string]*models.Connection{s.preconfigured, s.stored} {
		for id, c := range group {
			if id != exceptID && strings.EqualFold(c.Name, name) {
				return true
			}
		}
	}
	return false
}

func (s *ConnectionService) updateGauge() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.updateGaugeLocked()
}

func (s *ConnectionService) updateGaugeLocked() {
	metrics.ActiveConnections.Set(float64(len(s.preconfigured) + len(s.stored)))
}

// ResolveDriver returns the driver negotiated for the connection.
func (s *ConnectionService) ResolveDriver(ctx context.Context, conn *models.Connection) (driver.Driver, error) {
	ctx, span := s.tracer.StartDriverResolutionSpan(ctx, conn.Name)
	defer span.End()
	d, err := s.resolver.ResolveDriver(ctx, conn)
	if err != nil {
		s.tracer.RecordError(span, err)
		return nil, err
	}
	return d, nil
}

func (s *ConnectionService) GetServerStatus(ctx context.Context, conn *models.Connection) (*models.ServerStatus, error) {
	d, err := s.ResolveDriver(ctx, conn)
	if err != nil {
		return nil, err
	}
	return d.GetServerStatus(ctx, conn)
}

func (s *ConnectionService) GetCatalogs(ctx context.Context, conn *models.Connection) ([]*models.CatalogStatistics, error) {
	d, err := s.ResolveDriver(ctx, conn)
	if err != nil {
		return nil, err
	}
	return d.GetCatalogs(ctx, conn)
}

// GetCatalogSchema serves the catalog schema from cache, fetching it on a miss.
// Concurrent misses for the same catalog share one fetch.
func (s *ConnectionService) GetCatalogSchema(ctx context.Context, pointer models.CatalogPointer) (*models.CatalogSchema, error) {
	key := pointer.Key()
	s.schemaMu.RLock()
	schema, ok := s.schemas[key]
	s.schemaMu.RUnlock()
	if ok {
		metrics.CacheRequestsTotal.WithLabelValues("schema", "hit").Inc()
		return schema, nil
	}
	metrics.CacheRequestsTotal.WithLabelValues("schema", "miss").Inc()

	// The shared fetch must not fail for everyone when the caller that started it
	// goes away, so it runs detached and each caller waits on its own context.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.fetches.DoChan(key, func() (interface{}, error) {
		return s.fetchCatalogSchema(flightCtx, pointer, key)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			metrics.CacheRequestsTotal.WithLabelValues("schema", "error").Inc()
			return nil, res.Err
		}
		return res.Val.(*models.CatalogSchema), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *ConnectionService) fetchCatalogSchema(ctx context.Context, pointer models.CatalogPointer, key string) (*models.CatalogSchema, error) {
	s.schemaMu.Lock()
	if cached, ok := s.schemas[key]; ok {
		s.schemaMu.Unlock()
		return cached, nil
	}
	generation, ok := s.generations[key]
	if !ok {
		s.generations[key] = 0
	}
	s.schemaMu.Unlock()

	ctx, span := s.tracer.StartSchemaFetchSpan(ctx, key)
	defer span.End()
	d, err := s.ResolveDriver(ctx, pointer.Connection)
	if err != nil {
		return nil, err
	}
	schema, err := d.GetCatalogSchema(ctx, pointer.Connection, pointer.CatalogName)
	if err != nil {
		s.tracer.RecordError(span, err)
		return nil, err
	}

	s.schemaMu.Lock()
	if s.generations[key] == generation {
		s.schemas[key] = schema
	} else {
		s.logger.Debug("catalog schema evicted during fetch, result not cached", "catalog", key)
	}
	s.schemaMu.Unlock()
	return schema, nil
}

// GetEntitySchema resolves a collection schema through the catalog schema cache.
func (s *ConnectionService) GetEntitySchema(ctx context.Context, pointer models.DataPointer) (*models.EntitySchema, error) {
	catalog, err := s.GetCatalogSchema(ctx, pointer.CatalogPointer)
	if err != nil {
		return nil, err
	}
	schema, ok := catalog.EntitySchema(pointer.EntityType)
	if !ok {
		scope := errs.Scope{Catalog: pointer.CatalogName}
		if pointer.Connection != nil {
			scope.Connection = pointer.Connection.Name
		}
		return nil, errs.SchemaElementNotFound(errs.ElementEntity, pointer.EntityType, scope)
	}
	return schema, nil
}

// EvictCatalogSchema drops a cached catalog schema so the next read refetches it.
func (s *ConnectionService) EvictCatalogSchema(pointer models.CatalogPointer) {
	key := pointer.Key()
	s.schemaMu.Lock()
	delete(s.schemas, key)
	s.generations[key]++
	s.schemaMu.Unlock()
	s.fetches.Forget(key)
}

func (s *ConnectionService) withDriver(ctx context.Context, conn *models.Connection, fn func(driver.Driver) error) error {
	d, err := s.ResolveDriver(ctx, conn)
	if err != nil {
		return err
	}
	return fn(d)
}

func (s *ConnectionService) CreateCatalog(ctx context.Context, conn *models.Connection, catalogName string) error {
	return s.withDriver(ctx, conn, func(d driver.Driver) error {
		return d.CreateCatalog(ctx, conn, catalogName)
	})
}

func (s *ConnectionService) RenameCatalog(ctx context.Context, conn *models.Connection, catalogName, newCatalogName string) error {
	err := s.withDriver(ctx, conn, func(d driver.Driver) error {
		return d.RenameCatalog(ctx, conn, catalogName, newCatalogName)
	})
	s.EvictCatalogSchema(models.NewCatalogPointer(conn, catalogName))
	s.EvictCatalogSchema(models.NewCatalogPointer(conn, newCatalogName))
	return err
}

func (s *ConnectionService) DropCatalog(ctx context.Context, conn *models.Connection, catalogName string) error {
	err := s.withDriver(ctx, conn, func(d driver.Driver) error {
		return d.DropCatalog(ctx, conn, catalogName)
	})
	s.EvictCatalogSchema(models.NewCatalogPointer(conn, catalogName))
	return err
}

func (s *ConnectionService) CreateCollection(ctx context.Context, pointer models.DataPointer) error {
	err := s.withDriver(ctx, pointer.Connection, func(d driver.Driver) error {
		return d.CreateCollection(ctx, pointer.Connection, pointer.CatalogName, pointer.EntityType)
	})
	s.EvictCatalogSchema(pointer.CatalogPointer)
	return err
}

func (s *ConnectionService) RenameCollection(ctx context.Context, pointer models.DataPointer, newName string) error {
	err := s.withDriver(ctx, pointer.Connection, func(d driver.Driver) error {
		return d.RenameCollection(ctx, pointer.Connection, pointer.CatalogName, pointer.EntityType, newName)
	})
	s.EvictCatalogSchema(pointer.CatalogPointer)
	return err
}

func (s *ConnectionService) DropCollection(ctx context.Context, pointer models.DataPointer) error {
	err := s.withDriver(ctx, pointer.Connection, func(d driver.Driver) error {
		return d.DropCollection(ctx, pointer.Connection, pointer.CatalogName, pointer.EntityType)
	})
	s.EvictCatalogSchema(pointer.CatalogPointer)
	return err
}

func (s *ConnectionService) ListFilesToFetch(ctx context.Context, conn *models.Connection, origin string, pageNumber, pageSize int32) (*models.PaginatedList[*models.ServerFile], error) {
	d, err := s.ResolveDriver(ctx, conn)
	if err != nil {
		return nil, err
	}
	return d.ListFilesToFetch(ctx, conn, origin, pageNumber, pageSize)
}

func (s *ConnectionService) DeleteFile(ctx context.Context, conn *models.Connection, fileID uuid.UUID) (bool, error) {
	d, err := s.ResolveDriver(ctx, conn)
	if err != nil {
		return false, err
	}
	return d.DeleteFile(ctx, conn, fileID)
}
