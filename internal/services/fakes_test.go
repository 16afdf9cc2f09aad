package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/platformbuilds/evitalab-core/internal/driver"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/query/querytest"
	"github.com/platformbuilds/evitalab-core/pkg/cache"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// fakeDriver serves the demo catalog and counts schema fetches. Methods not
// overridden panic through the nil embedded interface.
type fakeDriver struct {
	driver.Driver

	mu            sync.Mutex
	schemaFetches int
	dropped       []string
	tasks         []*models.TaskStatus
	cancelled     []uuid.UUID
	traffic       []models.TrafficRecord
	released      []string

	// set by blockNextSchemaFetch, consumed by the next schema fetch
	fetchStarted chan struct{}
	fetchRelease chan struct{}
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) Release(connectionID string) {
	d.mu.Lock()
	d.released = append(d.released, connectionID)
	d.mu.Unlock()
}

func (d *fakeDriver) GetCatalogSchema(ctx context.Context, _ *models.Connection, catalogName string) (*models.CatalogSchema, error) {
	d.mu.Lock()
	d.schemaFetches++
	n := d.schemaFetches
	started, release := d.fetchStarted, d.fetchRelease
	d.fetchStarted, d.fetchRelease = nil, nil
	d.mu.Unlock()

	if started != nil {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &models.CatalogSchema{
		Name:    catalogName,
		Version: models.Of(int32(n)),
		EntitySchemas: map[string]*models.EntitySchema{
			"Product":  querytest.Product(),
			"Brand":    querytest.Brand(),
			"Category": querytest.Category(),
		},
	}, nil
}

// blockNextSchemaFetch makes the next schema fetch signal started and wait for
// release (or its context).
func (d *fakeDriver) blockNextSchemaFetch() (started <-chan struct{}, release chan<- struct{}) {
	s, r := make(chan struct{}), make(chan struct{})
	d.mu.Lock()
	d.fetchStarted, d.fetchRelease = s, r
	d.mu.Unlock()
	return s, r
}

func (d *fakeDriver) fetches() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.schemaFetches
}

func (d *fakeDriver) DropCollection(_ context.Context, _ *models.Connection, _, entityType string) error {
	d.dropped = append(d.dropped, entityType)
	return nil
}

func (d *fakeDriver) GetTaskStatuses(_ context.Context, _ *models.Connection, pageNumber, pageSize int32, _ []models.TaskState) (*models.PaginatedList[*models.TaskStatus], error) {
	data := make([]*models.TaskStatus, len(d.tasks))
	for i, t := range d.tasks {
		c := *t
		data[i] = &c
	}
	return &models.PaginatedList[*models.TaskStatus]{PageNumber: pageNumber, PageSize: pageSize, LastPageNumber: 1, TotalRecordCount: int32(len(data)), Data: data}, nil
}

func (d *fakeDriver) CancelTask(_ context.Context, _ *models.Connection, taskID uuid.UUID) (bool, error) {
	d.cancelled = append(d.cancelled, taskID)
	return true, nil
}

func (d *fakeDriver) BackupCatalog(_ context.Context, _ *models.Connection, catalogName string, _ bool, _ *time.Time) (*models.TaskStatus, error) {
	return &models.TaskStatus{TaskID: uuid.New(), TaskName: "Backup " + catalogName, State: models.TaskQueued}, nil
}

func (d *fakeDriver) GetTrafficRecordHistory(context.Context, *models.Connection, string, models.TrafficRecordingCriteria) ([]models.TrafficRecord, error) {
	return d.traffic, nil
}

type fakeResolver struct {
	d           *fakeDriver
	err         error
	invalidated []string
}

func (r *fakeResolver) ResolveDriver(context.Context, *models.Connection) (driver.Driver, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.d, nil
}

func (r *fakeResolver) Invalidate(connectionID string) {
	r.invalidated = append(r.invalidated, connectionID)
	r.d.Release(connectionID)
}

func newTestConnectionService(preconfigured ...*models.Connection) (*ConnectionService, *fakeResolver) {
	resolver := &fakeResolver{d: &fakeDriver{}}
	store := cache.NewConnectionStore(cache.NewNoopValkeyCache(logger.NewNop()), "evitalab:connections", logger.NewNop())
	return NewConnectionService(resolver, store, logger.NewNop(), preconfigured), resolver
}
