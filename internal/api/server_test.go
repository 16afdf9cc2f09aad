package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/evitalab-core/internal/config"
	"github.com/platformbuilds/evitalab-core/internal/driver"
	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/gqlclient"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/query"
	"github.com/platformbuilds/evitalab-core/internal/query/evitaql"
	"github.com/platformbuilds/evitalab-core/internal/query/graphql"
	"github.com/platformbuilds/evitalab-core/internal/query/querytest"
	"github.com/platformbuilds/evitalab-core/internal/services"
	"github.com/platformbuilds/evitalab-core/pkg/cache"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// stubDriver answers for a demo server. Methods not overridden panic through
// the nil embedded interface.
type stubDriver struct {
	driver.Driver

	mu            sync.Mutex
	schemaFetches int
	queries       []string
	dropped       []string
	cancelled     []uuid.UUID
}

func (d *stubDriver) Name() string   { return "stub" }
func (d *stubDriver) Release(string) {}

func (d *stubDriver) fetches() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.schemaFetches
}

func (d *stubDriver) lastQuery() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queries[len(d.queries)-1]
}

func (d *stubDriver) droppedTypes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

func (d *stubDriver) GetServerStatus(context.Context, *models.Connection) (*models.ServerStatus, error) {
	return &models.ServerStatus{ServerName: "demo", Version: "2025.1.0", ReadOnly: models.Of(false)}, nil
}

func (d *stubDriver) GetCatalogs(context.Context, *models.Connection) ([]*models.CatalogStatistics, error) {
	return []*models.CatalogStatistics{{Name: "evita", CatalogID: models.Of(uuid.New())}}, nil
}

func (d *stubDriver) GetCatalogSchema(_ context.Context, _ *models.Connection, catalogName string) (*models.CatalogSchema, error) {
	d.mu.Lock()
	d.schemaFetches++
	d.mu.Unlock()
	return &models.CatalogSchema{
		Name: catalogName,
		EntitySchemas: map[string]*models.EntitySchema{
			"Product":  querytest.Product(),
			"Brand":    querytest.Brand(),
			"Category": querytest.Category(),
		},
	}, nil
}

func (d *stubDriver) Query(_ context.Context, _ *models.Connection, _, q string) (*models.Response, error) {
	d.mu.Lock()
	d.queries = append(d.queries, q)
	d.mu.Unlock()
	if strings.Contains(q, "broken") {
		return nil, errs.Query(errs.Scope{}, "unexpected token")
	}
	return &models.Response{
		RecordPage:   models.Of(&models.DataChunk{Data: []*models.Entity{{PrimaryKey: 7}}, PageNumber: 1, PageSize: 20}),
		ExtraResults: models.NotSupported[*models.ExtraResults](),
	}, nil
}

func (d *stubDriver) DropCollection(_ context.Context, _ *models.Connection, _, entityType string) error {
	d.mu.Lock()
	d.dropped = append(d.dropped, entityType)
	d.mu.Unlock()
	return nil
}

func (d *stubDriver) GetTaskStatuses(_ context.Context, _ *models.Connection, pageNumber, pageSize int32, _ []models.TaskState) (*models.PaginatedList[*models.TaskStatus], error) {
	return &models.PaginatedList[*models.TaskStatus]{PageNumber: pageNumber, PageSize: pageSize, LastPageNumber: 1}, nil
}

func (d *stubDriver) CancelTask(_ context.Context, _ *models.Connection, taskID uuid.UUID) (bool, error) {
	d.mu.Lock()
	d.cancelled = append(d.cancelled, taskID)
	d.mu.Unlock()
	return true, nil
}

func (d *stubDriver) BackupCatalog(_ context.Context, _ *models.Connection, catalogName string, _ bool, _ *time.Time) (*models.TaskStatus, error) {
	return &models.TaskStatus{TaskID: uuid.New(), TaskName: "Backup " + catalogName, State: models.TaskQueued}, nil
}

func (d *stubDriver) GetTrafficRecordHistory(context.Context, *models.Connection, string, models.TrafficRecordingCriteria) ([]models.TrafficRecord, error) {
	return []models.TrafficRecord{
		&models.SessionStartRecord{TrafficRecordHeader: models.TrafficRecordHeader{
			SessionID: uuid.New(),
			Type:      models.TrafficSessionStart,
			Created:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		}},
	}, nil
}

type stubResolver struct{ d *stubDriver }

func (r *stubResolver) ResolveDriver(context.Context, *models.Connection) (driver.Driver, error) {
	return r.d, nil
}

func (r *stubResolver) Invalidate(string) {}

type offlineGraphQL struct{}

func (offlineGraphQL) Execute(context.Context, *models.Connection, string, gqlclient.Request) (json.RawMessage, error) {
	return nil, errs.Connectivity(errs.Scope{}, errors.New("connection refused"), "graphql")
}

type failingCache struct{}

func (failingCache) HealthCheck(context.Context) error { return errors.New("valkey down") }

type testEnv struct {
	handler http.Handler
	driver  *stubDriver
	local   *models.Connection
}

func newTestEnv(t *testing.T, cacheHealth interface{ HealthCheck(context.Context) error }) *testEnv {
	t.Helper()
	log := logger.NewNop()
	local, err := models.NewPreconfiguredConnection("", "local", "http://localhost:5555")
	require.NoError(t, err)

	d := &stubDriver{}
	resolver := &stubResolver{d: d}
	store := cache.NewConnectionStore(cache.NewNoopValkeyCache(log), config.DefaultConnectionsKey, log)
	connections := services.NewConnectionService(resolver, store, log, []*models.Connection{local})

	viewer := services.NewEntityViewerService(connections,
		query.Builders{EvitaQL: evitaql.NewBuilder(connections, log), GraphQL: graphql.NewBuilder(connections, log)},
		query.Executors{EvitaQL: query.NewEvitaQLExecutor(resolver, log), GraphQL: query.NewGraphQLExecutor(offlineGraphQL{}, connections, log)},
		log)

	cfg := config.GetDefaultConfig()
	cfg.Environment = "test"

	svc := Services{
		Connections:  connections,
		EntityViewer: viewer,
		Tasks:        services.NewTaskService(connections, log),
		Traffic:      services.NewTrafficViewerService(connections, log),
	}
	if cacheHealth != nil {
		svc.Cache = cacheHealth
	}
	return &testEnv{handler: NewServer(cfg, log, svc).Handler(), driver: d, local: local}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func (e *testEnv) connPath(suffix string) string {
	return "/api/v1/connections/" + e.local.ID + suffix
}

func TestHealthAndReadiness(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.ServiceName, body["service"])

	w, body = env.do(t, http.MethodGet, "/api/v1/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])

	degraded := newTestEnv(t, failingCache{})
	w, body = degraded.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "degraded", body["status"])

	w, _ = env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConnectionsCRUD(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodGet, "/api/v1/connections", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["connections"], 1)

	w, body = env.do(t, http.MethodPost, "/api/v1/connections", map[string]string{"name": "demo", "serverUrl": "https://demo.evitadb.io"})
	require.Equal(t, http.StatusCreated, w.Code)
	demoID, _ := body["id"].(string)
	require.NotEmpty(t, demoID)

	w, body = env.do(t, http.MethodPost, "/api/v1/connections", map[string]string{"name": "Demo", "serverUrl": "https://other.evitadb.io"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "duplicate_connection", body["code"])

	w, _ = env.do(t, http.MethodPost, "/api/v1/connections", map[string]string{"name": "bad", "serverUrl": "ftp://nowhere"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/v1/connections", map[string]string{"name": "missing-url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/v1/connections/"+demoID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://demo.evitadb.io", body["serverUrl"])

	w, _ = env.do(t, http.MethodDelete, env.connPath(""), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, http.MethodDelete, "/api/v1/connections/"+demoID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/v1/connections/"+demoID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "connection_not_found", body["code"])
}

func TestServerStatusAndCatalogs(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodGet, env.connPath("/server-status"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025.1.0", body["version"])

	w, body = env.do(t, http.MethodGet, env.connPath("/catalogs"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["catalogs"], 1)
}

func TestCatalogSchemaReload(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodGet, env.connPath("/catalogs/evita/schema"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "evita", body["name"])

	env.do(t, http.MethodGet, env.connPath("/catalogs/evita/schema"), nil)
	assert.Equal(t, 1, env.driver.fetches())

	env.do(t, http.MethodGet, env.connPath("/catalogs/evita/schema?reload=true"), nil)
	assert.Equal(t, 2, env.driver.fetches())
}

func TestCollectionQuery(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodPost, env.connPath("/catalogs/evita/collections/Product/query"), map[string]interface{}{
		"language":           "evitaql",
		"requiredProperties": []string{"attributes:code"},
		"pageSize":           10,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "evitaql", body["language"])
	assert.Contains(t, env.driver.lastQuery(), "collection('Product')")

	w, _ = env.do(t, http.MethodPost, env.connPath("/catalogs/evita/collections/Product/query"), map[string]interface{}{"language": "sql"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = env.do(t, http.MethodPost, env.connPath("/catalogs/evita/collections/Stock/query"), map[string]interface{}{"language": "evitaql"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "schema_element_not_found", body["code"])

	w, body = env.do(t, http.MethodPost, env.connPath("/catalogs/evita/collections/Product/query"), map[string]interface{}{"language": "graphql"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "connectivity", body["code"])
}

func TestRawQuery(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodPost, env.connPath("/catalogs/evita/query"), map[string]string{
		"language": "evitaql", "entityType": "Product", "query": "query(collection('Product'))",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "query(collection('Product'))", body["query"])

	w, body = env.do(t, http.MethodPost, env.connPath("/catalogs/evita/query"), map[string]string{
		"language": "evitaql", "entityType": "Product", "query": "broken(",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "query", body["code"])
}

func TestPropertiesAndOrderBy(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodGet, env.connPath("/catalogs/evita/collections/Product/properties"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["properties"])

	w, body = env.do(t, http.MethodPost, env.connPath("/catalogs/evita/collections/Product/order-by"), map[string]string{
		"language": "graphql", "property": "attributes:priority", "direction": "desc",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "attributePriorityNatural: DESC", body["orderBy"])

	w, _ = env.do(t, http.MethodPost, env.connPath("/catalogs/evita/collections/Product/order-by"), map[string]string{
		"language": "graphql", "property": "attributes:priority", "direction": "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollectionLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	w, _ := env.do(t, http.MethodDelete, env.connPath("/catalogs/evita/collections/Brand"), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"Brand"}, env.driver.droppedTypes())

	w, _ = env.do(t, http.MethodPut, env.connPath("/catalogs/evita/collections/Brand"), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTasksAndBackup(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodGet, env.connPath("/tasks?page=1&size=5&state=running,queued"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, body["pageSize"])

	w, _ = env.do(t, http.MethodGet, env.connPath("/tasks?state=sleeping"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodGet, env.connPath("/tasks?size=0"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	taskID := uuid.New()
	w, body = env.do(t, http.MethodDelete, env.connPath("/tasks/"+taskID.String()), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["cancelRequested"])

	w, _ = env.do(t, http.MethodDelete, env.connPath("/tasks/not-a-uuid"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = env.do(t, http.MethodPost, env.connPath("/catalogs/evita/backup"), nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "Backup evita", body["taskName"])
}

func TestTrafficHistory(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodPost, env.connPath("/catalogs/evita/traffic"), map[string]interface{}{"limit": 50})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, body["records"], 1)
	assert.EqualValues(t, 0, body["orphans"])
}
