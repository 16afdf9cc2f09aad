package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/cache"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

func preconfigured(t *testing.T, name, url string) *models.Connection {
	t.Helper()
	c, err := models.NewPreconfiguredConnection("", name, url)
	require.NoError(t, err)
	return c
}

func TestConnectionService_AddListGet(t *testing.T) {
	local := preconfigured(t, "local", "http://localhost:5555")
	svc, _ := newTestConnectionService(local)
	ctx := context.Background()

	demo, err := svc.AddConnection(ctx, "demo", "https://demo.evitadb.io/")
	require.NoError(t, err)
	assert.Equal(t, "https://demo.evitadb.io", demo.ServerURL)

	list := svc.ListConnections()
	require.Len(t, list, 2)
	assert.Equal(t, "local", list[0].Name)
	assert.Equal(t, "demo", list[1].Name)

	got, err := svc.GetConnection(demo.ID)
	require.NoError(t, err)
	assert.Same(t, demo, got)

	_, err = svc.GetConnection("missing")
	assert.Equal(t, errs.KindConnectionNotFound, errs.KindOf(err))
}

func TestConnectionService_DuplicateNames(t *testing.T) {
	svc, _ := newTestConnectionService(preconfigured(t, "local", "http://localhost:5555"))
	ctx := context.Background()

	_, err := svc.AddConnection(ctx, "LOCAL", "http://other:5555")
	assert.Equal(t, errs.KindDuplicateConnection, errs.KindOf(err))

	_, err = svc.AddConnection(ctx, "demo", "https://demo.evitadb.io")
	require.NoError(t, err)
	_, err = svc.AddConnection(ctx, "demo", "https://demo2.evitadb.io")
	assert.Equal(t, errs.KindDuplicateConnection, errs.KindOf(err))
}

func TestConnectionService_InvalidURL(t *testing.T) {
	svc, _ := newTestConnectionService()
	_, err := svc.AddConnection(context.Background(), "bad", "ftp://host")
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}

func TestConnectionService_RemoveDropsCaches(t *testing.T) {
	svc, resolver := newTestConnectionService()
	ctx := context.Background()

	demo, err := svc.AddConnection(ctx, "demo", "https://demo.evitadb.io")
	require.NoError(t, err)
	pointer := models.NewCatalogPointer(demo, "evita")
	_, err = svc.GetCatalogSchema(ctx, pointer)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveConnection(ctx, demo.ID))
	assert.Equal(t, []string{demo.ID}, resolver.invalidated)
	assert.Equal(t, []string{demo.ID}, resolver.d.released)
	assert.Empty(t, svc.ListConnections())

	_, err = svc.GetCatalogSchema(ctx, pointer)
	require.NoError(t, err)
	assert.Equal(t, 2, resolver.d.fetches())

	err = svc.RemoveConnection(ctx, demo.ID)
	assert.Equal(t, errs.KindConnectionNotFound, errs.KindOf(err))
}

func TestConnectionService_PreconfiguredCannotBeRemoved(t *testing.T) {
	local := preconfigured(t, "local", "http://localhost:5555")
	svc, _ := newTestConnectionService(local)
	err := svc.RemoveConnection(context.Background(), local.ID)
	require.Error(t, err)
	assert.Len(t, svc.ListConnections(), 1)
}

func TestConnectionService_LoadSkipsShadowedConnections(t *testing.T) {
	store := cache.NewConnectionStore(cache.NewNoopValkeyCache(logger.NewNop()), "k", logger.NewNop())
	ctx := context.Background()
	shadowed, _ := models.NewConnection("local", "http://elsewhere:5555")
	kept, _ := models.NewConnection("demo", "https://demo.evitadb.io")
	require.NoError(t, store.SaveConnection(ctx, shadowed))
	require.NoError(t, store.SaveConnection(ctx, kept))

	svc := NewConnectionService(&fakeResolver{d: &fakeDriver{}}, store, logger.NewNop(),
		[]*models.Connection{preconfigured(t, "local", "http://localhost:5555")})
	require.NoError(t, svc.Load(ctx))

	list := svc.ListConnections()
	require.Len(t, list, 2)
	assert.True(t, list[0].Preconfigured)
	assert.Equal(t, kept.ID, list[1].ID)
}

func TestConnectionService_SchemaCache(t *testing.T) {
	local := preconfigured(t, "local", "http://localhost:5555")
	svc, resolver := newTestConnectionService(local)
	ctx := context.Background()
	pointer := models.NewDataPointer(local, "evita", "Product")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := svc.GetEntitySchema(ctx, pointer)
			assert.NoError(t, err)
			assert.Equal(t, "Product", s.Name)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, resolver.d.fetches())

	svc.EvictCatalogSchema(pointer.CatalogPointer)
	_, err := svc.GetEntitySchema(ctx, pointer)
	require.NoError(t, err)
	assert.Equal(t, 2, resolver.d.fetches())

	_, err = svc.GetEntitySchema(ctx, models.NewDataPointer(local, "evita", "Stock"))
	assert.Equal(t, errs.KindSchemaElementNotFound, errs.KindOf(err))
	assert.Contains(t, err.Error(), `connection "local"`)
}

func TestConnectionService_SharedSchemaFetchOutlivesCancelledCaller(t *testing.T) {
	local := preconfigured(t, "local", "http://localhost:5555")
	svc, resolver := newTestConnectionService(local)
	pointer := models.NewCatalogPointer(local, "evita")
	started, release := resolver.d.blockNextSchemaFetch()

	first, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.GetCatalogSchema(first, pointer)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.GetCatalogSchema(context.Background(), pointer)
		secondErr <- err
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	assert.NoError(t, <-secondErr)
	assert.Equal(t, 1, resolver.d.fetches())

	_, err := svc.GetCatalogSchema(context.Background(), pointer)
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.d.fetches())
}

func TestConnectionService_EvictionDuringFetchDropsResult(t *testing.T) {
	local := preconfigured(t, "local", "http://localhost:5555")
	svc, resolver := newTestConnectionService(local)
	ctx := context.Background()
	pointer := models.NewDataPointer(local, "evita", "Brand")
	started, release := resolver.d.blockNextSchemaFetch()

	inFlight := make(chan *models.CatalogSchema, 1)
	go func() {
		s, err := svc.GetCatalogSchema(ctx, pointer.CatalogPointer)
		assert.NoError(t, err)
		inFlight <- s
	}()
	<-started

	require.NoError(t, svc.DropCollection(ctx, pointer))
	close(release)
	assert.Equal(t, int32(1), (<-inFlight).Version.GetOrElse(0))

	fresh, err := svc.GetCatalogSchema(ctx, pointer.CatalogPointer)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fresh.Version.GetOrElse(0))
	assert.Equal(t, 2, resolver.d.fetches())
}

func TestConnectionService_RemovalDuringFetchDropsResult(t *testing.T) {
	svc, resolver := newTestConnectionService()
	ctx := context.Background()
	demo, err := svc.AddConnection(ctx, "demo", "https://demo.evitadb.io")
	require.NoError(t, err)
	pointer := models.NewCatalogPointer(demo, "evita")
	started, release := resolver.d.blockNextSchemaFetch()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.GetCatalogSchema(ctx, pointer)
		assert.NoError(t, err)
	}()
	<-started

	require.NoError(t, svc.RemoveConnection(ctx, demo.ID))
	close(release)
	<-done

	svc.schemaMu.RLock()
	_, cached := svc.schemas[pointer.Key()]
	svc.schemaMu.RUnlock()
	assert.False(t, cached)
}

func TestConnectionService_LifecycleEvictsSchema(t *testing.T) {
	local := preconfigured(t, "local", "http://localhost:5555")
	svc, resolver := newTestConnectionService(local)
	ctx := context.Background()
	pointer := models.NewDataPointer(local, "evita", "Brand")

	_, err := svc.GetEntitySchema(ctx, pointer)
	require.NoError(t, err)
	require.NoError(t, svc.DropCollection(ctx, pointer))
	assert.Equal(t, []string{"Brand"}, resolver.d.dropped)

	_, err = svc.GetEntitySchema(ctx, pointer)
	require.NoError(t, err)
	assert.Equal(t, 2, resolver.d.fetches())
}

func TestConnectionService_ResolutionFailure(t *testing.T) {
	local := preconfigured(t, "local", "http://localhost:5555")
	svc, resolver := newTestConnectionService(local)
	resolver.err = errs.DriverResolution(errs.Scope{Connection: "local"}, "2022.1.0")

	_, err := svc.GetCatalogSchema(context.Background(), models.NewCatalogPointer(local, "evita"))
	assert.Equal(t, errs.KindDriverResolution, errs.KindOf(err))
}

func TestConnectionService_ReplacePreconfigured(t *testing.T) {
	local := preconfigured(t, "local", "http://localhost:5555")
	staging := preconfigured(t, "staging", "http://staging:5555")
	svc, resolver := newTestConnectionService(local, staging)

	moved := preconfigured(t, "local", "http://localhost:6666")
	svc.ReplacePreconfigured([]*models.Connection{moved})

	assert.ElementsMatch(t, []string{local.ID, staging.ID}, resolver.invalidated)
	list := svc.ListConnections()
	require.Len(t, list, 1)
	assert.Equal(t, "http://localhost:6666", list[0].ServerURL)
	assert.Equal(t, local.ID, list[0].ID)
}
