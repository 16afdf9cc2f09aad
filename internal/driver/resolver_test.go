package driver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// stubDriver only carries a name; the resolver never calls protocol methods.
type stubDriver struct {
	Driver
	name     string
	released []string
}

func (s *stubDriver) Name() string                { return s.name }
func (s *stubDriver) Release(connectionID string) { s.released = append(s.released, connectionID) }

type staticVersion struct {
	version string
	calls   atomic.Int32
}

func (s *staticVersion) FetchServerVersion(context.Context, *models.Connection) (string, error) {
	s.calls.Add(1)
	return s.version, nil
}

func testConnection(t *testing.T) *models.Connection {
	t.Helper()
	c, err := models.NewConnection("demo", "http://localhost:5555")
	require.NoError(t, err)
	return c
}

func TestResolveDriver_MatchesMinimumVersion(t *testing.T) {
	d := &stubDriver{name: "evitadb-2024.8"}
	r, err := NewResolver(&staticVersion{version: "2024.9"}, logger.NewNop(), RegistryEntry{MinVersion: "2024.8", Driver: d})
	require.NoError(t, err)

	got, err := r.ResolveDriver(context.Background(), testConnection(t))
	require.NoError(t, err)
	assert.Same(t, d, got)
}

func TestResolveDriver_TooOldFails(t *testing.T) {
	r, err := NewResolver(&staticVersion{version: "2023.1"}, logger.NewNop(),
		RegistryEntry{MinVersion: "2024.8", Driver: &stubDriver{name: "evitadb-2024.8"}})
	require.NoError(t, err)

	_, err = r.ResolveDriver(context.Background(), testConnection(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrDriverResolution))
	assert.Contains(t, err.Error(), "2023.1")
}

func TestResolveDriver_NewestFirst(t *testing.T) {
	newer := &stubDriver{name: "evitadb-2025.1"}
	older := &stubDriver{name: "evitadb-2024.8"}
	entries := []RegistryEntry{{MinVersion: "2025.1", Driver: newer}, {MinVersion: "2024.8", Driver: older}}

	cases := map[string]Driver{
		"2025.1.0":          newer,
		"2025.4.2":          newer,
		"2025.1.0-SNAPSHOT": newer,
		"2024.12.1":         older,
		"2024.8":            older,
	}
	for version, expected := range cases {
		r, err := NewResolver(&staticVersion{version: version}, logger.NewNop(), entries...)
		require.NoError(t, err)
		got, err := r.ResolveDriver(context.Background(), testConnection(t))
		require.NoError(t, err, version)
		assert.Same(t, expected, got, version)
	}
}

func TestResolver_Drivers(t *testing.T) {
	newer := &stubDriver{name: "evitadb-2025.1"}
	older := &stubDriver{name: "evitadb-2024.8"}
	r, err := NewResolver(&staticVersion{}, logger.NewNop(),
		RegistryEntry{MinVersion: "2025.1", Driver: newer}, RegistryEntry{MinVersion: "2024.8", Driver: older})
	require.NoError(t, err)

	drivers := r.Drivers()
	require.Len(t, drivers, 2)
	assert.Same(t, newer, drivers[0])
	assert.Same(t, older, drivers[1])
}

func TestNewResolver_RejectsAscendingRegistry(t *testing.T) {
	_, err := NewResolver(&staticVersion{}, logger.NewNop(),
		RegistryEntry{MinVersion: "2024.8", Driver: &stubDriver{name: "old"}},
		RegistryEntry{MinVersion: "2025.1", Driver: &stubDriver{name: "new"}},
	)
	assert.Error(t, err)

	_, err = NewResolver(&staticVersion{}, logger.NewNop())
	assert.Error(t, err)
}

func TestResolveDriver_CachesUntilInvalidated(t *testing.T) {
	fetcher := &staticVersion{version: "2025.1.0"}
	d := &stubDriver{name: "evitadb-2025.1"}
	r, err := NewResolver(fetcher, logger.NewNop(), RegistryEntry{MinVersion: "2025.1", Driver: d})
	require.NoError(t, err)
	conn := testConnection(t)

	for i := 0; i < 3; i++ {
		_, err := r.ResolveDriver(context.Background(), conn)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), fetcher.calls.Load())

	r.Invalidate(conn.ID)
	assert.Equal(t, []string{conn.ID}, d.released)

	_, err = r.ResolveDriver(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetcher.calls.Load())

	r.Invalidate(uuid.NewString())
	assert.Len(t, d.released, 1)
}

func TestHTTPVersionFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/system/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"serverName":"evitaDB","version":"2025.1.2"}`))
	}))
	defer srv.Close()

	conn, err := models.NewConnection("test", srv.URL)
	require.NoError(t, err)
	version, err := NewHTTPVersionFetcher(time.Second).FetchServerVersion(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, "2025.1.2", version)
}

func TestHTTPVersionFetcher_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	conn, err := models.NewConnection("test", srv.URL)
	require.NoError(t, err)
	_, err = NewHTTPVersionFetcher(time.Second).FetchServerVersion(context.Background(), conn)
	assert.Equal(t, errs.KindServer, errs.KindOf(err))
}

func TestParseServerVersion(t *testing.T) {
	v, err := ParseServerVersion("2024.10.1-SNAPSHOT")
	require.NoError(t, err)
	assert.Equal(t, "2024.10.1", v.String())

	_, err = ParseServerVersion("not-a-version")
	assert.Error(t, err)
}
