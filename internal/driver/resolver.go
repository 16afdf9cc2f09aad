package driver

import (
	"context"
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/metrics"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// VersionFetcher retrieves the version reported by a server.
type VersionFetcher interface {
	FetchServerVersion(ctx context.Context, conn *models.Connection) (string, error)
}

// RegistryEntry declares the minimum server version a driver supports.
type RegistryEntry struct {
	MinVersion string
	Driver     Driver
}

type registered struct {
	min        *semver.Version
	constraint *semver.Constraints
	driver     Driver
}

// Resolver selects and caches a driver per connection.
type Resolver struct {
	registry []registered
	fetcher  VersionFetcher
	logger   logger.Logger

	mu    sync.RWMutex
	cache map[string]Driver
}

// NewResolver validates that entries are ordered by descending minimum version so
// the first match during resolution is the newest compatible driver.
func NewResolver(fetcher VersionFetcher, log logger.Logger, entries ...RegistryEntry) (*Resolver, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("driver registry is empty")
	}
	r := &Resolver{fetcher: fetcher, logger: log, cache: make(map[string]Driver)}
	for i, e := range entries {
		minVer, err := semver.NewVersion(e.MinVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid minimum version %q of driver %s: %w", e.MinVersion, e.Driver.Name(), err)
		}
		c, err := semver.NewConstraint(">= " + minVer.String())
		if err != nil {
			return nil, fmt.Errorf("invalid constraint for driver %s: %w", e.Driver.Name(), err)
		}
		if i > 0 && !minVer.LessThan(r.registry[i-1].min) {
			return nil, fmt.Errorf("driver %s (>=%s) must be registered before driver %s (>=%s)",
				e.Driver.Name(), minVer, r.registry[i-1].driver.Name(), r.registry[i-1].min)
		}
		r.registry = append(r.registry, registered{min: minVer, constraint: c, driver: e.Driver})
	}
	return r, nil
}

// ParseServerVersion reads a server reported version. Prerelease suffixes (e.g.
// "-SNAPSHOT") are dropped so development builds resolve like their release.
func ParseServerVersion(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, err
	}
	if v.Prerelease() == "" {
		return v, nil
	}
	stripped, err := v.SetPrerelease("")
	if err != nil {
		return nil, err
	}
	return &stripped, nil
}

// ResolveDriver returns the cached driver of the connection or negotiates one.
func (r *Resolver) ResolveDriver(ctx context.Context, conn *models.Connection) (Driver, error) {
	r.mu.RLock()
	d, ok := r.cache[conn.ID]
	r.mu.RUnlock()
	if ok {
		metrics.CacheRequestsTotal.WithLabelValues("driver", "hit").Inc()
		return d, nil
	}
	metrics.CacheRequestsTotal.WithLabelValues("driver", "miss").Inc()

	ctx, span := otel.Tracer("evitalab-core/driver").Start(ctx, "driver.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("connection", conn.Name))

	d, err := r.resolve(ctx, conn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.DriverResolutionsTotal.WithLabelValues("none", "error").Inc()
		return nil, err
	}
	span.SetAttributes(attribute.String("driver", d.Name()))
	metrics.DriverResolutionsTotal.WithLabelValues(d.Name(), "ok").Inc()

	r.mu.Lock()
	r.cache[conn.ID] = d
	r.mu.Unlock()
	return d, nil
}

func (r *Resolver) resolve(ctx context.Context, conn *models.Connection) (Driver, error) {
	scope := errs.Scope{Connection: conn.Name}
	raw, err := r.fetcher.FetchServerVersion(ctx, conn)
	if err != nil {
		return nil, err
	}
	version, err := ParseServerVersion(raw)
	if err != nil {
		return nil, errs.DriverResolutionWrap(scope, err, "cannot parse server version %q", raw)
	}
	for _, entry := range r.registry {
		if entry.constraint.Check(version) {
			r.logger.Info("driver resolved", "connection", conn.Name, "server_version", raw, "driver", entry.driver.Name())
			return entry.driver, nil
		}
	}
	return nil, errs.DriverResolution(scope, raw)
}

// Invalidate forgets the driver of a removed connection and releases its transport.
func (r *Resolver) Invalidate(connectionID string) {
	r.mu.Lock()
	d, ok := r.cache[connectionID]
	delete(r.cache, connectionID)
	r.mu.Unlock()
	if ok {
		d.Release(connectionID)
	}
}

// Drivers lists the registered drivers, newest first.
func (r *Resolver) Drivers() []Driver {
	out := make([]Driver, 0, len(r.registry))
	for _, e := range r.registry {
		out = append(out, e.driver)
	}
	return out
}
