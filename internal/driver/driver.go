// Package driver abstracts the protocol generations of evitaDB servers. One Driver
// exists per supported generation; Resolver picks the one matching a server.
package driver

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/platformbuilds/evitalab-core/internal/models"
)

// Driver talks to one generation of the evitaDB wire protocols and converts its
// messages into the domain model. Implementations are shared between connections.
type Driver interface {
	// Name identifies the driver generation, e.g. "evitadb-2025.1".
	Name() string

	GetServerStatus(ctx context.Context, conn *models.Connection) (*models.ServerStatus, error)
	GetCatalogs(ctx context.Context, conn *models.Connection) ([]*models.CatalogStatistics, error)
	GetCatalogSchema(ctx context.Context, conn *models.Connection, catalogName string) (*models.CatalogSchema, error)
	Query(ctx context.Context, conn *models.Connection, catalogName, query string) (*models.Response, error)

	CreateCatalog(ctx context.Context, conn *models.Connection, catalogName string) error
	RenameCatalog(ctx context.Context, conn *models.Connection, catalogName, newCatalogName string) error
	DropCatalog(ctx context.Context, conn *models.Connection, catalogName string) error
	CreateCollection(ctx context.Context, conn *models.Connection, catalogName, entityType string) error
	RenameCollection(ctx context.Context, conn *models.Connection, catalogName, entityType, newName string) error
	DropCollection(ctx context.Context, conn *models.Connection, catalogName, entityType string) error

	BackupCatalog(ctx context.Context, conn *models.Connection, catalogName string, includingWAL bool, pastMoment *time.Time) (*models.TaskStatus, error)
	RestoreCatalog(ctx context.Context, conn *models.Connection, fileID uuid.UUID, catalogName string) (*models.TaskStatus, error)
	GetTaskStatuses(ctx context.Context, conn *models.Connection, pageNumber, pageSize int32, states []models.TaskState) (*models.PaginatedList[*models.TaskStatus], error)
	CancelTask(ctx context.Context, conn *models.Connection, taskID uuid.UUID) (bool, error)
	ListFilesToFetch(ctx context.Context, conn *models.Connection, origin string, pageNumber, pageSize int32) (*models.PaginatedList[*models.ServerFile], error)
	DeleteFile(ctx context.Context, conn *models.Connection, fileID uuid.UUID) (bool, error)

	GetTrafficRecordHistory(ctx context.Context, conn *models.Connection, catalogName string, criteria models.TrafficRecordingCriteria) ([]models.TrafficRecord, error)

	// Release frees transport resources held for the connection.
	Release(connectionID string)
}
