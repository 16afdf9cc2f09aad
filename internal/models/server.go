package models

import (
	"time"

	"github.com/google/uuid"
)

// ServerStatus as reported by the system API of the connected server.
type ServerStatus struct {
	ServerName        string        `json:"serverName"`
	Version           string        `json:"version"`
	StartedAt         time.Time     `json:"startedAt"`
	Uptime            time.Duration `json:"uptime"`
	InstanceID        string        `json:"instanceId"`
	CatalogsCorrupted int32         `json:"catalogsCorrupted"`
	CatalogsOk        int32         `json:"catalogsOk"`
	ReadOnly          Value[bool]   `json:"readOnly"`
	HealthProblems    []string      `json:"healthProblems"`
}

type CatalogState string

const (
	CatalogWarmingUp    CatalogState = "warmingUp"
	CatalogAlive        CatalogState = "alive"
	CatalogInactive     CatalogState = "inactive"
	CatalogCorrupted    CatalogState = "corrupted"
	CatalogUnknownState CatalogState = "unknown"
)

// CatalogStatistics is the catalog list entry.
type CatalogStatistics struct {
	CatalogID         Value[uuid.UUID]             `json:"catalogId"`
	Name              string                       `json:"name"`
	Version           int64                        `json:"version"`
	State             CatalogState                 `json:"state"`
	Corrupted         bool                         `json:"corrupted"`
	TotalRecords      int64                        `json:"totalRecords"`
	IndexCount        int64                        `json:"indexCount"`
	SizeOnDiskInBytes int64                        `json:"sizeOnDiskInBytes"`
	EntityCollections []EntityCollectionStatistics `json:"entityCollections"`
}

type EntityCollectionStatistics struct {
	EntityType        string `json:"entityType"`
	TotalRecords      int32  `json:"totalRecords"`
	IndexCount        int32  `json:"indexCount"`
	SizeOnDiskInBytes int64  `json:"sizeOnDiskInBytes"`
}

// ServerFile is a file the server keeps available for download (backups, exports).
type ServerFile struct {
	FileID           uuid.UUID `json:"fileId"`
	Name             string    `json:"name"`
	Description      *string   `json:"description,omitempty"`
	ContentType      string    `json:"contentType"`
	TotalSizeInBytes int64     `json:"totalSizeInBytes"`
	Created          time.Time `json:"created"`
	Origin           []string  `json:"origin"`
}

// PaginatedList is one page of a server-side list.
type PaginatedList[T any] struct {
	PageNumber       int32 `json:"pageNumber"`
	PageSize         int32 `json:"pageSize"`
	LastPageNumber   int32 `json:"lastPageNumber"`
	TotalRecordCount int32 `json:"totalRecordCount"`
	Data             []T   `json:"data"`
}
