package evitapb

import (
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type GrpcEvitaServerStatusResponse struct {
	ServerName        string                 `json:"server_name"`
	Version           string                 `json:"version"`
	StartedAt         *timestamppb.Timestamp `json:"started_at,omitempty"`
	Uptime            int64                  `json:"uptime"`
	InstanceId        string                 `json:"instance_id"`
	CatalogsCorrupted int32                  `json:"catalogs_corrupted"`
	CatalogsOk        int32                  `json:"catalogs_ok"`
	ReadOnly          *wrapperspb.BoolValue  `json:"read_only,omitempty"`
	HealthProblems    []GrpcHealthProblem    `json:"health_problems,omitempty"`
}

type GrpcEntityCollectionStatistics struct {
	EntityType        string `json:"entity_type"`
	TotalRecords      int32  `json:"total_records"`
	IndexCount        int32  `json:"index_count"`
	SizeOnDiskInBytes int64  `json:"size_on_disk_in_bytes"`
}

type GrpcCatalogStatistics struct {
	CatalogId                  *wrapperspb.StringValue           `json:"catalog_id,omitempty"`
	CatalogName                string                            `json:"catalog_name"`
	CatalogVersion             int64                             `json:"catalog_version"`
	CatalogState               GrpcCatalogState                  `json:"catalog_state"`
	Corrupted                  bool                              `json:"corrupted"`
	TotalRecords               int64                             `json:"total_records"`
	IndexCount                 int64                             `json:"index_count"`
	SizeOnDiskInBytes          int64                             `json:"size_on_disk_in_bytes"`
	EntityCollectionStatistics []*GrpcEntityCollectionStatistics `json:"entity_collection_statistics"`
}

type GrpcFile struct {
	FileId           string                  `json:"file_id"`
	Name             string                  `json:"name"`
	Description      *wrapperspb.StringValue `json:"description,omitempty"`
	ContentType      string                  `json:"content_type"`
	TotalSizeInBytes int64                   `json:"total_size_in_bytes"`
	Created          *timestamppb.Timestamp  `json:"created,omitempty"`
	Origin           []string                `json:"origin,omitempty"`
}

type GrpcTaskStatus struct {
	TaskType        []string                `json:"task_type"`
	TaskName        string                  `json:"task_name"`
	TaskId          string                  `json:"task_id"`
	CatalogName     *wrapperspb.StringValue `json:"catalog_name,omitempty"`
	Created         *timestamppb.Timestamp  `json:"created,omitempty"`
	Issued          *timestamppb.Timestamp  `json:"issued,omitempty"`
	Started         *timestamppb.Timestamp  `json:"started,omitempty"`
	Finished        *timestamppb.Timestamp  `json:"finished,omitempty"`
	Progress        int32                   `json:"progress"`
	Settings        *wrapperspb.StringValue `json:"settings,omitempty"`
	File            *GrpcFile               `json:"file,omitempty"`
	Text            *wrapperspb.StringValue `json:"text,omitempty"`
	Exception       *wrapperspb.StringValue `json:"exception,omitempty"`
	SimplifiedState GrpcTaskSimplifiedState `json:"simplified_state"`
	Trait           []GrpcTaskTrait         `json:"trait,omitempty"`
}
