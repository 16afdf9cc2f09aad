package evitapb

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

type GrpcEvitaSessionRequest struct {
	CatalogName string `json:"catalog_name"`
	DryRun      bool   `json:"dry_run,omitempty"`
}

type GrpcEvitaSessionResponse struct {
	SessionId    string           `json:"session_id"`
	CatalogId    string           `json:"catalog_id,omitempty"`
	CatalogState GrpcCatalogState `json:"catalog_state"`
}

type GrpcSuccessResponse struct {
	Success bool `json:"success"`
}

type GrpcDefineCatalogRequest struct {
	CatalogName string `json:"catalog_name"`
}

type GrpcRenameCatalogRequest struct {
	CatalogName    string `json:"catalog_name"`
	NewCatalogName string `json:"new_catalog_name"`
}

type GrpcDeleteCatalogIfExistsRequest struct {
	CatalogName string `json:"catalog_name"`
}

type GrpcGetCatalogSchemaRequest struct {
	NameVariants bool `json:"name_variants"`
}

type GrpcCatalogSchemaResponse struct {
	CatalogSchema *GrpcCatalogSchema `json:"catalog_schema"`
}

type GrpcEntityTypesResponse struct {
	EntityTypes []string `json:"entity_types"`
}

type GrpcEntitySchemaRequest struct {
	EntityType   string `json:"entity_type"`
	NameVariants bool   `json:"name_variants"`
}

type GrpcEntitySchemaResponse struct {
	EntitySchema *GrpcEntitySchema `json:"entity_schema"`
}

type GrpcQueryRequest struct {
	Query string `json:"query"`
}

type GrpcQueryResponse struct {
	RecordPage   *GrpcDataChunk    `json:"record_page,omitempty"`
	ExtraResults *GrpcExtraResults `json:"extra_results,omitempty"`
}

type GrpcDefineEntitySchemaRequest struct {
	EntityType string `json:"entity_type"`
}

type GrpcRenameCollectionRequest struct {
	EntityType string `json:"entity_type"`
	NewName    string `json:"new_name"`
}

type GrpcDeleteCollectionRequest struct {
	EntityType string `json:"entity_type"`
}

type GrpcBackupCatalogRequest struct {
	IncludingWAL bool                   `json:"including_wal"`
	PastMoment   *timestamppb.Timestamp `json:"past_moment,omitempty"`
}

type GrpcTaskStatusResponse struct {
	TaskStatus *GrpcTaskStatus `json:"task_status"`
}

type GrpcTrafficRecordingHistoryRequest struct {
	Limit    int32                                `json:"limit"`
	Criteria *GrpcTrafficRecordingCaptureCriteria `json:"criteria,omitempty"`
}

type GrpcTrafficRecordingHistoryResponse struct {
	TrafficRecord []*GrpcTrafficRecord `json:"traffic_record"`
}

type GrpcCatalogStatisticsResponse struct {
	CatalogStatistics []*GrpcCatalogStatistics `json:"catalog_statistics"`
}

type GrpcRestoreCatalogFromServerFileRequest struct {
	FileId      string `json:"file_id"`
	CatalogName string `json:"catalog_name"`
}

type GrpcTaskStatusesRequest struct {
	PageNumber      int32                     `json:"page_number"`
	PageSize        int32                     `json:"page_size"`
	TaskType        []string                  `json:"task_type,omitempty"`
	SimplifiedState []GrpcTaskSimplifiedState `json:"simplified_state,omitempty"`
}

type GrpcTaskStatusesResponse struct {
	TaskStatus           []*GrpcTaskStatus `json:"task_status"`
	PageNumber           int32             `json:"page_number"`
	PageSize             int32             `json:"page_size"`
	TotalNumberOfRecords int32             `json:"total_number_of_records"`
}

type GrpcCancelTaskRequest struct {
	TaskId string `json:"task_id"`
}

type GrpcFilesToFetchRequest struct {
	PageNumber int32    `json:"page_number"`
	PageSize   int32    `json:"page_size"`
	Origin     []string `json:"origin,omitempty"`
}

type GrpcFilesToFetchResponse struct {
	FilesToFetch         []*GrpcFile `json:"files_to_fetch"`
	PageNumber           int32       `json:"page_number"`
	PageSize             int32       `json:"page_size"`
	TotalNumberOfRecords int32       `json:"total_number_of_records"`
}

type GrpcDeleteFileToFetchRequest struct {
	FileId string `json:"file_id"`
}
