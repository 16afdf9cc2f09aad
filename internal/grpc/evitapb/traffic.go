package evitapb

import (
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type GrpcQueryLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type GrpcTrafficSessionStartContainer struct {
	CatalogVersion int64 `json:"catalog_version"`
}

type GrpcTrafficSessionCloseContainer struct {
	CatalogVersion          int64 `json:"catalog_version"`
	TrafficRecordCount      int32 `json:"traffic_record_count"`
	TrafficRecordsMissedOut int32 `json:"traffic_records_missed_out"`
	QueryCount              int32 `json:"query_count"`
	EntityFetchCount        int32 `json:"entity_fetch_count"`
	MutationCount           int32 `json:"mutation_count"`
}

type GrpcTrafficQueryContainer struct {
	QueryDescription string            `json:"query_description"`
	Query            string            `json:"query"`
	TotalRecordCount int32             `json:"total_record_count"`
	PrimaryKeys      []int32           `json:"primary_keys"`
	Labels           []*GrpcQueryLabel `json:"labels"`
}

type GrpcTrafficEntityFetchContainer struct {
	Query      string            `json:"query"`
	PrimaryKey int32             `json:"primary_key"`
	Labels     []*GrpcQueryLabel `json:"labels"`
}

type GrpcTrafficMutationContainer struct {
	Mutation string `json:"mutation"`
}

type GrpcTrafficSourceQueryContainer struct {
	SourceQueryId string            `json:"source_query_id"`
	SourceQuery   string            `json:"source_query"`
	QueryType     string            `json:"query_type"`
	Labels        []*GrpcQueryLabel `json:"labels"`
}

type GrpcTrafficSourceQueryStatisticsContainer struct {
	SourceQueryId       string `json:"source_query_id"`
	ReturnedRecordCount int32  `json:"returned_record_count"`
	TotalRecordCount    int32  `json:"total_record_count"`
}

// GrpcTrafficRecord carries the shared header and exactly one body matching Type.
type GrpcTrafficRecord struct {
	SessionSequenceOrder   int64                    `json:"session_sequence_order"`
	SessionId              string                   `json:"session_id"`
	RecordSessionOffset    int32                    `json:"record_session_offset"`
	SessionRecordsCount    int32                    `json:"session_records_count"`
	Type                   GrpcTrafficRecordingType `json:"type"`
	Created                *timestamppb.Timestamp   `json:"created,omitempty"`
	DurationInMilliseconds int32                    `json:"duration_in_milliseconds"`
	IoFetchedSizeBytes     int32                    `json:"io_fetched_size_bytes"`
	IoFetchCount           int32                    `json:"io_fetch_count"`
	FinishedWithError      *wrapperspb.StringValue  `json:"finished_with_error,omitempty"`

	SessionStart          *GrpcTrafficSessionStartContainer          `json:"session_start,omitempty"`
	SessionClose          *GrpcTrafficSessionCloseContainer          `json:"session_close,omitempty"`
	Query                 *GrpcTrafficQueryContainer                 `json:"query,omitempty"`
	Fetch                 *GrpcTrafficEntityFetchContainer           `json:"fetch,omitempty"`
	Enrichment            *GrpcTrafficEntityFetchContainer           `json:"enrichment,omitempty"`
	Mutation              *GrpcTrafficMutationContainer              `json:"mutation,omitempty"`
	SourceQuery           *GrpcTrafficSourceQueryContainer           `json:"source_query,omitempty"`
	SourceQueryStatistics *GrpcTrafficSourceQueryStatisticsContainer `json:"source_query_statistics,omitempty"`
}

type GrpcTrafficRecordingCaptureCriteria struct {
	Since                    *timestamppb.Timestamp     `json:"since,omitempty"`
	SinceSessionSequenceId   *wrapperspb.Int64Value     `json:"since_session_sequence_id,omitempty"`
	SinceRecordSessionOffset *wrapperspb.Int32Value     `json:"since_record_session_offset,omitempty"`
	Type                     []GrpcTrafficRecordingType `json:"type,omitempty"`
	SessionId                []string                   `json:"session_id,omitempty"`
	LongerThanMilliseconds   *wrapperspb.Int32Value     `json:"longer_than_milliseconds,omitempty"`
	FetchingMoreBytesThan    *wrapperspb.Int32Value     `json:"fetching_more_bytes_than,omitempty"`
	Labels                   []*GrpcQueryLabel          `json:"labels,omitempty"`
}
