package models

import (
	"time"

	"github.com/google/uuid"
)

type TrafficRecordType string

const (
	TrafficSessionStart          TrafficRecordType = "sessionStart"
	TrafficSessionClose          TrafficRecordType = "sessionClose"
	TrafficQuery                 TrafficRecordType = "query"
	TrafficFetch                 TrafficRecordType = "fetch"
	TrafficEnrichment            TrafficRecordType = "enrichment"
	TrafficMutation              TrafficRecordType = "mutation"
	TrafficSourceQuery           TrafficRecordType = "sourceQuery"
	TrafficSourceQueryStatistics TrafficRecordType = "sourceQueryStatistics"
)

// SourceQueryLabel is the label linking queries to the source query they were
// translated from (GraphQL/REST requests are recorded as source queries).
const SourceQueryLabel = "trafficSourceQueryId"

// TrafficRecordHeader is shared by all traffic record variants.
type TrafficRecordHeader struct {
	SessionSequenceOrder int64             `json:"sessionSequenceOrder"`
	SessionID            uuid.UUID         `json:"sessionId"`
	RecordSessionOffset  int32             `json:"recordSessionOffset"`
	SessionRecordsCount  int32             `json:"sessionRecordsCount"`
	Type                 TrafficRecordType `json:"type"`
	Created              time.Time         `json:"created"`
	Duration             time.Duration     `json:"duration"`
	IOFetchedSizeBytes   int32             `json:"ioFetchedSizeBytes"`
	IOFetchCount         int32             `json:"ioFetchCount"`
	FinishedWithError    *string           `json:"finishedWithError,omitempty"`
}

func (h *TrafficRecordHeader) Header() *TrafficRecordHeader {
	return h
}

// Label is a key/value pair attached to recorded queries.
type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TrafficRecordVisitor has one method per record kind. Adding a kind to the
// family adds a method here, so every visitor fails to compile until it handles it.
type TrafficRecordVisitor interface {
	VisitSessionStart(*SessionStartRecord)
	VisitSessionClose(*SessionCloseRecord)
	VisitQuery(*QueryRecord)
	VisitFetch(*FetchRecord)
	VisitEnrichment(*EnrichmentRecord)
	VisitMutation(*MutationRecord)
	VisitSourceQuery(*SourceQueryRecord)
	VisitSourceQueryStatistics(*SourceQueryStatisticsRecord)
}

// TrafficRecord is the closed family of captured session events.
type TrafficRecord interface {
	Header() *TrafficRecordHeader
	Accept(TrafficRecordVisitor)
}

type SessionStartRecord struct {
	TrafficRecordHeader
	CatalogVersion int64 `json:"catalogVersion"`
}

type SessionCloseRecord struct {
	TrafficRecordHeader
	CatalogVersion          int64 `json:"catalogVersion"`
	TrafficRecordCount      int32 `json:"trafficRecordCount"`
	TrafficRecordsMissedOut int32 `json:"trafficRecordsMissedOut"`
	QueryCount              int32 `json:"queryCount"`
	EntityFetchCount        int32 `json:"entityFetchCount"`
	MutationCount           int32 `json:"mutationCount"`
}

type QueryRecord struct {
	TrafficRecordHeader
	QueryDescription string  `json:"queryDescription"`
	Query            string  `json:"query"`
	TotalRecordCount int32   `json:"totalRecordCount"`
	PrimaryKeys      []int32 `json:"primaryKeys"`
	Labels           []Label `json:"labels"`
}

type FetchRecord struct {
	TrafficRecordHeader
	Query      string  `json:"query"`
	PrimaryKey int32   `json:"primaryKey"`
	Labels     []Label `json:"labels"`
}

type EnrichmentRecord struct {
	TrafficRecordHeader
	Query      string  `json:"query"`
	PrimaryKey int32   `json:"primaryKey"`
	Labels     []Label `json:"labels"`
}

type MutationRecord struct {
	TrafficRecordHeader
	Mutation string `json:"mutation"`
}

type SourceQueryRecord struct {
	TrafficRecordHeader
	SourceQueryID uuid.UUID `json:"sourceQueryId"`
	SourceQuery   string    `json:"sourceQuery"`
	QueryType     string    `json:"queryType"`
	Labels        []Label   `json:"labels"`
}

type SourceQueryStatisticsRecord struct {
	TrafficRecordHeader
	SourceQueryID       uuid.UUID `json:"sourceQueryId"`
	ReturnedRecordCount int32     `json:"returnedRecordCount"`
	TotalRecordCount    int32     `json:"totalRecordCount"`
}

func (r *SessionStartRecord) Accept(v TrafficRecordVisitor)          { v.VisitSessionStart(r) }
func (r *SessionCloseRecord) Accept(v TrafficRecordVisitor)          { v.VisitSessionClose(r) }
func (r *QueryRecord) Accept(v TrafficRecordVisitor)                 { v.VisitQuery(r) }
func (r *FetchRecord) Accept(v TrafficRecordVisitor)                 { v.VisitFetch(r) }
func (r *EnrichmentRecord) Accept(v TrafficRecordVisitor)            { v.VisitEnrichment(r) }
func (r *MutationRecord) Accept(v TrafficRecordVisitor)              { v.VisitMutation(r) }
func (r *SourceQueryRecord) Accept(v TrafficRecordVisitor)           { v.VisitSourceQuery(r) }
func (r *SourceQueryStatisticsRecord) Accept(v TrafficRecordVisitor) { v.VisitSourceQueryStatistics(r) }

// SourceQueryID returns the source query a recorded query originates from, if labelled.
func SourceQueryID(labels []Label) (uuid.UUID, bool) {
	for _, l := range labels {
		if l.Name != SourceQueryLabel {
			continue
		}
		id, err := uuid.Parse(l.Value)
		if err != nil {
			return uuid.Nil, false
		}
		return id, true
	}
	return uuid.Nil, false
}

// TrafficRecordingCriteria narrows the traffic history fetched from the server.
type TrafficRecordingCriteria struct {
	Since                    *time.Time          `json:"since,omitempty"`
	SinceSessionSequenceID   *int64              `json:"sinceSessionSequenceId,omitempty"`
	SinceRecordSessionOffset *int32              `json:"sinceRecordSessionOffset,omitempty"`
	Types                    []TrafficRecordType `json:"types,omitempty"`
	SessionIDs               []uuid.UUID         `json:"sessionIds,omitempty"`
	LongerThan               *time.Duration      `json:"longerThan,omitempty"`
	FetchingMoreBytesThan    *int32              `json:"fetchingMoreBytesThan,omitempty"`
	Labels                   []Label             `json:"labels,omitempty"`
	Limit                    int32               `json:"limit"`
}
