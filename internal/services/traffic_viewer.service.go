package services

import (
	"context"
	"sort"

	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/traffic"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

const defaultTrafficLimit = 1000

// TrafficViewerService fetches recorded traffic and reconstructs it for display.
type TrafficViewerService struct {
	connections *ConnectionService
	processor   *traffic.Processor
	logger      logger.Logger
}

func NewTrafficViewerService(connections *ConnectionService, log logger.Logger) *TrafficViewerService {
	return &TrafficViewerService{
		connections: connections,
		processor:   traffic.NewProcessor(log),
		logger:      log,
	}
}

// TrafficHistory is one reconstructed page of traffic.
type TrafficHistory struct {
	Records []*traffic.VisualisationDefinition `json:"records"`
	// Orphans counts closing records whose opening record was outside the page.
	Orphans int `json:"orphans"`
}

// GetTrafficHistory fetches records matching criteria and reconstructs them
// in one pass. Records are ordered by session sequence and offset first, since
// the reconstruction expects a strictly chronological stream.
func (s *TrafficViewerService) GetTrafficHistory(ctx context.Context, pointer models.CatalogPointer, criteria models.TrafficRecordingCriteria) (*TrafficHistory, error) {
	if criteria.Limit <= 0 {
		criteria.Limit = defaultTrafficLimit
	}
	d, err := s.connections.ResolveDriver(ctx, pointer.Connection)
	if err != nil {
		return nil, err
	}
	records, err := d.GetTrafficRecordHistory(ctx, pointer.Connection, pointer.CatalogName, criteria)
	if err != nil {
		return nil, err
	}
	SortTrafficRecords(records)

	tc := traffic.NewContext(pointer.CatalogName)
	roots := s.processor.Process(tc, records)
	s.logger.Debug("traffic history reconstructed",
		"catalog", pointer.CatalogName, "records", len(records), "roots", len(roots), "orphans", tc.Orphans())
	return &TrafficHistory{Records: roots, Orphans: tc.Orphans()}, nil
}

// SortTrafficRecords orders records by session sequence, then by the offset
// within the session.
func SortTrafficRecords(records []models.TrafficRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Header(), records[j].Header()
		if a.SessionSequenceOrder != b.SessionSequenceOrder {
			return a.SessionSequenceOrder < b.SessionSequenceOrder
		}
		return a.RecordSessionOffset < b.RecordSessionOffset
	})
}
