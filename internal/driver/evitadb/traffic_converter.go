package evitadb

import (
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	pb "github.com/platformbuilds/evitalab-core/internal/grpc/evitapb"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

// trafficRecord picks the record variant by the declared type. A record whose
// body does not match its type is rejected.
func (c converter) trafficRecord(r *pb.GrpcTrafficRecord) (models.TrafficRecord, error) {
	header, err := trafficHeader(r)
	if err != nil {
		return nil, err
	}
	noBody := func() error {
		return errs.Unexpected(errs.Scope{}, "traffic record of type %s has no body", header.Type)
	}

	switch header.Type {
	case models.TrafficSessionStart:
		if r.SessionStart == nil {
			return nil, noBody()
		}
		return &models.SessionStartRecord{TrafficRecordHeader: header, CatalogVersion: r.SessionStart.CatalogVersion}, nil
	case models.TrafficSessionClose:
		b := r.SessionClose
		if b == nil {
			return nil, noBody()
		}
		return &models.SessionCloseRecord{
			TrafficRecordHeader:     header,
			CatalogVersion:          b.CatalogVersion,
			TrafficRecordCount:      b.TrafficRecordCount,
			TrafficRecordsMissedOut: b.TrafficRecordsMissedOut,
			QueryCount:              b.QueryCount,
			EntityFetchCount:        b.EntityFetchCount,
			MutationCount:           b.MutationCount,
		}, nil
	case models.TrafficQuery:
		b := r.Query
		if b == nil {
			return nil, noBody()
		}
		return &models.QueryRecord{
			TrafficRecordHeader: header,
			QueryDescription:    b.QueryDescription,
			Query:               b.Query,
			TotalRecordCount:    b.TotalRecordCount,
			PrimaryKeys:         b.PrimaryKeys,
			Labels:              labels(b.Labels),
		}, nil
	case models.TrafficFetch:
		b := r.Fetch
		if b == nil {
			return nil, noBody()
		}
		return &models.FetchRecord{TrafficRecordHeader: header, Query: b.Query, PrimaryKey: b.PrimaryKey, Labels: labels(b.Labels)}, nil
	case models.TrafficEnrichment:
		b := r.Enrichment
		if b == nil {
			return nil, noBody()
		}
		return &models.EnrichmentRecord{TrafficRecordHeader: header, Query: b.Query, PrimaryKey: b.PrimaryKey, Labels: labels(b.Labels)}, nil
	case models.TrafficMutation:
		if r.Mutation == nil {
			return nil, noBody()
		}
		return &models.MutationRecord{TrafficRecordHeader: header, Mutation: r.Mutation.Mutation}, nil
	case models.TrafficSourceQuery:
		b := r.SourceQuery
		if b == nil {
			return nil, noBody()
		}
		id, err := uuid.Parse(b.SourceQueryId)
		if err != nil {
			return nil, errs.UnexpectedWrap(errs.Scope{}, err, "invalid source query id %q", b.SourceQueryId)
		}
		return &models.SourceQueryRecord{
			TrafficRecordHeader: header,
			SourceQueryID:       id,
			SourceQuery:         b.SourceQuery,
			QueryType:           b.QueryType,
			Labels:              labels(b.Labels),
		}, nil
	case models.TrafficSourceQueryStatistics:
		b := r.SourceQueryStatistics
		if b == nil {
			return nil, noBody()
		}
		id, err := uuid.Parse(b.SourceQueryId)
		if err != nil {
			return nil, errs.UnexpectedWrap(errs.Scope{}, err, "invalid source query id %q", b.SourceQueryId)
		}
		return &models.SourceQueryStatisticsRecord{
			TrafficRecordHeader: header,
			SourceQueryID:       id,
			ReturnedRecordCount: b.ReturnedRecordCount,
			TotalRecordCount:    b.TotalRecordCount,
		}, nil
	default:
		return nil, errs.UnsupportedEnumValue("TrafficRecordType", string(header.Type))
	}
}

func trafficHeader(r *pb.GrpcTrafficRecord) (models.TrafficRecordHeader, error) {
	recordType, err := trafficRecordType(r.Type)
	if err != nil {
		return models.TrafficRecordHeader{}, err
	}
	sessionID, err := uuid.Parse(r.SessionId)
	if err != nil {
		return models.TrafficRecordHeader{}, errs.UnexpectedWrap(errs.Scope{}, err, "invalid session id %q", r.SessionId)
	}
	var created time.Time
	if r.Created != nil {
		created = r.Created.AsTime()
	}
	return models.TrafficRecordHeader{
		SessionSequenceOrder: r.SessionSequenceOrder,
		SessionID:            sessionID,
		RecordSessionOffset:  r.RecordSessionOffset,
		SessionRecordsCount:  r.SessionRecordsCount,
		Type:                 recordType,
		Created:              created,
		Duration:             time.Duration(r.DurationInMilliseconds) * time.Millisecond,
		IOFetchedSizeBytes:   r.IoFetchedSizeBytes,
		IOFetchCount:         r.IoFetchCount,
		FinishedWithError:    optString(r.FinishedWithError),
	}, nil
}

func labels(in []*pb.GrpcQueryLabel) []models.Label {
	out := make([]models.Label, 0, len(in))
	for _, l := range in {
		out = append(out, models.Label{Name: l.Name, Value: l.Value})
	}
	return out
}

func trafficCriteria(c models.TrafficRecordingCriteria) (*pb.GrpcTrafficRecordingCaptureCriteria, error) {
	out := &pb.GrpcTrafficRecordingCaptureCriteria{}
	if c.Since != nil {
		out.Since = timestamppb.New(*c.Since)
	}
	if c.SinceSessionSequenceID != nil {
		out.SinceSessionSequenceId = wrapperspb.Int64(*c.SinceSessionSequenceID)
	}
	if c.SinceRecordSessionOffset != nil {
		out.SinceRecordSessionOffset = wrapperspb.Int32(*c.SinceRecordSessionOffset)
	}
	for _, t := range c.Types {
		gt, err := toGrpcTrafficRecordType(t)
		if err != nil {
			return nil, err
		}
		out.Type = append(out.Type, gt)
	}
	for _, id := range c.SessionIDs {
		out.SessionId = append(out.SessionId, id.String())
	}
	if c.LongerThan != nil {
		out.LongerThanMilliseconds = wrapperspb.Int32(int32(c.LongerThan.Milliseconds()))
	}
	if c.FetchingMoreBytesThan != nil {
		out.FetchingMoreBytesThan = wrapperspb.Int32(*c.FetchingMoreBytesThan)
	}
	for _, l := range c.Labels {
		out.Labels = append(out.Labels, &pb.GrpcQueryLabel{Name: l.Name, Value: l.Value})
	}
	return out, nil
}
