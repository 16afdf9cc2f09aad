package evitadb

import (
	"github.com/platformbuilds/evitalab-core/internal/errs"
	pb "github.com/platformbuilds/evitalab-core/internal/grpc/evitapb"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

func (c converter) response(r *pb.GrpcQueryResponse) (*models.Response, error) {
	if r == nil {
		return nil, errs.Unexpected(errs.Scope{}, "server returned no query response")
	}
	page, err := c.dataChunk(r.RecordPage)
	if err != nil {
		return nil, err
	}
	extra, err := c.extraResults(r.ExtraResults)
	if err != nil {
		return nil, err
	}
	return &models.Response{
		RecordPage:   models.Of(page),
		ExtraResults: models.Of(extra),
	}, nil
}

func (c converter) dataChunk(d *pb.GrpcDataChunk) (*models.DataChunk, error) {
	if d == nil {
		return nil, nil
	}
	chunk := &models.DataChunk{
		Data:             make([]*models.Entity, 0, len(d.SealedEntities)),
		PageNumber:       d.PageNumber,
		PageSize:         d.PageSize,
		LastPageNumber:   d.LastPageNumber,
		TotalRecordCount: d.TotalRecordCount,
		First:            d.IsFirst,
		Last:             d.IsLast,
	}
	for _, e := range d.SealedEntities {
		entity, err := c.entity(e)
		if err != nil {
			return nil, err
		}
		chunk.Data = append(chunk.Data, entity)
	}
	return chunk, nil
}

func (c converter) extraResults(x *pb.GrpcExtraResults) (*models.ExtraResults, error) {
	if x == nil {
		return nil, nil
	}
	histograms := make(map[string]*models.Histogram, len(x.AttributeHistogram))
	for name, h := range x.AttributeHistogram {
		histograms[name] = histogram(h)
	}
	facets, err := c.facetSummary(x.FacetGroupStatistics)
	if err != nil {
		return nil, err
	}
	self, err := c.hierarchy(x.SelfHierarchy)
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]*models.Hierarchy, len(x.Hierarchy))
	for name, h := range x.Hierarchy {
		converted, err := c.hierarchy(h)
		if err != nil {
			return nil, err
		}
		referenced[name] = converted
	}
	return &models.ExtraResults{
		AttributeHistograms: models.Of(histograms),
		PriceHistogram:      models.Of(histogram(x.PriceHistogram)),
		FacetSummary:        models.Of(facets),
		SelfHierarchy:       models.Of(self),
		Hierarchy:           models.Of(referenced),
	}, nil
}

func histogram(h *pb.GrpcHistogram) *models.Histogram {
	if h == nil {
		return nil
	}
	out := &models.Histogram{
		Min:          models.Decimal(h.Min),
		Max:          models.Decimal(h.Max),
		OverallCount: h.OverallCount,
		Buckets:      make([]models.Bucket, 0, len(h.Buckets)),
	}
	for _, b := range h.Buckets {
		out.Buckets = append(out.Buckets, models.Bucket{
			Threshold:   models.Decimal(b.Threshold),
			Occurrences: b.Occurrences,
			Requested:   b.Requested,
		})
	}
	return out
}

func (c converter) facetSummary(groups []*pb.GrpcFacetGroupStatistics) (*models.FacetSummary, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	summary := &models.FacetSummary{FacetGroupStatistics: make([]*models.FacetGroupStatistics, 0, len(groups))}
	for _, g := range groups {
		groupEntity, err := c.entity(g.GroupEntity)
		if err != nil {
			return nil, err
		}
		var groupPK *int32
		switch {
		case g.GroupEntity != nil:
			pk := g.GroupEntity.PrimaryKey
			groupPK = &pk
		case g.GroupEntityReference != nil:
			pk := g.GroupEntityReference.PrimaryKey
			groupPK = &pk
		}
		group := &models.FacetGroupStatistics{
			ReferenceName:   g.ReferenceName,
			GroupEntity:     models.Of(groupEntity),
			GroupPrimaryKey: groupPK,
			Count:           g.Count,
			FacetStatistics: make([]*models.FacetStatistics, 0, len(g.FacetStatistics)),
		}
		for _, f := range g.FacetStatistics {
			stat, err := c.facetStatistics(f)
			if err != nil {
				return nil, err
			}
			group.FacetStatistics = append(group.FacetStatistics, stat)
		}
		summary.FacetGroupStatistics = append(summary.FacetGroupStatistics, group)
	}
	return summary, nil
}

func (c converter) facetStatistics(f *pb.GrpcFacetStatistics) (*models.FacetStatistics, error) {
	var pk int32
	switch {
	case f.FacetEntity != nil:
		pk = f.FacetEntity.PrimaryKey
	case f.FacetEntityReference != nil:
		pk = f.FacetEntityReference.PrimaryKey
	default:
		return nil, errs.Unexpected(errs.Scope{}, "facet statistics without facet reference")
	}
	facetEntity, err := c.entity(f.FacetEntity)
	if err != nil {
		return nil, err
	}
	var impact *models.FacetImpact
	if f.Impact != nil {
		impact = &models.FacetImpact{
			Difference: f.Impact.Difference,
			MatchCount: f.Impact.MatchCount,
			HasSense:   f.Impact.HasSense,
		}
	}
	return &models.FacetStatistics{
		FacetEntity:     models.Of(facetEntity),
		FacetPrimaryKey: pk,
		Requested:       f.Requested,
		Count:           f.Count,
		Impact:          models.Of(impact),
	}, nil
}

func (c converter) hierarchy(h *pb.GrpcHierarchy) (*models.Hierarchy, error) {
	if h == nil {
		return nil, nil
	}
	out := &models.Hierarchy{Hierarchy: make(map[string][]*models.LevelInfo, len(h.Hierarchy))}
	for name, infos := range h.Hierarchy {
		var levels []*models.LevelInfo
		if infos != nil {
			levels = make([]*models.LevelInfo, 0, len(infos.LevelInfos))
			for _, li := range infos.LevelInfos {
				level, err := c.levelInfo(li)
				if err != nil {
					return nil, err
				}
				levels = append(levels, level)
			}
		}
		out.Hierarchy[name] = levels
	}
	return out, nil
}

// levelInfo converts a node and, recursively, its children.
func (c converter) levelInfo(l *pb.GrpcLevelInfo) (*models.LevelInfo, error) {
	var pk int32
	switch {
	case l.Entity != nil:
		pk = l.Entity.PrimaryKey
	case l.EntityReference != nil:
		pk = l.EntityReference.PrimaryKey
	default:
		return nil, errs.Unexpected(errs.Scope{}, "hierarchy level without entity reference")
	}
	entity, err := c.entity(l.Entity)
	if err != nil {
		return nil, err
	}
	level := &models.LevelInfo{
		Entity:             models.Of(entity),
		PrimaryKey:         pk,
		Requested:          l.Requested,
		QueriedEntityCount: models.Of(optInt32(l.QueriedEntityCount)),
		ChildrenCount:      models.Of(optInt32(l.ChildrenCount)),
	}
	for _, item := range l.Items {
		child, err := c.levelInfo(item)
		if err != nil {
			return nil, err
		}
		level.AddChild(child)
	}
	return level, nil
}
