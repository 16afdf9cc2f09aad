package services

import (
	"context"
	"sort"
	"time"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/query"
	"github.com/platformbuilds/evitalab-core/internal/tracing"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// PropertyDescriptor describes one column the entity grid can display.
type PropertyDescriptor struct {
	Key       models.EntityPropertyKey `json:"key"`
	Title     string                   `json:"title"`
	Type      string                   `json:"type,omitempty"`
	Localized bool                     `json:"localized"`
	Sortable  bool                     `json:"sortable"`
	// Parent is the reference a reference attribute belongs to.
	Parent *models.EntityPropertyKey `json:"parent,omitempty"`
}

// QueryResult pairs the executed query text with its normalized response.
type QueryResult struct {
	Language query.Language   `json:"language"`
	Query    string           `json:"query"`
	Response *models.Response `json:"response"`
	Duration time.Duration    `json:"duration"`
}

// EntityViewerService runs grid queries in either language.
type EntityViewerService struct {
	schemas   query.SchemaProvider
	builders  query.Builders
	executors query.Executors
	logger    logger.Logger
	tracer    *tracing.QueryTracer
}

func NewEntityViewerService(schemas query.SchemaProvider, builders query.Builders, executors query.Executors, log logger.Logger) *EntityViewerService {
	return &EntityViewerService{
		schemas:   schemas,
		builders:  builders,
		executors: executors,
		logger:    log,
		tracer:    tracing.GetGlobalTracer(),
	}
}

// BuildQuery renders the request in the given language without running it.
func (s *EntityViewerService) BuildQuery(ctx context.Context, lang query.Language, req query.BuildRequest) (string, error) {
	b, err := s.builders.For(lang)
	if err != nil {
		return "", err
	}
	ctx, span := s.tracer.StartBuildSpan(ctx, string(lang), req.Pointer.Key())
	defer span.End()
	q, err := b.BuildQuery(ctx, req)
	if err != nil {
		s.tracer.RecordError(span, err)
		return "", err
	}
	return q, nil
}

// ExecuteQuery runs a query text, built or user written, against a collection.
func (s *EntityViewerService) ExecuteQuery(ctx context.Context, lang query.Language, pointer models.DataPointer, q string) (*QueryResult, error) {
	e, err := s.executors.For(lang)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := e.ExecuteQuery(ctx, pointer, q)
	if err != nil {
		return nil, err
	}
	return &QueryResult{Language: lang, Query: q, Response: resp, Duration: time.Since(start)}, nil
}

// Query builds the request and executes the result.
func (s *EntityViewerService) Query(ctx context.Context, lang query.Language, req query.BuildRequest) (*QueryResult, error) {
	q, err := s.BuildQuery(ctx, lang, req)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("entity grid query built", "language", lang, "collection", req.Pointer.Key())
	return s.ExecuteQuery(ctx, lang, req.Pointer, q)
}

// PropertyDescriptors lists the properties of a collection the grid can show, in
// display order: static properties, attributes, associated data, prices, then
// references each followed by its attributes.
func (s *EntityViewerService) PropertyDescriptors(ctx context.Context, pointer models.DataPointer) ([]PropertyDescriptor, error) {
	schema, err := s.schemas.GetEntitySchema(ctx, pointer)
	if err != nil {
		return nil, err
	}

	out := []PropertyDescriptor{
		{Key: models.EntityKey(models.StaticPropertyPrimaryKey), Title: "Primary key", Type: "Integer", Sortable: true},
		{Key: models.EntityKey(models.StaticPropertyVersion), Title: "Version", Type: "Integer"},
		{Key: models.EntityKey(models.StaticPropertyScope), Title: "Scope"},
		{Key: models.EntityKey(models.StaticPropertyLocales), Title: "Locales"},
	}
	if schema.IsHierarchical() {
		out = append(out, PropertyDescriptor{Key: models.EntityKey(models.StaticPropertyParentPrimaryKey), Title: "Parent", Type: "Integer"})
	}
	if schema.HasPrices() {
		out = append(out, PropertyDescriptor{Key: models.EntityKey(models.StaticPropertyPriceInnerRecordHandling), Title: "Price inner record handling"})
	}

	for _, name := range sortedKeys(schema.Attributes) {
		a := schema.Attributes[name]
		out = append(out, PropertyDescriptor{
			Key:       models.AttributeKey(name),
			Title:     name,
			Type:      a.Type.GetOrElse(""),
			Localized: a.IsLocalized(),
			Sortable:  a.IsSortable(),
		})
	}
	for _, name := range sortedKeys(schema.AssociatedData) {
		ad := schema.AssociatedData[name]
		out = append(out, PropertyDescriptor{
			Key:       models.AssociatedDataKey(name),
			Title:     name,
			Type:      ad.Type.GetOrElse(""),
			Localized: ad.IsLocalized(),
		})
	}
	if schema.HasPrices() {
		out = append(out, PropertyDescriptor{Key: models.PricesKey(), Title: "Prices"})
	}
	for _, refName := range sortedKeys(schema.References) {
		ref := schema.References[refName]
		refKey := models.ReferenceKey(refName)
		out = append(out, PropertyDescriptor{Key: refKey, Title: refName, Type: ref.EntityType})
		for _, attrName := range sortedKeys(ref.Attributes) {
			a := ref.Attributes[attrName]
			parent := refKey
			out = append(out, PropertyDescriptor{
				Key:       models.ReferenceAttributeKey(refName, attrName),
				Title:     refName + "." + attrName,
				Type:      a.Type.GetOrElse(""),
				Localized: a.IsLocalized(),
				Sortable:  a.IsSortable(),
				Parent:    &parent,
			})
		}
	}
	return out, nil
}

// BuildOrderBy renders the sort constraint the grid uses for a column.
func (s *EntityViewerService) BuildOrderBy(ctx context.Context, lang query.Language, pointer models.DataPointer, key models.EntityPropertyKey, direction models.OrderDirection) (string, error) {
	b, err := s.builders.For(lang)
	if err != nil {
		return "", err
	}
	switch {
	case key.Type == models.EntityPropertyEntity && key.Name == models.StaticPropertyPrimaryKey:
		return b.BuildPrimaryKeyOrderBy(direction)
	case key.Type == models.EntityPropertyAttributes:
		return b.BuildAttributeOrderBy(ctx, pointer, key.Name, direction)
	case key.Type == models.EntityPropertyReferenceAttributes:
		return b.BuildReferenceAttributeOrderBy(ctx, pointer, key.Name, key.AttributeName, direction)
	default:
		return "", errs.Unexpected(query.ScopeOf(pointer), "property %s is not sortable", key)
	}
}

func (s *EntityViewerService) BuildParentEntityFilterBy(lang query.Language, parentPrimaryKey int32) (string, error) {
	b, err := s.builders.For(lang)
	if err != nil {
		return "", err
	}
	return b.BuildParentEntityFilterBy(parentPrimaryKey)
}

func (s *EntityViewerService) BuildPredecessorEntityFilterBy(lang query.Language, predecessorPrimaryKey int32) (string, error) {
	b, err := s.builders.For(lang)
	if err != nil {
		return "", err
	}
	return b.BuildPredecessorEntityFilterBy(predecessorPrimaryKey)
}

func (s *EntityViewerService) BuildReferencedEntityFilterBy(lang query.Language, referencedPrimaryKeys []int32) (string, error) {
	b, err := s.builders.For(lang)
	if err != nil {
		return "", err
	}
	return b.BuildReferencedEntityFilterBy(referencedPrimaryKeys)
}

func (s *EntityViewerService) BuildPriceForSaleFilterBy(lang query.Language, entityPrimaryKey int32, priceLists []string, currency string) (string, error) {
	b, err := s.builders.For(lang)
	if err != nil {
		return "", err
	}
	return b.BuildPriceForSaleFilterBy(entityPrimaryKey, priceLists, currency)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
