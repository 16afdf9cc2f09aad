package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/query"
	"github.com/platformbuilds/evitalab-core/internal/query/evitaql"
	"github.com/platformbuilds/evitalab-core/internal/query/graphql"
	"github.com/platformbuilds/evitalab-core/internal/query/querytest"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

type recordingExecutor struct {
	lang    query.Language
	queries []string
}

func (e *recordingExecutor) Language() query.Language { return e.lang }

func (e *recordingExecutor) ExecuteQuery(_ context.Context, _ models.DataPointer, q string) (*models.Response, error) {
	e.queries = append(e.queries, q)
	return &models.Response{
		RecordPage:   models.Of(&models.DataChunk{Data: []*models.Entity{{PrimaryKey: 1}}}),
		ExtraResults: models.NotSupported[*models.ExtraResults](),
	}, nil
}

func newEntityViewer(evitaqlExec, graphqlExec query.Executor) *EntityViewerService {
	schemas := querytest.Catalog()
	builders := query.Builders{
		EvitaQL: evitaql.NewBuilder(schemas, logger.NewNop()),
		GraphQL: graphql.NewBuilder(schemas, logger.NewNop()),
	}
	return NewEntityViewerService(schemas, builders, query.Executors{EvitaQL: evitaqlExec, GraphQL: graphqlExec}, logger.NewNop())
}

func TestEntityViewer_QueryBuildsAndExecutes(t *testing.T) {
	exec := &recordingExecutor{lang: query.LanguageEvitaQL}
	svc := newEntityViewer(exec, &recordingExecutor{lang: query.LanguageGraphQL})

	res, err := svc.Query(context.Background(), query.LanguageEvitaQL, query.BuildRequest{
		Pointer:            querytest.Pointer("Product"),
		RequiredProperties: []models.EntityPropertyKey{models.AttributeKey("code")},
		PageNumber:         1,
		PageSize:           20,
	})
	require.NoError(t, err)
	require.Len(t, exec.queries, 1)
	assert.Equal(t, exec.queries[0], res.Query)
	assert.Contains(t, res.Query, "collection('Product')")
	assert.Equal(t, query.LanguageEvitaQL, res.Language)

	page, err := res.Response.RecordPage.Get()
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}

func TestEntityViewer_UnknownLanguage(t *testing.T) {
	svc := newEntityViewer(&recordingExecutor{}, &recordingExecutor{})
	_, err := svc.Query(context.Background(), query.Language("rest"), query.BuildRequest{Pointer: querytest.Pointer("Product")})
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}

func TestEntityViewer_PropertyDescriptors(t *testing.T) {
	svc := newEntityViewer(&recordingExecutor{}, &recordingExecutor{})

	descriptors, err := svc.PropertyDescriptors(context.Background(), querytest.Pointer("Product"))
	require.NoError(t, err)

	var keys []string
	for _, d := range descriptors {
		keys = append(keys, d.Key.String())
	}
	assert.Equal(t, []string{
		"entity:primaryKey",
		"entity:version",
		"entity:scope",
		"entity:locales",
		"entity:priceInnerRecordHandling",
		"attributes:code",
		"attributes:ean",
		"attributes:name",
		"attributes:priority",
		"associatedData:description",
		"associatedData:gallery",
		"prices",
		"references:brand",
		"referenceAttributes:brand:order",
		"references:category",
		"referenceAttributes:category:order-in-category",
		"references:stocks",
	}, keys)

	byKey := make(map[string]PropertyDescriptor)
	for _, d := range descriptors {
		byKey[d.Key.String()] = d
	}
	assert.True(t, byKey["attributes:name"].Localized)
	assert.True(t, byKey["entity:primaryKey"].Sortable)
	assert.False(t, byKey["entity:version"].Sortable)
	require.NotNil(t, byKey["referenceAttributes:brand:order"].Parent)
	assert.Equal(t, "references:brand", byKey["referenceAttributes:brand:order"].Parent.String())

	categories, err := svc.PropertyDescriptors(context.Background(), querytest.Pointer("Category"))
	require.NoError(t, err)
	assert.Equal(t, "entity:parentPrimaryKey", categories[4].Key.String())
}

func TestEntityViewer_BuildOrderBy(t *testing.T) {
	svc := newEntityViewer(&recordingExecutor{}, &recordingExecutor{})
	ctx := context.Background()
	pointer := querytest.Pointer("Product")

	pk, err := svc.BuildOrderBy(ctx, query.LanguageGraphQL, pointer, models.EntityKey(models.StaticPropertyPrimaryKey), models.OrderAsc)
	require.NoError(t, err)
	assert.Equal(t, "entityPrimaryKeyNatural: ASC", pk)

	attr, err := svc.BuildOrderBy(ctx, query.LanguageGraphQL, pointer, models.AttributeKey("priority"), models.OrderDesc)
	require.NoError(t, err)
	assert.Equal(t, "attributePriorityNatural: DESC", attr)

	ref, err := svc.BuildOrderBy(ctx, query.LanguageGraphQL, pointer, models.ReferenceAttributeKey("brand", "order"), models.OrderAsc)
	require.NoError(t, err)
	assert.Equal(t, "referenceBrandProperty: { attributeOrderNatural: ASC }", ref)

	_, err = svc.BuildOrderBy(ctx, query.LanguageEvitaQL, pointer, models.PricesKey(), models.OrderAsc)
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}

func TestEntityViewer_HelperFilters(t *testing.T) {
	svc := newEntityViewer(&recordingExecutor{}, &recordingExecutor{})

	f, err := svc.BuildReferencedEntityFilterBy(query.LanguageGraphQL, []int32{4, 8})
	require.NoError(t, err)
	assert.Equal(t, "entityPrimaryKeyInSet: [4, 8]", f)

	f, err = svc.BuildParentEntityFilterBy(query.LanguageGraphQL, 3)
	require.NoError(t, err)
	assert.Equal(t, "entityPrimaryKeyInSet: [3]", f)

	_, err = svc.BuildPriceForSaleFilterBy(query.Language("sql"), 1, nil, "EUR")
	assert.Error(t, err)
}
