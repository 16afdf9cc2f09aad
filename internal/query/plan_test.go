package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/query"
	"github.com/platformbuilds/evitalab-core/internal/query/querytest"
)

func attributeNames(attrs []*models.AttributeSchema) []string {
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a.Name)
	}
	return out
}

func TestNewFetchPlan_LocalizedElementsNeedLocale(t *testing.T) {
	req := query.BuildRequest{
		Pointer: querytest.Pointer("Product"),
		RequiredProperties: []models.EntityPropertyKey{
			models.AttributeKey("code"),
			models.AttributeKey("name"),
			models.AssociatedDataKey("gallery"),
			models.AssociatedDataKey("description"),
		},
	}

	plan, err := query.NewFetchPlan(context.Background(), querytest.Catalog(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"code"}, attributeNames(plan.Attributes))
	require.Len(t, plan.AssociatedData, 1)
	assert.Equal(t, "gallery", plan.AssociatedData[0].Name)

	req.DataLocale = "en"
	plan, err = query.NewFetchPlan(context.Background(), querytest.Catalog(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "name"}, attributeNames(plan.Attributes))
	assert.Len(t, plan.AssociatedData, 2)
}

func TestNewFetchPlan_MissingAttributeNamesContext(t *testing.T) {
	req := query.BuildRequest{
		Pointer:            querytest.Pointer("Product"),
		RequiredProperties: []models.EntityPropertyKey{models.AttributeKey("colour")},
	}

	_, err := query.NewFetchPlan(context.Background(), querytest.Catalog(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrSchemaElementNotFound))

	var le *errs.LabError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, le.Message, "colour")
	assert.Equal(t, "Product", le.EntityType)
	assert.Equal(t, "evita", le.Catalog)
	assert.Equal(t, "demo", le.Connection)
}

func TestNewFetchPlan_MissingReferenceAttribute(t *testing.T) {
	req := query.BuildRequest{
		Pointer:            querytest.Pointer("Product"),
		RequiredProperties: []models.EntityPropertyKey{models.ReferenceAttributeKey("brand", "weight")},
	}

	_, err := query.NewFetchPlan(context.Background(), querytest.Catalog(), req)
	assert.Equal(t, errs.KindSchemaElementNotFound, errs.KindOf(err))
	assert.Contains(t, err.Error(), "brand.weight")
}

func TestNewFetchPlan_UnknownCollection(t *testing.T) {
	req := query.BuildRequest{Pointer: querytest.Pointer("Order")}

	_, err := query.NewFetchPlan(context.Background(), querytest.Catalog(), req)
	var le *errs.LabError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, errs.KindSchemaElementNotFound, le.Kind)
	assert.Equal(t, "demo", le.Connection)
}

func TestNewFetchPlan_ReferencesDeduplicatedInFirstOccurrenceOrder(t *testing.T) {
	provider := querytest.Catalog()
	req := query.BuildRequest{
		Pointer: querytest.Pointer("Product"),
		RequiredProperties: []models.EntityPropertyKey{
			models.ReferenceAttributeKey("category", "order-in-category"),
			models.ReferenceKey("brand"),
			models.ReferenceKey("category"),
			models.ReferenceKey("stocks"),
			models.ReferenceKey("brand"),
		},
	}

	plan, err := query.NewFetchPlan(context.Background(), provider, req)
	require.NoError(t, err)
	require.Len(t, plan.References, 3)
	assert.Equal(t, "category", plan.References[0].Schema.Name)
	assert.Equal(t, []string{"order-in-category"}, attributeNames(plan.References[0].Attributes))
	assert.Equal(t, "brand", plan.References[1].Schema.Name)
	assert.Equal(t, "stocks", plan.References[2].Schema.Name)

	assert.Equal(t, []string{"code"}, attributeNames(plan.References[0].Representatives))
	assert.Equal(t, []string{"code"}, attributeNames(plan.References[1].Representatives))
	assert.Empty(t, plan.References[2].Representatives)

	// unmanaged Stock has no schema to fetch
	assert.Equal(t, []string{"Brand", "Category", "Product"}, provider.RequestedTypes())
}

func TestNewFetchPlan_RepresentativesFollowLocale(t *testing.T) {
	req := query.BuildRequest{
		Pointer:    querytest.Pointer("Category"),
		DataLocale: "cs",
		RequiredProperties: []models.EntityPropertyKey{
			models.EntityKey(models.StaticPropertyParentPrimaryKey),
			models.EntityKey(models.StaticPropertyVersion),
		},
	}

	plan, err := query.NewFetchPlan(context.Background(), querytest.Catalog(), req)
	require.NoError(t, err)
	assert.True(t, plan.Parents)
	assert.True(t, plan.Version)
	assert.Equal(t, []string{"code", "name"}, attributeNames(plan.ParentRepresentatives))
}

func TestNewFetchPlan_UnknownStaticProperty(t *testing.T) {
	req := query.BuildRequest{
		Pointer:            querytest.Pointer("Product"),
		RequiredProperties: []models.EntityPropertyKey{models.EntityKey("weight")},
	}

	_, err := query.NewFetchPlan(context.Background(), querytest.Catalog(), req)
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}

func TestParseLanguage(t *testing.T) {
	lang, err := query.ParseLanguage(" GraphQL ")
	require.NoError(t, err)
	assert.Equal(t, query.LanguageGraphQL, lang)

	_, err = query.ParseLanguage("sql")
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}

func TestBuildersFor_UnknownLanguage(t *testing.T) {
	_, err := query.Builders{}.For(query.Language("sql"))
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))

	_, err = query.Executors{}.For(query.Language("sql"))
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}
