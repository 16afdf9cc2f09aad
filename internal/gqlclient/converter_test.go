package gqlclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

func variants(camel, pascal string) models.Value[models.NameVariants] {
	return models.Of(models.NameVariants{
		models.CamelCase:      camel,
		models.PascalCase:     pascal,
		models.SnakeCase:      camel,
		models.UpperSnakeCase: camel,
		models.KebabCase:      camel,
	})
}

func attribute(name, camel, typeName string, localized bool) *models.AttributeSchema {
	return &models.AttributeSchema{
		Kind:         models.AttributeKindEntity,
		Name:         name,
		NameVariants: variants(camel, camel),
		Type:         models.Of(typeName),
		Localized:    models.Of(localized),
	}
}

func productSchema() *models.EntitySchema {
	return models.NewEntitySchema(models.EntitySchema{
		Name:         "Product",
		NameVariants: variants("product", "Product"),
		Attributes: map[string]*models.AttributeSchema{
			"code":         attribute("code", "code", "String", false),
			"name":         attribute("name", "name", "String", true),
			"release-date": attribute("release-date", "releaseDate", "OffsetDateTime", false),
			"stock":        attribute("stock", "stock", "Integer", false),
		},
		References: map[string]*models.ReferenceSchema{
			"brand": {
				Name:         "brand",
				NameVariants: variants("brand", "Brand"),
				EntityType:   "Brand",
				Attributes: map[string]*models.AttributeSchema{
					"order": attribute("order", "order", "Integer", false),
				},
			},
		},
	})
}

func TestConverter_EntityKeysMapBackToSchemaNames(t *testing.T) {
	data := `{"queryProduct":{"recordPage":{
		"number":1,"size":20,"lastPageNumber":1,"totalRecordCount":1,"first":true,"last":true,
		"data":[{
			"primaryKey":7,
			"locales":["en"],
			"attributes":{"code":"A1","name":"Phone","releaseDate":"2024-05-01T10:00:00+02:00","stock":12},
			"brand":{"referencedPrimaryKey":3,"attributes":{"order":2}}
		}]}}}`

	c := &Converter{Schema: productSchema(), Locale: "en"}
	resp, err := c.ConvertResponse([]byte(data))
	require.NoError(t, err)

	page, err := resp.RecordPage.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(1), page.TotalRecordCount)
	require.Len(t, page.Data, 1)
	e := page.Data[0]
	assert.Equal(t, "Product", e.EntityType)
	assert.Equal(t, int32(7), e.PrimaryKey)
	assert.False(t, e.Version.IsSupported())
	assert.False(t, resp.ExtraResults.IsSupported())

	attrs, err := e.Attributes.Get()
	require.NoError(t, err)
	assert.Equal(t, "A1", attrs.Global["code"])
	assert.Equal(t, int32(12), attrs.Global["stock"])
	release, ok := attrs.Global["release-date"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 8, release.UTC().Hour())
	assert.Equal(t, "Phone", attrs.Localized["en"]["name"])
	assert.NotContains(t, attrs.Global, "name")

	refs, err := e.References.Get()
	require.NoError(t, err)
	require.Len(t, refs["brand"], 1)
	assert.Equal(t, int32(3), refs["brand"][0].ReferencedPrimaryKey)
	refAttrs, err := refs["brand"][0].Attributes.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(2), refAttrs.Global["order"])
}

func TestConverter_UnknownAttributeIsSchemaElementNotFound(t *testing.T) {
	data := `{"queryProduct":{"recordPage":{"data":[{"primaryKey":1,"attributes":{"colour":"red"}}]}}}`
	c := &Converter{Schema: productSchema(), Scope: errs.Scope{Connection: "local", Catalog: "evita"}}

	_, err := c.ConvertResponse([]byte(data))
	require.Error(t, err)
	assert.Equal(t, errs.KindSchemaElementNotFound, errs.KindOf(err))
	assert.Contains(t, err.Error(), "colour")
	assert.Contains(t, err.Error(), "Product")
}

func TestConverter_UnknownReferenceField(t *testing.T) {
	data := `{"queryProduct":{"recordPage":{"data":[{"primaryKey":1,"tags":[]}]}}}`
	_, err := (&Converter{Schema: productSchema()}).ConvertResponse([]byte(data))
	assert.Equal(t, errs.KindSchemaElementNotFound, errs.KindOf(err))
}

func TestConverter_MissingRootField(t *testing.T) {
	_, err := (&Converter{Schema: productSchema()}).ConvertResponse([]byte(`{"queryBrand":{}}`))
	require.Error(t, err)
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}

func TestConverter_PricesAndStaticProperties(t *testing.T) {
	data := `{"queryProduct":{"recordPage":{"data":[{
		"primaryKey":1,"version":4,"scope":"LIVE","parentPrimaryKey":null,
		"priceInnerRecordHandling":"LOWEST_PRICE",
		"prices":[{"priceId":10,"priceList":"basic","currency":"EUR","indexed":true,
			"validity":["2024-01-01T00:00:00Z",null],
			"priceWithoutTax":"100.00","priceWithTax":"121.00","taxRate":"21"}],
		"priceForSale":null
	}]}}}`

	resp, err := (&Converter{Schema: productSchema()}).ConvertResponse([]byte(data))
	require.NoError(t, err)
	page, _ := resp.RecordPage.Get()
	e := page.Data[0]

	assert.Equal(t, int32(4), e.Version.GetOrElse(0))
	assert.Equal(t, models.ScopeLive, e.Scope.GetOrElse(""))
	parent, err := e.ParentPrimaryKey.Get()
	require.NoError(t, err)
	assert.Nil(t, parent)
	assert.Equal(t, models.PriceInnerRecordLowestPrice, e.PriceInnerRecordHandling.GetOrElse(""))

	prices, err := e.Prices.Get()
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, models.Decimal("121.00"), prices[0].PriceWithTax)
	require.NotNil(t, prices[0].ValidFrom)
	assert.Nil(t, prices[0].ValidTo)

	forSale, err := e.PriceForSale.Get()
	require.NoError(t, err)
	assert.Nil(t, forSale)
}

func TestConverter_NullEntityInListIsUnexpected(t *testing.T) {
	cases := map[string]string{
		"parents": `{"queryProduct":{"recordPage":{"data":[{"primaryKey":1,"parents":[{"primaryKey":2},null]}]}}}`,
		"records": `{"queryProduct":{"recordPage":{"data":[{"primaryKey":1},null]}}}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := (&Converter{Schema: productSchema()}).ConvertResponse([]byte(data))
			require.Error(t, err)
			assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
			assert.Contains(t, err.Error(), "null entity in "+name)
		})
	}
}

func TestConverter_UnknownEnumValue(t *testing.T) {
	data := `{"queryProduct":{"recordPage":{"data":[{"primaryKey":1,"scope":"PURGATORY"}]}}}`
	_, err := (&Converter{Schema: productSchema()}).ConvertResponse([]byte(data))
	assert.Equal(t, errs.KindUnsupportedEnumValue, errs.KindOf(err))
}

func TestConverter_FlatHierarchyBecomesTree(t *testing.T) {
	data := `{"queryProduct":{"extraResults":{"hierarchy":{"self":{"megaMenu":[
		{"level":1,"entity":{"primaryKey":1},"requested":false,"childrenCount":2},
		{"level":2,"entity":{"primaryKey":2},"requested":true},
		{"level":2,"entity":{"primaryKey":3},"requested":false},
		{"level":1,"entity":{"primaryKey":4},"requested":false}
	]}}}}}`

	resp, err := (&Converter{Schema: productSchema()}).ConvertResponse([]byte(data))
	require.NoError(t, err)
	extra, err := resp.ExtraResults.Get()
	require.NoError(t, err)
	self, err := extra.SelfHierarchy.Get()
	require.NoError(t, err)

	roots := self.Hierarchy["megaMenu"]
	require.Len(t, roots, 2)
	assert.Equal(t, int32(1), roots[0].PrimaryKey)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, int32(2), roots[0].Children[0].PrimaryKey)
	assert.True(t, roots[0].Children[0].Requested)
	assert.Equal(t, int32(3), roots[0].Children[1].PrimaryKey)
	assert.Equal(t, int32(4), roots[1].PrimaryKey)
	count, _ := roots[0].ChildrenCount.Get()
	require.NotNil(t, count)
	assert.Equal(t, int32(2), *count)
	assert.False(t, extra.FacetSummary.IsSupported())
}

func TestConverter_HistogramsAndFacets(t *testing.T) {
	data := `{"queryProduct":{"extraResults":{
		"attributeHistogram":{"stock":{"min":"0","max":"50","overallCount":9,
			"buckets":[{"threshold":"0","occurrences":4,"requested":false},{"threshold":"25","occurrences":5,"requested":true}]}},
		"priceHistogram":{"min":"1.5","max":"99.9","overallCount":3,"buckets":[]},
		"facetSummary":{"brand":[{"groupEntity":null,"count":2,"facetStatistics":[
			{"facetEntity":{"primaryKey":3},"requested":true,"count":2,"impact":{"difference":0,"matchCount":2,"hasSense":true}}
		]}]}
	}}}`

	resp, err := (&Converter{Schema: productSchema()}).ConvertResponse([]byte(data))
	require.NoError(t, err)
	extra, _ := resp.ExtraResults.Get()

	histograms, err := extra.AttributeHistograms.Get()
	require.NoError(t, err)
	require.Contains(t, histograms, "stock")
	assert.Equal(t, models.Decimal("50"), histograms["stock"].Max)
	assert.Len(t, histograms["stock"].Buckets, 2)

	prices, err := extra.PriceHistogram.Get()
	require.NoError(t, err)
	assert.Equal(t, models.Decimal("1.5"), prices.Min)

	summary, err := extra.FacetSummary.Get()
	require.NoError(t, err)
	require.Len(t, summary.FacetGroupStatistics, 1)
	group := summary.FacetGroupStatistics[0]
	assert.Equal(t, "brand", group.ReferenceName)
	assert.Nil(t, group.GroupPrimaryKey)
	require.Len(t, group.FacetStatistics, 1)
	assert.Equal(t, int32(3), group.FacetStatistics[0].FacetPrimaryKey)
}
