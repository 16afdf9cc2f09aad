package gqlclient

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/utils/tree"
)

// Converter maps the result of an entity query back to the domain model. GraphQL
// exposes schema elements by their camelCase names; the schemas translate them back.
// Properties missing from the response were not fetched and are not supported.
type Converter struct {
	Schema *models.EntitySchema
	// Referenced holds schemas of referenced entity types keyed by reference name.
	Referenced map[string]*models.EntitySchema
	// Locale is the locale the query fetched localized data in, if any.
	Locale string
	Scope  errs.Scope
}

type rawObject map[string]json.RawMessage

type rawDataChunk struct {
	Data             []rawObject `json:"data"`
	Number           int32       `json:"number"`
	Size             int32       `json:"size"`
	LastPageNumber   int32       `json:"lastPageNumber"`
	TotalRecordCount int32       `json:"totalRecordCount"`
	First            bool        `json:"first"`
	Last             bool        `json:"last"`
}

type rawQueryResult struct {
	RecordPage   *rawDataChunk `json:"recordPage"`
	RecordStrip  *rawDataChunk `json:"recordStrip"`
	ExtraResults *rawExtra     `json:"extraResults"`
}

type rawBucket struct {
	Threshold   json.Number `json:"threshold"`
	Occurrences int32       `json:"occurrences"`
	Requested   bool        `json:"requested"`
}

type rawHistogram struct {
	Min          json.Number `json:"min"`
	Max          json.Number `json:"max"`
	OverallCount int32       `json:"overallCount"`
	Buckets      []rawBucket `json:"buckets"`
}

type rawImpact struct {
	Difference int32 `json:"difference"`
	MatchCount int32 `json:"matchCount"`
	HasSense   bool  `json:"hasSense"`
}

type rawFacetStatistics struct {
	FacetEntity rawObject  `json:"facetEntity"`
	Requested   bool       `json:"requested"`
	Count       int32      `json:"count"`
	Impact      *rawImpact `json:"impact"`
}

type rawFacetGroup struct {
	GroupEntity     rawObject            `json:"groupEntity"`
	Count           int32                `json:"count"`
	FacetStatistics []rawFacetStatistics `json:"facetStatistics"`
}

type rawLevelInfo struct {
	Level              int       `json:"level"`
	Entity             rawObject `json:"entity"`
	Requested          bool      `json:"requested"`
	ChildrenCount      *int32    `json:"childrenCount"`
	QueriedEntityCount *int32    `json:"queriedEntityCount"`
}

type rawExtra struct {
	AttributeHistogram map[string]rawHistogram              `json:"attributeHistogram"`
	PriceHistogram     *rawHistogram                        `json:"priceHistogram"`
	FacetSummary       map[string]json.RawMessage           `json:"facetSummary"`
	Hierarchy          map[string]map[string][]rawLevelInfo `json:"hierarchy"`
}

// RootField is the query field of an entity collection, e.g. queryProduct.
func RootField(schema *models.EntitySchema) string {
	return "query" + schema.Variant(models.PascalCase)
}

func decode(raw json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// ConvertResponse converts the data object of an entity query.
func (c *Converter) ConvertResponse(data json.RawMessage) (*models.Response, error) {
	var root map[string]json.RawMessage
	if err := decode(data, &root); err != nil {
		return nil, errs.UnexpectedWrap(c.Scope, err, "decode GraphQL data")
	}
	field := RootField(c.Schema)
	rawResult, ok := root[field]
	if !ok {
		return nil, errs.Unexpected(c.Scope, "GraphQL response has no %s field", field)
	}
	var result rawQueryResult
	if err := decode(rawResult, &result); err != nil {
		return nil, errs.UnexpectedWrap(c.Scope, err, "decode %s", field)
	}

	resp := &models.Response{
		RecordPage:   models.NotSupported[*models.DataChunk](),
		ExtraResults: models.NotSupported[*models.ExtraResults](),
	}
	chunk := result.RecordPage
	if chunk == nil {
		chunk = result.RecordStrip
	}
	if chunk != nil {
		page, err := c.dataChunk(chunk)
		if err != nil {
			return nil, err
		}
		resp.RecordPage = models.Of(page)
	}
	if result.ExtraResults != nil {
		extra, err := c.extraResults(result.ExtraResults)
		if err != nil {
			return nil, err
		}
		resp.ExtraResults = models.Of(extra)
	}
	return resp, nil
}

func (c *Converter) dataChunk(d *rawDataChunk) (*models.DataChunk, error) {
	out := &models.DataChunk{
		Data:             make([]*models.Entity, 0, len(d.Data)),
		PageNumber:       d.Number,
		PageSize:         d.Size,
		LastPageNumber:   d.LastPageNumber,
		TotalRecordCount: d.TotalRecordCount,
		First:            d.First,
		Last:             d.Last,
	}
	for _, obj := range d.Data {
		e, err := c.listEntity(obj, c.Schema, "records")
		if err != nil {
			return nil, err
		}
		out.Data = append(out.Data, e)
	}
	return out, nil
}

var staticFields = map[string]bool{
	"primaryKey":               true,
	"version":                  true,
	"scope":                    true,
	"parentPrimaryKey":         true,
	"parents":                  true,
	"locales":                  true,
	"allLocales":               true,
	"priceInnerRecordHandling": true,
	"attributes":               true,
	"associatedData":           true,
	"prices":                   true,
	"priceForSale":             true,
	"__typename":               true,
}

// listEntity converts an element of an entity list, where null is malformed.
func (c *Converter) listEntity(obj rawObject, schema *models.EntitySchema, list string) (*models.Entity, error) {
	if obj == nil {
		scope := c.Scope
		if schema != nil {
			scope.EntityType = schema.Name
		}
		return nil, errs.Unexpected(scope, "null entity in %s", list)
	}
	return c.entity(obj, schema)
}

// entity converts one entity object. schema may be nil for entities of types the
// converter has no schema for; their keys are then kept as returned.
func (c *Converter) entity(obj rawObject, schema *models.EntitySchema) (*models.Entity, error) {
	if obj == nil {
		return nil, nil
	}
	scope := c.Scope
	if schema != nil {
		scope.EntityType = schema.Name
	}
	var pk int32
	rawPK, ok := obj["primaryKey"]
	if !ok {
		return nil, errs.Unexpected(scope, "entity without primary key")
	}
	if err := decode(rawPK, &pk); err != nil {
		return nil, errs.UnexpectedWrap(scope, err, "decode primary key")
	}

	e := &models.Entity{
		PrimaryKey:               pk,
		Version:                  models.NotSupported[int32](),
		SchemaVersion:            models.NotSupported[int32](),
		Scope:                    models.NotSupported[models.EntityScope](),
		ParentPrimaryKey:         models.NotSupported[*int32](),
		Parents:                  models.NotSupported[[]*models.Entity](),
		Locales:                  models.NotSupported[[]string](),
		AllLocales:               models.NotSupported[[]string](),
		PriceInnerRecordHandling: models.NotSupported[models.PriceInnerRecordHandling](),
		Attributes:               models.NotSupported[models.Attributes](),
		AssociatedData:           models.NotSupported[models.AssociatedData](),
		Prices:                   models.NotSupported[[]models.Price](),
		PriceForSale:             models.NotSupported[*models.Price](),
		References:               models.NotSupported[map[string][]models.Reference](),
	}
	if schema != nil {
		e.EntityType = schema.Name
	}

	var err error
	if raw, ok := obj["version"]; ok {
		var v int32
		if err = decode(raw, &v); err != nil {
			return nil, errs.UnexpectedWrap(scope, err, "decode version")
		}
		e.Version = models.Of(v)
	}
	if raw, ok := obj["scope"]; ok {
		var s string
		if err = decode(raw, &s); err != nil {
			return nil, errs.UnexpectedWrap(scope, err, "decode scope")
		}
		sc, err := entityScope(s)
		if err != nil {
			return nil, errs.WithScope(err, scope)
		}
		e.Scope = models.Of(sc)
	}
	if raw, ok := obj["parentPrimaryKey"]; ok {
		var p *int32
		if err = decode(raw, &p); err != nil {
			return nil, errs.UnexpectedWrap(scope, err, "decode parent primary key")
		}
		e.ParentPrimaryKey = models.Of(p)
	}
	if raw, ok := obj["parents"]; ok {
		var parents []rawObject
		if err = decode(raw, &parents); err != nil {
			return nil, errs.UnexpectedWrap(scope, err, "decode parents")
		}
		converted := make([]*models.Entity, 0, len(parents))
		for _, p := range parents {
			pe, err := c.listEntity(p, schema, "parents")
			if err != nil {
				return nil, err
			}
			converted = append(converted, pe)
		}
		e.Parents = models.Of(converted)
	}
	if raw, ok := obj["locales"]; ok {
		var l []string
		if err = decode(raw, &l); err != nil {
			return nil, errs.UnexpectedWrap(scope, err, "decode locales")
		}
		e.Locales = models.Of(l)
	}
	if raw, ok := obj["allLocales"]; ok {
		var l []string
		if err = decode(raw, &l); err != nil {
			return nil, errs.UnexpectedWrap(scope, err, "decode all locales")
		}
		e.AllLocales = models.Of(l)
	}
	if raw, ok := obj["priceInnerRecordHandling"]; ok {
		var h string
		if err = decode(raw, &h); err != nil {
			return nil, errs.UnexpectedWrap(scope, err, "decode price inner record handling")
		}
		handling, err := priceInnerRecordHandling(h)
		if err != nil {
			return nil, errs.WithScope(err, scope)
		}
		e.PriceInnerRecordHandling = models.Of(handling)
	}
	if raw, ok := obj["attributes"]; ok {
		g, l, err := c.values(raw, attributeIndex(schemaAttributes(schema)), errs.ElementAttribute, scope)
		if err != nil {
			return nil, err
		}
		e.Attributes = models.Of(models.Attributes{Global: g, Localized: l})
	}
	if raw, ok := obj["associatedData"]; ok {
		g, l, err := c.values(raw, associatedDataIndex(schema), errs.ElementAssociatedData, scope)
		if err != nil {
			return nil, err
		}
		e.AssociatedData = models.Of(models.AssociatedData{Global: g, Localized: l})
	}
	if raw, ok := obj["prices"]; ok {
		var prices []rawPrice
		if err = decode(raw, &prices); err != nil {
			return nil, errs.UnexpectedWrap(scope, err, "decode prices")
		}
		converted := make([]models.Price, 0, len(prices))
		for _, p := range prices {
			mp, err := p.toModel()
			if err != nil {
				return nil, errs.WithScope(err, scope)
			}
			converted = append(converted, mp)
		}
		e.Prices = models.Of(converted)
	}
	if raw, ok := obj["priceForSale"]; ok {
		var p *rawPrice
		if err = decode(raw, &p); err != nil {
			return nil, errs.UnexpectedWrap(scope, err, "decode price for sale")
		}
		var forSale *models.Price
		if p != nil {
			mp, err := p.toModel()
			if err != nil {
				return nil, errs.WithScope(err, scope)
			}
			forSale = &mp
		}
		e.PriceForSale = models.Of(forSale)
	}

	refs, err := c.references(obj, schema, scope)
	if err != nil {
		return nil, err
	}
	if refs != nil {
		e.References = models.Of(refs)
	}
	return e, nil
}

func (c *Converter) references(obj rawObject, schema *models.EntitySchema, scope errs.Scope) (map[string][]models.Reference, error) {
	var out map[string][]models.Reference
	for key, raw := range obj {
		if staticFields[key] {
			continue
		}
		if schema == nil {
			continue
		}
		refSchema := referenceByVariant(schema, key)
		if refSchema == nil {
			return nil, errs.SchemaElementNotFound(errs.ElementReference, key, scope)
		}
		items, err := referenceItems(raw)
		if err != nil {
			return nil, errs.UnexpectedWrap(scope, err, "decode reference %s", refSchema.Name)
		}
		if out == nil {
			out = make(map[string][]models.Reference)
		}
		refs := make([]models.Reference, 0, len(items))
		for _, item := range items {
			ref, err := c.reference(refSchema, item, scope)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
		out[refSchema.Name] = refs
	}
	return out, nil
}

// referenceItems accepts both list (to-many) and object (to-one) reference fields.
func referenceItems(raw json.RawMessage) ([]rawObject, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []rawObject
		err := decode(raw, &items)
		return items, err
	}
	var item rawObject
	if err := decode(raw, &item); err != nil {
		return nil, err
	}
	return []rawObject{item}, nil
}

func (c *Converter) reference(refSchema *models.ReferenceSchema, obj rawObject, scope errs.Scope) (models.Reference, error) {
	ref := models.Reference{
		ReferenceName:             refSchema.Name,
		Version:                   models.NotSupported[int32](),
		ReferencedEntity:          models.NotSupported[*models.Entity](),
		GroupReferencedPrimaryKey: models.NotSupported[*int32](),
		GroupReferencedEntity:     models.NotSupported[*models.Entity](),
		Attributes:                models.NotSupported[models.Attributes](),
	}
	if raw, ok := obj["referencedPrimaryKey"]; ok {
		if err := decode(raw, &ref.ReferencedPrimaryKey); err != nil {
			return ref, errs.UnexpectedWrap(scope, err, "decode referenced primary key of %s", refSchema.Name)
		}
	}
	if raw, ok := obj["referencedEntity"]; ok {
		var entityObj rawObject
		if err := decode(raw, &entityObj); err != nil {
			return ref, errs.UnexpectedWrap(scope, err, "decode referenced entity of %s", refSchema.Name)
		}
		referenced, err := c.entity(entityObj, c.Referenced[refSchema.Name])
		if err != nil {
			return ref, err
		}
		if referenced != nil {
			if referenced.EntityType == "" {
				referenced.EntityType = refSchema.EntityType
			}
			ref.ReferencedPrimaryKey = referenced.PrimaryKey
		}
		ref.ReferencedEntity = models.Of(referenced)
	}
	if raw, ok := obj["groupEntity"]; ok {
		var groupObj rawObject
		if err := decode(raw, &groupObj); err != nil {
			return ref, errs.UnexpectedWrap(scope, err, "decode group entity of %s", refSchema.Name)
		}
		group, err := c.entity(groupObj, nil)
		if err != nil {
			return ref, err
		}
		var groupPK *int32
		if group != nil {
			pk := group.PrimaryKey
			groupPK = &pk
		}
		ref.GroupReferencedEntity = models.Of(group)
		ref.GroupReferencedPrimaryKey = models.Of(groupPK)
	}
	if raw, ok := obj["attributes"]; ok {
		g, l, err := c.values(raw, attributeIndex(refSchema.Attributes), errs.ElementReferenceAttribute, scope)
		if err != nil {
			return ref, err
		}
		ref.Attributes = models.Of(models.Attributes{Global: g, Localized: l})
	}
	return ref, nil
}

type valueSchema struct {
	name      string
	typeName  string
	localized bool
}

func schemaAttributes(schema *models.EntitySchema) map[string]*models.AttributeSchema {
	if schema == nil {
		return nil
	}
	return schema.Attributes
}

// attributeIndex maps camelCase names to schemas. A nil result means the keys
// cannot be checked and are kept verbatim.
func attributeIndex(attrs map[string]*models.AttributeSchema) map[string]valueSchema {
	if attrs == nil {
		return nil
	}
	idx := make(map[string]valueSchema, len(attrs))
	for _, a := range attrs {
		idx[a.Variant(models.CamelCase)] = valueSchema{name: a.Name, typeName: a.Type.GetOrElse(""), localized: a.IsLocalized()}
	}
	return idx
}

func associatedDataIndex(schema *models.EntitySchema) map[string]valueSchema {
	if schema == nil {
		return nil
	}
	idx := make(map[string]valueSchema, len(schema.AssociatedData))
	for _, a := range schema.AssociatedData {
		idx[a.Variant(models.CamelCase)] = valueSchema{name: a.Name, typeName: a.Type.GetOrElse(""), localized: a.IsLocalized()}
	}
	return idx
}

func referenceByVariant(schema *models.EntitySchema, key string) *models.ReferenceSchema {
	for _, r := range schema.References {
		if r.Variant(models.CamelCase) == key {
			return r
		}
	}
	return nil
}

// values splits returned values into global and localized ones. Localized values
// are returned in the single locale the query asked for.
func (c *Converter) values(raw json.RawMessage, idx map[string]valueSchema, element errs.ElementType, scope errs.Scope) (map[string]interface{}, models.LocalizedValues, error) {
	var obj map[string]interface{}
	if err := decode(raw, &obj); err != nil {
		return nil, nil, errs.UnexpectedWrap(scope, err, "decode %s values", element)
	}
	global := make(map[string]interface{}, len(obj))
	localized := make(models.LocalizedValues)
	for key, v := range obj {
		if key == "__typename" {
			continue
		}
		if idx == nil {
			global[key] = normalizeNumber(v)
			continue
		}
		s, ok := idx[key]
		if !ok {
			return nil, nil, errs.SchemaElementNotFound(element, key, scope)
		}
		coerced, err := coerce(s.typeName, v)
		if err != nil {
			return nil, nil, errs.UnexpectedWrap(scope, err, "%s %s has an invalid %s value", element, s.name, s.typeName)
		}
		if s.localized && c.Locale != "" {
			if localized[c.Locale] == nil {
				localized[c.Locale] = make(map[string]interface{})
			}
			localized[c.Locale][s.name] = coerced
			continue
		}
		global[s.name] = coerced
	}
	return global, localized, nil
}

// coerce turns JSON values into the Go types the gRPC converter produces for the
// same schema type, so both transports yield comparable entities.
func coerce(typeName string, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch strings.TrimSuffix(typeName, "[]") {
	case "Integer", "Short", "Byte":
		if n, ok := v.(json.Number); ok {
			i, err := n.Int64()
			return int32(i), err
		}
	case "Long":
		if n, ok := v.(json.Number); ok {
			return n.Int64()
		}
	case "BigDecimal":
		switch d := v.(type) {
		case string:
			return models.Decimal(d), nil
		case json.Number:
			return models.Decimal(d.String()), nil
		}
	case "OffsetDateTime":
		if s, ok := v.(string); ok {
			return time.Parse(time.RFC3339Nano, s)
		}
	}
	return normalizeNumber(v), nil
}

func normalizeNumber(v interface{}) interface{} {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case []interface{}:
		out := make([]interface{}, len(n))
		for i, item := range n {
			out[i] = normalizeNumber(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(n))
		for k, item := range n {
			out[k] = normalizeNumber(item)
		}
		return out
	default:
		return v
	}
}

type rawPrice struct {
	PriceID         int32       `json:"priceId"`
	PriceList       string      `json:"priceList"`
	Currency        string      `json:"currency"`
	InnerRecordID   *int32      `json:"innerRecordId"`
	Indexed         bool        `json:"indexed"`
	Validity        []*string   `json:"validity"`
	PriceWithoutTax json.Number `json:"priceWithoutTax"`
	PriceWithTax    json.Number `json:"priceWithTax"`
	TaxRate         json.Number `json:"taxRate"`
}

func (p rawPrice) toModel() (models.Price, error) {
	out := models.Price{
		PriceID:         p.PriceID,
		PriceList:       p.PriceList,
		Currency:        p.Currency,
		InnerRecordID:   p.InnerRecordID,
		Indexed:         p.Indexed,
		PriceWithoutTax: models.Decimal(p.PriceWithoutTax.String()),
		PriceWithTax:    models.Decimal(p.PriceWithTax.String()),
		TaxRate:         models.Decimal(p.TaxRate.String()),
		Version:         models.NotSupported[int32](),
	}
	bounds := []**time.Time{&out.ValidFrom, &out.ValidTo}
	for i, v := range p.Validity {
		if i >= len(bounds) || v == nil {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, *v)
		if err != nil {
			return out, errs.UnexpectedWrap(errs.Scope{}, err, "invalid price validity of price %d", p.PriceID)
		}
		*bounds[i] = &t
	}
	return out, nil
}

func (c *Converter) extraResults(x *rawExtra) (*models.ExtraResults, error) {
	out := &models.ExtraResults{
		AttributeHistograms: models.NotSupported[map[string]*models.Histogram](),
		PriceHistogram:      models.NotSupported[*models.Histogram](),
		FacetSummary:        models.NotSupported[*models.FacetSummary](),
		SelfHierarchy:       models.NotSupported[*models.Hierarchy](),
		Hierarchy:           models.NotSupported[map[string]*models.Hierarchy](),
	}
	if x.AttributeHistogram != nil {
		idx := attributeIndex(c.Schema.Attributes)
		histograms := make(map[string]*models.Histogram, len(x.AttributeHistogram))
		for key, h := range x.AttributeHistogram {
			s, ok := idx[key]
			if !ok {
				return nil, errs.SchemaElementNotFound(errs.ElementAttribute, key, c.entityScope())
			}
			histograms[s.name] = histogram(h)
		}
		out.AttributeHistograms = models.Of(histograms)
	}
	if x.PriceHistogram != nil {
		out.PriceHistogram = models.Of(histogram(*x.PriceHistogram))
	}
	if x.FacetSummary != nil {
		summary, err := c.facetSummary(x.FacetSummary)
		if err != nil {
			return nil, err
		}
		out.FacetSummary = models.Of(summary)
	}
	if x.Hierarchy != nil {
		referenced := make(map[string]*models.Hierarchy)
		for key, named := range x.Hierarchy {
			if key == "self" {
				h, err := c.hierarchy(named, c.Schema)
				if err != nil {
					return nil, err
				}
				out.SelfHierarchy = models.Of(h)
				continue
			}
			refSchema := referenceByVariant(c.Schema, key)
			if refSchema == nil {
				return nil, errs.SchemaElementNotFound(errs.ElementReference, key, c.entityScope())
			}
			h, err := c.hierarchy(named, c.Referenced[refSchema.Name])
			if err != nil {
				return nil, err
			}
			referenced[refSchema.Name] = h
		}
		out.Hierarchy = models.Of(referenced)
	}
	return out, nil
}

func (c *Converter) entityScope() errs.Scope {
	scope := c.Scope
	scope.EntityType = c.Schema.Name
	return scope
}

func histogram(h rawHistogram) *models.Histogram {
	out := &models.Histogram{
		Min:          models.Decimal(h.Min.String()),
		Max:          models.Decimal(h.Max.String()),
		OverallCount: h.OverallCount,
		Buckets:      make([]models.Bucket, 0, len(h.Buckets)),
	}
	for _, b := range h.Buckets {
		out.Buckets = append(out.Buckets, models.Bucket{
			Threshold:   models.Decimal(b.Threshold.String()),
			Occurrences: b.Occurrences,
			Requested:   b.Requested,
		})
	}
	return out
}

func (c *Converter) facetSummary(raw map[string]json.RawMessage) (*models.FacetSummary, error) {
	summary := &models.FacetSummary{}
	for key, groupsRaw := range raw {
		refSchema := referenceByVariant(c.Schema, key)
		if refSchema == nil {
			return nil, errs.SchemaElementNotFound(errs.ElementReference, key, c.entityScope())
		}
		items, err := referenceItems(groupsRaw)
		if err != nil {
			return nil, errs.UnexpectedWrap(c.entityScope(), err, "decode facet summary of %s", refSchema.Name)
		}
		for _, item := range items {
			var g rawFacetGroup
			if err := remarshal(item, &g); err != nil {
				return nil, errs.UnexpectedWrap(c.entityScope(), err, "decode facet group of %s", refSchema.Name)
			}
			group, err := c.facetGroup(refSchema, g)
			if err != nil {
				return nil, err
			}
			summary.FacetGroupStatistics = append(summary.FacetGroupStatistics, group)
		}
	}
	return summary, nil
}

func (c *Converter) facetGroup(refSchema *models.ReferenceSchema, g rawFacetGroup) (*models.FacetGroupStatistics, error) {
	groupEntity, err := c.entity(g.GroupEntity, nil)
	if err != nil {
		return nil, err
	}
	var groupPK *int32
	if groupEntity != nil {
		pk := groupEntity.PrimaryKey
		groupPK = &pk
	}
	out := &models.FacetGroupStatistics{
		ReferenceName:   refSchema.Name,
		GroupEntity:     models.Of(groupEntity),
		GroupPrimaryKey: groupPK,
		Count:           g.Count,
		FacetStatistics: make([]*models.FacetStatistics, 0, len(g.FacetStatistics)),
	}
	for _, f := range g.FacetStatistics {
		facetEntity, err := c.entity(f.FacetEntity, c.Referenced[refSchema.Name])
		if err != nil {
			return nil, err
		}
		if facetEntity == nil {
			return nil, errs.Unexpected(c.entityScope(), "facet statistics of %s without facet entity", refSchema.Name)
		}
		var impact *models.FacetImpact
		if f.Impact != nil {
			impact = &models.FacetImpact{Difference: f.Impact.Difference, MatchCount: f.Impact.MatchCount, HasSense: f.Impact.HasSense}
		}
		out.FacetStatistics = append(out.FacetStatistics, &models.FacetStatistics{
			FacetEntity:     models.Of(facetEntity),
			FacetPrimaryKey: facetEntity.PrimaryKey,
			Requested:       f.Requested,
			Count:           f.Count,
			Impact:          models.Of(impact),
		})
	}
	return out, nil
}

// hierarchy rebuilds the level trees from the flat, level annotated lists the
// GraphQL API returns.
func (c *Converter) hierarchy(named map[string][]rawLevelInfo, schema *models.EntitySchema) (*models.Hierarchy, error) {
	out := &models.Hierarchy{Hierarchy: make(map[string][]*models.LevelInfo, len(named))}
	for name, flat := range named {
		items := make([]tree.Leveled[*models.LevelInfo], 0, len(flat))
		for _, li := range flat {
			entity, err := c.entity(li.Entity, schema)
			if err != nil {
				return nil, err
			}
			if entity == nil {
				return nil, errs.Unexpected(c.entityScope(), "hierarchy %s has a level without entity", name)
			}
			items = append(items, tree.Leveled[*models.LevelInfo]{
				Level: li.Level,
				Node: &models.LevelInfo{
					Entity:             models.Of(entity),
					PrimaryKey:         entity.PrimaryKey,
					Requested:          li.Requested,
					QueriedEntityCount: models.Of(li.QueriedEntityCount),
					ChildrenCount:      models.Of(li.ChildrenCount),
				},
			})
		}
		out.Hierarchy[name] = tree.BuildForest(items)
	}
	return out, nil
}

func remarshal(obj rawObject, v interface{}) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return decode(raw, v)
}

func entityScope(s string) (models.EntityScope, error) {
	switch s {
	case "LIVE":
		return models.ScopeLive, nil
	case "ARCHIVED":
		return models.ScopeArchived, nil
	default:
		return "", errs.UnsupportedEnumValue("Scope", s)
	}
}

func priceInnerRecordHandling(s string) (models.PriceInnerRecordHandling, error) {
	switch s {
	case "NONE":
		return models.PriceInnerRecordNone, nil
	case "LOWEST_PRICE":
		return models.PriceInnerRecordLowestPrice, nil
	case "SUM":
		return models.PriceInnerRecordSum, nil
	case "UNKNOWN":
		return models.PriceInnerRecordUnknown, nil
	default:
		return "", errs.UnsupportedEnumValue("PriceInnerRecordHandling", s)
	}
}
