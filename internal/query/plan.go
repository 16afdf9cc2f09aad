package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

// FetchPlan lists the schema elements one request fetches, resolved against the
// entity schema. Every builder renders a plan and nothing else, so the languages
// cannot drift apart in what they ask the server for.
type FetchPlan struct {
	Schema    *models.EntitySchema
	Locale    string
	PriceType PriceType

	Version                  bool
	Locales                  bool
	Scope                    bool
	PriceInnerRecordHandling bool

	// Parents is set when the parent primary key was requested. Ancestors are
	// fetched with their representative attributes so they can be labelled.
	Parents               bool
	ParentRepresentatives []*models.AttributeSchema

	Attributes     []*models.AttributeSchema
	AssociatedData []*models.AssociatedDataSchema
	Prices         bool
	// References keep the order in which reference names first appeared.
	References []*ReferencePlan
}

// ReferencePlan is one distinct requested reference.
type ReferencePlan struct {
	Schema     *models.ReferenceSchema
	Attributes []*models.AttributeSchema
	// Representatives label the referenced entities. Empty when the referenced
	// type is not managed by the catalog.
	Representatives []*models.AttributeSchema
}

// NewFetchPlan resolves the required properties of req. Localized attributes and
// associated data are left out when no data locale is set, since the server
// rejects fetching them without one.
func NewFetchPlan(ctx context.Context, provider SchemaProvider, req BuildRequest) (*FetchPlan, error) {
	scope := ScopeOf(req.Pointer)
	schema, err := provider.GetEntitySchema(ctx, req.Pointer)
	if err != nil {
		return nil, errs.WithScope(err, scope)
	}

	plan := &FetchPlan{Schema: schema, Locale: req.DataLocale, PriceType: req.PriceType}
	refIndex := make(map[string]*ReferencePlan)
	reference := func(name string) (*ReferencePlan, error) {
		if rp, ok := refIndex[name]; ok {
			return rp, nil
		}
		rs, ok := schema.References[name]
		if !ok {
			return nil, errs.SchemaElementNotFound(errs.ElementReference, name, scope)
		}
		rp := &ReferencePlan{Schema: rs}
		refIndex[name] = rp
		plan.References = append(plan.References, rp)
		return rp, nil
	}

	seen := make(map[models.EntityPropertyKey]bool, len(req.RequiredProperties))
	for _, key := range req.RequiredProperties {
		if seen[key] {
			continue
		}
		seen[key] = true

		switch key.Type {
		case models.EntityPropertyEntity:
			if err := plan.addStatic(key.Name, scope); err != nil {
				return nil, err
			}
		case models.EntityPropertyAttributes:
			attr, ok := schema.Attributes[key.Name]
			if !ok {
				return nil, errs.SchemaElementNotFound(errs.ElementAttribute, key.Name, scope)
			}
			if plan.fetchable(attr.IsLocalized()) {
				plan.Attributes = append(plan.Attributes, attr)
			}
		case models.EntityPropertyAssociatedData:
			data, ok := schema.AssociatedData[key.Name]
			if !ok {
				return nil, errs.SchemaElementNotFound(errs.ElementAssociatedData, key.Name, scope)
			}
			if plan.fetchable(data.IsLocalized()) {
				plan.AssociatedData = append(plan.AssociatedData, data)
			}
		case models.EntityPropertyPrices:
			plan.Prices = true
		case models.EntityPropertyReferences:
			if _, err := reference(key.Name); err != nil {
				return nil, err
			}
		case models.EntityPropertyReferenceAttributes:
			rp, err := reference(key.Name)
			if err != nil {
				return nil, err
			}
			attr, ok := rp.Schema.Attributes[key.AttributeName]
			if !ok {
				return nil, errs.SchemaElementNotFound(errs.ElementReferenceAttribute, key.Name+"."+key.AttributeName, scope)
			}
			if plan.fetchable(attr.IsLocalized()) {
				rp.Attributes = append(rp.Attributes, attr)
			}
		default:
			return nil, errs.Unexpected(scope, "unsupported property key %s", key)
		}
	}

	if plan.Parents {
		plan.ParentRepresentatives = representatives(schema, plan.Locale)
	}
	if err := plan.resolveReferencedRepresentatives(ctx, provider, req.Pointer); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *FetchPlan) fetchable(localized bool) bool {
	return !localized || p.Locale != ""
}

func (p *FetchPlan) addStatic(name string, scope errs.Scope) error {
	switch name {
	case models.StaticPropertyPrimaryKey:
	case models.StaticPropertyVersion:
		p.Version = true
	case models.StaticPropertyLocales:
		p.Locales = true
	case models.StaticPropertyScope:
		p.Scope = true
	case models.StaticPropertyPriceInnerRecordHandling:
		p.PriceInnerRecordHandling = true
	case models.StaticPropertyParentPrimaryKey:
		p.Parents = true
	default:
		return errs.Unexpected(scope, "unknown entity property %q", name)
	}
	return nil
}

// resolveReferencedRepresentatives loads the schemas of referenced entity types
// concurrently. Each goroutine writes only its own ReferencePlan.
func (p *FetchPlan) resolveReferencedRepresentatives(ctx context.Context, provider SchemaProvider, pointer models.DataPointer) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, rp := range p.References {
		rp := rp
		if !rp.Schema.IsReferencedEntityManaged() {
			continue
		}
		g.Go(func() error {
			target := models.NewDataPointer(pointer.Connection, pointer.CatalogName, rp.Schema.EntityType)
			referenced, err := provider.GetEntitySchema(gctx, target)
			if err != nil {
				return errs.WithScope(err, ScopeOf(target))
			}
			rp.Representatives = representatives(referenced, p.Locale)
			return nil
		})
	}
	return g.Wait()
}

func representatives(schema *models.EntitySchema, locale string) []*models.AttributeSchema {
	var out []*models.AttributeSchema
	for _, name := range schema.RepresentativeAttributes {
		attr := schema.Attributes[name]
		if attr == nil || (attr.IsLocalized() && locale == "") {
			continue
		}
		out = append(out, attr)
	}
	return out
}

// ResolveAttribute looks up an entity attribute for the helper builders.
func ResolveAttribute(ctx context.Context, provider SchemaProvider, pointer models.DataPointer, name string) (*models.AttributeSchema, error) {
	scope := ScopeOf(pointer)
	schema, err := provider.GetEntitySchema(ctx, pointer)
	if err != nil {
		return nil, errs.WithScope(err, scope)
	}
	attr, ok := schema.Attributes[name]
	if !ok {
		return nil, errs.SchemaElementNotFound(errs.ElementAttribute, name, scope)
	}
	return attr, nil
}

// ResolveReferenceAttribute looks up an attribute of a reference for the helper builders.
func ResolveReferenceAttribute(ctx context.Context, provider SchemaProvider, pointer models.DataPointer, referenceName, attributeName string) (*models.ReferenceSchema, *models.AttributeSchema, error) {
	scope := ScopeOf(pointer)
	schema, err := provider.GetEntitySchema(ctx, pointer)
	if err != nil {
		return nil, nil, errs.WithScope(err, scope)
	}
	ref, ok := schema.References[referenceName]
	if !ok {
		return nil, nil, errs.SchemaElementNotFound(errs.ElementReference, referenceName, scope)
	}
	attr, ok := ref.Attributes[attributeName]
	if !ok {
		return nil, nil, errs.SchemaElementNotFound(errs.ElementReferenceAttribute, referenceName+"."+attributeName, scope)
	}
	return ref, attr, nil
}
