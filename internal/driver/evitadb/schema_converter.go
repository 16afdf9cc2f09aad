package evitadb

import (
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	pb "github.com/platformbuilds/evitalab-core/internal/grpc/evitapb"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

// converter turns wire messages into domain models. Fields a generation does not
// provide are marked as not supported instead of being zero-filled.
type converter struct {
	features features
}

func (c converter) catalogSchema(s *pb.GrpcCatalogSchema, entities []*pb.GrpcEntitySchema) (*models.CatalogSchema, error) {
	if s == nil {
		return nil, errs.Unexpected(errs.Scope{}, "server returned no catalog schema")
	}
	variants, err := nameVariants(s.NameVariant)
	if err != nil {
		return nil, err
	}
	catalog := &models.CatalogSchema{
		Name:          s.Name,
		NameVariants:  variants,
		Version:       models.Of(s.Version),
		Description:   models.Of(optString(s.Description)),
		Attributes:    make(map[string]*models.AttributeSchema, len(s.Attributes)),
		EntitySchemas: make(map[string]*models.EntitySchema, len(entities)),
	}
	for name, a := range s.Attributes {
		attr, err := c.attributeSchema(a)
		if err != nil {
			return nil, err
		}
		if attr.Kind != models.AttributeKindGlobal {
			return nil, errs.Unexpected(errs.Scope{Catalog: s.Name}, "catalog attribute %q is not a global attribute", name)
		}
		catalog.Attributes[name] = attr
	}
	for _, e := range entities {
		entity, err := c.entitySchema(e)
		if err != nil {
			return nil, errs.WithScope(err, errs.Scope{Catalog: s.Name})
		}
		catalog.EntitySchemas[entity.Name] = entity
	}
	return catalog, nil
}

func (c converter) entitySchema(s *pb.GrpcEntitySchema) (*models.EntitySchema, error) {
	if s == nil {
		return nil, errs.Unexpected(errs.Scope{}, "server returned no entity schema")
	}
	scope := errs.Scope{EntityType: s.Name}
	variants, err := nameVariants(s.NameVariant)
	if err != nil {
		return nil, errs.WithScope(err, scope)
	}
	evolution := make([]models.EvolutionMode, 0, len(s.EvolutionMode))
	for _, m := range s.EvolutionMode {
		mode, err := evolutionMode(m)
		if err != nil {
			return nil, errs.WithScope(err, scope)
		}
		evolution = append(evolution, mode)
	}
	hierarchyScopes, err := c.scopes(s.HierarchyIndexedInScopes)
	if err != nil {
		return nil, errs.WithScope(err, scope)
	}

	schema := models.EntitySchema{
		Name:                       s.Name,
		NameVariants:               variants,
		Version:                    models.Of(s.Version),
		Description:                models.Of(optString(s.Description)),
		DeprecationNotice:          models.Of(optString(s.DeprecationNotice)),
		WithGeneratedPrimaryKey:    models.Of(s.WithGeneratedPrimaryKey),
		WithHierarchy:              models.Of(s.WithHierarchy),
		HierarchyIndexedInScopes:   hierarchyScopes,
		WithPrice:                  models.Of(s.WithPrice),
		IndexedPricePlaces:         models.Of(s.IndexedPricePlaces),
		Locales:                    models.Of(s.Locales),
		Currencies:                 models.Of(s.Currencies),
		EvolutionMode:              models.Of(evolution),
		Attributes:                 make(map[string]*models.AttributeSchema, len(s.Attributes)),
		SortableAttributeCompounds: make(map[string]*models.SortableAttributeCompoundSchema, len(s.SortableAttributeCompounds)),
		AssociatedData:             make(map[string]*models.AssociatedDataSchema, len(s.AssociatedData)),
		References:                 make(map[string]*models.ReferenceSchema, len(s.References)),
	}
	for name, a := range s.Attributes {
		attr, err := c.attributeSchema(a)
		if err != nil {
			return nil, errs.WithScope(err, scope)
		}
		if attr.Kind == models.AttributeKindPlain {
			return nil, errs.Unexpected(scope, "entity attribute %q has no representative flag", name)
		}
		schema.Attributes[name] = attr
	}
	for name, sc := range s.SortableAttributeCompounds {
		compound, err := sortableAttributeCompound(sc)
		if err != nil {
			return nil, errs.WithScope(err, scope)
		}
		schema.SortableAttributeCompounds[name] = compound
	}
	for name, ad := range s.AssociatedData {
		data, err := associatedDataSchema(ad)
		if err != nil {
			return nil, errs.WithScope(err, scope)
		}
		schema.AssociatedData[name] = data
	}
	for name, r := range s.References {
		ref, err := c.referenceSchema(r)
		if err != nil {
			return nil, errs.WithScope(err, scope)
		}
		schema.References[name] = ref
	}
	return models.NewEntitySchema(schema), nil
}

// attributeSchema discriminates the attribute variants by the markers present on
// the wire: a representative flag makes an entity attribute, a global uniqueness
// type on top of it makes a global one.
func (c converter) attributeSchema(a *pb.GrpcAttributeSchema) (*models.AttributeSchema, error) {
	kind := models.AttributeKindPlain
	if a.GetRepresentative() != nil {
		kind = models.AttributeKindEntity
		if a.GetGlobalUniquenessType() != nil {
			kind = models.AttributeKindGlobal
		}
	} else if a.GetGlobalUniquenessType() != nil {
		return nil, errs.Unexpected(errs.Scope{}, "attribute %q is globally unique but has no representative flag", a.Name)
	}

	variants, err := nameVariants(a.NameVariant)
	if err != nil {
		return nil, err
	}
	uniqueness, err := attributeUniqueness(a.Unique)
	if err != nil {
		return nil, err
	}
	filterableIn, err := c.scopes(a.FilterableInScopes)
	if err != nil {
		return nil, err
	}
	sortableIn, err := c.scopes(a.SortableInScopes)
	if err != nil {
		return nil, err
	}

	attr := &models.AttributeSchema{
		Kind:                 kind,
		Name:                 a.Name,
		NameVariants:         variants,
		Description:          models.Of(optString(a.Description)),
		DeprecationNotice:    models.Of(optString(a.DeprecationNotice)),
		Type:                 models.Of(a.Type),
		UniquenessType:       models.Of(uniqueness),
		Filterable:           models.Of(a.Filterable),
		Sortable:             models.Of(a.Sortable),
		Localized:            models.Of(a.Localized),
		Nullable:             models.Of(a.Nullable),
		DefaultValue:         models.Of(optString(a.DefaultValue)),
		IndexedDecimalPlaces: models.Of(a.IndexedDecimalPlaces),
		Representative:       models.NotSupported[bool](),
		GlobalUniquenessType: models.NotSupported[models.GlobalAttributeUniquenessType](),
		FilterableInScopes:   filterableIn,
		SortableInScopes:     sortableIn,
	}
	if kind != models.AttributeKindPlain {
		attr.Representative = models.Of(a.GetRepresentative().GetValue())
	}
	if kind == models.AttributeKindGlobal {
		global, err := globalUniqueness(*a.GetGlobalUniquenessType())
		if err != nil {
			return nil, err
		}
		attr.GlobalUniquenessType = models.Of(global)
	}
	return attr, nil
}

func associatedDataSchema(a *pb.GrpcAssociatedDataSchema) (*models.AssociatedDataSchema, error) {
	variants, err := nameVariants(a.NameVariant)
	if err != nil {
		return nil, err
	}
	return &models.AssociatedDataSchema{
		Name:              a.Name,
		NameVariants:      variants,
		Description:       models.Of(optString(a.Description)),
		DeprecationNotice: models.Of(optString(a.DeprecationNotice)),
		Type:              models.Of(a.Type),
		Nullable:          models.Of(a.Nullable),
		Localized:         models.Of(a.Localized),
	}, nil
}

func sortableAttributeCompound(s *pb.GrpcSortableAttributeCompoundSchema) (*models.SortableAttributeCompoundSchema, error) {
	variants, err := nameVariants(s.NameVariant)
	if err != nil {
		return nil, err
	}
	elements := make([]models.AttributeElement, 0, len(s.AttributeElements))
	for _, e := range s.AttributeElements {
		direction, err := orderDirection(e.Direction)
		if err != nil {
			return nil, err
		}
		behaviour, err := orderBehaviour(e.Behaviour)
		if err != nil {
			return nil, err
		}
		elements = append(elements, models.AttributeElement{
			AttributeName: e.AttributeName,
			Direction:     direction,
			Behaviour:     behaviour,
		})
	}
	return &models.SortableAttributeCompoundSchema{
		Name:              s.Name,
		NameVariants:      variants,
		Description:       models.Of(optString(s.Description)),
		DeprecationNotice: models.Of(optString(s.DeprecationNotice)),
		AttributeElements: models.Of(elements),
	}, nil
}

func (c converter) referenceSchema(r *pb.GrpcReferenceSchema) (*models.ReferenceSchema, error) {
	variants, err := nameVariants(r.NameVariant)
	if err != nil {
		return nil, err
	}
	entityVariants, err := nameVariants(r.EntityTypeNameVariant)
	if err != nil {
		return nil, err
	}
	card, err := cardinality(r.Cardinality)
	if err != nil {
		return nil, err
	}
	ref := &models.ReferenceSchema{
		Name:                        r.Name,
		NameVariants:                variants,
		Description:                 models.Of(optString(r.Description)),
		DeprecationNotice:           models.Of(optString(r.DeprecationNotice)),
		EntityType:                  r.EntityType,
		EntityTypeNameVariants:      entityVariants,
		ReferencedEntityTypeManaged: models.Of(r.EntityTypeRelatesToEntity),
		ReferencedGroupType:         models.Of(optString(r.GroupType)),
		ReferencedGroupTypeManaged:  models.Of(r.GroupTypeRelatesToEntity),
		Indexed:                     models.Of(r.Indexed),
		Faceted:                     models.Of(r.Faceted),
		Cardinality:                 card,
		Attributes:                  make(map[string]*models.AttributeSchema, len(r.Attributes)),
		SortableAttributeCompounds:  make(map[string]*models.SortableAttributeCompoundSchema, len(r.SortableAttributeCompounds)),
	}
	for name, a := range r.Attributes {
		attr, err := c.attributeSchema(a)
		if err != nil {
			return nil, err
		}
		ref.Attributes[name] = attr
	}
	for name, sc := range r.SortableAttributeCompounds {
		compound, err := sortableAttributeCompound(sc)
		if err != nil {
			return nil, err
		}
		ref.SortableAttributeCompounds[name] = compound
	}
	return ref, nil
}

// nameVariants requires all conventions once the server sends any variant. An
// empty list means the variants were not requested.
func nameVariants(variants []*pb.GrpcNameVariant) (models.Value[models.NameVariants], error) {
	if len(variants) == 0 {
		return models.NotSupported[models.NameVariants](), nil
	}
	out := make(models.NameVariants, len(variants))
	for _, v := range variants {
		convention, err := namingConvention(v.NamingConvention)
		if err != nil {
			return models.NotSupported[models.NameVariants](), err
		}
		out[convention] = v.Name
	}
	if err := out.Validate(); err != nil {
		return models.NotSupported[models.NameVariants](), errs.UnexpectedWrap(errs.Scope{}, err, "incomplete name variants")
	}
	return models.Of(out), nil
}

func (c converter) scopes(in []pb.GrpcEntityScope) (models.Value[[]models.EntityScope], error) {
	if !c.features.scopes {
		return models.NotSupported[[]models.EntityScope](), nil
	}
	out := make([]models.EntityScope, 0, len(in))
	for _, s := range in {
		scope, err := entityScope(s)
		if err != nil {
			return models.NotSupported[[]models.EntityScope](), err
		}
		out = append(out, scope)
	}
	return models.Of(out), nil
}

func optString(v *wrapperspb.StringValue) *string {
	if v == nil {
		return nil
	}
	s := v.GetValue()
	return &s
}

func optInt32(v *wrapperspb.Int32Value) *int32 {
	if v == nil {
		return nil
	}
	i := v.GetValue()
	return &i
}
