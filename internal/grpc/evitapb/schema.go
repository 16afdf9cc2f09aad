package evitapb

import (
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GrpcNameVariant is one rendering of a schema element name.
type GrpcNameVariant struct {
	NamingConvention GrpcNamingConvention `json:"naming_convention"`
	Name             string               `json:"name"`
}

// GrpcCatalogSchema carries the catalog level schema. Entity schemas are fetched
// separately per entity type.
type GrpcCatalogSchema struct {
	Name        string                          `json:"name"`
	Version     int32                           `json:"version"`
	Description *wrapperspb.StringValue         `json:"description,omitempty"`
	NameVariant []*GrpcNameVariant              `json:"name_variant"`
	Attributes  map[string]*GrpcAttributeSchema `json:"attributes"`
}

// GrpcAttributeSchema flattens plain, entity and global attribute schemas into one
// message. Representative is only present for entity attributes, GlobalUniquenessType
// only for global ones.
type GrpcAttributeSchema struct {
	Name                 string                             `json:"name"`
	NameVariant          []*GrpcNameVariant                 `json:"name_variant"`
	Description          *wrapperspb.StringValue            `json:"description,omitempty"`
	DeprecationNotice    *wrapperspb.StringValue            `json:"deprecation_notice,omitempty"`
	Type                 string                             `json:"type"`
	Unique               GrpcAttributeUniquenessType        `json:"unique"`
	Filterable           bool                               `json:"filterable"`
	Sortable             bool                               `json:"sortable"`
	Localized            bool                               `json:"localized"`
	Nullable             bool                               `json:"nullable"`
	DefaultValue         *wrapperspb.StringValue            `json:"default_value,omitempty"`
	IndexedDecimalPlaces int32                              `json:"indexed_decimal_places"`
	Representative       *wrapperspb.BoolValue              `json:"representative,omitempty"`
	GlobalUniquenessType *GrpcGlobalAttributeUniquenessType `json:"global_uniqueness_type,omitempty"`
	FilterableInScopes   []GrpcEntityScope                  `json:"filterable_in_scopes,omitempty"`
	SortableInScopes     []GrpcEntityScope                  `json:"sortable_in_scopes,omitempty"`
}

func (x *GrpcAttributeSchema) GetRepresentative() *wrapperspb.BoolValue {
	if x != nil {
		return x.Representative
	}
	return nil
}

func (x *GrpcAttributeSchema) GetGlobalUniquenessType() *GrpcGlobalAttributeUniquenessType {
	if x != nil {
		return x.GlobalUniquenessType
	}
	return nil
}

type GrpcAssociatedDataSchema struct {
	Name              string                  `json:"name"`
	NameVariant       []*GrpcNameVariant      `json:"name_variant"`
	Description       *wrapperspb.StringValue `json:"description,omitempty"`
	DeprecationNotice *wrapperspb.StringValue `json:"deprecation_notice,omitempty"`
	Type              string                  `json:"type"`
	Nullable          bool                    `json:"nullable"`
	Localized         bool                    `json:"localized"`
}

type GrpcAttributeElement struct {
	AttributeName string             `json:"attribute_name"`
	Direction     GrpcOrderDirection `json:"direction"`
	Behaviour     GrpcOrderBehaviour `json:"behaviour"`
}

type GrpcSortableAttributeCompoundSchema struct {
	Name              string                  `json:"name"`
	NameVariant       []*GrpcNameVariant      `json:"name_variant"`
	Description       *wrapperspb.StringValue `json:"description,omitempty"`
	DeprecationNotice *wrapperspb.StringValue `json:"deprecation_notice,omitempty"`
	AttributeElements []*GrpcAttributeElement `json:"attribute_elements"`
}

type GrpcReferenceSchema struct {
	Name                       string                                          `json:"name"`
	NameVariant                []*GrpcNameVariant                              `json:"name_variant"`
	Description                *wrapperspb.StringValue                         `json:"description,omitempty"`
	DeprecationNotice          *wrapperspb.StringValue                         `json:"deprecation_notice,omitempty"`
	EntityType                 string                                          `json:"entity_type"`
	EntityTypeNameVariant      []*GrpcNameVariant                              `json:"entity_type_name_variant"`
	EntityTypeRelatesToEntity  bool                                            `json:"entity_type_relates_to_entity"`
	GroupType                  *wrapperspb.StringValue                         `json:"group_type,omitempty"`
	GroupTypeRelatesToEntity   bool                                            `json:"group_type_relates_to_entity"`
	Indexed                    bool                                            `json:"indexed"`
	Faceted                    bool                                            `json:"faceted"`
	Cardinality                GrpcCardinality                                 `json:"cardinality"`
	Attributes                 map[string]*GrpcAttributeSchema                 `json:"attributes"`
	SortableAttributeCompounds map[string]*GrpcSortableAttributeCompoundSchema `json:"sortable_attribute_compounds"`
}

type GrpcEntitySchema struct {
	Name                       string                                          `json:"name"`
	NameVariant                []*GrpcNameVariant                              `json:"name_variant"`
	Version                    int32                                           `json:"version"`
	Description                *wrapperspb.StringValue                         `json:"description,omitempty"`
	DeprecationNotice          *wrapperspb.StringValue                         `json:"deprecation_notice,omitempty"`
	WithGeneratedPrimaryKey    bool                                            `json:"with_generated_primary_key"`
	WithHierarchy              bool                                            `json:"with_hierarchy"`
	HierarchyIndexedInScopes   []GrpcEntityScope                               `json:"hierarchy_indexed_in_scopes,omitempty"`
	WithPrice                  bool                                            `json:"with_price"`
	IndexedPricePlaces         int32                                           `json:"indexed_price_places"`
	Locales                    []string                                        `json:"locales"`
	Currencies                 []string                                        `json:"currencies"`
	EvolutionMode              []GrpcEvolutionMode                             `json:"evolution_mode"`
	Attributes                 map[string]*GrpcAttributeSchema                 `json:"attributes"`
	SortableAttributeCompounds map[string]*GrpcSortableAttributeCompoundSchema `json:"sortable_attribute_compounds"`
	AssociatedData             map[string]*GrpcAssociatedDataSchema            `json:"associated_data"`
	References                 map[string]*GrpcReferenceSchema                 `json:"references"`
}
