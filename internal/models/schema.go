package models

import (
	"fmt"
	"sort"
)

// NamingConvention is one rendering of a schema element name.
type NamingConvention string

const (
	CamelCase      NamingConvention = "camelCase"
	PascalCase     NamingConvention = "pascalCase"
	SnakeCase      NamingConvention = "snakeCase"
	UpperSnakeCase NamingConvention = "upperSnakeCase"
	KebabCase      NamingConvention = "kebabCase"
)

// AllNamingConventions lists every convention a NameVariants map must contain.
var AllNamingConventions = []NamingConvention{CamelCase, PascalCase, SnakeCase, UpperSnakeCase, KebabCase}

// NameVariants maps each naming convention to the rendered name.
type NameVariants map[NamingConvention]string

// Validate checks that all conventions are present.
func (n NameVariants) Validate() error {
	for _, c := range AllNamingConventions {
		if _, ok := n[c]; !ok {
			return fmt.Errorf("missing %s name variant", c)
		}
	}
	return nil
}

type AttributeUniquenessType string

const (
	AttributeNotUnique                    AttributeUniquenessType = "notUnique"
	AttributeUniqueWithinCollection       AttributeUniquenessType = "uniqueWithinCollection"
	AttributeUniqueWithinCollectionLocale AttributeUniquenessType = "uniqueWithinCollectionLocale"
)

type GlobalAttributeUniquenessType string

const (
	GlobalAttributeNotUnique                 GlobalAttributeUniquenessType = "notUnique"
	GlobalAttributeUniqueWithinCatalog       GlobalAttributeUniquenessType = "uniqueWithinCatalog"
	GlobalAttributeUniqueWithinCatalogLocale GlobalAttributeUniquenessType = "uniqueWithinCatalogLocale"
)

type Cardinality string

const (
	CardinalityZeroOrOne  Cardinality = "zeroOrOne"
	CardinalityExactlyOne Cardinality = "exactlyOne"
	CardinalityZeroOrMore Cardinality = "zeroOrMore"
	CardinalityOneOrMore  Cardinality = "oneOrMore"
)

type EvolutionMode string

const (
	EvolutionAddingAttributes     EvolutionMode = "addingAttributes"
	EvolutionAddingAssociatedData EvolutionMode = "addingAssociatedData"
	EvolutionAddingReferences     EvolutionMode = "addingReferences"
	EvolutionAddingPrices         EvolutionMode = "addingPrices"
	EvolutionAddingLocales        EvolutionMode = "addingLocales"
	EvolutionAddingCurrencies     EvolutionMode = "addingCurrencies"
	EvolutionAddingHierarchy      EvolutionMode = "addingHierarchy"
)

type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

type OrderBehaviour string

const (
	NullsFirst OrderBehaviour = "nullsFirst"
	NullsLast  OrderBehaviour = "nullsLast"
)

type EntityScope string

const (
	ScopeLive     EntityScope = "live"
	ScopeArchived EntityScope = "archived"
)

// AttributeSchemaKind discriminates the attribute schema variants.
type AttributeSchemaKind int

const (
	AttributeKindPlain AttributeSchemaKind = iota
	// AttributeKindEntity adds the representative flag.
	AttributeKindEntity
	// AttributeKindGlobal is an entity attribute with catalog-wide uniqueness.
	AttributeKindGlobal
)

func (k AttributeSchemaKind) String() string {
	switch k {
	case AttributeKindPlain:
		return "attribute"
	case AttributeKindEntity:
		return "entityAttribute"
	case AttributeKindGlobal:
		return "globalAttribute"
	default:
		return "unknown"
	}
}

// MarshalText keeps the JSON form readable for the HTTP surface.
func (k AttributeSchemaKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AttributeSchema describes an attribute of an entity, a reference or a catalog.
// Kind is computed once during conversion; Representative is meaningful only for
// entity and global kinds, GlobalUniquenessType only for the global kind.
type AttributeSchema struct {
	Kind                 AttributeSchemaKind                  `json:"kind"`
	Name                 string                               `json:"name"`
	NameVariants         Value[NameVariants]                  `json:"nameVariants"`
	Description          Value[*string]                       `json:"description"`
	DeprecationNotice    Value[*string]                       `json:"deprecationNotice"`
	Type                 Value[string]                        `json:"type"`
	UniquenessType       Value[AttributeUniquenessType]       `json:"uniquenessType"`
	Filterable           Value[bool]                          `json:"filterable"`
	Sortable             Value[bool]                          `json:"sortable"`
	Localized            Value[bool]                          `json:"localized"`
	Nullable             Value[bool]                          `json:"nullable"`
	DefaultValue         Value[*string]                       `json:"defaultValue"`
	IndexedDecimalPlaces Value[int32]                         `json:"indexedDecimalPlaces"`
	Representative       Value[bool]                          `json:"representative"`
	GlobalUniquenessType Value[GlobalAttributeUniquenessType] `json:"globalUniquenessType"`
	FilterableInScopes   Value[[]EntityScope]                 `json:"filterableInScopes"`
	SortableInScopes     Value[[]EntityScope]                 `json:"sortableInScopes"`
}

// IsRepresentative reports whether the attribute should label its entity in UIs.
func (a *AttributeSchema) IsRepresentative() bool {
	if a.Kind == AttributeKindPlain {
		return false
	}
	return a.Representative.GetOrElse(false)
}

func (a *AttributeSchema) IsLocalized() bool {
	return a.Localized.GetOrElse(false)
}

func (a *AttributeSchema) IsSortable() bool {
	return a.Sortable.GetOrElse(false)
}

type AssociatedDataSchema struct {
	Name              string              `json:"name"`
	NameVariants      Value[NameVariants] `json:"nameVariants"`
	Description       Value[*string]      `json:"description"`
	DeprecationNotice Value[*string]      `json:"deprecationNotice"`
	Type              Value[string]       `json:"type"`
	Nullable          Value[bool]         `json:"nullable"`
	Localized         Value[bool]         `json:"localized"`
}

func (a *AssociatedDataSchema) IsLocalized() bool {
	return a.Localized.GetOrElse(false)
}

type AttributeElement struct {
	AttributeName string         `json:"attributeName"`
	Direction     OrderDirection `json:"direction"`
	Behaviour     OrderBehaviour `json:"behaviour"`
}

type SortableAttributeCompoundSchema struct {
	Name              string                    `json:"name"`
	NameVariants      Value[NameVariants]       `json:"nameVariants"`
	Description       Value[*string]            `json:"description"`
	DeprecationNotice Value[*string]            `json:"deprecationNotice"`
	AttributeElements Value[[]AttributeElement] `json:"attributeElements"`
}

type ReferenceSchema struct {
	Name                        string                                      `json:"name"`
	NameVariants                Value[NameVariants]                         `json:"nameVariants"`
	Description                 Value[*string]                              `json:"description"`
	DeprecationNotice           Value[*string]                              `json:"deprecationNotice"`
	EntityType                  string                                      `json:"entityType"`
	EntityTypeNameVariants      Value[NameVariants]                         `json:"entityTypeNameVariants"`
	ReferencedEntityTypeManaged Value[bool]                                 `json:"referencedEntityTypeManaged"`
	ReferencedGroupType         Value[*string]                              `json:"referencedGroupType"`
	ReferencedGroupTypeManaged  Value[bool]                                 `json:"referencedGroupTypeManaged"`
	Indexed                     Value[bool]                                 `json:"indexed"`
	Faceted                     Value[bool]                                 `json:"faceted"`
	Cardinality                 Value[Cardinality]                          `json:"cardinality"`
	Attributes                  map[string]*AttributeSchema                 `json:"attributes"`
	SortableAttributeCompounds  map[string]*SortableAttributeCompoundSchema `json:"sortableAttributeCompounds"`
}

// IsReferencedEntityManaged reports whether the referenced entity type lives in the
// same catalog (and therefore has a schema that can be fetched).
func (r *ReferenceSchema) IsReferencedEntityManaged() bool {
	return r.ReferencedEntityTypeManaged.GetOrElse(false)
}

// EntitySchema is immutable after NewEntitySchema; RepresentativeAttributes is
// computed there once.
type EntitySchema struct {
	Name                       string                                      `json:"name"`
	NameVariants               Value[NameVariants]                         `json:"nameVariants"`
	Version                    Value[int32]                                `json:"version"`
	Description                Value[*string]                              `json:"description"`
	DeprecationNotice          Value[*string]                              `json:"deprecationNotice"`
	WithGeneratedPrimaryKey    Value[bool]                                 `json:"withGeneratedPrimaryKey"`
	WithHierarchy              Value[bool]                                 `json:"withHierarchy"`
	HierarchyIndexedInScopes   Value[[]EntityScope]                        `json:"hierarchyIndexedInScopes"`
	WithPrice                  Value[bool]                                 `json:"withPrice"`
	IndexedPricePlaces         Value[int32]                                `json:"indexedPricePlaces"`
	Locales                    Value[[]string]                             `json:"locales"`
	Currencies                 Value[[]string]                             `json:"currencies"`
	EvolutionMode              Value[[]EvolutionMode]                      `json:"evolutionMode"`
	Attributes                 map[string]*AttributeSchema                 `json:"attributes"`
	SortableAttributeCompounds map[string]*SortableAttributeCompoundSchema `json:"sortableAttributeCompounds"`
	AssociatedData             map[string]*AssociatedDataSchema            `json:"associatedData"`
	References                 map[string]*ReferenceSchema                 `json:"references"`

	RepresentativeAttributes []string `json:"representativeAttributes"`
}

// NewEntitySchema finalizes a schema, computing derived fields.
func NewEntitySchema(s EntitySchema) *EntitySchema {
	if s.Attributes == nil {
		s.Attributes = map[string]*AttributeSchema{}
	}
	if s.SortableAttributeCompounds == nil {
		s.SortableAttributeCompounds = map[string]*SortableAttributeCompoundSchema{}
	}
	if s.AssociatedData == nil {
		s.AssociatedData = map[string]*AssociatedDataSchema{}
	}
	if s.References == nil {
		s.References = map[string]*ReferenceSchema{}
	}
	s.RepresentativeAttributes = nil
	for name, attr := range s.Attributes {
		if attr.IsRepresentative() {
			s.RepresentativeAttributes = append(s.RepresentativeAttributes, name)
		}
	}
	sort.Strings(s.RepresentativeAttributes)
	return &s
}

func (s *EntitySchema) IsHierarchical() bool {
	return s.WithHierarchy.GetOrElse(false)
}

func (s *EntitySchema) HasPrices() bool {
	return s.WithPrice.GetOrElse(false)
}

// Variant returns the name in the given convention, falling back to Name when the
// driver did not provide variants.
func (s *EntitySchema) Variant(c NamingConvention) string {
	return variantOf(s.NameVariants, c, s.Name)
}

func (a *AttributeSchema) Variant(c NamingConvention) string {
	return variantOf(a.NameVariants, c, a.Name)
}

func (a *AssociatedDataSchema) Variant(c NamingConvention) string {
	return variantOf(a.NameVariants, c, a.Name)
}

func (r *ReferenceSchema) Variant(c NamingConvention) string {
	return variantOf(r.NameVariants, c, r.Name)
}

func variantOf(v Value[NameVariants], c NamingConvention, fallback string) string {
	variants, ok := v.GetIfSupported()
	if !ok {
		return fallback
	}
	if name, ok := variants[c]; ok {
		return name
	}
	return fallback
}

type CatalogSchema struct {
	Name          string                      `json:"name"`
	NameVariants  Value[NameVariants]         `json:"nameVariants"`
	Version       Value[int32]                `json:"version"`
	Description   Value[*string]              `json:"description"`
	Attributes    map[string]*AttributeSchema `json:"attributes"`
	EntitySchemas map[string]*EntitySchema    `json:"entitySchemas"`
}

// EntitySchema looks up an entity schema by its name.
func (c *CatalogSchema) EntitySchema(entityType string) (*EntitySchema, bool) {
	s, ok := c.EntitySchemas[entityType]
	return s, ok
}
