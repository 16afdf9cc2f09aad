package evitapb

import (
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GrpcEvitaValue is a typed attribute or associated data value. Exactly one of the
// value fields is set, matching Type.
type GrpcEvitaValue struct {
	Type                GrpcEvitaDataType       `json:"type"`
	StringValue         *wrapperspb.StringValue `json:"string_value,omitempty"`
	IntegerValue        *wrapperspb.Int32Value  `json:"integer_value,omitempty"`
	LongValue           *wrapperspb.Int64Value  `json:"long_value,omitempty"`
	BooleanValue        *wrapperspb.BoolValue   `json:"boolean_value,omitempty"`
	BigDecimalValue     *wrapperspb.StringValue `json:"big_decimal_value,omitempty"`
	OffsetDateTimeValue *timestamppb.Timestamp  `json:"offset_date_time_value,omitempty"`
	StringArrayValue    []string                `json:"string_array_value,omitempty"`
	IntegerArrayValue   []int32                 `json:"integer_array_value,omitempty"`
	LongArrayValue      []int64                 `json:"long_array_value,omitempty"`
	// JsonValue carries complex associated data objects.
	JsonValue *wrapperspb.StringValue `json:"json_value,omitempty"`
	Version   *wrapperspb.Int32Value  `json:"version,omitempty"`
}

type GrpcLocalizedValues struct {
	Values map[string]*GrpcEvitaValue `json:"values"`
}

type GrpcEntityReference struct {
	EntityType string                 `json:"entity_type"`
	PrimaryKey int32                  `json:"primary_key"`
	Version    *wrapperspb.Int32Value `json:"version,omitempty"`
}

type GrpcPrice struct {
	PriceId         int32                  `json:"price_id"`
	PriceList       string                 `json:"price_list"`
	Currency        string                 `json:"currency"`
	InnerRecordId   *wrapperspb.Int32Value `json:"inner_record_id,omitempty"`
	PriceWithoutTax string                 `json:"price_without_tax"`
	PriceWithTax    string                 `json:"price_with_tax"`
	TaxRate         string                 `json:"tax_rate"`
	ValidFrom       *timestamppb.Timestamp `json:"valid_from,omitempty"`
	ValidTo         *timestamppb.Timestamp `json:"valid_to,omitempty"`
	Indexed         bool                   `json:"indexed"`
	Version         int32                  `json:"version"`
}

type GrpcReference struct {
	ReferenceName        string                          `json:"reference_name"`
	Version              int32                           `json:"version"`
	ReferencedEntity     *GrpcEntityReference            `json:"referenced_entity_reference,omitempty"`
	ReferencedEntityBody *GrpcSealedEntity               `json:"referenced_entity,omitempty"`
	GroupReference       *GrpcEntityReference            `json:"group_referenced_entity_reference,omitempty"`
	GroupEntityBody      *GrpcSealedEntity               `json:"group_referenced_entity,omitempty"`
	GlobalAttributes     map[string]*GrpcEvitaValue      `json:"global_attributes,omitempty"`
	LocalizedAttributes  map[string]*GrpcLocalizedValues `json:"localized_attributes,omitempty"`
	AttributesNotFetched bool                            `json:"attributes_not_fetched,omitempty"`
}

// GrpcSealedEntity is a fetched entity. Parent holds the chain of parent entities
// when the hierarchy content was requested.
type GrpcSealedEntity struct {
	EntityType               string                          `json:"entity_type"`
	PrimaryKey               int32                           `json:"primary_key"`
	Version                  int32                           `json:"version"`
	SchemaVersion            int32                           `json:"schema_version"`
	Scope                    *GrpcEntityScope                `json:"scope,omitempty"`
	ParentPrimaryKey         *wrapperspb.Int32Value          `json:"parent,omitempty"`
	ParentEntity             *GrpcSealedEntity               `json:"parent_entity,omitempty"`
	Locales                  []string                        `json:"locales"`
	AllLocales               []string                        `json:"all_locales"`
	PriceInnerRecordHandling GrpcPriceInnerRecordHandling    `json:"price_inner_record_handling"`
	GlobalAttributes         map[string]*GrpcEvitaValue      `json:"global_attributes,omitempty"`
	LocalizedAttributes      map[string]*GrpcLocalizedValues `json:"localized_attributes,omitempty"`
	GlobalAssociatedData     map[string]*GrpcEvitaValue      `json:"global_associated_data,omitempty"`
	LocalizedAssociatedData  map[string]*GrpcLocalizedValues `json:"localized_associated_data,omitempty"`
	Prices                   []*GrpcPrice                    `json:"prices,omitempty"`
	PriceForSale             *GrpcPrice                      `json:"price_for_sale,omitempty"`
	References               []*GrpcReference                `json:"references,omitempty"`
}

type GrpcDataChunk struct {
	SealedEntities   []*GrpcSealedEntity `json:"sealed_entities"`
	PageNumber       int32               `json:"page_number"`
	PageSize         int32               `json:"page_size"`
	LastPageNumber   int32               `json:"last_page_number"`
	TotalRecordCount int32               `json:"total_record_count"`
	IsFirst          bool                `json:"is_first"`
	IsLast           bool                `json:"is_last"`
}

type GrpcHistogramBucket struct {
	Threshold   string `json:"threshold"`
	Occurrences int32  `json:"occurrences"`
	Requested   bool   `json:"requested"`
}

type GrpcHistogram struct {
	Min          string                 `json:"min"`
	Max          string                 `json:"max"`
	OverallCount int32                  `json:"overall_count"`
	Buckets      []*GrpcHistogramBucket `json:"buckets"`
}

type GrpcRequestImpact struct {
	Difference int32 `json:"difference"`
	MatchCount int32 `json:"match_count"`
	HasSense   bool  `json:"has_sense"`
}

type GrpcFacetStatistics struct {
	FacetEntityReference *GrpcEntityReference `json:"facet_entity_reference,omitempty"`
	FacetEntity          *GrpcSealedEntity    `json:"facet_entity,omitempty"`
	Requested            bool                 `json:"requested"`
	Count                int32                `json:"count"`
	Impact               *GrpcRequestImpact   `json:"impact,omitempty"`
}

type GrpcFacetGroupStatistics struct {
	ReferenceName        string                 `json:"reference_name"`
	GroupEntityReference *GrpcEntityReference   `json:"group_entity_reference,omitempty"`
	GroupEntity          *GrpcSealedEntity      `json:"group_entity,omitempty"`
	Count                int32                  `json:"count"`
	FacetStatistics      []*GrpcFacetStatistics `json:"facet_statistics"`
}

// GrpcLevelInfo is a node of a hierarchy extra result; Items are its children.
type GrpcLevelInfo struct {
	EntityReference    *GrpcEntityReference   `json:"entity_reference,omitempty"`
	Entity             *GrpcSealedEntity      `json:"entity,omitempty"`
	Requested          bool                   `json:"requested"`
	QueriedEntityCount *wrapperspb.Int32Value `json:"queried_entity_count,omitempty"`
	ChildrenCount      *wrapperspb.Int32Value `json:"children_count,omitempty"`
	Items              []*GrpcLevelInfo       `json:"items,omitempty"`
}

type GrpcLevelInfos struct {
	LevelInfos []*GrpcLevelInfo `json:"level_infos"`
}

type GrpcHierarchy struct {
	Hierarchy map[string]*GrpcLevelInfos `json:"hierarchy"`
}

type GrpcExtraResults struct {
	AttributeHistogram   map[string]*GrpcHistogram   `json:"attribute_histogram,omitempty"`
	PriceHistogram       *GrpcHistogram              `json:"price_histogram,omitempty"`
	FacetGroupStatistics []*GrpcFacetGroupStatistics `json:"facet_group_statistics,omitempty"`
	SelfHierarchy        *GrpcHierarchy              `json:"self_hierarchy,omitempty"`
	Hierarchy            map[string]*GrpcHierarchy   `json:"hierarchy,omitempty"`
}
