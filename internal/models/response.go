package models

// Response is the normalized result of a query regardless of the protocol used.
type Response struct {
	RecordPage   Value[*DataChunk]    `json:"recordPage"`
	ExtraResults Value[*ExtraResults] `json:"extraResults"`
}

// DataChunk is one page (or strip) of fetched entities.
type DataChunk struct {
	Data             []*Entity `json:"data"`
	PageNumber       int32     `json:"pageNumber"`
	PageSize         int32     `json:"pageSize"`
	LastPageNumber   int32     `json:"lastPageNumber"`
	TotalRecordCount int32     `json:"totalRecordCount"`
	First            bool      `json:"first"`
	Last             bool      `json:"last"`
}

type ExtraResults struct {
	AttributeHistograms Value[map[string]*Histogram] `json:"attributeHistograms"`
	PriceHistogram      Value[*Histogram]            `json:"priceHistogram"`
	FacetSummary        Value[*FacetSummary]         `json:"facetSummary"`
	// SelfHierarchy is the hierarchy of the queried entity type itself.
	SelfHierarchy Value[*Hierarchy] `json:"selfHierarchy"`
	// Hierarchy holds hierarchies of referenced entity types keyed by reference name.
	Hierarchy Value[map[string]*Hierarchy] `json:"hierarchy"`
}

type Bucket struct {
	Threshold   Decimal `json:"threshold"`
	Occurrences int32   `json:"occurrences"`
	Requested   bool    `json:"requested"`
}

type Histogram struct {
	Min          Decimal  `json:"min"`
	Max          Decimal  `json:"max"`
	OverallCount int32    `json:"overallCount"`
	Buckets      []Bucket `json:"buckets"`
}

type FacetImpact struct {
	Difference int32 `json:"difference"`
	MatchCount int32 `json:"matchCount"`
	HasSense   bool  `json:"hasSense"`
}

type FacetStatistics struct {
	FacetEntity     Value[*Entity]      `json:"facetEntity"`
	FacetPrimaryKey int32               `json:"facetPrimaryKey"`
	Requested       bool                `json:"requested"`
	Count           int32               `json:"count"`
	Impact          Value[*FacetImpact] `json:"impact"`
}

type FacetGroupStatistics struct {
	ReferenceName   string             `json:"referenceName"`
	GroupEntity     Value[*Entity]     `json:"groupEntity"`
	GroupPrimaryKey *int32             `json:"groupPrimaryKey,omitempty"`
	Count           int32              `json:"count"`
	FacetStatistics []*FacetStatistics `json:"facetStatistics"`
}

type FacetSummary struct {
	FacetGroupStatistics []*FacetGroupStatistics `json:"facetGroupStatistics"`
}

// LevelInfo is one node of a hierarchy extra result. Children form a tree.
type LevelInfo struct {
	Entity             Value[*Entity] `json:"entity"`
	PrimaryKey         int32          `json:"primaryKey"`
	Requested          bool           `json:"requested"`
	QueriedEntityCount Value[*int32]  `json:"queriedEntityCount"`
	ChildrenCount      Value[*int32]  `json:"childrenCount"`
	Children           []*LevelInfo   `json:"children"`
}

// AddChild implements the tree builder's node contract.
func (l *LevelInfo) AddChild(child *LevelInfo) {
	l.Children = append(l.Children, child)
}

// Hierarchy maps output names (hierarchy requirement names) to level trees.
type Hierarchy struct {
	Hierarchy map[string][]*LevelInfo `json:"hierarchy"`
}
