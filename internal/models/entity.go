package models

import "time"

type PriceInnerRecordHandling string

const (
	PriceInnerRecordNone        PriceInnerRecordHandling = "none"
	PriceInnerRecordLowestPrice PriceInnerRecordHandling = "lowestPrice"
	PriceInnerRecordSum         PriceInnerRecordHandling = "sum"
	PriceInnerRecordUnknown     PriceInnerRecordHandling = "unknown"
)

// Decimal carries server BigDecimal values in their textual form.
type Decimal string

// LocalizedValues maps locale tags to values of localized fields.
type LocalizedValues map[string]map[string]interface{}

// Attributes holds entity or reference attribute values.
type Attributes struct {
	Global    map[string]interface{} `json:"global"`
	Localized LocalizedValues        `json:"localized"`
}

// AssociatedData holds associated data values, split like attributes.
type AssociatedData struct {
	Global    map[string]interface{} `json:"global"`
	Localized LocalizedValues        `json:"localized"`
}

type Price struct {
	PriceID         int32        `json:"priceId"`
	PriceList       string       `json:"priceList"`
	Currency        string       `json:"currency"`
	InnerRecordID   *int32       `json:"innerRecordId,omitempty"`
	Indexed         bool         `json:"indexed"`
	ValidFrom       *time.Time   `json:"validFrom,omitempty"`
	ValidTo         *time.Time   `json:"validTo,omitempty"`
	PriceWithoutTax Decimal      `json:"priceWithoutTax"`
	PriceWithTax    Decimal      `json:"priceWithTax"`
	TaxRate         Decimal      `json:"taxRate"`
	Version         Value[int32] `json:"version"`
}

type Reference struct {
	ReferenceName             string            `json:"referenceName"`
	ReferencedPrimaryKey      int32             `json:"referencedPrimaryKey"`
	Version                   Value[int32]      `json:"version"`
	ReferencedEntity          Value[*Entity]    `json:"referencedEntity"`
	GroupReferencedPrimaryKey Value[*int32]     `json:"groupReferencedPrimaryKey"`
	GroupReferencedEntity     Value[*Entity]    `json:"groupReferencedEntity"`
	Attributes                Value[Attributes] `json:"attributes"`
}

// Entity is one fetched record of an entity collection.
type Entity struct {
	EntityType               string                          `json:"entityType"`
	PrimaryKey               int32                           `json:"primaryKey"`
	Version                  Value[int32]                    `json:"version"`
	SchemaVersion            Value[int32]                    `json:"schemaVersion"`
	Scope                    Value[EntityScope]              `json:"scope"`
	ParentPrimaryKey         Value[*int32]                   `json:"parentPrimaryKey"`
	Parents                  Value[[]*Entity]                `json:"parents"`
	Locales                  Value[[]string]                 `json:"locales"`
	AllLocales               Value[[]string]                 `json:"allLocales"`
	PriceInnerRecordHandling Value[PriceInnerRecordHandling] `json:"priceInnerRecordHandling"`
	Attributes               Value[Attributes]               `json:"attributes"`
	AssociatedData           Value[AssociatedData]           `json:"associatedData"`
	Prices                   Value[[]Price]                  `json:"prices"`
	PriceForSale             Value[*Price]                   `json:"priceForSale"`
	References               Value[map[string][]Reference]   `json:"references"`
}
