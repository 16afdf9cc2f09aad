package evitadb

import (
	"encoding/json"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	pb "github.com/platformbuilds/evitalab-core/internal/grpc/evitapb"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

func (c converter) entity(e *pb.GrpcSealedEntity) (*models.Entity, error) {
	if e == nil {
		return nil, nil
	}
	scope := errs.Scope{EntityType: e.EntityType}

	scopeValue := models.NotSupported[models.EntityScope]()
	if c.features.scopes {
		s := models.ScopeLive
		if e.Scope != nil {
			converted, err := entityScope(*e.Scope)
			if err != nil {
				return nil, errs.WithScope(err, scope)
			}
			s = converted
		}
		scopeValue = models.Of(s)
	}
	handling, err := priceInnerRecordHandling(e.PriceInnerRecordHandling)
	if err != nil {
		return nil, errs.WithScope(err, scope)
	}
	parents, err := c.parents(e.ParentEntity)
	if err != nil {
		return nil, err
	}
	attrs, err := attributes(e.GlobalAttributes, e.LocalizedAttributes)
	if err != nil {
		return nil, errs.WithScope(err, scope)
	}
	global, localized, err := values(e.GlobalAssociatedData, e.LocalizedAssociatedData)
	if err != nil {
		return nil, errs.WithScope(err, scope)
	}
	prices := make([]models.Price, 0, len(e.Prices))
	for _, p := range e.Prices {
		prices = append(prices, price(p))
	}
	var forSale *models.Price
	if e.PriceForSale != nil {
		p := price(e.PriceForSale)
		forSale = &p
	}
	refs, err := c.references(e.References)
	if err != nil {
		return nil, errs.WithScope(err, scope)
	}

	return &models.Entity{
		EntityType:               e.EntityType,
		PrimaryKey:               e.PrimaryKey,
		Version:                  models.Of(e.Version),
		SchemaVersion:            models.Of(e.SchemaVersion),
		Scope:                    scopeValue,
		ParentPrimaryKey:         models.Of(optInt32(e.ParentPrimaryKey)),
		Parents:                  models.Of(parents),
		Locales:                  models.Of(e.Locales),
		AllLocales:               models.Of(e.AllLocales),
		PriceInnerRecordHandling: models.Of(handling),
		Attributes:               models.Of(attrs),
		AssociatedData:           models.Of(models.AssociatedData{Global: global, Localized: localized}),
		Prices:                   models.Of(prices),
		PriceForSale:             models.Of(forSale),
		References:               models.Of(refs),
	}, nil
}

// parents flattens the nested parent chain into a root first list.
func (c converter) parents(parent *pb.GrpcSealedEntity) ([]*models.Entity, error) {
	var chain []*models.Entity
	for p := parent; p != nil; p = p.ParentEntity {
		shallow := *p
		shallow.ParentEntity = nil
		converted, err := c.entity(&shallow)
		if err != nil {
			return nil, err
		}
		chain = append(chain, converted)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (c converter) references(in []*pb.GrpcReference) (map[string][]models.Reference, error) {
	out := make(map[string][]models.Reference)
	for _, r := range in {
		if r.ReferencedEntity == nil {
			return nil, errs.Unexpected(errs.Scope{}, "reference %q has no referenced entity", r.ReferenceName)
		}
		referenced, err := c.entity(r.ReferencedEntityBody)
		if err != nil {
			return nil, err
		}
		group, err := c.entity(r.GroupEntityBody)
		if err != nil {
			return nil, err
		}
		var groupPK *int32
		if r.GroupReference != nil {
			pk := r.GroupReference.PrimaryKey
			groupPK = &pk
		}
		attrs := models.NotSupported[models.Attributes]()
		if !r.AttributesNotFetched {
			converted, err := attributes(r.GlobalAttributes, r.LocalizedAttributes)
			if err != nil {
				return nil, err
			}
			attrs = models.Of(converted)
		}
		out[r.ReferenceName] = append(out[r.ReferenceName], models.Reference{
			ReferenceName:             r.ReferenceName,
			ReferencedPrimaryKey:      r.ReferencedEntity.PrimaryKey,
			Version:                   models.Of(r.Version),
			ReferencedEntity:          models.Of(referenced),
			GroupReferencedPrimaryKey: models.Of(groupPK),
			GroupReferencedEntity:     models.Of(group),
			Attributes:                attrs,
		})
	}
	return out, nil
}

func attributes(global map[string]*pb.GrpcEvitaValue, localized map[string]*pb.GrpcLocalizedValues) (models.Attributes, error) {
	g, l, err := values(global, localized)
	if err != nil {
		return models.Attributes{}, err
	}
	return models.Attributes{Global: g, Localized: l}, nil
}

func values(global map[string]*pb.GrpcEvitaValue, localized map[string]*pb.GrpcLocalizedValues) (map[string]interface{}, models.LocalizedValues, error) {
	g := make(map[string]interface{}, len(global))
	for name, v := range global {
		converted, err := evitaValue(v)
		if err != nil {
			return nil, nil, err
		}
		g[name] = converted
	}
	l := make(models.LocalizedValues, len(localized))
	for locale, lv := range localized {
		if lv == nil {
			continue
		}
		vals := make(map[string]interface{}, len(lv.Values))
		for name, v := range lv.Values {
			converted, err := evitaValue(v)
			if err != nil {
				return nil, nil, err
			}
			vals[name] = converted
		}
		l[locale] = vals
	}
	return g, l, nil
}

// evitaValue unwraps a typed wire value into a plain Go value.
func evitaValue(v *pb.GrpcEvitaValue) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	missing := func() error {
		return errs.Unexpected(errs.Scope{}, "value of type %d carries no payload", int32(v.Type))
	}
	switch v.Type {
	case pb.GrpcEvitaDataType_STRING, pb.GrpcEvitaDataType_LOCALE, pb.GrpcEvitaDataType_CURRENCY, pb.GrpcEvitaDataType_UUID:
		if v.StringValue == nil {
			return nil, missing()
		}
		return v.StringValue.GetValue(), nil
	case pb.GrpcEvitaDataType_INTEGER:
		if v.IntegerValue == nil {
			return nil, missing()
		}
		return v.IntegerValue.GetValue(), nil
	case pb.GrpcEvitaDataType_LONG:
		if v.LongValue == nil {
			return nil, missing()
		}
		return v.LongValue.GetValue(), nil
	case pb.GrpcEvitaDataType_BOOLEAN:
		if v.BooleanValue == nil {
			return nil, missing()
		}
		return v.BooleanValue.GetValue(), nil
	case pb.GrpcEvitaDataType_BIG_DECIMAL:
		if v.BigDecimalValue == nil {
			return nil, missing()
		}
		return models.Decimal(v.BigDecimalValue.GetValue()), nil
	case pb.GrpcEvitaDataType_OFFSET_DATE_TIME:
		if v.OffsetDateTimeValue == nil {
			return nil, missing()
		}
		return v.OffsetDateTimeValue.AsTime(), nil
	case pb.GrpcEvitaDataType_STRING_ARRAY:
		return append([]string{}, v.StringArrayValue...), nil
	case pb.GrpcEvitaDataType_INTEGER_ARRAY:
		return append([]int32{}, v.IntegerArrayValue...), nil
	case pb.GrpcEvitaDataType_LONG_ARRAY:
		return append([]int64{}, v.LongArrayValue...), nil
	case pb.GrpcEvitaDataType_COMPLEX:
		if v.JsonValue == nil {
			return nil, missing()
		}
		var out interface{}
		if err := json.Unmarshal([]byte(v.JsonValue.GetValue()), &out); err != nil {
			return nil, errs.UnexpectedWrap(errs.Scope{}, err, "decode complex value")
		}
		return out, nil
	default:
		return nil, errs.UnsupportedEnumValue("GrpcEvitaDataType", int32(v.Type))
	}
}

func price(p *pb.GrpcPrice) models.Price {
	return models.Price{
		PriceID:         p.PriceId,
		PriceList:       p.PriceList,
		Currency:        p.Currency,
		InnerRecordID:   optInt32(p.InnerRecordId),
		Indexed:         p.Indexed,
		ValidFrom:       optTime(p.ValidFrom),
		ValidTo:         optTime(p.ValidTo),
		PriceWithoutTax: models.Decimal(p.PriceWithoutTax),
		PriceWithTax:    models.Decimal(p.PriceWithTax),
		TaxRate:         models.Decimal(p.TaxRate),
		Version:         models.Of(p.Version),
	}
}

func optTime(ts *timestamppb.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.AsTime()
	return &t
}
