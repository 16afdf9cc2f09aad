package models

import (
	"fmt"
	"strings"
)

// EntityPropertyType tags the variants of EntityPropertyKey.
type EntityPropertyType string

const (
	EntityPropertyEntity              EntityPropertyType = "entity"
	EntityPropertyAttributes          EntityPropertyType = "attributes"
	EntityPropertyAssociatedData      EntityPropertyType = "associatedData"
	EntityPropertyPrices              EntityPropertyType = "prices"
	EntityPropertyReferences          EntityPropertyType = "references"
	EntityPropertyReferenceAttributes EntityPropertyType = "referenceAttributes"
)

// Static entity properties addressable by EntityPropertyKey with type entity.
const (
	StaticPropertyPrimaryKey               = "primaryKey"
	StaticPropertyVersion                  = "version"
	StaticPropertyLocales                  = "locales"
	StaticPropertyParentPrimaryKey         = "parentPrimaryKey"
	StaticPropertyPriceInnerRecordHandling = "priceInnerRecordHandling"
	StaticPropertyScope                    = "scope"
)

const (
	propertyKeySeparator = ":"
	propertyKeyEscape    = "\\"
)

// EntityPropertyKey identifies one fetchable or sortable entity property.
// It is a comparable value so it can be used as a map key directly.
type EntityPropertyKey struct {
	Type EntityPropertyType
	// Name is the static property, attribute, associated data or reference name.
	Name string
	// AttributeName is set only for reference attributes.
	AttributeName string
}

func EntityKey(name string) EntityPropertyKey {
	return EntityPropertyKey{Type: EntityPropertyEntity, Name: name}
}

func AttributeKey(name string) EntityPropertyKey {
	return EntityPropertyKey{Type: EntityPropertyAttributes, Name: name}
}

func AssociatedDataKey(name string) EntityPropertyKey {
	return EntityPropertyKey{Type: EntityPropertyAssociatedData, Name: name}
}

func PricesKey() EntityPropertyKey {
	return EntityPropertyKey{Type: EntityPropertyPrices}
}

func ReferenceKey(name string) EntityPropertyKey {
	return EntityPropertyKey{Type: EntityPropertyReferences, Name: name}
}

func ReferenceAttributeKey(referenceName, attributeName string) EntityPropertyKey {
	return EntityPropertyKey{Type: EntityPropertyReferenceAttributes, Name: referenceName, AttributeName: attributeName}
}

// String returns the canonical serialized form, used in history and as map key.
// Names may contain the separator. Only the reference name of a reference
// attribute key is escaped, the attribute name is the unescaped remainder.
func (k EntityPropertyKey) String() string {
	switch k.Type {
	case EntityPropertyPrices:
		return string(k.Type)
	case EntityPropertyReferenceAttributes:
		return string(k.Type) + propertyKeySeparator + escapeKeyPart(k.Name) + propertyKeySeparator + k.AttributeName
	default:
		return string(k.Type) + propertyKeySeparator + k.Name
	}
}

// ParseEntityPropertyKey is the inverse of EntityPropertyKey.String.
func ParseEntityPropertyKey(s string) (EntityPropertyKey, error) {
	prefix, rest, hasRest := strings.Cut(s, propertyKeySeparator)
	t := EntityPropertyType(prefix)
	switch t {
	case EntityPropertyPrices:
		if hasRest {
			return EntityPropertyKey{}, fmt.Errorf("invalid property key %q", s)
		}
		return PricesKey(), nil
	case EntityPropertyEntity, EntityPropertyAttributes, EntityPropertyAssociatedData, EntityPropertyReferences:
		if rest == "" {
			return EntityPropertyKey{}, fmt.Errorf("invalid property key %q", s)
		}
		return EntityPropertyKey{Type: t, Name: rest}, nil
	case EntityPropertyReferenceAttributes:
		reference, attribute, ok := splitEscaped(rest)
		if !ok || reference == "" || attribute == "" {
			return EntityPropertyKey{}, fmt.Errorf("invalid property key %q", s)
		}
		return ReferenceAttributeKey(reference, attribute), nil
	default:
		return EntityPropertyKey{}, fmt.Errorf("unknown property key type in %q", s)
	}
}

func escapeKeyPart(name string) string {
	name = strings.ReplaceAll(name, propertyKeyEscape, propertyKeyEscape+propertyKeyEscape)
	return strings.ReplaceAll(name, propertyKeySeparator, propertyKeyEscape+propertyKeySeparator)
}

// splitEscaped unescapes s up to its first unescaped separator and returns the
// remainder verbatim.
func splitEscaped(s string) (head, tail string, ok bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case propertyKeyEscape[0]:
			if i+1 == len(s) {
				return "", "", false
			}
			i++
			b.WriteByte(s[i])
		case propertyKeySeparator[0]:
			return b.String(), s[i+1:], true
		default:
			b.WriteByte(s[i])
		}
	}
	return "", "", false
}

func (k EntityPropertyKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EntityPropertyKey) UnmarshalText(text []byte) error {
	parsed, err := ParseEntityPropertyKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
