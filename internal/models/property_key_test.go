package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityPropertyKey_RoundTrip(t *testing.T) {
	keys := []EntityPropertyKey{
		EntityKey(StaticPropertyPrimaryKey),
		EntityKey(StaticPropertyParentPrimaryKey),
		AttributeKey("code"),
		AssociatedDataKey("localization"),
		PricesKey(),
		ReferenceKey("brand"),
		ReferenceAttributeKey("brand", "order"),
		AttributeKey("seo:title"),
		AssociatedDataKey("a:b:c"),
		ReferenceKey("x:y"),
		ReferenceAttributeKey("brand", "a:b"),
		ReferenceAttributeKey("x:y", "z"),
		ReferenceAttributeKey(`dir\name:`, `attr\x`),
	}
	for _, k := range keys {
		t.Run(k.String(), func(t *testing.T) {
			parsed, err := ParseEntityPropertyKey(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		})
	}
}

func TestEntityPropertyKey_String(t *testing.T) {
	assert.Equal(t, "attributes:code", AttributeKey("code").String())
	assert.Equal(t, "prices", PricesKey().String())
	assert.Equal(t, "referenceAttributes:brand:order", ReferenceAttributeKey("brand", "order").String())
	assert.Equal(t, "attributes:seo:title", AttributeKey("seo:title").String())
	assert.Equal(t, `referenceAttributes:x\:y:z`, ReferenceAttributeKey("x:y", "z").String())
}

func TestEntityPropertyKey_UsableAsMapKey(t *testing.T) {
	m := map[EntityPropertyKey]int{AttributeKey("code"): 1}
	assert.Equal(t, 1, m[AttributeKey("code")])
	_, ok := m[AssociatedDataKey("code")]
	assert.False(t, ok)
}

func TestParseEntityPropertyKey_Invalid(t *testing.T) {
	for _, s := range []string{"", "attributes", "attributes:", "prices:x", "referenceAttributes:brand", `referenceAttributes:brand\`, "referenceAttributes::order", "unknown:x"} {
		_, err := ParseEntityPropertyKey(s)
		assert.Error(t, err, s)
	}
}

func TestEntityPropertyKey_Text(t *testing.T) {
	var k EntityPropertyKey
	require.NoError(t, k.UnmarshalText([]byte("references:brand")))
	assert.Equal(t, ReferenceKey("brand"), k)
	text, err := k.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "references:brand", string(text))
}
