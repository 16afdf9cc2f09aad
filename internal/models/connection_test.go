package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_NormalizesURL(t *testing.T) {
	c, err := NewConnection("local", "https://demo.evitadb.io/")
	require.NoError(t, err)
	assert.Equal(t, "https://demo.evitadb.io", c.ServerURL)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.Preconfigured)

	assert.Equal(t, "https://demo.evitadb.io/system", c.SystemURL())
	assert.Equal(t, "https://demo.evitadb.io/gql", c.GraphQLURL())
	assert.Equal(t, "https://demo.evitadb.io/rest", c.RESTURL())
	assert.Equal(t, "demo.evitadb.io:443", c.GRPCTarget())
	assert.True(t, c.UsesTLS())
}

func TestNewConnection_ExplicitPort(t *testing.T) {
	c, err := NewConnection("local", "http://localhost:5555")
	require.NoError(t, err)
	assert.Equal(t, "localhost:5555", c.GRPCTarget())
	assert.False(t, c.UsesTLS())
}

func TestNewConnection_Invalid(t *testing.T) {
	_, err := NewConnection("", "http://localhost")
	assert.Error(t, err)
	_, err = NewConnection("x", "ftp://localhost")
	assert.Error(t, err)
	_, err = NewConnection("x", "http://")
	assert.Error(t, err)
}

func TestNewPreconfiguredConnection_StableID(t *testing.T) {
	a, err := NewPreconfiguredConnection("", "demo", "https://demo.evitadb.io")
	require.NoError(t, err)
	b, err := NewPreconfiguredConnection("", "demo", "https://demo.evitadb.io")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.True(t, a.Preconfigured)

	c, err := NewPreconfiguredConnection("fixed", "demo", "https://demo.evitadb.io")
	require.NoError(t, err)
	assert.Equal(t, "fixed", c.ID)
}

func TestDataPointer_Key(t *testing.T) {
	conn := &Connection{ID: "c1"}
	p := NewDataPointer(conn, "evita", "Product")
	assert.Equal(t, "c1/evita", p.CatalogPointer.Key())
	assert.Equal(t, "c1/evita/Product", p.Key())
}
