package models

import "fmt"

// CatalogPointer addresses one catalog on one connection.
type CatalogPointer struct {
	Connection  *Connection
	CatalogName string
}

func NewCatalogPointer(conn *Connection, catalogName string) CatalogPointer {
	return CatalogPointer{Connection: conn, CatalogName: catalogName}
}

// Key is used for cache indexing.
func (p CatalogPointer) Key() string {
	return fmt.Sprintf("%s/%s", connectionID(p.Connection), p.CatalogName)
}

// DataPointer addresses one entity collection where a query executes.
type DataPointer struct {
	CatalogPointer
	EntityType string
}

func NewDataPointer(conn *Connection, catalogName, entityType string) DataPointer {
	return DataPointer{CatalogPointer: NewCatalogPointer(conn, catalogName), EntityType: entityType}
}

func (p DataPointer) Key() string {
	return fmt.Sprintf("%s/%s", p.CatalogPointer.Key(), p.EntityType)
}

func connectionID(c *Connection) string {
	if c == nil {
		return ""
	}
	return c.ID
}
