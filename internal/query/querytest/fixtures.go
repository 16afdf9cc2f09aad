// Package querytest provides an in-memory schema provider and a small demo catalog
// for tests of query builders, executors and services.
package querytest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

// SchemaProvider serves entity schemas from memory and records every lookup.
type SchemaProvider struct {
	mu       sync.Mutex
	schemas  map[string]*models.EntitySchema
	requests []string
}

func NewSchemaProvider(schemas ...*models.EntitySchema) *SchemaProvider {
	p := &SchemaProvider{schemas: make(map[string]*models.EntitySchema, len(schemas))}
	for _, s := range schemas {
		p.schemas[s.Name] = s
	}
	return p
}

func (p *SchemaProvider) GetEntitySchema(_ context.Context, pointer models.DataPointer) (*models.EntitySchema, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, pointer.EntityType)
	s, ok := p.schemas[pointer.EntityType]
	if !ok {
		return nil, errs.SchemaElementNotFound(errs.ElementEntity, pointer.EntityType, errs.Scope{Catalog: pointer.CatalogName})
	}
	return s, nil
}

// RequestedTypes returns the distinct entity types looked up so far, sorted.
func (p *SchemaProvider) RequestedTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, r := range p.requests {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}

// Variants renders a kebab or snake cased name in every naming convention.
func Variants(name string) models.Value[models.NameVariants] {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	var camel, pascal strings.Builder
	lower := make([]string, 0, len(words))
	for i, w := range words {
		lw := strings.ToLower(w)
		lower = append(lower, lw)
		titled := strings.ToUpper(lw[:1]) + lw[1:]
		pascal.WriteString(titled)
		if i == 0 {
			camel.WriteString(lw)
		} else {
			camel.WriteString(titled)
		}
	}
	return models.Of(models.NameVariants{
		models.CamelCase:      camel.String(),
		models.PascalCase:     pascal.String(),
		models.SnakeCase:      strings.Join(lower, "_"),
		models.UpperSnakeCase: strings.ToUpper(strings.Join(lower, "_")),
		models.KebabCase:      strings.Join(lower, "-"),
	})
}

// Attribute builds an entity attribute schema.
func Attribute(name, typeName string, localized, representative bool) *models.AttributeSchema {
	return &models.AttributeSchema{
		Kind:           models.AttributeKindEntity,
		Name:           name,
		NameVariants:   Variants(name),
		Type:           models.Of(typeName),
		Localized:      models.Of(localized),
		Sortable:       models.Of(true),
		Filterable:     models.Of(true),
		Representative: models.Of(representative),
	}
}

func referenceAttribute(name, typeName string) *models.AttributeSchema {
	return &models.AttributeSchema{
		Kind:         models.AttributeKindPlain,
		Name:         name,
		NameVariants: Variants(name),
		Type:         models.Of(typeName),
		Localized:    models.Of(false),
		Sortable:     models.Of(true),
	}
}

func reference(name, entityType string, managed bool, attrs ...*models.AttributeSchema) *models.ReferenceSchema {
	r := &models.ReferenceSchema{
		Name:                        name,
		NameVariants:                Variants(name),
		EntityType:                  entityType,
		ReferencedEntityTypeManaged: models.Of(managed),
		Cardinality:                 models.Of(models.CardinalityZeroOrMore),
		Attributes:                  map[string]*models.AttributeSchema{},
	}
	for _, a := range attrs {
		r.Attributes[a.Name] = a
	}
	return r
}

// Product is a priced collection referencing brands, categories and an external
// stock type.
func Product() *models.EntitySchema {
	return models.NewEntitySchema(models.EntitySchema{
		Name:          "Product",
		NameVariants:  Variants("product"),
		WithHierarchy: models.Of(false),
		WithPrice:     models.Of(true),
		Locales:       models.Of([]string{"en", "cs"}),
		Attributes: map[string]*models.AttributeSchema{
			"code":     Attribute("code", "String", false, true),
			"name":     Attribute("name", "String", true, true),
			"ean":      Attribute("ean", "String", false, false),
			"priority": Attribute("priority", "Long", false, false),
		},
		AssociatedData: map[string]*models.AssociatedDataSchema{
			"gallery":     {Name: "gallery", NameVariants: Variants("gallery"), Type: models.Of("ComplexDataObject"), Localized: models.Of(false)},
			"description": {Name: "description", NameVariants: Variants("description"), Type: models.Of("String"), Localized: models.Of(true)},
		},
		References: map[string]*models.ReferenceSchema{
			"brand":    reference("brand", "Brand", true, referenceAttribute("order", "Integer")),
			"category": reference("category", "Category", true, referenceAttribute("order-in-category", "Integer")),
			"stocks":   reference("stocks", "Stock", false),
		},
	})
}

func Brand() *models.EntitySchema {
	return models.NewEntitySchema(models.EntitySchema{
		Name:         "Brand",
		NameVariants: Variants("brand"),
		Attributes: map[string]*models.AttributeSchema{
			"code": Attribute("code", "String", false, true),
			"name": Attribute("name", "String", true, true),
		},
	})
}

// Category is hierarchical.
func Category() *models.EntitySchema {
	return models.NewEntitySchema(models.EntitySchema{
		Name:          "Category",
		NameVariants:  Variants("category"),
		WithHierarchy: models.Of(true),
		Attributes: map[string]*models.AttributeSchema{
			"code": Attribute("code", "String", false, true),
			"name": Attribute("name", "String", true, true),
		},
	})
}

// Catalog serves Product, Brand and Category.
func Catalog() *SchemaProvider {
	return NewSchemaProvider(Product(), Brand(), Category())
}

// Pointer addresses a collection of the demo catalog on a demo connection.
func Pointer(entityType string) models.DataPointer {
	conn := &models.Connection{ID: "demo-id", Name: "demo", ServerURL: "http://localhost:5555"}
	return models.NewDataPointer(conn, "evita", entityType)
}
