// Package query builds EvitaQL and GraphQL queries from a language-agnostic fetch
// request and executes them against a collection. Both languages render the same
// FetchPlan, which keeps the set of requested schema elements identical.
package query

import (
	"context"
	"strings"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

// Language is the closed set of supported query languages.
type Language string

const (
	LanguageEvitaQL Language = "evitaql"
	LanguageGraphQL Language = "graphql"
)

// ParseLanguage accepts the language names used by the HTTP API.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEvitaQL:
		return LanguageEvitaQL, nil
	case LanguageGraphQL:
		return LanguageGraphQL, nil
	default:
		return "", errs.Unexpected(errs.Scope{}, "unsupported query language %q", s)
	}
}

// PriceType selects which price amount is used for filtering and sorting.
type PriceType string

const (
	PriceWithTax    PriceType = "withTax"
	PriceWithoutTax PriceType = "withoutTax"
)

// BuildRequest is a declarative fetch request against one entity collection.
// FilterBy and OrderBy hold user written constraints in the target language and
// are embedded verbatim.
type BuildRequest struct {
	Pointer            models.DataPointer
	FilterBy           string
	OrderBy            string
	DataLocale         string
	PriceType          PriceType
	RequiredProperties []models.EntityPropertyKey
	PageNumber         int32
	PageSize           int32
}

// SchemaProvider returns cached entity schemas. Missing collections fail with a
// SchemaElementNotFound error.
type SchemaProvider interface {
	GetEntitySchema(ctx context.Context, pointer models.DataPointer) (*models.EntitySchema, error)
}

// Builder renders fetch requests and console helper constraints in one language.
type Builder interface {
	Language() Language
	BuildQuery(ctx context.Context, req BuildRequest) (string, error)

	BuildPrimaryKeyOrderBy(direction models.OrderDirection) (string, error)
	BuildAttributeOrderBy(ctx context.Context, pointer models.DataPointer, attributeName string, direction models.OrderDirection) (string, error)
	BuildReferenceAttributeOrderBy(ctx context.Context, pointer models.DataPointer, referenceName, attributeName string, direction models.OrderDirection) (string, error)

	BuildParentEntityFilterBy(parentPrimaryKey int32) (string, error)
	BuildPredecessorEntityFilterBy(predecessorPrimaryKey int32) (string, error)
	BuildReferencedEntityFilterBy(referencedPrimaryKeys []int32) (string, error)
	BuildPriceForSaleFilterBy(entityPrimaryKey int32, priceLists []string, currency string) (string, error)
}

// Executor sends a built query and normalizes the response.
type Executor interface {
	Language() Language
	ExecuteQuery(ctx context.Context, pointer models.DataPointer, query string) (*models.Response, error)
}

// Builders dispatches to the builder of a language.
type Builders struct {
	EvitaQL Builder
	GraphQL Builder
}

func (b Builders) For(lang Language) (Builder, error) {
	switch lang {
	case LanguageEvitaQL:
		return b.EvitaQL, nil
	case LanguageGraphQL:
		return b.GraphQL, nil
	default:
		return nil, errs.Unexpected(errs.Scope{}, "no query builder for language %q", lang)
	}
}

// Executors dispatches to the executor of a language.
type Executors struct {
	EvitaQL Executor
	GraphQL Executor
}

func (e Executors) For(lang Language) (Executor, error) {
	switch lang {
	case LanguageEvitaQL:
		return e.EvitaQL, nil
	case LanguageGraphQL:
		return e.GraphQL, nil
	default:
		return nil, errs.Unexpected(errs.Scope{}, "no query executor for language %q", lang)
	}
}

// ScopeOf is the error context of a pointer.
func ScopeOf(pointer models.DataPointer) errs.Scope {
	scope := errs.Scope{Catalog: pointer.CatalogName, EntityType: pointer.EntityType}
	if pointer.Connection != nil {
		scope.Connection = pointer.Connection.Name
	}
	return scope
}
