package query

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/platformbuilds/evitalab-core/internal/driver"
	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/gqlclient"
	"github.com/platformbuilds/evitalab-core/internal/metrics"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/tracing"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// DriverResolver yields the driver negotiated for a connection.
type DriverResolver interface {
	ResolveDriver(ctx context.Context, conn *models.Connection) (driver.Driver, error)
}

// GraphQLClient posts documents to the catalog data API.
type GraphQLClient interface {
	Execute(ctx context.Context, conn *models.Connection, catalogName string, req gqlclient.Request) (json.RawMessage, error)
}

// EvitaQLExecutor runs EvitaQL through the resolved driver.
type EvitaQLExecutor struct {
	drivers DriverResolver
	logger  logger.Logger
}

func NewEvitaQLExecutor(drivers DriverResolver, log logger.Logger) *EvitaQLExecutor {
	return &EvitaQLExecutor{drivers: drivers, logger: log}
}

func (e *EvitaQLExecutor) Language() Language { return LanguageEvitaQL }

func (e *EvitaQLExecutor) ExecuteQuery(ctx context.Context, pointer models.DataPointer, query string) (*models.Response, error) {
	return instrument(ctx, e.logger, LanguageEvitaQL, pointer, query, func(ctx context.Context) (*models.Response, error) {
		d, err := e.drivers.ResolveDriver(ctx, pointer.Connection)
		if err != nil {
			return nil, err
		}
		return d.Query(ctx, pointer.Connection, pointer.CatalogName, query)
	})
}

// GraphQLExecutor runs GraphQL documents over HTTP and converts the results with
// the schemas of the queried collection and its referenced collections.
type GraphQLExecutor struct {
	client  GraphQLClient
	schemas SchemaProvider
	logger  logger.Logger
}

func NewGraphQLExecutor(client GraphQLClient, schemas SchemaProvider, log logger.Logger) *GraphQLExecutor {
	return &GraphQLExecutor{client: client, schemas: schemas, logger: log}
}

func (e *GraphQLExecutor) Language() Language { return LanguageGraphQL }

func (e *GraphQLExecutor) ExecuteQuery(ctx context.Context, pointer models.DataPointer, query string) (*models.Response, error) {
	return instrument(ctx, e.logger, LanguageGraphQL, pointer, query, func(ctx context.Context) (*models.Response, error) {
		scope := ScopeOf(pointer)
		schema, err := e.schemas.GetEntitySchema(ctx, pointer)
		if err != nil {
			return nil, errs.WithScope(err, scope)
		}
		referenced, err := e.referencedSchemas(ctx, pointer, schema, selectedFields(query))
		if err != nil {
			return nil, err
		}

		data, err := e.client.Execute(ctx, pointer.Connection, pointer.CatalogName, gqlclient.Request{Query: query})
		if err != nil {
			return nil, errs.WithScope(err, scope)
		}

		conv := &gqlclient.Converter{
			Schema:     schema,
			Referenced: referenced,
			Locale:     dataLocaleOf(query),
			Scope:      scope,
		}
		return conv.ConvertResponse(data)
	})
}

// referencedSchemas fetches the schemas of managed referenced collections whose
// reference field the document selects. A nil selection means every reference.
func (e *GraphQLExecutor) referencedSchemas(ctx context.Context, pointer models.DataPointer, schema *models.EntitySchema, selected map[string]bool) (map[string]*models.EntitySchema, error) {
	var mu sync.Mutex
	out := make(map[string]*models.EntitySchema)
	g, gctx := errgroup.WithContext(ctx)
	for name, ref := range schema.References {
		name, ref := name, ref
		if !ref.IsReferencedEntityManaged() {
			continue
		}
		if selected != nil && !selected[ref.Variant(models.CamelCase)] {
			continue
		}
		g.Go(func() error {
			target := models.NewDataPointer(pointer.Connection, pointer.CatalogName, ref.EntityType)
			s, err := e.schemas.GetEntitySchema(gctx, target)
			if err != nil {
				return errs.WithScope(err, ScopeOf(target))
			}
			mu.Lock()
			out[name] = s
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// selectedFields collects every field name selected anywhere in the document,
// fragments included. It returns nil when the document does not parse.
func selectedFields(query string) map[string]bool {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return nil
	}
	out := make(map[string]bool)
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				out[s.Name] = true
				walk(s.SelectionSet)
			case *ast.InlineFragment:
				walk(s.SelectionSet)
			}
		}
	}
	for _, op := range doc.Operations {
		walk(op.SelectionSet)
	}
	for _, f := range doc.Fragments {
		walk(f.SelectionSet)
	}
	return out
}

// dataLocaleOf reads the entityLocaleEquals constraint of the first root field,
// which decides the locale localized values come back in.
func dataLocaleOf(query string) string {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil || len(doc.Operations) == 0 {
		return ""
	}
	for _, sel := range doc.Operations[0].SelectionSet {
		field, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		filter := field.Arguments.ForName("filterBy")
		if filter == nil || filter.Value == nil {
			return ""
		}
		locale := filter.Value.Children.ForName("entityLocaleEquals")
		if locale == nil {
			return ""
		}
		return strings.ReplaceAll(locale.Raw, "_", "-")
	}
	return ""
}

func instrument(ctx context.Context, log logger.Logger, lang Language, pointer models.DataPointer, query string, run func(context.Context) (*models.Response, error)) (*models.Response, error) {
	tracer := tracing.GetGlobalTracer()
	ctx, span := tracer.StartQuerySpan(ctx, string(lang), pointer.Key(), query)
	defer span.End()

	start := time.Now()
	resp, err := run(ctx)
	duration := time.Since(start)
	metrics.QueryExecutionDuration.WithLabelValues(string(lang)).Observe(duration.Seconds())

	if err != nil {
		metrics.QueryExecutionsTotal.WithLabelValues(string(lang), errs.KindOf(err).String()).Inc()
		tracer.RecordError(span, err, attribute.String("error.kind", errs.KindOf(err).String()))
		log.Debug("query execution failed",
			"language", lang,
			"connection", connectionName(pointer),
			"catalog", pointer.CatalogName,
			"entity_type", pointer.EntityType,
			"error", err)
		return nil, err
	}

	metrics.QueryExecutionsTotal.WithLabelValues(string(lang), "ok").Inc()
	tracer.RecordQueryMetrics(span, duration, recordCount(resp), true)
	return resp, nil
}

func recordCount(resp *models.Response) int64 {
	if resp == nil {
		return 0
	}
	page, ok := resp.RecordPage.GetIfSupported()
	if !ok || page == nil {
		return 0
	}
	return int64(len(page.Data))
}

func connectionName(pointer models.DataPointer) string {
	if pointer.Connection == nil {
		return ""
	}
	return pointer.Connection.Name
}
