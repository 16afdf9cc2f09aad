// Package evitaql renders fetch requests as EvitaQL, the function call syntax
// understood by the evitaDB gRPC query endpoint.
package evitaql

import (
	"context"
	"strconv"
	"strings"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/query"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

const indent = "\t"

type Builder struct {
	schemas query.SchemaProvider
	logger  logger.Logger
}

func NewBuilder(schemas query.SchemaProvider, log logger.Logger) *Builder {
	return &Builder{schemas: schemas, logger: log}
}

func (b *Builder) Language() query.Language { return query.LanguageEvitaQL }

// BuildQuery renders
//
//	query(collection(..), filterBy(..), orderBy(..), require(page(..), entityFetch(..)))
func (b *Builder) BuildQuery(ctx context.Context, req query.BuildRequest) (string, error) {
	plan, err := query.NewFetchPlan(ctx, b.schemas, req)
	if err != nil {
		return "", err
	}

	var parts []string
	parts = append(parts, call("collection", quote(req.Pointer.EntityType)))

	var filters []string
	if req.DataLocale != "" {
		filters = append(filters, call("entityLocaleEquals", quote(req.DataLocale)))
	}
	if f := strings.TrimSpace(req.FilterBy); f != "" {
		filters = append(filters, f)
	}
	if len(filters) > 0 {
		parts = append(parts, call("filterBy", filters...))
	}
	if o := strings.TrimSpace(req.OrderBy); o != "" {
		parts = append(parts, call("orderBy", o))
	}

	requires := []string{call("page", itoa(req.PageNumber), itoa(req.PageSize))}
	requires = append(requires, entityFetch(plan))
	if plan.Prices && req.PriceType != "" {
		requires = append(requires, call("priceType", priceType(req.PriceType)))
	}
	parts = append(parts, call("require", requires...))

	q := call("query", parts...)
	b.logger.Debug("built EvitaQL query", "entity_type", req.Pointer.EntityType, "length", len(q))
	return q, nil
}

func entityFetch(plan *query.FetchPlan) string {
	var content []string
	if len(plan.Attributes) > 0 {
		content = append(content, attributeContent(plan.Attributes))
	}
	if len(plan.AssociatedData) > 0 {
		names := make([]string, 0, len(plan.AssociatedData))
		for _, d := range plan.AssociatedData {
			names = append(names, quote(d.Name))
		}
		content = append(content, call("associatedDataContent", names...))
	}
	if plan.Prices {
		content = append(content, call("priceContentAll"))
	}
	if plan.Parents {
		content = append(content, call("hierarchyContent", representativeFetch(plan.ParentRepresentatives)...))
	}
	for _, rp := range plan.References {
		content = append(content, referenceContent(rp))
	}
	if plan.Locales && plan.Locale == "" {
		content = append(content, call("dataInLocalesAll"))
	}
	return call("entityFetch", content...)
}

func referenceContent(rp *query.ReferencePlan) string {
	args := []string{quote(rp.Schema.Name)}
	if len(rp.Attributes) > 0 {
		args = append(args, attributeContent(rp.Attributes))
		args = append(args, representativeFetch(rp.Representatives)...)
		return call("referenceContentWithAttributes", args...)
	}
	args = append(args, representativeFetch(rp.Representatives)...)
	return call("referenceContent", args...)
}

// representativeFetch fetches the labelling attributes of related entities.
func representativeFetch(attrs []*models.AttributeSchema) []string {
	if len(attrs) == 0 {
		return nil
	}
	return []string{call("entityFetch", attributeContent(attrs))}
}

func attributeContent(attrs []*models.AttributeSchema) string {
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, quote(a.Name))
	}
	return call("attributeContent", names...)
}

func (b *Builder) BuildPrimaryKeyOrderBy(direction models.OrderDirection) (string, error) {
	dir, err := orderDirection(direction)
	if err != nil {
		return "", err
	}
	return call("entityPrimaryKeyNatural", dir), nil
}

func (b *Builder) BuildAttributeOrderBy(ctx context.Context, pointer models.DataPointer, attributeName string, direction models.OrderDirection) (string, error) {
	attr, err := query.ResolveAttribute(ctx, b.schemas, pointer, attributeName)
	if err != nil {
		return "", err
	}
	dir, err := orderDirection(direction)
	if err != nil {
		return "", err
	}
	return call("attributeNatural", quote(attr.Name), dir), nil
}

func (b *Builder) BuildReferenceAttributeOrderBy(ctx context.Context, pointer models.DataPointer, referenceName, attributeName string, direction models.OrderDirection) (string, error) {
	ref, attr, err := query.ResolveReferenceAttribute(ctx, b.schemas, pointer, referenceName, attributeName)
	if err != nil {
		return "", err
	}
	dir, err := orderDirection(direction)
	if err != nil {
		return "", err
	}
	return call("referenceProperty", quote(ref.Name), call("attributeNatural", quote(attr.Name), dir)), nil
}

func (b *Builder) BuildParentEntityFilterBy(parentPrimaryKey int32) (string, error) {
	return primaryKeyInSet(parentPrimaryKey), nil
}

func (b *Builder) BuildPredecessorEntityFilterBy(predecessorPrimaryKey int32) (string, error) {
	return primaryKeyInSet(predecessorPrimaryKey), nil
}

func (b *Builder) BuildReferencedEntityFilterBy(referencedPrimaryKeys []int32) (string, error) {
	if len(referencedPrimaryKeys) == 0 {
		return "", errs.Unexpected(errs.Scope{}, "referenced entity filter needs at least one primary key")
	}
	return primaryKeyInSet(referencedPrimaryKeys...), nil
}

func (b *Builder) BuildPriceForSaleFilterBy(entityPrimaryKey int32, priceLists []string, currency string) (string, error) {
	constraints := []string{primaryKeyInSet(entityPrimaryKey)}
	if currency != "" {
		constraints = append(constraints, call("priceInCurrency", quote(currency)))
	}
	if len(priceLists) > 0 {
		quoted := make([]string, 0, len(priceLists))
		for _, pl := range priceLists {
			quoted = append(quoted, quote(pl))
		}
		constraints = append(constraints, call("priceInPriceLists", quoted...))
	}
	return strings.Join(constraints, ", "), nil
}

func primaryKeyInSet(pks ...int32) string {
	args := make([]string, 0, len(pks))
	for _, pk := range pks {
		args = append(args, itoa(pk))
	}
	return call("entityPrimaryKeyInSet", args...)
}

func orderDirection(d models.OrderDirection) (string, error) {
	switch d {
	case models.OrderAsc:
		return "ASC", nil
	case models.OrderDesc:
		return "DESC", nil
	default:
		return "", errs.UnsupportedEnumValue("OrderDirection", d)
	}
}

func priceType(p query.PriceType) string {
	if p == query.PriceWithoutTax {
		return "WITHOUT_TAX"
	}
	return "WITH_TAX"
}

// call renders a constraint. Constraints with nested constraints go on separate
// lines to keep generated queries readable in the console.
func call(name string, args ...string) string {
	if len(args) == 0 {
		return name + "()"
	}
	nested := false
	for _, a := range args {
		if strings.Contains(a, "(") {
			nested = true
			break
		}
	}
	if !nested {
		return name + "(" + strings.Join(args, ", ") + ")"
	}
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString("(\n")
	for i, a := range args {
		sb.WriteString(indentLines(a))
		if i < len(args)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(")")
	return sb.String()
}

func indentLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = indent + l
	}
	return strings.Join(lines, "\n")
}

// quote renders an EvitaQL string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

func itoa(i int32) string {
	return strconv.FormatInt(int64(i), 10)
}

var _ query.Builder = (*Builder)(nil)
