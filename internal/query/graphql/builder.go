// Package graphql renders fetch requests as documents for the evitaDB GraphQL
// catalog API. The root field of a document is derived from the PascalCase name
// of the queried entity type.
package graphql

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/gqlclient"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/query"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

var priceFields = []string{
	"priceId", "priceList", "currency", "innerRecordId", "indexed",
	"validity", "priceWithoutTax", "priceWithTax", "taxRate",
}

type Builder struct {
	schemas query.SchemaProvider
	logger  logger.Logger
}

func NewBuilder(schemas query.SchemaProvider, log logger.Logger) *Builder {
	return &Builder{schemas: schemas, logger: log}
}

func (b *Builder) Language() query.Language { return query.LanguageGraphQL }

// field is one selection of the document being rendered.
type field struct {
	name     string
	args     []string
	children []*field
}

func leaf(names ...string) []*field {
	out := make([]*field, 0, len(names))
	for _, n := range names {
		out = append(out, &field{name: n})
	}
	return out
}

func (f *field) render(sb *strings.Builder, depth int) {
	pad := strings.Repeat("\t", depth)
	sb.WriteString(pad)
	sb.WriteString(f.name)
	if len(f.args) > 0 {
		sb.WriteString("(\n")
		for _, a := range f.args {
			sb.WriteString(pad)
			sb.WriteString("\t")
			sb.WriteString(a)
			sb.WriteString("\n")
		}
		sb.WriteString(pad)
		sb.WriteString(")")
	}
	if len(f.children) > 0 {
		sb.WriteString(" {\n")
		for _, c := range f.children {
			c.render(sb, depth+1)
		}
		sb.WriteString(pad)
		sb.WriteString("}")
	}
	sb.WriteString("\n")
}

func (b *Builder) BuildQuery(ctx context.Context, req query.BuildRequest) (string, error) {
	plan, err := query.NewFetchPlan(ctx, b.schemas, req)
	if err != nil {
		return "", err
	}

	root := &field{name: gqlclient.RootField(plan.Schema)}

	var filters []string
	if req.DataLocale != "" {
		filters = append(filters, "entityLocaleEquals: "+localeEnum(req.DataLocale))
	}
	if f := strings.TrimSpace(req.FilterBy); f != "" {
		filters = append(filters, f)
	}
	if len(filters) > 0 {
		root.args = append(root.args, "filterBy: { "+strings.Join(filters, ", ")+" }")
	}
	if o := strings.TrimSpace(req.OrderBy); o != "" {
		root.args = append(root.args, "orderBy: { "+o+" }")
	}
	if plan.Prices && req.PriceType != "" {
		root.args = append(root.args, "require: { priceType: "+priceType(req.PriceType)+" }")
	}

	page := &field{
		name: "recordPage",
		args: []string{"number: " + itoa(req.PageNumber), "size: " + itoa(req.PageSize)},
	}
	page.children = append(leaf("number", "size", "lastPageNumber", "totalRecordCount", "first", "last"),
		&field{name: "data", children: entityFields(plan)})
	root.children = []*field{page}

	var sb strings.Builder
	sb.WriteString("{\n")
	root.render(&sb, 1)
	sb.WriteString("}\n")
	doc := sb.String()

	if _, err := parser.ParseQuery(&ast.Source{Input: doc}); err != nil {
		scope := query.ScopeOf(req.Pointer)
		if strings.TrimSpace(req.FilterBy) != "" || strings.TrimSpace(req.OrderBy) != "" {
			return "", errs.Query(scope, "invalid GraphQL constraints: %s", err.Error())
		}
		return "", errs.Unexpected(scope, "built GraphQL document does not parse: %s", err.Error())
	}
	b.logger.Debug("built GraphQL query", "entity_type", req.Pointer.EntityType, "length", len(doc))
	return doc, nil
}

func entityFields(plan *query.FetchPlan) []*field {
	fields := leaf("primaryKey")
	if plan.Version {
		fields = append(fields, leaf("version")...)
	}
	if plan.Locales {
		fields = append(fields, leaf("locales", "allLocales")...)
	}
	if plan.Scope {
		fields = append(fields, leaf("scope")...)
	}
	if plan.PriceInnerRecordHandling {
		fields = append(fields, leaf("priceInnerRecordHandling")...)
	}
	if plan.Parents {
		parents := &field{name: "parents", children: leaf("primaryKey")}
		parents.children = append(parents.children, attributesField(plan.ParentRepresentatives)...)
		fields = append(fields, leaf("parentPrimaryKey")...)
		fields = append(fields, parents)
	}
	fields = append(fields, attributesField(plan.Attributes)...)
	if len(plan.AssociatedData) > 0 {
		data := &field{name: "associatedData"}
		for _, d := range plan.AssociatedData {
			data.children = append(data.children, &field{name: d.Variant(models.CamelCase)})
		}
		fields = append(fields, data)
	}
	if plan.Prices {
		fields = append(fields, &field{name: "prices", children: leaf(priceFields...)})
	}
	for _, rp := range plan.References {
		ref := &field{name: rp.Schema.Variant(models.CamelCase), children: leaf("referencedPrimaryKey")}
		ref.children = append(ref.children, attributesField(rp.Attributes)...)
		if len(rp.Representatives) > 0 {
			referenced := &field{name: "referencedEntity", children: leaf("primaryKey")}
			referenced.children = append(referenced.children, attributesField(rp.Representatives)...)
			ref.children = append(ref.children, referenced)
		}
		fields = append(fields, ref)
	}
	return fields
}

func attributesField(attrs []*models.AttributeSchema) []*field {
	if len(attrs) == 0 {
		return nil
	}
	f := &field{name: "attributes"}
	for _, a := range attrs {
		f.children = append(f.children, &field{name: a.Variant(models.CamelCase)})
	}
	return []*field{f}
}

func (b *Builder) BuildPrimaryKeyOrderBy(direction models.OrderDirection) (string, error) {
	dir, err := orderDirection(direction)
	if err != nil {
		return "", err
	}
	return "entityPrimaryKeyNatural: " + dir, nil
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
	return "attribute" + attr.Variant(models.PascalCase) + "Natural: " + dir, nil
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
	return "reference" + ref.Variant(models.PascalCase) + "Property: { attribute" + attr.Variant(models.PascalCase) + "Natural: " + dir + " }", nil
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
		constraints = append(constraints, "priceInCurrency: "+currency)
	}
	if len(priceLists) > 0 {
		quoted := make([]string, 0, len(priceLists))
		for _, pl := range priceLists {
			quoted = append(quoted, stringLiteral(pl))
		}
		constraints = append(constraints, "priceInPriceLists: ["+strings.Join(quoted, ", ")+"]")
	}
	return strings.Join(constraints, ", "), nil
}

func primaryKeyInSet(pks ...int32) string {
	items := make([]string, 0, len(pks))
	for _, pk := range pks {
		items = append(items, itoa(pk))
	}
	return "entityPrimaryKeyInSet: [" + strings.Join(items, ", ") + "]"
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

// localeEnum renders a language tag as the locale enum value, e.g. en-US -> en_US.
func localeEnum(tag string) string {
	return strings.ReplaceAll(tag, "-", "_")
}

func stringLiteral(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

func itoa(i int32) string {
	return strconv.FormatInt(int64(i), 10)
}

var _ query.Builder = (*Builder)(nil)
