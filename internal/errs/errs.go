// Package errs holds the error taxonomy shared by drivers, converters, query
// builders and services. Callers branch on Kind (via errors.Is against the
// sentinels or KindOf) and never on transport specific error types.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a LabError.
type Kind int

const (
	KindUnexpected Kind = iota
	KindUnsupportedValueAccess
	KindSchemaElementNotFound
	KindDriverResolution
	KindConnectionNotFound
	KindDuplicateConnection
	KindTimeout
	KindServer
	KindConnectivity
	KindUnsupportedEnumValue
	KindQuery
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindUnexpected:
		return "unexpected"
	case KindUnsupportedValueAccess:
		return "unsupported_value_access"
	case KindSchemaElementNotFound:
		return "schema_element_not_found"
	case KindDriverResolution:
		return "driver_resolution"
	case KindConnectionNotFound:
		return "connection_not_found"
	case KindDuplicateConnection:
		return "duplicate_connection"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	case KindConnectivity:
		return "connectivity"
	case KindUnsupportedEnumValue:
		return "unsupported_enum_value"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is. Matching compares only the Kind.
var (
	ErrUnexpected             = &LabError{Kind: KindUnexpected}
	ErrUnsupportedValueAccess = &LabError{Kind: KindUnsupportedValueAccess}
	ErrSchemaElementNotFound  = &LabError{Kind: KindSchemaElementNotFound}
	ErrDriverResolution       = &LabError{Kind: KindDriverResolution}
	ErrConnectionNotFound     = &LabError{Kind: KindConnectionNotFound}
	ErrDuplicateConnection    = &LabError{Kind: KindDuplicateConnection}
	ErrTimeout                = &LabError{Kind: KindTimeout}
	ErrServer                 = &LabError{Kind: KindServer}
	ErrConnectivity           = &LabError{Kind: KindConnectivity}
	ErrUnsupportedEnumValue   = &LabError{Kind: KindUnsupportedEnumValue}
	ErrQuery                  = &LabError{Kind: KindQuery}
)

// LabError is the single concrete error type of the taxonomy.
type LabError struct {
	Kind    Kind
	Message string

	// Optional context, rendered into Error() when present.
	Connection string
	Catalog    string
	EntityType string

	Err error
}

// Error implements the error interface
func (e *LabError) Error() string {
	var b strings.Builder
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(e.Kind.String())
	}
	var ctx []string
	if e.EntityType != "" {
		ctx = append(ctx, fmt.Sprintf("entity type %q", e.EntityType))
	}
	if e.Catalog != "" {
		ctx = append(ctx, fmt.Sprintf("catalog %q", e.Catalog))
	}
	if e.Connection != "" {
		ctx = append(ctx, fmt.Sprintf("connection %q", e.Connection))
	}
	if len(ctx) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(ctx, ", "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *LabError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a LabError of the same kind.
func (e *LabError) Is(target error) bool {
	t, ok := target.(*LabError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first LabError in err's chain, or
// KindUnexpected when the chain contains none.
func KindOf(err error) Kind {
	var le *LabError
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindUnexpected
}

// Scope names the place an error happened in. Zero values are omitted.
type Scope struct {
	Connection string
	Catalog    string
	EntityType string
}

func newErr(kind Kind, scope Scope, cause error, format string, args ...interface{}) *LabError {
	return &LabError{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		Connection: scope.Connection,
		Catalog:    scope.Catalog,
		EntityType: scope.EntityType,
		Err:        cause,
	}
}

func Unexpected(scope Scope, format string, args ...interface{}) error {
	return newErr(KindUnexpected, scope, nil, format, args...)
}

func UnexpectedWrap(scope Scope, cause error, format string, args ...interface{}) error {
	return newErr(KindUnexpected, scope, cause, format, args...)
}

func UnsupportedValueAccess() error {
	return newErr(KindUnsupportedValueAccess, Scope{}, nil, "value is not supported by the driver of the connected server")
}

// ElementType names what kind of schema element was missing.
type ElementType string

const (
	ElementEntity             ElementType = "entity"
	ElementAttribute          ElementType = "attribute"
	ElementAssociatedData     ElementType = "associated data"
	ElementReference          ElementType = "reference"
	ElementReferenceAttribute ElementType = "reference attribute"
	ElementCatalog            ElementType = "catalog"
)

func SchemaElementNotFound(element ElementType, name string, scope Scope) error {
	return newErr(KindSchemaElementNotFound, scope, nil, "%s %q not found in schema", element, name)
}

func DriverResolution(scope Scope, serverVersion string) error {
	return newErr(KindDriverResolution, scope, nil, "no driver supports server version %q", serverVersion)
}

func DriverResolutionWrap(scope Scope, cause error, format string, args ...interface{}) error {
	return newErr(KindDriverResolution, scope, cause, format, args...)
}

func ConnectionNotFound(id string) error {
	return newErr(KindConnectionNotFound, Scope{}, nil, "connection %q not found", id)
}

func DuplicateConnection(name string) error {
	return newErr(KindDuplicateConnection, Scope{}, nil, "connection named %q already exists", name)
}

func Timeout(scope Scope, cause error, operation string) error {
	return newErr(KindTimeout, scope, cause, "%s timed out", operation)
}

func Server(scope Scope, cause error, format string, args ...interface{}) error {
	return newErr(KindServer, scope, cause, format, args...)
}

func Connectivity(scope Scope, cause error, operation string) error {
	return newErr(KindConnectivity, scope, cause, "could not reach server during %s", operation)
}

// UnsupportedEnumValue reports a wire enum value with no domain mapping.
func UnsupportedEnumValue(enumName string, value interface{}) error {
	return newErr(KindUnsupportedEnumValue, Scope{}, nil, "unsupported %s value %v", enumName, value)
}

func Query(scope Scope, format string, args ...interface{}) error {
	return newErr(KindQuery, scope, nil, format, args...)
}

// WithScope fills the context fields a LabError does not carry yet. Converters
// fail without knowing where they run; their callers add the scope.
func WithScope(err error, scope Scope) error {
	var le *LabError
	if !errors.As(err, &le) {
		return err
	}
	scoped := *le
	if scoped.Connection == "" {
		scoped.Connection = scope.Connection
	}
	if scoped.Catalog == "" {
		scoped.Catalog = scope.Catalog
	}
	if scoped.EntityType == "" {
		scoped.EntityType = scope.EntityType
	}
	return &scoped
}
