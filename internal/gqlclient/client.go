// Package gqlclient talks to the evitaDB GraphQL API over HTTP and converts its
// entity query results into the domain model.
package gqlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/metrics"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

const maxResponseBytes = 32 << 20

// Request is the GraphQL-over-HTTP request envelope.
type Request struct {
	Query      string                 `json:"query"`
	Variables  map[string]interface{} `json:"variables,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors gqlerror.List   `json:"errors,omitempty"`
}

// Client posts GraphQL documents to the catalog endpoints of a connection.
type Client struct {
	http   *http.Client
	logger logger.Logger
}

func NewClient(timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: log,
	}
}

// Execute runs a document against the catalog data API and returns the data object.
func (c *Client) Execute(ctx context.Context, conn *models.Connection, catalogName string, req Request) (json.RawMessage, error) {
	return c.post(ctx, conn, catalogName, catalogURL(conn, catalogName), req)
}

// ExecuteSchema runs a document against the catalog schema API.
func (c *Client) ExecuteSchema(ctx context.Context, conn *models.Connection, catalogName string, req Request) (json.RawMessage, error) {
	return c.post(ctx, conn, catalogName, catalogURL(conn, catalogName)+"/schema", req)
}

func catalogURL(conn *models.Connection, catalogName string) string {
	return conn.GraphQLURL() + "/" + url.PathEscape(catalogName)
}

func (c *Client) post(ctx context.Context, conn *models.Connection, catalogName, endpoint string, req Request) (json.RawMessage, error) {
	scope := errs.Scope{Connection: conn.Name, Catalog: catalogName}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errs.UnexpectedWrap(scope, err, "encode GraphQL request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errs.UnexpectedWrap(scope, err, "build GraphQL request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/graphql-response+json, application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.GraphQLRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, errs.FromTransport(scope, "execute GraphQL query", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.GraphQLRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, errs.FromTransport(scope, "read GraphQL response", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	// evitaDB answers invalid documents with a 4xx status and a regular error envelope
	if decodeErr == nil && len(env.Errors) > 0 && resp.StatusCode < http.StatusInternalServerError {
		metrics.GraphQLRequestsTotal.WithLabelValues("graphql_error").Inc()
		c.logger.Debug("GraphQL query rejected", "connection", conn.Name, "catalog", catalogName, "errors", env.Errors.Error())
		return nil, errs.Query(scope, "%s", env.Errors.Error())
	}
	if resp.StatusCode/100 != 2 {
		metrics.GraphQLRequestsTotal.WithLabelValues("http_error").Inc()
		return nil, errs.FromHTTPStatus(scope, "execute GraphQL query", resp.StatusCode, string(raw))
	}
	if decodeErr != nil {
		metrics.GraphQLRequestsTotal.WithLabelValues("decode_error").Inc()
		return nil, errs.UnexpectedWrap(scope, decodeErr, "decode GraphQL response")
	}
	metrics.GraphQLRequestsTotal.WithLabelValues("ok").Inc()
	return env.Data, nil
}
