package gqlclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *models.Connection {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	conn, err := models.NewConnection("local", srv.URL)
	require.NoError(t, err)
	return conn
}

func TestClient_ExecutePostsToCatalogEndpoint(t *testing.T) {
	var gotPath string
	var gotReq Request
	conn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"queryProduct":{"recordPage":{"totalRecordCount":0,"data":[]}}}}`))
	})

	c := NewClient(time.Second, logger.NewNop())
	data, err := c.Execute(context.Background(), conn, "evita", Request{Query: "{ queryProduct { recordPage { totalRecordCount } } }"})
	require.NoError(t, err)
	assert.Equal(t, "/gql/evita", gotPath)
	assert.Contains(t, gotReq.Query, "queryProduct")
	assert.JSONEq(t, `{"queryProduct":{"recordPage":{"totalRecordCount":0,"data":[]}}}`, string(data))
}

func TestClient_ExecuteSchemaUsesSchemaEndpoint(t *testing.T) {
	var gotPath string
	conn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	_, err := NewClient(time.Second, logger.NewNop()).ExecuteSchema(context.Background(), conn, "evita", Request{Query: "{ getCatalogSchema { name } }"})
	require.NoError(t, err)
	assert.Equal(t, "/gql/evita/schema", gotPath)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    errs.Kind
		message string
	}{
		{
			name:    "validation errors",
			status:  http.StatusBadRequest,
			body:    `{"errors":[{"message":"Field 'foo' in type 'Product' is undefined"}]}`,
			kind:    errs.KindQuery,
			message: "Field 'foo'",
		},
		{
			name:    "errors with ok status",
			status:  http.StatusOK,
			body:    `{"data":null,"errors":[{"message":"unknown catalog"}]}`,
			kind:    errs.KindQuery,
			message: "unknown catalog",
		},
		{
			name:   "bad gateway",
			status: http.StatusBadGateway,
			body:   `upstream down`,
			kind:   errs.KindServer,
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `no such endpoint`,
			kind:   errs.KindUnexpected,
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `<html>`,
			kind:   errs.KindUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := NewClient(time.Second, logger.NewNop()).Execute(context.Background(), conn, "evita", Request{Query: "{}"})
			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err))
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestClient_UnreachableServerIsConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	conn, err := models.NewConnection("gone", srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = NewClient(time.Second, logger.NewNop()).Execute(context.Background(), conn, "evita", Request{Query: "{}"})
	require.Error(t, err)
	assert.Equal(t, errs.KindConnectivity, errs.KindOf(err))
}
