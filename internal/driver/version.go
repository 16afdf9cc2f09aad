package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

// HTTPVersionFetcher reads the server version from the system API status endpoint.
type HTTPVersionFetcher struct {
	client *http.Client
}

func NewHTTPVersionFetcher(timeout time.Duration) *HTTPVersionFetcher {
	return &HTTPVersionFetcher{client: &http.Client{Timeout: timeout}}
}

type systemStatus struct {
	Version string `json:"version"`
}

func (f *HTTPVersionFetcher) FetchServerVersion(ctx context.Context, conn *models.Connection) (string, error) {
	scope := errs.Scope{Connection: conn.Name}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, conn.SystemURL()+"/status", nil)
	if err != nil {
		return "", errs.UnexpectedWrap(scope, err, "build server status request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errs.FromTransport(scope, "fetch server version", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errs.FromTransport(scope, "read server version", err)
	}
	if resp.StatusCode/100 != 2 {
		return "", errs.FromHTTPStatus(scope, "fetch server version", resp.StatusCode, string(body))
	}
	var status systemStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return "", errs.UnexpectedWrap(scope, err, "decode server status")
	}
	if status.Version == "" {
		return "", errs.DriverResolutionWrap(scope, fmt.Errorf("empty version"), "server did not report its version")
	}
	return status.Version, nil
}
