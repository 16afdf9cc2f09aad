package errs

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// FromTransport wraps a failed HTTP round trip (no response received).
func FromTransport(scope Scope, operation string, err error) error {
	var le *LabError
	if errors.As(err, &le) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(scope, err, operation)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout(scope, err, operation)
	}
	return Connectivity(scope, err, operation)
}

// FromHTTPStatus wraps a non-2xx HTTP response. 5xx statuses are server errors,
// anything else is unexpected for this client.
func FromHTTPStatus(scope Scope, operation string, statusCode int, body string) error {
	if statusCode >= http.StatusInternalServerError {
		return newErr(KindServer, scope, nil, "%s failed with status %d: %s", operation, statusCode, body)
	}
	return newErr(KindUnexpected, scope, nil, "%s failed with status %d: %s", operation, statusCode, body)
}
