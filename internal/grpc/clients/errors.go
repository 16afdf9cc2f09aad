package clients

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	"github.com/platformbuilds/evitalab-core/internal/metrics"
)

// WrapError translates a gRPC failure into the lab error taxonomy. Callers above the
// driver only ever branch on errs kinds.
func WrapError(scope errs.Scope, operation string, err error) error {
	if err == nil {
		return nil
	}
	var labErr *errs.LabError
	if errors.As(err, &labErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Timeout(scope, err, operation)
	}
	st, ok := status.FromError(err)
	if !ok {
		return errs.UnexpectedWrap(scope, err, "%s failed", operation)
	}
	switch st.Code() {
	case codes.DeadlineExceeded:
		return errs.Timeout(scope, err, operation)
	case codes.Unavailable:
		return errs.Connectivity(scope, err, operation)
	case codes.Internal, codes.Unknown, codes.DataLoss:
		return errs.Server(scope, err, "%s failed on server", operation)
	case codes.InvalidArgument:
		return errs.Query(scope, "%s rejected: %s", operation, st.Message())
	default:
		return errs.UnexpectedWrap(scope, err, "%s failed", operation)
	}
}

// IsSessionGone reports whether the server no longer knows the session used for a call.
func IsSessionGone(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	return st.Code() == codes.Unauthenticated ||
		(st.Code() == codes.NotFound && strings.Contains(strings.ToLower(st.Message()), "session"))
}

func metricsInterceptor(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	start := time.Now()
	err := invoker(ctx, method, req, reply, cc, opts...)

	service := path.Base(path.Dir(method))
	name := path.Base(method)
	metrics.GRPCRequestsTotal.WithLabelValues(service, name, status.Code(err).String()).Inc()
	metrics.GRPCRequestDuration.WithLabelValues(service, name).Observe(time.Since(start).Seconds())
	return err
}
