package clients

import (
	"context"
	"crypto/tls"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	pb "github.com/platformbuilds/evitalab-core/internal/grpc/evitapb"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// Option customizes EvitaClients.
type Option func(*EvitaClients)

// WithDialOptions appends dial options to every connection (tests use a bufconn dialer).
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *EvitaClients) { c.dialOpts = append(c.dialOpts, opts...) }
}

// WithTarget overrides how the dial target is derived from a connection.
func WithTarget(fn func(*models.Connection) string) Option {
	return func(c *EvitaClients) { c.target = fn }
}

// EvitaClients holds one gRPC client connection per evitaDB connection, dialed lazily.
type EvitaClients struct {
	mu       sync.Mutex
	conns    map[string]*EvitaConn
	timeout  time.Duration
	dialOpts []grpc.DialOption
	target   func(*models.Connection) string
	logger   logger.Logger
}

func NewEvitaClients(timeout time.Duration, log logger.Logger, opts ...Option) *EvitaClients {
	c := &EvitaClients{
		conns:   make(map[string]*EvitaConn),
		timeout: timeout,
		target:  (*models.Connection).GRPCTarget,
		logger:  log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the client for the connection, dialing it on first use.
func (c *EvitaClients) Get(conn *models.Connection) (*EvitaConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ec, ok := c.conns[conn.ID]; ok {
		return ec, nil
	}

	creds := insecure.NewCredentials()
	if conn.UsesTLS() {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(pb.Codec{})),
		grpc.WithChainUnaryInterceptor(metricsInterceptor),
	}, c.dialOpts...)

	cc, err := grpc.NewClient(c.target(conn), opts...)
	if err != nil {
		return nil, errs.Connectivity(errs.Scope{Connection: conn.Name}, err, "dial gRPC API")
	}
	ec := &EvitaConn{
		connection: conn,
		conn:       cc,
		Evita:      pb.NewEvitaServiceClient(cc),
		Session:    pb.NewEvitaSessionServiceClient(cc),
		Management: pb.NewEvitaManagementServiceClient(cc),
		sessions:   make(map[string]string),
		timeout:    c.timeout,
		logger:     c.logger,
	}
	c.conns[conn.ID] = ec
	c.logger.Debug("gRPC client created", "connection", conn.Name, "target", c.target(conn))
	return ec, nil
}

// Remove closes and forgets the client of a removed connection.
func (c *EvitaClients) Remove(connectionID string) {
	c.mu.Lock()
	ec, ok := c.conns[connectionID]
	delete(c.conns, connectionID)
	c.mu.Unlock()
	if ok {
		if err := ec.conn.Close(); err != nil {
			c.logger.Warn("failed to close gRPC client", "connection", connectionID, "error", err)
		}
	}
}

func (c *EvitaClients) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for id, ec := range c.conns {
		if err := ec.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.conns, id)
	}
	return firstErr
}

// EvitaConn is the gRPC client of one evitaDB server. Session service calls need
// a session id, which is opened per catalog and cached.
type EvitaConn struct {
	connection *models.Connection
	conn       *grpc.ClientConn
	Evita      pb.EvitaServiceClient
	Session    pb.EvitaSessionServiceClient
	Management pb.EvitaManagementServiceClient

	mu       sync.Mutex
	sessions map[string]string
	timeout  time.Duration
	logger   logger.Logger
}

// Call bounds a single call by the configured timeout.
func (e *EvitaConn) Call(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

// ReadOnlySession returns ctx carrying the id of a read-only session on the catalog.
func (e *EvitaConn) ReadOnlySession(ctx context.Context, catalogName string) (context.Context, error) {
	e.mu.Lock()
	sessionID, ok := e.sessions[catalogName]
	e.mu.Unlock()
	if !ok {
		resp, err := e.Evita.CreateReadOnlySession(ctx, &pb.GrpcEvitaSessionRequest{CatalogName: catalogName})
		if err != nil {
			return nil, WrapError(e.scope(catalogName), "create read-only session", err)
		}
		sessionID = resp.SessionId
		// a concurrent opener may have won; either session is valid
		e.mu.Lock()
		e.sessions[catalogName] = sessionID
		e.mu.Unlock()
	}
	return metadata.AppendToOutgoingContext(ctx, pb.SessionIDMetadataKey, sessionID), nil
}

// InvalidateSession drops the cached session so the next call opens a new one.
func (e *EvitaConn) InvalidateSession(catalogName string) {
	e.mu.Lock()
	delete(e.sessions, catalogName)
	e.mu.Unlock()
}

// InvalidateAllSessions is used when catalogs get renamed or dropped.
func (e *EvitaConn) InvalidateAllSessions() {
	e.mu.Lock()
	e.sessions = make(map[string]string)
	e.mu.Unlock()
}

// WithReadWriteSession opens a read-write session, runs fn with the session id in
// the context and closes the session afterwards.
func (e *EvitaConn) WithReadWriteSession(ctx context.Context, catalogName string, fn func(ctx context.Context) error) error {
	resp, err := e.Evita.CreateReadWriteSession(ctx, &pb.GrpcEvitaSessionRequest{CatalogName: catalogName})
	if err != nil {
		return WrapError(e.scope(catalogName), "create read-write session", err)
	}
	sessionCtx := metadata.AppendToOutgoingContext(ctx, pb.SessionIDMetadataKey, resp.SessionId)
	fnErr := fn(sessionCtx)
	if _, err := e.Session.Close(sessionCtx, &emptypb.Empty{}); err != nil {
		e.logger.Warn("failed to close read-write session", "catalog", catalogName, "session", resp.SessionId, "error", err)
	}
	return fnErr
}

func (e *EvitaConn) scope(catalogName string) errs.Scope {
	return errs.Scope{Connection: e.connection.Name, Catalog: catalogName}
}
