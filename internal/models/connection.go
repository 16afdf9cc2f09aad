package models

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Connection identifies one evitaDB server instance.
type Connection struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	ServerURL     string `json:"serverUrl" yaml:"serverUrl"`
	Preconfigured bool   `json:"preconfigured" yaml:"-"`
}

var preconfiguredNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://evitadb.io/lab/connections"))

// NewConnection creates a user-defined connection with a random id.
func NewConnection(name, serverURL string) (*Connection, error) {
	return newConnection(uuid.NewString(), name, serverURL, false)
}

// NewPreconfiguredConnection creates a connection injected by the operator. Its id
// is derived from the name so it stays stable across restarts.
func NewPreconfiguredConnection(id, name, serverURL string) (*Connection, error) {
	if id == "" {
		id = uuid.NewSHA1(preconfiguredNamespace, []byte(name)).String()
	}
	return newConnection(id, name, serverURL, true)
}

func newConnection(id, name, serverURL string, preconfigured bool) (*Connection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("connection name is required")
	}
	normalized, err := normalizeServerURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Connection{ID: id, Name: name, ServerURL: normalized, Preconfigured: preconfigured}, nil
}

func normalizeServerURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid server url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server url %q: missing host", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// SystemURL is the base of the system API (server status, version).
func (c *Connection) SystemURL() string {
	return c.baseURL() + "/system"
}

// GraphQLURL is the base of the GraphQL API; catalogs are addressed below it.
func (c *Connection) GraphQLURL() string {
	return c.baseURL() + "/gql"
}

func (c *Connection) RESTURL() string {
	return c.baseURL() + "/rest"
}

// GRPCTarget returns the host:port dial target of the gRPC API.
func (c *Connection) GRPCTarget() string {
	u, err := url.Parse(c.baseURL())
	if err != nil {
		return c.ServerURL
	}
	if u.Port() != "" {
		return u.Host
	}
	if u.Scheme == "https" {
		return net.JoinHostPort(u.Hostname(), "443")
	}
	return net.JoinHostPort(u.Hostname(), "80")
}

func (c *Connection) UsesTLS() bool {
	return strings.HasPrefix(c.baseURL(), "https://")
}

func (c *Connection) baseURL() string {
	// connections loaded from storage may predate normalization
	return strings.TrimRight(c.ServerURL, "/")
}
