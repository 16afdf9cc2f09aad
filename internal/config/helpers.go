package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetDriverTimeout returns the gRPC call timeout for evitaDB drivers
func (c *Config) GetDriverTimeout() time.Duration {
	return millis(c.Driver.Timeout, DefaultDriverTimeout)
}

// GetVersionTimeout bounds the server version probe done during driver resolution
func (c *Config) GetVersionTimeout() time.Duration {
	return millis(c.Driver.VersionTimeout, DefaultVersionTimeout)
}

// GetGraphQLTimeout returns the HTTP timeout for GraphQL requests
func (c *Config) GetGraphQLTimeout() time.Duration {
	return millis(c.GraphQL.Timeout, DefaultGraphQLTimeout)
}

// GetCacheTTL returns the cache TTL as a duration; zero means no expiry
func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

func millis(v, fallback int) time.Duration {
	if v == 0 {
		v = fallback
	}
	return time.Duration(v) * time.Millisecond
}

// ValidateEndpoints validates all configured endpoints
func (c *Config) ValidateEndpoints() error {
	for _, conn := range c.Connections.Preconfigured {
		if err := ValidateEndpoint(conn.ServerURL); err != nil {
			return fmt.Errorf("invalid evitaDB server URL %s: %w", conn.ServerURL, err)
		}
	}

	for _, node := range c.Cache.Nodes {
		if err := ValidateValkeyNode(node); err != nil {
			return fmt.Errorf("invalid Valkey node %s: %w", node, err)
		}
	}

	if c.Monitoring.TracingEnabled {
		if err := ValidateGRPCEndpoint(c.Monitoring.TracingEndpoint); err != nil {
			return fmt.Errorf("invalid tracing endpoint: %w", err)
		}
	}

	return nil
}

// ToJSON converts configuration to JSON string (for debugging)
func (c *Config) ToJSON() string {
	// Create a copy without sensitive information
	safeCopy := *c
	if safeCopy.Cache.Password != "" {
		safeCopy.Cache.Password = "[REDACTED]"
	}

	jsonBytes, _ := json.MarshalIndent(safeCopy, "", "  ")
	return string(jsonBytes)
}
