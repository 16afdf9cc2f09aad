package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type preconfiguredFile struct {
	Connections []PreconfiguredConnection `yaml:"connections"`
}

// LoadPreconfiguredConnections reads a connections file. Both a bare list and
// a document with a top-level `connections` list are accepted; JSON input
// parses as well since it is valid YAML.
func LoadPreconfiguredConnections(path string) ([]PreconfiguredConnection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat preconfigured connections file: %w", err)
	}
	if info.Size() > MaxPreconfiguredFileSize {
		return nil, fmt.Errorf("preconfigured connections file %s exceeds %d bytes", path, MaxPreconfiguredFileSize)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preconfigured connections file: %w", err)
	}
	return ParsePreconfiguredConnections(raw)
}

// ParsePreconfiguredConnections decodes and validates connection definitions
func ParsePreconfiguredConnections(raw []byte) ([]PreconfiguredConnection, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse preconfigured connections: %w", err)
	}
	if len(doc.Content) == 0 {
		return []PreconfiguredConnection{}, nil
	}

	var conns []PreconfiguredConnection
	switch doc.Content[0].Kind {
	case yaml.SequenceNode:
		if err := doc.Content[0].Decode(&conns); err != nil {
			return nil, fmt.Errorf("failed to decode preconfigured connections: %w", err)
		}
	case yaml.MappingNode:
		var wrapped preconfiguredFile
		if err := doc.Content[0].Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode preconfigured connections: %w", err)
		}
		conns = wrapped.Connections
	default:
		return nil, fmt.Errorf("preconfigured connections must be a list")
	}

	for i := range conns {
		conns[i].Name = strings.TrimSpace(conns[i].Name)
		conns[i].ServerURL = strings.TrimSpace(conns[i].ServerURL)
	}
	if err := validatePreconfigured(conns); err != nil {
		return nil, err
	}
	if conns == nil {
		conns = []PreconfiguredConnection{}
	}
	return conns, nil
}

// PreconfiguredConnections merges inline connections with the ones from
// PreconfiguredFile. Inline entries win on name clashes.
func (c *Config) PreconfiguredConnections() ([]PreconfiguredConnection, error) {
	result := append([]PreconfiguredConnection{}, c.Connections.Preconfigured...)
	if c.Connections.PreconfiguredFile == "" {
		return result, nil
	}

	fromFile, err := LoadPreconfiguredConnections(c.Connections.PreconfiguredFile)
	if err != nil {
		return nil, err
	}
	return MergePreconfigured(result, fromFile), nil
}

// MergePreconfigured appends extra connections whose names are not taken yet
func MergePreconfigured(base, extra []PreconfiguredConnection) []PreconfiguredConnection {
	seen := make(map[string]bool, len(base))
	for _, conn := range base {
		seen[strings.ToLower(conn.Name)] = true
	}
	for _, conn := range extra {
		if seen[strings.ToLower(conn.Name)] {
			continue
		}
		seen[strings.ToLower(conn.Name)] = true
		base = append(base, conn)
	}
	return base
}

func validatePreconfigured(conns []PreconfiguredConnection) error {
	names := make(map[string]bool, len(conns))
	for i, conn := range conns {
		if conn.Name == "" {
			return fmt.Errorf("preconfigured connection #%d has no name", i)
		}
		if err := ValidateEndpoint(conn.ServerURL); err != nil {
			return fmt.Errorf("preconfigured connection %q: %w", conn.Name, err)
		}
		key := strings.ToLower(conn.Name)
		if names[key] {
			return fmt.Errorf("duplicate preconfigured connection name %q", conn.Name)
		}
		names[key] = true
	}
	return nil
}
