package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// ConnectionStore persists user defined connections. Preconfigured connections
// come from configuration and are never stored.
type ConnectionStore interface {
	LoadConnections(ctx context.Context) ([]*models.Connection, error)
	SaveConnection(ctx context.Context, conn *models.Connection) error
	DeleteConnection(ctx context.Context, id string) error
}

type valkeyConnectionStore struct {
	valkey Valkey
	key    string
	logger logger.Logger
}

// NewConnectionStore keeps connections as JSON values of one Valkey hash
// addressed by key, one field per connection id.
func NewConnectionStore(v Valkey, key string, log logger.Logger) ConnectionStore {
	return &valkeyConnectionStore{valkey: v, key: key, logger: log}
}

func (s *valkeyConnectionStore) LoadConnections(ctx context.Context) ([]*models.Connection, error) {
	raw, err := s.valkey.HGetAll(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}
	out := make([]*models.Connection, 0, len(raw))
	for id, b := range raw {
		var c models.Connection
		if err := json.Unmarshal(b, &c); err != nil {
			s.logger.Warn("skipping unreadable stored connection", "id", id, "error", err)
			continue
		}
		c.Preconfigured = false
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *valkeyConnectionStore) SaveConnection(ctx context.Context, conn *models.Connection) error {
	if conn.Preconfigured {
		return fmt.Errorf("preconfigured connection %q cannot be stored", conn.Name)
	}
	b, err := json.Marshal(conn)
	if err != nil {
		return fmt.Errorf("marshal connection %s: %w", conn.ID, err)
	}
	if err := s.valkey.HSet(ctx, s.key, conn.ID, b); err != nil {
		return fmt.Errorf("save connection %s: %w", conn.ID, err)
	}
	return nil
}

func (s *valkeyConnectionStore) DeleteConnection(ctx context.Context, id string) error {
	if err := s.valkey.HDel(ctx, s.key, id); err != nil {
		return fmt.Errorf("delete connection %s: %w", id, err)
	}
	return nil
}
