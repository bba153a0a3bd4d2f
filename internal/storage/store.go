// Package storage persists game snapshots.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbeisheim/movegen-backend/internal/config"
	"github.com/benbeisheim/movegen-backend/internal/model"
)

var ErrNotFound = errors.New("game not found in store")

// Snapshot is a saved game.
type Snapshot struct {
	State     model.GameState `json:"state"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, id string) (Snapshot, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open returns the store named by cfg.Driver.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "badger":
		return OpenBadger(cfg.Path)
	case "memory":
		return OpenBadger("")
	case "sqlite":
		return OpenSQLite(cfg.Path)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
