package store

import (
	"context"
	"fmt"

	"github.com/matzehuels/treetui/pkg/config"
)

// Open creates the backend selected by cfg.
func Open(ctx context.Context, cfg config.ServerConfig) (Store, error) {
	switch cfg.Store {
	case "", config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreSQLite:
		return NewSQLiteStore(ctx, cfg.DSN)
	case config.StoreMongo:
		return NewMongoStore(ctx, cfg.DSN, cfg.Database)
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}
