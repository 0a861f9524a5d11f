package persistence

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// IndexSet maps a collection name to the indexes it must carry.
type IndexSet map[string][]mongo.IndexModel

// EnsureIndexes creates the given indexes, collection by collection in name order.
// Creating an index that already exists with the same definition is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database, sets IndexSet, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no mongo database available; skipping index creation")
		return nil
	}

	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0
	for _, name := range names {
		models := sets[name]
		if len(models) == 0 {
			continue
		}
		created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		logger.Info("indexes ensured", zap.String("collection", name), zap.Strings("indexes", created))
		total += len(created)
	}

	logger.Info("index setup complete", zap.Int("count", total))
	return nil
}
