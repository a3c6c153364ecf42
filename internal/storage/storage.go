// Package storage selects the persistence backend for player profiles and quests.
package storage

//go:generate mockgen -destination=mock/store.go -package=mock github.com/cory-johannsen/oozu/internal/storage Store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/oozu/internal/config"
	"github.com/cory-johannsen/oozu/internal/game/player"
	"github.com/cory-johannsen/oozu/internal/game/quest"
	"github.com/cory-johannsen/oozu/internal/storage/jsonfile"
	"github.com/cory-johannsen/oozu/internal/storage/postgres"
	"github.com/cory-johannsen/oozu/internal/storage/redis"
)

// PlayerStore loads and saves whole-registry snapshots of player profiles.
type PlayerStore interface {
	LoadPlayers(ctx context.Context) (map[string]*player.Profile, error)
	SavePlayers(ctx context.Context, profiles []*player.Profile) error
}

// Store is implemented by every backend.
type Store interface {
	PlayerStore
	quest.Store
	Close() error
}

// Open connects the backend named by cfg.Store.Backend.
//
// Precondition: cfg must have passed Validate.
// Postcondition: Returns a ready Store or a non-nil error.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendJSON:
		logger.Info("using json store", zap.String("path", cfg.Store.Path))
		return jsonfile.New(cfg.Store.Path, logger), nil
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		logger.Info("using postgres store",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Name),
		)
		return postgres.NewStore(pool), nil
	case config.BackendRedis:
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("opening redis store: %w", err)
		}
		s := redis.New(client, cfg.Redis.KeyPrefix)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("pinging redis: %w", err)
		}
		logger.Info("using redis store", zap.String("addr", cfg.Redis.Addr))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
