// Package gameserver exposes every player-facing game operation. Mutations are
// serialized through one concurrency guard and persisted before it is released.
package gameserver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/oozu/internal/config"
	"github.com/cory-johannsen/oozu/internal/game/assets"
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
	"github.com/cory-johannsen/oozu/internal/game/guard"
	"github.com/cory-johannsen/oozu/internal/game/player"
	"github.com/cory-johannsen/oozu/internal/game/quest"
	"github.com/cory-johannsen/oozu/internal/storage"
)

// Settings tunes new profiles and starter selection.
type Settings struct {
	StartingCurrency int
	MaxStamina       int
	StarterChoices   int
}

// SettingsFromConfig copies the economy fields of cfg.
func SettingsFromConfig(cfg config.GameConfig) Settings {
	return Settings{
		StartingCurrency: cfg.StartingCurrency,
		MaxStamina:       cfg.MaxStamina,
		StarterChoices:   cfg.StarterChoices,
	}
}

// GameService owns the player registry and the hunting quest engine.
type GameService struct {
	guard    *guard.Guard
	players  *player.Registry
	store    storage.PlayerStore
	catalog  *catalog.Catalog
	roller   *dice.Roller
	quests   *quest.Engine
	settings Settings
	logger   *zap.Logger
}

// NewGameService creates a GameService with an empty registry.
//
// Precondition: every argument except questStore must be non-nil. A nil
// questStore keeps quests in memory only.
// Postcondition: Returns a GameService ready for Load.
func NewGameService(
	cat *catalog.Catalog,
	store storage.PlayerStore,
	questStore quest.Store,
	sampler assets.Sampler,
	roller *dice.Roller,
	settings Settings,
	logger *zap.Logger,
) *GameService {
	s := &GameService{
		guard:    guard.New(),
		players:  player.NewRegistry(nil),
		store:    store,
		catalog:  cat,
		roller:   roller,
		settings: settings,
		logger:   logger,
	}
	s.quests = quest.NewEngine(s.guard, s.players, cat, roller, sampler, s.persistLocked, questStore, logger.Named("quest"))
	return s
}

// Load reads every stored profile into the registry, then restores quests.
//
// Postcondition: Loaded profiles are normalized; a profile without a stamina
// cap receives the configured maximum at full stamina.
func (s *GameService) Load(ctx context.Context) error {
	err := s.guard.Do(ctx, func() error {
		profiles, err := s.store.LoadPlayers(ctx)
		if err != nil {
			return fmt.Errorf("loading players: %w", err)
		}
		for _, p := range profiles {
			if p.MaxStamina <= 0 {
				p.MaxStamina = s.settings.MaxStamina
				p.Stamina = p.MaxStamina
			}
			if p.Inventory == nil {
				p.Inventory = player.Inventory{}
			}
			p.NormalizeVitals(s.catalog)
			if err := s.players.Add(p); err != nil {
				return err
			}
		}
		s.logger.Info("players loaded", zap.Int("count", len(profiles)))
		return nil
	})
	if err != nil {
		return err
	}
	return s.quests.Restore(ctx)
}

// Catalog returns the immutable template and item catalog.
func (s *GameService) Catalog() *catalog.Catalog {
	return s.catalog
}

// persistLocked writes the whole registry.
//
// Precondition: the caller holds the guard.
func (s *GameService) persistLocked(ctx context.Context) error {
	if err := s.store.SavePlayers(ctx, s.players.Snapshot()); err != nil {
		s.logger.Error("persisting players", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// mutate runs fn under the guard and persists when fn succeeds.
func (s *GameService) mutate(ctx context.Context, op, userID string, fn func() error) error {
	err := s.guard.Do(ctx, func() error {
		if err := fn(); err != nil {
			return err
		}
		return s.persistLocked(ctx)
	})
	s.logOutcome(op, userID, err)
	return err
}

func (s *GameService) logOutcome(op, userID string, err error) {
	fields := []zap.Field{zap.String("op", op), zap.String("user_id", userID)}
	switch {
	case err == nil:
		s.logger.Info("game operation", fields...)
	case errors.Is(err, ErrPersist):
		// already logged by persistLocked
	default:
		s.logger.Warn("game operation rejected", append(fields, zap.Error(err))...)
	}
}

// profileLocked returns the live profile.
//
// Precondition: the caller holds the guard.
func (s *GameService) profileLocked(userID string) (*player.Profile, error) {
	p, ok := s.players.Get(userID)
	if !ok {
		return nil, ErrNotRegistered
	}
	return p, nil
}

// creatureAt returns the creature at index on p.
func creatureAt(p *player.Profile, index int) (*player.Oozu, error) {
	if index < 0 || index >= len(p.Oozu) {
		return nil, ErrOozuUnavailable
	}
	return &p.Oozu[index], nil
}

// GetPlayer returns a copy of the player's profile.
//
// Postcondition: ok is false when the player is not registered.
func (s *GameService) GetPlayer(ctx context.Context, userID string) (p *player.Profile, ok bool, err error) {
	err = s.guard.Do(ctx, func() error {
		live, found := s.players.Get(userID)
		if found {
			p, ok = live.Clone(), true
		}
		return nil
	})
	return p, ok, err
}

// ListPlayerOozu returns copies of the player's creatures in roster order.
func (s *GameService) ListPlayerOozu(ctx context.Context, userID string) ([]player.Oozu, error) {
	p, ok, err := s.GetPlayer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return p.Oozu, nil
}

// ListInventory returns the player's items sorted by id.
func (s *GameService) ListInventory(ctx context.Context, userID string) ([]player.Entry, error) {
	p, ok, err := s.GetPlayer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return p.Inventory.Entries(), nil
}

// ListPlayers returns copies of every profile sorted by user id.
func (s *GameService) ListPlayers(ctx context.Context) ([]*player.Profile, error) {
	return guard.With(ctx, s.guard, func() ([]*player.Profile, error) {
		snap := s.players.Snapshot()
		out := make([]*player.Profile, len(snap))
		for i, p := range snap {
			out[i] = p.Clone()
		}
		return out, nil
	})
}
