// Package redis persists player profiles and quests as JSON values in Redis hashes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/oozu/internal/config"
	"github.com/cory-johannsen/oozu/internal/game/player"
	"github.com/cory-johannsen/oozu/internal/game/quest"
)

// Store keeps players under "<prefix>:players" and quests under
// "<prefix>:quests", one hash field per user id.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

// NewClient builds a client from configuration. Redis connects lazily.
//
// Precondition: cfg.Addr must be non-empty.
func NewClient(cfg config.RedisConfig) (goredis.UniversalClient, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: addr is required")
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}), nil
}

// New wraps client. An empty prefix defaults to "oozu".
func New(client goredis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "oozu"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) playersKey() string { return s.prefix + ":players" }
func (s *Store) questsKey() string  { return s.prefix + ":quests" }

// LoadPlayers reads every profile.
func (s *Store) LoadPlayers(ctx context.Context) (map[string]*player.Profile, error) {
	fields, err := s.client.HGetAll(ctx, s.playersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("reading players: %w", err)
	}
	out := make(map[string]*player.Profile, len(fields))
	for userID, raw := range fields {
		var p player.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decoding player %q: %w", userID, err)
		}
		p.UserID = userID
		out[userID] = &p
	}
	return out, nil
}

// GetPlayer reads a single profile.
//
// Postcondition: ok is false when no profile is stored for userID.
func (s *Store) GetPlayer(ctx context.Context, userID string) (p *player.Profile, ok bool, err error) {
	raw, err := s.client.HGet(ctx, s.playersKey(), userID).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading player %q: %w", userID, err)
	}
	p = &player.Profile{}
	if err := json.Unmarshal([]byte(raw), p); err != nil {
		return nil, false, fmt.Errorf("decoding player %q: %w", userID, err)
	}
	return p, true, nil
}

// SavePlayers replaces the players hash atomically.
func (s *Store) SavePlayers(ctx context.Context, profiles []*player.Profile) error {
	values := make(map[string]any, len(profiles))
	for _, p := range profiles {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding player %q: %w", p.UserID, err)
		}
		values[p.UserID] = raw
	}
	return s.replace(ctx, s.playersKey(), values)
}

// LoadQuests reads the quest snapshot.
func (s *Store) LoadQuests(ctx context.Context) (map[string]*quest.Quest, error) {
	fields, err := s.client.HGetAll(ctx, s.questsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("reading quests: %w", err)
	}
	out := make(map[string]*quest.Quest, len(fields))
	for userID, raw := range fields {
		var q quest.Quest
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, fmt.Errorf("decoding quest for %q: %w", userID, err)
		}
		out[userID] = &q
	}
	return out, nil
}

// SaveQuests replaces the quest hash atomically.
func (s *Store) SaveQuests(ctx context.Context, quests []*quest.Quest) error {
	values := make(map[string]any, len(quests))
	for _, q := range quests {
		raw, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("encoding quest %q: %w", q.ID, err)
		}
		values[q.UserID] = raw
	}
	return s.replace(ctx, s.questsKey(), values)
}

// Ping reports whether the server answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) replace(ctx context.Context, key string, values map[string]any) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(values) > 0 {
		pipe.HSet(ctx, key, values)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
