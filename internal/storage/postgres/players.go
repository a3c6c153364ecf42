package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/oozu/internal/game/player"
)

// ErrPlayerNotFound is returned when a profile lookup yields no results.
var ErrPlayerNotFound = errors.New("player not found")

// PlayerRepository stores each profile as a JSONB document keyed by user id.
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a PlayerRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// LoadPlayers returns every stored profile keyed by user id.
//
// Postcondition: Returns an empty map when the table is empty.
func (r *PlayerRepository) LoadPlayers(ctx context.Context) (map[string]*player.Profile, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, profile FROM players`)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*player.Profile)
	for rows.Next() {
		var (
			userID string
			raw    []byte
		)
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, fmt.Errorf("scanning player row: %w", err)
		}
		var p player.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decoding player %q: %w", userID, err)
		}
		p.UserID = userID
		out[userID] = &p
	}
	return out, rows.Err()
}

// Get returns one stored profile.
//
// Postcondition: Returns the profile or ErrPlayerNotFound.
func (r *PlayerRepository) Get(ctx context.Context, userID string) (*player.Profile, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT profile FROM players WHERE user_id = $1`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("querying player: %w", err)
	}
	var p player.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding player %q: %w", userID, err)
	}
	return &p, nil
}

// SavePlayers replaces the stored set with profiles in one transaction.
//
// Postcondition: On success the table holds exactly the given profiles; on
// failure it is unchanged.
func (r *PlayerRepository) SavePlayers(ctx context.Context, profiles []*player.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning player save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding player %q: %w", p.UserID, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO players (user_id, profile) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = NOW()`,
			p.UserID, raw,
		); err != nil {
			return fmt.Errorf("upserting player %q: %w", p.UserID, err)
		}
		ids = append(ids, p.UserID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM players WHERE NOT (user_id = ANY($1))`, ids); err != nil {
		return fmt.Errorf("pruning players: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing player save: %w", err)
	}
	return nil
}
