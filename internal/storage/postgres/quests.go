package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/oozu/internal/game/quest"
)

// QuestRepository stores active quests as JSONB documents, one per player.
type QuestRepository struct {
	db *pgxpool.Pool
}

// NewQuestRepository creates a QuestRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewQuestRepository(db *pgxpool.Pool) *QuestRepository {
	return &QuestRepository{db: db}
}

// LoadQuests returns every stored quest keyed by user id.
func (r *QuestRepository) LoadQuests(ctx context.Context) (map[string]*quest.Quest, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, state FROM quests`)
	if err != nil {
		return nil, fmt.Errorf("listing quests: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*quest.Quest)
	for rows.Next() {
		var (
			userID string
			raw    []byte
		)
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, fmt.Errorf("scanning quest row: %w", err)
		}
		var q quest.Quest
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("decoding quest for %q: %w", userID, err)
		}
		out[userID] = &q
	}
	return out, rows.Err()
}

// SaveQuests replaces the stored quests with the snapshot.
//
// Postcondition: On success the table holds exactly one row per given quest.
func (r *QuestRepository) SaveQuests(ctx context.Context, quests []*quest.Quest) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning quest save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM quests`); err != nil {
		return fmt.Errorf("clearing quests: %w", err)
	}
	for _, q := range quests {
		raw, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("encoding quest %q: %w", q.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO quests (user_id, quest_id, state) VALUES ($1, $2, $3)`,
			q.UserID, q.ID, raw,
		); err != nil {
			return fmt.Errorf("inserting quest %q: %w", q.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing quest save: %w", err)
	}
	return nil
}
