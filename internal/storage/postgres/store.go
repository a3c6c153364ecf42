package postgres

import "context"

// Store combines the player and quest repositories over one pool.
type Store struct {
	*PlayerRepository
	*QuestRepository
	pool *Pool
}

// NewStore wraps an open pool.
//
// Precondition: pool must be connected and migrated.
func NewStore(pool *Pool) *Store {
	return &Store{
		PlayerRepository: NewPlayerRepository(pool.DB()),
		QuestRepository:  NewQuestRepository(pool.DB()),
		pool:             pool,
	}
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Health(ctx, pingTimeout)
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
