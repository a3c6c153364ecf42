// Package postgres persists player profiles and quests in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/oozu/internal/config"
)

// pingTimeout bounds Store.Ping.
const pingTimeout = 3 * time.Second

// Pool owns the connection pool shared by the player and quest repositories.
type Pool struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPool connects to the database named by cfg and verifies it answers.
//
// Precondition: cfg must have passed config validation; logger must be non-nil.
// Postcondition: Returns a pinged Pool or a non-nil error. No connection is
// left open on error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	start := time.Now()
	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	logger.Debug("postgres pool ready",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Int32("max_conns", cfg.MaxConns),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Pool{db: db, logger: logger}, nil
}

// Health pings the database, giving up after timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.db.Ping(ctx)
}

// Close releases every connection.
//
// Postcondition: The pool is no longer usable.
func (p *Pool) Close() {
	stat := p.db.Stat()
	p.logger.Debug("closing postgres pool",
		zap.Int32("total_conns", stat.TotalConns()),
		zap.Int64("acquires", stat.AcquireCount()),
	)
	p.db.Close()
}

// DB returns the underlying pgxpool.Pool for the repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.db
}

// Migrate applies every pending migration under source (a golang-migrate
// source URL such as "file://migrations") and returns the resulting version.
//
// Postcondition: The schema is at the latest version, or an error is returned.
func Migrate(source string, cfg config.DatabaseConfig) (uint, error) {
	m, err := migrate.New(source, cfg.DSN())
	if err != nil {
		return 0, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrating up: %w", err)
	}
	version, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}
