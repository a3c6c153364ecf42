// Package testutil starts throwaway storage backends for tests.
package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/oozu/internal/config"
	"github.com/cory-johannsen/oozu/internal/storage/postgres"
)

// migrationsSource locates the repository's migrations directory relative to
// this file so tests run from any package directory.
func migrationsSource() string {
	_, file, _, _ := runtime.Caller(0)
	return "file://" + filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// NewPostgres starts a PostgreSQL container, applies the migrations, and
// returns a connected pool.
//
// Precondition: Docker must be available; the test is skipped under -short.
// Postcondition: The pool and container are released when the test ends.
func NewPostgres(t *testing.T) *postgres.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container skipped in -short mode")
	}
	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "oozu",
				"POSTGRES_PASSWORD": "oozu",
				"POSTGRES_DB":       "oozu_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	cfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "oozu",
		Password:        "oozu",
		Name:            "oozu_test",
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	version, err := postgres.Migrate(migrationsSource(), cfg)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("connecting to test postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	t.Logf("postgres ready at schema version %d [%s]", version, time.Since(start))
	return pool
}
