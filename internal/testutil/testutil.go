// Package testutil provides helpers for integration tests that need a
// real PostgreSQL or Redis instance. Tests using these helpers skip
// themselves when the backing service is not configured.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkstash/linkstash/internal/cache"
	"github.com/linkstash/linkstash/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 530530

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// SetupRepository connects to TEST_DATABASE_URL, applies migrations,
// and empties all tables. Skips the test when the variable is unset.
func SetupRepository(t testing.TB) *repository.Repository {
	t.Helper()
	ctx := context.Background()

	databaseURL := RequireEnv(t, "TEST_DATABASE_URL")

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}
	t.Cleanup(repo.Close)

	if err := repository.Migrate(ctx, databaseURL); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	unlock, err := AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire test lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("release test lock: %v", err)
		}
	})

	if _, err := repo.Pool().Exec(ctx, "TRUNCATE users, categories, links RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return repo
}

// SetupCache connects to TEST_REDIS_URL and flushes it. Skips the test
// when the variable is unset.
func SetupCache(t testing.TB) *cache.Cache {
	t.Helper()
	ctx := context.Background()

	redisURL := RequireEnv(t, "TEST_REDIS_URL")

	c, err := cache.New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect to test Redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := c.FlushAll(ctx); err != nil {
		t.Fatalf("flush test Redis: %v", err)
	}

	return c
}
