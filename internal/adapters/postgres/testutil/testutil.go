package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	postgres "github.com/tourvisto/trip-admin-api/internal/adapters/postgres"
	"github.com/tourvisto/trip-admin-api/internal/adapters/postgres/migrations"
)

// OpenMigratedPool starts a throwaway postgres container, applies migrations and returns a pool.
// The test is skipped under -short or when no container runtime is reachable.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres contract tests skipped in -short mode")
	}
	ctx := context.Background()

	var (
		container *tcpostgres.PostgresContainer
		err       error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("container runtime unavailable: %v", r)
			}
		}()
		container, err = tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("trips"),
			tcpostgres.WithUsername("trips"),
			tcpostgres.WithPassword("trips"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
	}()
	if err != nil {
		t.Skipf("container runtime unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	if err := migrations.Up(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 4})
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
