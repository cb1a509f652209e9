package database

import (
	"context"
	"testing"
	"time"

	"nursery/internal/config"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a PostgreSQL testcontainer and returns a config pointing at it.
func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("nursery"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "postgres",
		Password:        "postgres",
		Database:        "nursery",
		MaxConnections:  5,
		MinConnections:  1,
		MaxConnLifetime: 300,
	}
}

func TestNewPool_Success(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	cfg := startPostgres(t)
	ctx := context.Background()

	pool, err := NewPool(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, pool)
	defer pool.Close()

	assert.NoError(t, pool.Ping(ctx))
	assert.Equal(t, int32(5), pool.Config().MaxConns)
	assert.Equal(t, int32(1), pool.Config().MinConns)
	assert.Equal(t, 300*time.Second, pool.Config().MaxConnLifetime)
}

func TestNewPool_Errors(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.DatabaseConfig
		errMatch string
	}{
		{
			name: "Invalid host",
			cfg: config.DatabaseConfig{
				Host: "bad host", Port: 5432, User: "postgres", Database: "nursery",
				MaxConnections: 1,
			},
			errMatch: "failed to parse database config",
		},
		{
			name: "Cannot connect to database",
			cfg: config.DatabaseConfig{
				Host: "127.0.0.1", Port: 1, User: "postgres", Database: "nursery",
				MaxConnections: 1,
			},
			errMatch: "failed to ping database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			pool, err := NewPool(ctx, tt.cfg, zerolog.Nop())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMatch)
			assert.Nil(t, pool)
		})
	}
}

func TestEnsureSchema(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	cfg := startPostgres(t)
	ctx := context.Background()

	pool, err := NewPool(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, EnsureSchema(ctx, pool, zerolog.Nop()))

	t.Run("Idempotent", func(t *testing.T) {
		require.NoError(t, EnsureSchema(ctx, pool, zerolog.Nop()))
	})

	t.Run("Defaults", func(t *testing.T) {
		var inStock bool
		var createdAt, updatedAt time.Time
		err := pool.QueryRow(ctx,
			`INSERT INTO plants (name, image, price) VALUES ('Fern', 'fern.jpg', 9.99)
			 RETURNING is_in_stock, created_at, updated_at`,
		).Scan(&inStock, &createdAt, &updatedAt)
		require.NoError(t, err)

		assert.True(t, inStock)
		assert.False(t, createdAt.IsZero())
		assert.Equal(t, createdAt, updatedAt)
	})

	constraints := []struct {
		name     string
		query    string
		wantCode string
	}{
		{
			name:     "Duplicate name",
			query:    `INSERT INTO plants (name, image, price) VALUES ('Fern', 'other.jpg', 1)`,
			wantCode: "23505",
		},
		{
			name:     "Empty name",
			query:    `INSERT INTO plants (name, image, price) VALUES ('', 'x.jpg', 1)`,
			wantCode: "23514",
		},
		{
			name:     "Empty image",
			query:    `INSERT INTO plants (name, image, price) VALUES ('Aloe', '', 1)`,
			wantCode: "23514",
		},
		{
			name:     "Missing price",
			query:    `INSERT INTO plants (name, image) VALUES ('Aloe', 'aloe.jpg')`,
			wantCode: "23502",
		},
	}

	for _, tt := range constraints {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pool.Exec(ctx, tt.query)

			require.Error(t, err)
			var pgErr *pgconn.PgError
			require.ErrorAs(t, err, &pgErr)
			assert.Equal(t, tt.wantCode, pgErr.Code)
		})
	}
}

func TestEnsureSchema_ClosedPool(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	cfg := startPostgres(t)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.ConnectionString())
	require.NoError(t, err)
	pool.Close()

	err = EnsureSchema(ctx, pool, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create schema")
}
