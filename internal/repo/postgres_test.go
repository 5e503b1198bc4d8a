package repo

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/quickkart/internal/db"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("quickkart"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestGormRepo_Postgres(t *testing.T) {
	dsn := startPostgres(t)

	for _, driver := range []string{db.DriverPostgres, db.DriverPQ} {
		t.Run(driver, func(t *testing.T) {
			runRepoSuite(t, func(t *testing.T) *GormRepo {
				gdb, err := db.Open(context.Background(), driver, dsn)
				require.NoError(t, err)
				t.Cleanup(func() { _ = db.Close(gdb) })

				require.NoError(t, gdb.Exec("DROP TABLE IF EXISTS cart_items, users, products").Error)
				require.NoError(t, db.Migrate(gdb))
				return New(gdb)
			})
		})
	}
}

func TestIsUniqueViolation_DriverErrors(t *testing.T) {
	t.Parallel()

	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "42P01"}))
}
