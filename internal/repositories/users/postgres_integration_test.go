//go:build integration

package users_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/legaflow/internal/dbx"
	"github.com/dmitrijs2005/legaflow/internal/models"
	"github.com/dmitrijs2005/legaflow/internal/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("lega"),
		postgres.WithUsername("lega"),
		postgres.WithPassword("lega"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := repomanager.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db))
	return db
}

func TestUpsertAndGet_Postgres(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	rm := repomanager.NewPostgresRepositoryManager()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return rm.Users(tx).Upsert(ctx, &models.InboxUser{UserID: "1001", PasswordHash: "h1", PubKey: "p1", SecKey: "s1"})
	})
	require.NoError(t, err)

	require.NoError(t, rm.Users(db).Upsert(ctx, &models.InboxUser{UserID: "1001", PasswordHash: "h2", PubKey: "p2", SecKey: "s2"}))

	got, err := rm.Users(db).GetByUserID(ctx, "1001")
	require.NoError(t, err)
	require.Equal(t, "h2", got.PasswordHash)
	require.Equal(t, "p2", got.PubKey)
	require.Equal(t, "s2", got.SecKey)
}
