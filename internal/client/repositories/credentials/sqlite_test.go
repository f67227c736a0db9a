package credentials

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"mpcconsole/internal/common"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:creds?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  user_id       TEXT PRIMARY KEY,
  password_hash TEXT NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSetGetDelete(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "u1", "$argon2id$..."))

	hash, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "$argon2id$...", hash)

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err = repo.Get(ctx, "u1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSet_ReplacesExistingHash(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "u1", "old"))
	require.NoError(t, repo.Set(ctx, "u1", "new"))

	hash, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "new", hash)
}

func TestGet_Unknown(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}
