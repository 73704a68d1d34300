package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec("CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)")
	require.NoError(t, err)
	return db
}

func TestWithTxCommits(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := WithTx(ctx, db, func(ctx context.Context, tx Handle) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO kv (k, v) VALUES ('a', '1')")
		return err
	})
	require.NoError(t, err)

	var v string
	require.NoError(t, db.QueryRow("SELECT v FROM kv WHERE k = 'a'").Scan(&v))
	assert.Equal(t, "1", v)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := WithTx(ctx, db, func(ctx context.Context, tx Handle) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO kv (k, v) VALUES ('a', '1')"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count))
	assert.Zero(t, count, "insert must be rolled back")
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = WithTx(ctx, db, func(ctx context.Context, tx Handle) error {
			_, _ = tx.ExecContext(ctx, "INSERT INTO kv (k, v) VALUES ('a', '1')")
			panic("boom")
		})
	})

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count))
	assert.Zero(t, count)
}
