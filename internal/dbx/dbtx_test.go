package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var (
	_ DBTX       = (*sql.DB)(nil)
	_ DBTX       = (*sql.Tx)(nil)
	_ TxBeginner = (*sql.DB)(nil)
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func keys(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	return n
}

func TestWithTx_Commit(t *testing.T) {
	db := openSQLite(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('a', x'01')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, keys(t, db))
}

func TestWithTx_ErrorRollsBack(t *testing.T) {
	db := openSQLite(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('a', x'01')`)
		require.NoError(t, e)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, keys(t, db))
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	db := openSQLite(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			_, e := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('a', x'01')`)
			require.NoError(t, e)
			panic("kaput")
		})
	})
	assert.Equal(t, 0, keys(t, db))
}

func TestWithTx_BeginAndCommitErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no begin"))
	err = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.EqualError(t, err, "no begin")

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("no commit"))
	err = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return nil })
	require.EqualError(t, err, "no commit")

	require.NoError(t, mock.ExpectationsWereMet())
}
