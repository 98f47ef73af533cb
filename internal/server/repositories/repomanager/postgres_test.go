package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDocuments_ReturnsRepository(t *testing.T) {
	m := NewPostgresRepositoryManager()
	assert.NotNil(t, m.Documents(newDB(t)))
}

func TestRunMigrations(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	t.Run("success", func(t *testing.T) {
		gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			if dir != "." || len(opts) != 0 {
				return errors.New("unexpected arguments")
			}
			return nil
		}
		require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), newDB(t)))
	})

	t.Run("error", func(t *testing.T) {
		gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
			return errors.New("boom")
		}
		err := NewPostgresRepositoryManager().RunMigrations(context.Background(), newDB(t))
		require.EqualError(t, err, "boom")
	})
}
