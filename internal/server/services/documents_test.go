package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/dbx"
	"github.com/dmitrijs2005/moodkeeper/internal/server/models"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/documents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setCall struct {
	userID string
	path   string
	data   string
	merge  bool
}

type fakeDocsRepo struct {
	getOut *models.Document
	getErr error
	setErr error
	sets   []setCall
}

func (f *fakeDocsRepo) Get(ctx context.Context, userID, path string) (*models.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeDocsRepo) Set(ctx context.Context, userID, path string, data json.RawMessage, merge bool) error {
	f.sets = append(f.sets, setCall{userID, path, string(data), merge})
	return f.setErr
}

type fakeRepoManager struct {
	docs *fakeDocsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Documents(dbx.DBTX) documents.Repository { return m.docs }

func newDocService(repo *fakeDocsRepo) DocumentService {
	return NewDocumentService(nil, &fakeRepoManager{docs: repo})
}

func TestGetDoc(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := &fakeDocsRepo{getOut: &models.Document{Data: json.RawMessage(`{"a":1}`)}}
		data, ok, err := newDocService(repo).GetDoc(ctx, "u1", "users/u1/appData/moodEntries")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"a":1}`, string(data))
	})

	t.Run("missing", func(t *testing.T) {
		repo := &fakeDocsRepo{getErr: common.ErrorNotFound}
		data, ok, err := newDocService(repo).GetDoc(ctx, "u1", "users/u1/appData/moodEntries")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, data)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &fakeDocsRepo{getErr: errors.New("boom")}
		_, _, err := newDocService(repo).GetDoc(ctx, "u1", "users/u1/appData/moodEntries")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("foreign namespace", func(t *testing.T) {
		_, _, err := newDocService(&fakeDocsRepo{}).GetDoc(ctx, "u1", "users/u2/appData/moodEntries")
		assert.ErrorIs(t, err, common.ErrInvalidPath)
	})
}

func TestSetDoc(t *testing.T) {
	ctx := context.Background()

	t.Run("merge write reaches repository", func(t *testing.T) {
		repo := &fakeDocsRepo{}
		err := newDocService(repo).SetDoc(ctx, "u1", "users/u1/memory/longTermSummary", json.RawMessage(`{"x":true}`), true)
		require.NoError(t, err)
		require.Len(t, repo.sets, 1)
		assert.Equal(t, setCall{"u1", "users/u1/memory/longTermSummary", `{"x":true}`, true}, repo.sets[0])
	})

	t.Run("rejects non-object payload", func(t *testing.T) {
		repo := &fakeDocsRepo{}
		for _, body := range []string{`[1,2]`, `null`, `"s"`, `{`} {
			err := newDocService(repo).SetDoc(ctx, "u1", "users/u1/a", json.RawMessage(body), false)
			assert.ErrorIs(t, err, common.ErrValidation, body)
		}
		assert.Empty(t, repo.sets)
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		repo := &fakeDocsRepo{}
		err := newDocService(repo).SetDoc(ctx, "u1", "users/u1/../u2/a", json.RawMessage(`{}`), false)
		assert.ErrorIs(t, err, common.ErrInvalidPath)
		assert.Empty(t, repo.sets)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &fakeDocsRepo{setErr: errors.New("down")}
		err := newDocService(repo).SetDoc(ctx, "u1", "users/u1/a", json.RawMessage(`{}`), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "down")
	})
}
