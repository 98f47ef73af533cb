package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/dbx"
	"github.com/dmitrijs2005/moodkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID, path string) (*models.Document, error) {
	query :=
		`SELECT user_id, path, data, updated_at FROM documents
		 WHERE user_id = $1 AND path = $2
		 `

	doc := &models.Document{}
	var data []byte
	err := r.db.QueryRowContext(ctx, query, userID, path).Scan(&doc.UserID, &doc.Path, &data, &doc.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	doc.Data = data

	return doc, nil
}

func (r *PostgresRepository) Set(ctx context.Context, userID, path string, data json.RawMessage, merge bool) error {
	query :=
		`INSERT INTO documents (user_id, path, data, updated_at)
		 VALUES ($1, $2, $3::jsonb, now())
		 ON CONFLICT (user_id, path) DO UPDATE
		 SET data = excluded.data, updated_at = excluded.updated_at
		 `
	if merge {
		query =
			`INSERT INTO documents (user_id, path, data, updated_at)
			 VALUES ($1, $2, $3::jsonb, now())
			 ON CONFLICT (user_id, path) DO UPDATE
			 SET data = documents.data || excluded.data, updated_at = excluded.updated_at
			 `
	}

	if _, err := r.db.ExecContext(ctx, query, userID, path, string(data)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
