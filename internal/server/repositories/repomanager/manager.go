package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/moodkeeper/internal/dbx"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/documents"
)

// RepositoryManager hands out repositories bound to a handle, so a service
// can use the same code against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Documents(db dbx.DBTX) documents.Repository
}
