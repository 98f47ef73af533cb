package documents

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/moodkeeper/internal/server/models"
)

// Repository stores user documents. Get returns common.ErrorNotFound for a
// missing document.
type Repository interface {
	Get(ctx context.Context, userID, path string) (*models.Document, error)
	// Set writes data. With merge, top-level fields of data are laid over
	// the stored object; otherwise the document is replaced.
	Set(ctx context.Context, userID, path string, data json.RawMessage, merge bool) error
}
