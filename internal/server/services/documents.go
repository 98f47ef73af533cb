// Package services holds the server-side business logic that sits between the
// gRPC handlers and the repositories.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/repomanager"
)

// DocumentService reads and writes JSON documents inside a user's namespace.
type DocumentService interface {
	GetDoc(ctx context.Context, userID, path string) (json.RawMessage, bool, error)
	SetDoc(ctx context.Context, userID, path string, data json.RawMessage, merge bool) error
}

type documentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager) DocumentService {
	return &documentService{db: db, repomanager: m}
}

// GetDoc returns the stored document at path. A missing document is reported
// through the boolean, not as an error.
func (s *documentService) GetDoc(ctx context.Context, userID, path string) (json.RawMessage, bool, error) {
	if !common.PathInNamespace(path, userID) {
		return nil, false, common.ErrInvalidPath
	}

	doc, err := s.repomanager.Documents(s.db).Get(ctx, userID, path)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error reading document: %w", err)
	}

	return doc.Data, true, nil
}

// SetDoc stores data at path. With merge set, top-level fields of data are
// laid over the existing document; otherwise it is replaced.
func (s *documentService) SetDoc(ctx context.Context, userID, path string, data json.RawMessage, merge bool) error {
	if !common.PathInNamespace(path, userID) {
		return common.ErrInvalidPath
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return fmt.Errorf("%w: document must be a JSON object", common.ErrValidation)
	}

	if err := s.repomanager.Documents(s.db).Set(ctx, userID, path, data, merge); err != nil {
		return fmt.Errorf("error writing document: %w", err)
	}
	return nil
}
