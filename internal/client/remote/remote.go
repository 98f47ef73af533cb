// Package remote abstracts the per-user cloud document store. Every document
// lives under the namespace users/{uid} of the signed-in user; without a
// session there is no namespace and callers stay local.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"path"
)

var (
	// ErrNoNamespace is returned by stores used without a signed-in user.
	ErrNoNamespace = errors.New("no remote namespace")
	// ErrUnavailable marks a transient transport failure.
	ErrUnavailable = errors.New("remote store unavailable")
	// ErrUnauthorized marks a rejected or expired session.
	ErrUnauthorized = errors.New("remote store unauthorized")
)

// Doc is the result of a read. Data is a JSON object when Exists.
type Doc struct {
	Exists bool
	Data   json.RawMessage
}

// Store is a document store addressed by slash-separated paths.
type Store interface {
	// Namespace returns users/{uid} for the active session.
	Namespace() (string, bool)
	GetDoc(ctx context.Context, path string) (Doc, error)
	// SetDoc writes data at path. With merge the top-level fields of data
	// are merged into the existing document, otherwise it is replaced.
	SetDoc(ctx context.Context, path string, data json.RawMessage, merge bool) error
}

// Document names under a namespace.
const (
	DocMoodEntries     = "appData/moodEntries"
	DocJournalSessions = "appData/journalSessions"
	DocProfile         = "appData/profile"
	DocLongTermSummary = "memory/longTermSummary"
	DocRollingContext  = "memory/rollingContext"
)

// DocPath joins a namespace and a document name.
func DocPath(namespace, doc string) string {
	return path.Join(namespace, doc)
}
