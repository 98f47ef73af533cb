package remote

import (
	"context"
	"encoding/json"
)

// Offline is the store used when no backend is configured.
type Offline struct{}

func (Offline) Namespace() (string, bool) { return "", false }

func (Offline) GetDoc(context.Context, string) (Doc, error) {
	return Doc{}, ErrNoNamespace
}

func (Offline) SetDoc(context.Context, string, json.RawMessage, bool) error {
	return ErrNoNamespace
}
