// Package models holds the server's persistent records.
package models

import (
	"encoding/json"
	"time"
)

// Document is one JSON document owned by a user.
type Document struct {
	UserID    string          `db:"user_id"`
	Path      string          `db:"path"`
	Data      json.RawMessage `db:"data"`
	UpdatedAt time.Time       `db:"updated_at"`
}
