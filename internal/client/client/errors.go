package client

import "github.com/dmitrijs2005/moodkeeper/internal/client/remote"

var (
	ErrUnavailable  = remote.ErrUnavailable
	ErrUnauthorized = remote.ErrUnauthorized
	ErrNoNamespace  = remote.ErrNoNamespace
)
