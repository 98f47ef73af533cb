package client

import (
	"context"

	"github.com/dmitrijs2005/moodkeeper/internal/client/remote"
)

// Client is a remote document store with a live connection.
type Client interface {
	remote.Store
	Ping(ctx context.Context) error
	Close() error
}

var _ Client = (*GRPCClient)(nil)
