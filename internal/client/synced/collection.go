// Package synced reconciles a collection kept both in the local store and in
// the remote document store, and keeps the two eventually aligned. Local is
// always read and written first; Remote failures never reach the caller.
package synced

import (
	"context"

	"github.com/dmitrijs2005/moodkeeper/internal/client/remote"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
)

// Source tells which store a reconciled value came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// LocalStore is the raw key/value view of the on-device store.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Collection is one synced value of type T, stored under key locally and
// under doc (relative to the user namespace) remotely.
type Collection[T any] struct {
	key    string
	doc    string
	local  LocalStore
	remote remote.Store
	codec  Codec[T]
	policy ConflictPolicy
	logger logging.Logger
}

// Option customizes a Collection.
type Option[T any] func(*Collection[T])

// WithPolicy replaces the default LongerListWins policy.
func WithPolicy[T any](p ConflictPolicy) Option[T] {
	return func(c *Collection[T]) { c.policy = p }
}

func New[T any](key, doc string, local LocalStore, rs remote.Store, codec Codec[T], logger logging.Logger, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		key:    key,
		doc:    doc,
		local:  local,
		remote: rs,
		codec:  codec,
		policy: LongerListWins{},
		logger: logger.With("module", "synced", "collection", key),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reconcile returns the canonical value and where it came from.
func (c *Collection[T]) Reconcile(ctx context.Context) (T, Source) {
	local := c.readLocal(ctx)

	ns, ok := c.remote.Namespace()
	if !ok {
		return local, SourceLocal
	}
	path := remote.DocPath(ns, c.doc)

	doc, err := c.remote.GetDoc(ctx, path)
	if err != nil {
		c.logger.Warn(ctx, "remote read failed, using local", "path", path, "error", err)
		return local, SourceLocal
	}

	n := c.codec.Count(local)
	if !doc.Exists {
		if n > 0 {
			c.pushRemote(ctx, path, local)
		}
		return local, SourceLocal
	}

	theirs, err := c.codec.DecodeRemote(doc.Data)
	if err != nil {
		c.logger.Warn(ctx, "remote document unreadable, treating as empty", "path", path, "error", err)
		theirs = c.codec.Empty()
	}

	if c.policy.LocalWins(n, c.codec.Count(theirs)) {
		c.pushRemote(ctx, path, local)
		return local, SourceLocal
	}

	if err := c.writeLocal(ctx, theirs); err != nil {
		c.logger.Warn(ctx, "failed to mirror remote into local", "error", err)
	}
	return theirs, SourceRemote
}

// Persist normalizes v, writes it locally and then tries a remote merge
// write. Only a local failure is returned.
func (c *Collection[T]) Persist(ctx context.Context, v T) (T, error) {
	v = c.codec.Normalize(v)

	if err := c.writeLocal(ctx, v); err != nil {
		return v, err
	}

	if ns, ok := c.remote.Namespace(); ok {
		c.pushRemote(ctx, remote.DocPath(ns, c.doc), v)
	}
	return v, nil
}

func (c *Collection[T]) readLocal(ctx context.Context) T {
	raw, err := c.local.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn(ctx, "local read failed, treating as empty", "error", err)
		return c.codec.Empty()
	}
	if len(raw) == 0 {
		return c.codec.Empty()
	}

	v, err := c.codec.DecodeLocal(raw)
	if err != nil {
		c.logger.Warn(ctx, "local value unparsable, treating as empty", "error", err)
		return c.codec.Empty()
	}
	return v
}

func (c *Collection[T]) writeLocal(ctx context.Context, v T) error {
	raw, err := c.codec.EncodeLocal(v)
	if err != nil {
		return err
	}
	return c.local.Set(ctx, c.key, raw)
}

func (c *Collection[T]) pushRemote(ctx context.Context, path string, v T) {
	data, err := c.codec.EncodeRemote(v)
	if err != nil {
		c.logger.Warn(ctx, "failed to encode remote document", "path", path, "error", err)
		return
	}
	if err := c.remote.SetDoc(ctx, path, data, true); err != nil {
		c.logger.Warn(ctx, "remote write failed", "path", path, "error", err)
	}
}
