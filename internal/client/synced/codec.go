package synced

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// Codec converts a collection value to and from its Local and Remote
// encodings. Decoders return normalized values.
type Codec[T any] interface {
	Empty() T
	Normalize(v T) T
	Count(v T) int
	DecodeLocal(raw []byte) (T, error)
	EncodeLocal(v T) ([]byte, error)
	DecodeRemote(data json.RawMessage) (T, error)
	EncodeRemote(v T) (json.RawMessage, error)
}

// ListCodec stores a list as a bare JSON array locally and as
// {field: [...], updatedAt} remotely. Items that fail to decode are dropped.
type ListCodec[E any] struct {
	field     string
	clock     timex.Clock
	decode    func(raw json.RawMessage, now time.Time) (E, error)
	normalize func(item E, now time.Time) E
	sort      func([]E)
}

func NewListCodec[E any](
	field string,
	clock timex.Clock,
	decode func(raw json.RawMessage, now time.Time) (E, error),
	normalize func(item E, now time.Time) E,
	sort func([]E),
) *ListCodec[E] {
	return &ListCodec[E]{field: field, clock: clock, decode: decode, normalize: normalize, sort: sort}
}

func (c *ListCodec[E]) Empty() []E { return []E{} }

func (c *ListCodec[E]) Count(v []E) int { return len(v) }

func (c *ListCodec[E]) Normalize(v []E) []E {
	now := c.clock()
	out := make([]E, 0, len(v))
	for _, item := range v {
		out = append(out, c.normalize(item, now))
	}
	if c.sort != nil {
		c.sort(out)
	}
	return out
}

func (c *ListCodec[E]) DecodeLocal(raw []byte) ([]E, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	now := c.clock()
	out := make([]E, 0, len(items))
	for _, item := range items {
		v, err := c.decode(item, now)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	if c.sort != nil {
		c.sort(out)
	}
	return out, nil
}

func (c *ListCodec[E]) EncodeLocal(v []E) ([]byte, error) {
	if v == nil {
		v = []E{}
	}
	return json.Marshal(v)
}

func (c *ListCodec[E]) DecodeRemote(data json.RawMessage) ([]E, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	items, ok := doc[c.field]
	if !ok || string(items) == "null" {
		return c.Empty(), nil
	}
	out, err := c.DecodeLocal(items)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", c.field, err)
	}
	return out, nil
}

func (c *ListCodec[E]) EncodeRemote(v []E) (json.RawMessage, error) {
	if v == nil {
		v = []E{}
	}
	return json.Marshal(map[string]any{
		c.field:     v,
		"updatedAt": c.clock().UTC(),
	})
}

// DocCodec stores a single document as the same JSON object locally and
// remotely. A document counts as one item once present reports true.
type DocCodec[D any] struct {
	empty     func() D
	normalize func(D) D
	present   func(D) bool
}

func NewDocCodec[D any](empty func() D, normalize func(D) D, present func(D) bool) *DocCodec[D] {
	return &DocCodec[D]{empty: empty, normalize: normalize, present: present}
}

func (c *DocCodec[D]) Empty() D { return c.empty() }

func (c *DocCodec[D]) Normalize(v D) D { return c.normalize(v) }

func (c *DocCodec[D]) Count(v D) int {
	if c.present(v) {
		return 1
	}
	return 0
}

func (c *DocCodec[D]) DecodeLocal(raw []byte) (D, error) {
	v := c.empty()
	if err := json.Unmarshal(raw, &v); err != nil {
		return c.empty(), err
	}
	return c.normalize(v), nil
}

func (c *DocCodec[D]) EncodeLocal(v D) ([]byte, error) {
	return json.Marshal(v)
}

func (c *DocCodec[D]) DecodeRemote(data json.RawMessage) (D, error) {
	return c.DecodeLocal(data)
}

func (c *DocCodec[D]) EncodeRemote(v D) (json.RawMessage, error) {
	return json.Marshal(v)
}
