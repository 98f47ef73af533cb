// Package remotetest provides an in-memory remote.Store for tests.
package remotetest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/moodkeeper/internal/client/remote"
)

// Store keeps documents in memory. Set GetErr or SetErr to simulate an
// unreachable backend.
type Store struct {
	mu        sync.Mutex
	namespace string
	docs      map[string]json.RawMessage

	GetErr error
	SetErr error

	Gets int
	Sets int
}

// New returns a store signed in as userID; an empty userID means signed out.
func New(userID string) *Store {
	s := &Store{docs: map[string]json.RawMessage{}}
	if userID != "" {
		s.namespace = "users/" + userID
	}
	return s
}

func (s *Store) Namespace() (string, bool) {
	return s.namespace, s.namespace != ""
}

func (s *Store) GetDoc(_ context.Context, path string) (remote.Doc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Gets++
	if s.GetErr != nil {
		return remote.Doc{}, s.GetErr
	}
	data, ok := s.docs[path]
	if !ok {
		return remote.Doc{}, nil
	}
	return remote.Doc{Exists: true, Data: append(json.RawMessage(nil), data...)}, nil
}

func (s *Store) SetDoc(_ context.Context, path string, data json.RawMessage, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Sets++
	if s.SetErr != nil {
		return s.SetErr
	}
	if merge {
		if current, ok := s.docs[path]; ok {
			merged, err := remote.MergeFields(current, data)
			if err != nil {
				return err
			}
			data = merged
		}
	}
	s.docs[path] = append(json.RawMessage(nil), data...)
	return nil
}

// Put stores a document directly, bypassing counters and errors.
func (s *Store) Put(path string, data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = json.RawMessage(data)
}

// Doc returns the stored document at path.
func (s *Store) Doc(path string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[path]
	return d, ok
}

// LocalStore is an in-memory synced.LocalStore.
type LocalStore struct {
	mu     sync.Mutex
	values map[string][]byte

	GetErr error
	SetErr error
}

func NewLocal() *LocalStore {
	return &LocalStore{values: map[string][]byte{}}
}

func (l *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.GetErr != nil {
		return nil, l.GetErr
	}
	v, ok := l.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (l *LocalStore) Set(_ context.Context, key string, value []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SetErr != nil {
		return l.SetErr
	}
	l.values[key] = append([]byte(nil), value...)
	return nil
}
