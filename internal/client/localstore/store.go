// Package localstore is the on-device document store. It wraps the kv
// repository with the versioned key names and optional at-rest sealing.
package localstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/moodkeeper/internal/cryptox"
)

// Versioned storage keys.
const (
	KeyMoodEntries     = "@happy_state_entries_v1"
	KeyJournalSessions = "@happy_state_journal_sessions_v1"
	KeyProfile         = "@happy_state_profile_v1"
	KeyLongTermSummary = "@happy_state_memory_long_term_v1"
	KeyRollingContext  = "@happy_state_memory_rolling_v1"

	keyAIUsagePrefix = "@ai_usage_"

	keyCryptoSalt  = "@crypto_salt_v1"
	keyCryptoCheck = "@crypto_check_v1"
)

// AIUsageKey is the key of the insight counter for day (YYYY-MM-DD).
func AIUsageKey(day string) string {
	return keyAIUsagePrefix + day
}

// checkValue is sealed under the derived key so a later open can tell a
// wrong passphrase apart from damaged data.
var checkValue = []byte("moodkeeper-local-v1")

var (
	// ErrUnreadable is returned by Get for a sealed value that cannot be opened.
	ErrUnreadable = errors.New("local value unreadable")
	// ErrWrongPassphrase is returned by NewSealed when the passphrase does
	// not match the one the store was sealed with.
	ErrWrongPassphrase = errors.New("wrong passphrase")
)

// Store reads and writes raw values by key.
type Store struct {
	repo kv.Repository
	key  []byte
}

// New returns a store that keeps values in plain text.
func New(repo kv.Repository) *Store {
	return &Store{repo: repo}
}

// NewSealed returns a store that seals every value with a key derived from
// passphrase. The salt is created on first use and kept in the store itself.
// A passphrase that differs from the first one fails with ErrWrongPassphrase.
func NewSealed(ctx context.Context, repo kv.Repository, passphrase []byte) (*Store, error) {
	var key []byte
	open := func(ctx context.Context, repo kv.Repository) error {
		salt, err := loadOrCreateSalt(ctx, repo)
		if err != nil {
			return err
		}
		key = cryptox.DeriveKey(passphrase, salt)
		return verifyKey(ctx, repo, key)
	}

	var err error
	if t, ok := repo.(kv.Transactor); ok {
		err = t.InTx(ctx, open)
	} else {
		err = open(ctx, repo)
	}
	if err != nil {
		return nil, err
	}

	return &Store{repo: repo, key: key}, nil
}

func loadOrCreateSalt(ctx context.Context, repo kv.Repository) ([]byte, error) {
	salt, err := repo.Get(ctx, keyCryptoSalt)
	if err != nil {
		return nil, fmt.Errorf("load salt: %w", err)
	}
	if len(salt) == cryptox.SaltSize {
		return salt, nil
	}

	salt, err = cryptox.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	if err := repo.Set(ctx, keyCryptoSalt, salt); err != nil {
		return nil, fmt.Errorf("store salt: %w", err)
	}
	if err := repo.Delete(ctx, keyCryptoCheck); err != nil {
		return nil, fmt.Errorf("reset check value: %w", err)
	}
	return salt, nil
}

// verifyKey opens the stored check value with key. A store without one gets
// it written now.
func verifyKey(ctx context.Context, repo kv.Repository, key []byte) error {
	sealed, err := repo.Get(ctx, keyCryptoCheck)
	if err != nil {
		return fmt.Errorf("load check value: %w", err)
	}

	if sealed == nil {
		sealed, err = cryptox.Seal(checkValue, key)
		if err != nil {
			return fmt.Errorf("seal check value: %w", err)
		}
		if err := repo.Set(ctx, keyCryptoCheck, sealed); err != nil {
			return fmt.Errorf("store check value: %w", err)
		}
		return nil
	}

	plain, err := cryptox.Open(sealed, key)
	if err != nil || !bytes.Equal(plain, checkValue) {
		return ErrWrongPassphrase
	}
	return nil
}

// Sealed reports whether values are encrypted at rest.
func (s *Store) Sealed() bool {
	return s.key != nil
}

// Get returns the value under key, or (nil, nil) when nothing is stored.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.repo.Get(ctx, key)
	if err != nil || raw == nil || s.key == nil {
		return raw, err
	}

	plain, err := cryptox.Open(raw, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, key, err)
	}
	return plain, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.key != nil {
		sealed, err := cryptox.Seal(value, s.key)
		if err != nil {
			return fmt.Errorf("seal %s: %w", key, err)
		}
		value = sealed
	}
	return s.repo.Set(ctx, key, value)
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}
