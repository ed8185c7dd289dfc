// Package session tracks anonymous browsing sessions and the view
// deduplication state attached to them.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// viewPrefix namespaces the seen-subject markers.
const viewPrefix = "view:"

// Manager stores per-session seen markers in a Badger database. Markers
// expire with the session TTL, so a subject can be counted again once
// the session ages out.
type Manager struct {
	db     *badger.DB
	logger *slog.Logger
	ttl    time.Duration
}

// Open creates a session manager backed by a Badger database at path.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Manager, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	return &Manager{db: db, logger: logger, ttl: ttl}, nil
}

// Close closes the underlying database.
func (m *Manager) Close() error {
	return m.db.Close()
}

// NewID mints a fresh session identifier.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// HasSeen reports whether the session already viewed the subject.
func (m *Manager) HasSeen(sessionID, subjectID string) (bool, error) {
	key := []byte(viewPrefix + sessionID + ":" + subjectID)

	err := m.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get seen marker: %w", err)
	}
	return true, nil
}

// MarkSeen records that the session viewed the subject. The marker
// expires with the session TTL.
func (m *Manager) MarkSeen(sessionID, subjectID string) error {
	key := []byte(viewPrefix + sessionID + ":" + subjectID)

	err := m.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, nil).WithTTL(m.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("set seen marker: %w", err)
	}
	return nil
}
