// Package session holds the client's persistent credential state. The browser
// build of this application kept tokens in localStorage under well-known keys;
// here the same keys live in a small sqlite file behind an explicit store that
// gets injected wherever a token is needed.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// Well-known keys.
const (
	KeyAccess         = "access"
	KeyRefresh        = "refresh"
	KeySessionTimeout = "session_timeout"
)

var ErrNotFound = errors.New("session key not found")

// Store is a sqlite-backed key/value store for session state.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *zerolog.Logger
}

// Open opens (creating if needed) the session store at path.
func Open(path string, logger *zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to session store: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS session (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`)
	return err
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO session (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM session WHERE key = ?`, key)
	return err
}

// AccessToken returns the stored access token, or "" when not logged in.
func (s *Store) AccessToken() string {
	token, err := s.Get(KeyAccess)
	if err != nil {
		return ""
	}
	return token
}

// SetTokens stores the access/refresh token pair after login or refresh.
func (s *Store) SetTokens(access, refresh string) error {
	if err := s.Set(KeyAccess, access); err != nil {
		return err
	}
	if refresh != "" {
		return s.Set(KeyRefresh, refresh)
	}
	return nil
}

// ClearTokens drops all credentials, e.g. after a 401 that refresh could not
// recover from.
func (s *Store) ClearTokens() {
	for _, key := range []string{KeyAccess, KeyRefresh, KeySessionTimeout} {
		if err := s.Delete(key); err != nil && s.logger != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("failed to clear session key")
		}
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
