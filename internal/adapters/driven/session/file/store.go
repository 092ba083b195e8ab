// Package file provides the file-based session store. The full session
// bundle is kept as one JSON record inside the arcana config directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arcana-cli/internal/logger"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// sessionFile is the well-known storage file name.
const sessionFile = "session.json"

// SessionStore persists the session bundle to a JSON file.
//
// Reads fail safe: a corrupt or unreadable file is discarded and
// reported as "no session", so the application starts signed out rather
// than failing. The file is written with owner-only permissions because
// it holds bearer tokens.
type SessionStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSessionStore creates a session store in the given directory.
// If dir is empty, defaults to ~/.arcana.
func NewSessionStore(dir string) (*SessionStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".arcana")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	return &SessionStore{
		filePath: filepath.Join(dir, sessionFile),
	}, nil
}

// Load returns the previously saved session, or nil if none exists or
// the stored data could not be parsed.
func (s *SessionStore) Load(_ context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		logger.Warn("read session file: %v", err)
		return nil, nil
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupt storage is discarded silently; the user just signs
		// in again.
		logger.Warn("discarding unparseable session file: %v", err)
		return nil, nil
	}
	return &session, nil
}

// Save persists the full session bundle. The write goes through a
// temp file and rename so a crash cannot leave a half-written record.
func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}

// Clear removes the persisted session.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.filePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Path returns the session file path.
func (s *SessionStore) Path() string {
	return s.filePath
}
