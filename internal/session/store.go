package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invictusdhahri/moongate-mcp-server/pkg/logging"
)

// SessionFileName is the name of the persisted session record inside the
// session directory.
const SessionFileName = "session.json"

// Store persists exactly one session record to disk.
//
// SECURITY: the record holds a live bearer credential. The session
// directory is created with 0700 and the file is written with 0600; token
// values are never logged.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the full path of the session record.
func (s *Store) Path() string {
	return filepath.Join(s.dir, SessionFileName)
}

// EnsureDir creates the session directory with owner-only permissions.
// Idempotent: an existing directory is not an error.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory %s: %w", s.dir, err)
	}
	return nil
}

// Load reads the persisted session record. A missing file is absence, not
// an error: both return values are nil. An unreadable or undecodable file
// fails with ErrCorruptSession.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if sess.Token == "" {
		return nil, fmt.Errorf("%w: record has no token", ErrCorruptSession)
	}

	return &sess, nil
}

// Save writes the session record with owner-only file permissions,
// replacing any prior content.
func (s *Store) Save(sess *Session) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	logging.Debug("Session", "persisted session record for provider %s", sess.AuthProvider)
	return nil
}

// Clear deletes the session record. Absence of the file is success, so a
// second Clear in a row never fails.
func (s *Store) Clear() error {
	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
