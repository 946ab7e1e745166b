package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const (
	stateDirName  = ".idiary"
	stateFileName = "current_session"
	stateLockName = "current_session.lock"
)

// StateStore persists the active session id across CLI invocations. Reads
// and writes are serialized with a file lock so concurrent invocations do
// not interleave, and writes go through a temp file plus rename so a crash
// never leaves a half-written pointer.
type StateStore struct {
	dir string
}

// NewStateStore returns a StateStore rooted at ~/.idiary, creating the
// directory if needed.
func NewStateStore() (*StateStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return NewStateStoreAt(filepath.Join(homeDir, stateDirName))
}

// NewStateStoreAt returns a StateStore rooted at dir, creating it if needed.
func NewStateStoreAt(dir string) (*StateStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	return &StateStore{dir: dir}, nil
}

// Save records sessionID as the active session.
func (s *StateStore) Save(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id must not be empty")
	}

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(s.dir, stateFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating state temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(sessionID); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing state temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Load returns the active session id, or "" when none is recorded.
func (s *StateStore) Load() (string, error) {
	unlock, err := s.lock()
	if err != nil {
		return "", err
	}
	defer unlock()

	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading state file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear forgets the active session. Clearing when none is recorded is a
// no-op.
func (s *StateStore) Clear() error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing state file: %w", err)
	}
	return nil
}

func (s *StateStore) path() string {
	return filepath.Join(s.dir, stateFileName)
}

func (s *StateStore) lock() (func(), error) {
	fl := flock.New(filepath.Join(s.dir, stateLockName))
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("locking state file: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}
