package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Persisted is everything the client keeps between runs, under two fixed
// keys. Both keys are written and cleared together.
type Persisted struct {
	Token string   `json:"token,omitempty"`
	User  *Profile `json:"user,omitempty"`
}

type Store interface {
	Load() (Persisted, error)
	Save(Persisted) error
	Clear() error
}

const sessionFile = "session.json"

// FileStore keeps the session in one JSON file, so clearing it drops token
// and profile at once.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// DefaultSessionPath is <user config dir>/ecoctl/session.json.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(dir, "ecoctl", sessionFile), nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (Persisted, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Persisted{}, nil
	}
	if err != nil {
		return Persisted{}, fmt.Errorf("read session file: %w", err)
	}

	var p Persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return Persisted{}, fmt.Errorf("decode session file: %w", err)
	}
	return p, nil
}

// Save replaces the file atomically through a temp file in the same directory.
func (s *FileStore) Save(p Persisted) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the session in memory, for tests and embedding.
type MemoryStore struct {
	mu sync.Mutex
	p  Persisted
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(p Persisted) *MemoryStore {
	return &MemoryStore{p: p}
}

func (s *MemoryStore) Load() (Persisted, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p, nil
}

func (s *MemoryStore) Save(p Persisted) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = Persisted{}
	return nil
}
