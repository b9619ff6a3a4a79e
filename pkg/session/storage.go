package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenKey is the single well-known key the client keeps its bearer token
// under. Its mere presence is the login signal.
const TokenKey = "token"

// TokenStorage is the durable home of the bearer token. It is the only
// authoritative record of "logged in"; everything in Store is derived.
type TokenStorage interface {
	Token() (string, bool)
	SetToken(token string) error
	ClearToken() error
}

type MemoryTokenStorage struct {
	mu    sync.Mutex
	token string
	set   bool
}

func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{}
}

func (s *MemoryTokenStorage) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.set
}

func (s *MemoryTokenStorage) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *MemoryTokenStorage) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

// FileTokenStorage persists the token as a single file named after
// TokenKey, surviving process restarts the way browser storage survives
// page loads.
type FileTokenStorage struct {
	path string
}

func NewFileTokenStorage(dir string) (*FileTokenStorage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("token storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &FileTokenStorage{path: filepath.Join(dir, TokenKey)}, nil
}

func (s *FileTokenStorage) Token() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *FileTokenStorage) SetToken(token string) error {
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileTokenStorage) ClearToken() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
