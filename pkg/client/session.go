package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session is what a logged in client keeps between requests
type Session struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

func (s Session) IsLoggedIn() bool {
	return s.Token != ""
}

type SessionStore interface {
	Load() (Session, error)
	Save(s Session) error
	Clear() error
}

// MemorySessionStore keeps the session for the lifetime of the process
type MemorySessionStore struct {
	mu sync.Mutex
	s  Session
}

func (m *MemorySessionStore) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.s, nil
}

func (m *MemorySessionStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.s = s
	return nil
}

func (m *MemorySessionStore) Clear() error {
	return m.Save(Session{})
}

// FileSessionStore persists the session as JSON, readable only by the owner
type FileSessionStore struct {
	Path string
}

func (f *FileSessionStore) Load() (Session, error) {
	var s Session

	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}

		return s, fmt.Errorf("failed to read session file, %w", err)
	}

	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, fmt.Errorf("failed to parse session file, %w", err)
	}

	return s, nil
}

func (f *FileSessionStore) Save(s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory, %w", err)
	}

	return os.WriteFile(f.Path, b, 0o600)
}

func (f *FileSessionStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}
