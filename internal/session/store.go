// Package session persists the client-local login state under ~/.arogya,
// the way the rest of the CLI's state lives in the user's home directory.
// The store is written once per signup by the materializer and read by
// startup code; a mutex guards concurrent readers.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the injected session-state interface. Values are strings;
// booleans are stored as "true"/"false" to match what web clients keep in
// local storage.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	SetAll(values map[string]string) error
	Delete(keys ...string) error
	Clear() error
	All() map[string]string
}

// FileStore keeps the session as a JSON object in a single file
// (dir 0700, file 0600).
type FileStore struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// DefaultPath returns ~/.arogya/session.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".arogya", "session.json"), nil
}

// Open loads the store at path, starting empty if the file does not exist.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return s, nil
}

// Get returns the value for key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores one key and persists.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

// SetAll stores every entry of values and persists once.
func (s *FileStore) SetAll(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return s.flush()
}

// Delete removes the given keys and persists.
func (s *FileStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return s.flush()
}

// Clear removes every key and persists.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	return s.flush()
}

// All returns a copy of the stored values.
func (s *FileStore) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// flush writes the store to disk. Callers hold the mutex.
func (s *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
