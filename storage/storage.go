// Package storage provides the durable string-keyed slots the session
// store persists the authenticated identity into, the equivalent of
// the browser's localStorage.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage is a durable set of string-keyed slots.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Memory keeps slots in process memory. It backs tests and throwaway
// sessions.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory slot store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// File persists slots as a JSON object in a single file. Every write
// rewrites the whole file, which is fine for the handful of small
// slots a session needs.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenFile loads the slot file at path. A missing file yields an empty
// store; it is created on the first write.
func OpenFile(path string) (*File, error) {
	f := &File{
		path:   path,
		values: make(map[string]string),
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("corrupt slot file %s: %w", path, err)
	}
	return f, nil
}

// DefaultPath returns the per-user location of the session slot file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "instaclone", "session.json"), nil
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.flush()
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return f.flush()
}

// flush rewrites the slot file. Callers must hold the mutex. The file
// holds a bearer token, so it is not group- or world-readable.
func (f *File) flush() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(f.values)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}
