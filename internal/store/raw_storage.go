package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// memoryStorage is the map-backed [RawStorage] used in tests and when bvault
// is embedded as a library with a caller-provided lifetime.
type memoryStorage struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStorage returns an empty in-memory [RawStorage].
func NewMemoryStorage() RawStorage {
	return &memoryStorage{
		entries: make(map[string]string),
	}
}

func (s *memoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

func (s *memoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]string)
	return nil
}

// fileStorage is the JSON-file-persisted [RawStorage] used by the CLI. The
// whole map is rewritten on every mutation; reads are served from memory.
type fileStorage struct {
	path string

	mu      sync.RWMutex
	entries map[string]string
}

type filePersistedState struct {
	Entries map[string]string `json:"entries"`
}

// NewFileStorage returns a [RawStorage] persisted to the JSON file at path,
// loading any existing content first.
func NewFileStorage(path string) (RawStorage, error) {
	s := &fileStorage{
		path:    path,
		entries: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return s.persist()
}

func (s *fileStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

func (s *fileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return s.persist()
}

func (s *fileStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]string)
	return s.persist()
}

func (s *fileStorage) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read vault file: %w", err)
	}

	var st filePersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode vault file: %w", err)
	}

	if st.Entries == nil {
		st.Entries = make(map[string]string)
	}
	s.entries = st.Entries

	return nil
}

func (s *fileStorage) persist() error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create vault dir: %w", err)
		}
	}

	state := filePersistedState{Entries: s.entries}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vault state: %w", err)
	}

	if err = os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write vault file: %w", err)
	}

	return nil
}
