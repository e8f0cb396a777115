// Package state persists reading positions across runs.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	stateFileName = "positions.json"
	hashBytes     = 8192 // First 8KB for content hash
)

// Position is the saved scroll progress for a single file.
type Position struct {
	Progress float64   `json:"progress"`
	Updated  time.Time `json:"updated"`
}

// Store manages persistent reading positions.
type Store struct {
	path string
	data map[string]Position
	now  func() time.Time
	mu   sync.RWMutex
}

// NewStore creates or loads state from XDG_STATE_HOME/scrl/
func NewStore() (*Store, error) {
	return Open(stateDir())
}

// Open creates or loads the position file inside dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]Position),
		now:  time.Now,
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = make(map[string]Position)
	}
	return store, nil
}

// stateDir returns XDG_STATE_HOME/scrl or ~/.local/state/scrl
func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "scrl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "scrl")
}

// Path reports the backing file.
func (s *Store) Path() string { return s.path }

// ComputeHash generates content hash for file identity
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil // First 16 bytes = 32 hex chars
}

// Get returns the saved position for hash and whether one exists.
func (s *Store) Get(hash string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[hash]
	return p, ok
}

// Set records progress for hash and writes the file.
func (s *Store) Set(hash string, progress float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[hash] = Position{Progress: progress, Updated: s.now().UTC()}
	return s.save()
}

// Clear removes saved position for file
func (s *Store) Clear(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, hash)
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
