// Package credential stores the single API key used to authorize calls to
// the completion endpoint.
package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// SlotName is the fixed key under which the credential is stored.
const SlotName = "zenxai_openrouter_key"

// ErrEmptyCredential is returned by Set when the value is blank.
var ErrEmptyCredential = errors.New("credential is empty")

// Getter reads the current credential. An empty string with a nil error
// means no credential is stored.
type Getter interface {
	Get() (string, error)
}

// Store is a Getter that can also be written and cleared.
type Store interface {
	Getter
	Set(value string) error
	Clear() error
}

// Present reports whether g currently holds a non-empty credential.
// Read errors count as absent.
func Present(g Getter) bool {
	v, err := g.Get()
	return err == nil && v != ""
}

// Mask returns a masked version of the credential for display
func Mask(value string) string {
	if value == "" {
		return "[not set]"
	}
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "..." + value[len(value)-4:]
}

// FileStore keeps the credential in a TOML file.
// Keys other than SlotName are preserved on write.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore backed by path. The file is created on first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Getter. A missing file is an empty slot.
func (s *FileStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.read()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(slots[SlotName]), nil
}

// Set implements Store. The value is trimmed before it is written.
func (s *FileStore) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.read()
	if err != nil {
		return err
	}
	slots[SlotName] = value
	return s.write(slots)
}

// Clear implements Store.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := slots[SlotName]; !ok {
		return nil
	}
	delete(slots, SlotName)
	return s.write(slots)
}

func (s *FileStore) read() (map[string]string, error) {
	slots := make(map[string]string)
	if _, err := toml.DecodeFile(s.path, &slots); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return slots, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return slots, nil
}

func (s *FileStore) write(slots map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set credentials file mode: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(slots); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// MemoryStore keeps the credential in memory only.
type MemoryStore struct {
	mu    sync.RWMutex
	value string
}

// NewMemoryStore returns a MemoryStore holding value (which may be empty).
func NewMemoryStore(value string) *MemoryStore {
	return &MemoryStore{value: strings.TrimSpace(value)}
}

// Get implements Getter.
func (s *MemoryStore) Get() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, nil
}

// Set implements Store.
func (s *MemoryStore) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyCredential
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	return nil
}
