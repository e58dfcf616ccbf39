// internal/store/store.go
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tamzrod/trdp-sim/internal/config"
)

// DefaultDir is used when no library directory is given.
const DefaultDir = "config/library"

const ext = ".yaml"

var (
	ErrInvalidName = errors.New("store: invalid configuration name")
	ErrNotFound    = errors.New("store: configuration not found")
)

// Store keeps named YAML configurations in one directory.
type Store struct {
	dir string
}

// New opens (and creates if needed) the library directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// ValidName accepts letters, digits, '_', '-' and '.'.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}

// PathFor maps a name to its file. Spaces become underscores.
func (s *Store) PathFor(name string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(name, " ", "_")+ext)
}

// List returns stored names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Exists(name string) bool {
	if !ValidName(name) {
		return false
	}
	_, err := os.Stat(s.PathFor(name))
	return err == nil
}

// Load returns the raw document.
func (s *Store) Load(name string) ([]byte, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	data, err := os.ReadFile(s.PathFor(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, err
}

// LoadConfig parses, normalizes and validates a stored configuration.
func (s *Store) LoadConfig(name string) (*config.Config, error) {
	data, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	return config.Parse(data, config.FormatYAML)
}

// Save writes data atomically (temp file + rename).
func (s *Store) Save(name string, data []byte) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	target := s.PathFor(name)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// SaveConfig stores cfg as YAML.
func (s *Store) SaveConfig(name string, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", name, err)
	}
	return s.Save(name, data)
}
