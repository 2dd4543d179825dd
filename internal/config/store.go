package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/1broseidon/winhide/internal/platform"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns winhide/config.yaml under the user config
// directory ($XDG_CONFIG_HOME or ~/.config on Linux, %AppData% on Windows).
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "winhide", "config.yaml"), nil
}

// Store reads and writes the config file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the config file. A missing file yields the defaults. Fields
// absent from the file keep their default values and unknown fields are
// ignored. JSON files are accepted.
func (s *Store) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := DefaultConfig()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", s.path, err)
		}
	}
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save validates cfg and writes it atomically.
func (s *Store) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadOrDefault loads the config, falling back to defaults on any error. The
// load error is returned alongside the defaults so callers can report it.
func LoadOrDefault(s *Store) (*Config, error) {
	cfg, err := s.Load()
	if err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	if cfg.SelectedWindowIDs == nil {
		cfg.SelectedWindowIDs = []platform.WindowID{}
	}
	cfg.SelectedWindowIDs = platform.UniqueIDs(cfg.SelectedWindowIDs)
	if cfg.ExcludedPaths == nil {
		cfg.ExcludedPaths = []string{}
	}
}
