// Package store persists the classifier settings between runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/configpaths"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("settings not found")

// ErrNoHistory is returned by AsVersioned for stores that keep no revisions.
var ErrNoHistory = errors.New("settings store keeps no revision history")

// Store loads and saves dpad.Settings. Implementations are safe for
// concurrent use.
type Store interface {
	Load(ctx context.Context) (dpad.Settings, error)
	Save(ctx context.Context, s dpad.Settings) error
	Close() error
}

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

type StoreConfig struct {
	Kind string `help:"Settings store backend" default:"file" enum:"file,sqlite,memory" env:"ANALOGDPAD_STORE_KIND"`
	Path string `help:"Settings store location (defaults to the user config directory)" env:"ANALOGDPAD_STORE_PATH"`
}

// Open creates the store described by cfg.
func Open(cfg StoreConfig) (Store, error) {
	if cfg.Kind == KindMemory {
		return NewMemory(), nil
	}

	path := cfg.Path
	if path == "" {
		dir, err := configpaths.DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve store path: %w", err)
		}
		name := "settings.json"
		if cfg.Kind == KindSQLite {
			name = "settings.db"
		}
		path = filepath.Join(dir, name)
	}

	switch cfg.Kind {
	case KindFile, "":
		return NewFileStore(path), nil
	case KindSQLite:
		return NewSQLiteStore(path)
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}

// Versioned is implemented by stores that keep every saved revision.
type Versioned interface {
	// Active returns the revision Load reads, or ErrNotFound.
	Active(ctx context.Context) (Revision, error)
	// History lists up to limit revisions, newest first. limit <= 0 means all.
	History(ctx context.Context, limit int) ([]Revision, error)
	// Rollback activates an earlier revision. Unknown ids wrap ErrNotFound.
	Rollback(ctx context.Context, revisionID string) error
}

// AsVersioned returns s as a Versioned store, or ErrNoHistory.
func AsVersioned(s Store) (Versioned, error) {
	if v, ok := s.(Versioned); ok {
		return v, nil
	}
	return nil, ErrNoHistory
}

// LoadOrDefault returns the saved settings, or dpad.DefaultSettings if none
// were saved yet.
func LoadOrDefault(ctx context.Context, s Store) (dpad.Settings, error) {
	settings, err := s.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return dpad.DefaultSettings(), nil
	}
	return settings, err
}

// Memory is an in-process Store, used when persistence is not wanted.
type Memory struct {
	mu       sync.Mutex
	settings *dpad.Settings
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(context.Context) (dpad.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return dpad.Settings{}, ErrNotFound
	}
	return *m.settings, nil
}

func (m *Memory) Save(_ context.Context, s dpad.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return nil
}

func (m *Memory) Close() error { return nil }
