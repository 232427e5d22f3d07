package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/configpaths"
)

// FileStore keeps the settings in a single JSON, YAML or TOML file, chosen
// by the file extension.
type FileStore struct {
	path   string
	format string
	mu     sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, format: configpaths.FormatFromPath(path)}
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(ctx context.Context) (dpad.Settings, error) {
	if err := ctx.Err(); err != nil {
		return dpad.Settings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return dpad.Settings{}, ErrNotFound
	}
	if err != nil {
		return dpad.Settings{}, fmt.Errorf("read settings: %w", err)
	}

	s := dpad.DefaultSettings()
	switch f.format {
	case "yaml":
		err = yaml.Unmarshal(data, &s)
	case "toml":
		err = toml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return dpad.Settings{}, fmt.Errorf("decode %s settings %s: %w", f.format, f.path, err)
	}
	return s, nil
}

func (f *FileStore) Save(ctx context.Context, s dpad.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch f.format {
	case "yaml":
		data, err = yaml.Marshal(s)
	case "toml":
		data, err = toml.Marshal(s)
	default:
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := configpaths.EnsureDir(f.path); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".settings-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
