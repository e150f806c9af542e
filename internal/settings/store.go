package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store persists Parameters as a flat key/value mapping.
type Store interface {
	Load(ctx context.Context) (Parameters, error)
	Save(ctx context.Context, p Parameters) error
}

// FileStore keeps parameters in a YAML file. A missing file yields Defaults.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the YAML file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Load reads the file. Keys missing from the file keep their defaults.
func (s *FileStore) Load(ctx context.Context) (Parameters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return Parameters{}, fmt.Errorf("read settings: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Parameters{}, fmt.Errorf("parse settings %s: %w", filepath.Base(s.path), err)
	}

	flat := make(map[string]string, len(raw))
	for k, v := range raw {
		flat[k] = scalarString(v)
	}

	p, err := FromMap(flat)
	if err != nil {
		return Parameters{}, fmt.Errorf("settings %s: %w", filepath.Base(s.path), err)
	}
	return p, nil
}

// Save writes p through a temp file and rename so readers never see a
// partial file.
func (s *FileStore) Save(ctx context.Context, p Parameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(p.ToMap())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// scalarString renders a decoded YAML scalar as the flat string form.
func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return formatFloat(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// MemoryStore keeps parameters in memory.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemoryStore creates an empty store; Load returns Defaults until Save.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context) (Parameters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FromMap(s.m)
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, p Parameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = p.ToMap()
	return nil
}
