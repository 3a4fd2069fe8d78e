package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/roelfdiedericks/llmcli/internal/logging"
	"github.com/roelfdiedericks/llmcli/internal/paths"
)

// Cache is the persistence contract the Resolver needs.
type Cache interface {
	Load(key Key) ([]Model, bool)
	Save(key Key, models []Model) error
}

// cacheFile is the on-disk record. It has no timestamp; a cache is used until
// --refresh replaces it.
type cacheFile struct {
	Provider Provider `json:"provider"`
	Mode     Mode     `json:"mode"`
	Models   []Model  `json:"models"`
}

// Store keeps one JSON file per catalog key inside a directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. The directory is created on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the cache file for key, e.g. <dir>/models_mistral_proxied.json.
func (s *Store) Path(key Key) string {
	return filepath.Join(s.dir, fmt.Sprintf("models_%s_%s.json", key.Provider, key.Mode))
}

// Load returns the cached catalog for key. Any read or parse problem is a miss.
func (s *Store) Load(key Key) ([]Model, bool) {
	path := s.Path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			L_warn("catalog: failed to read cache", "path", path, "error", err)
		}
		return nil, false
	}

	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		L_warn("catalog: ignoring unparseable cache", "path", path, "error", err)
		return nil, false
	}
	if f.Provider != key.Provider || f.Mode != key.Mode {
		L_warn("catalog: cache belongs to another catalog", "path", path, "provider", f.Provider, "mode", f.Mode)
		return nil, false
	}
	for _, m := range f.Models {
		if !key.Accepts(m.ID) {
			L_warn("catalog: ignoring cache with foreign model id", "path", path, "id", m.ID)
			return nil, false
		}
	}

	L_debug("catalog: loaded cache", "key", key, "models", len(f.Models))
	return normalize(key, f.Models), true
}

// Save replaces the cache file for key with models.
func (s *Store) Save(key Key, models []Model) error {
	path := s.Path(key)

	data, err := json.MarshalIndent(cacheFile{
		Provider: key.Provider,
		Mode:     key.Mode,
		Models:   normalize(key, models),
	}, "", "  ")
	if err != nil {
		return &CacheWriteError{Path: path, Err: err}
	}
	if err := atomicWrite(path, append(data, '\n'), 0600); err != nil {
		return &CacheWriteError{Path: path, Err: err}
	}

	L_debug("catalog: saved cache", "path", path, "models", len(models))
	return nil
}

// atomicWrite writes data to path using temp file + rename.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := paths.EnsureParentDir(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)

	// Same directory so the rename stays on one filesystem
	tmp, err := os.CreateTemp(dir, ".llmcli-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp to target: %w", err)
	}

	success = true
	return nil
}
