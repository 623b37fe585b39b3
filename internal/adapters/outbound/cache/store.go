package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/highwayhash"

	"github.com/openkraft/layerlint/internal/domain"
)

// key seeds the fingerprint hash. Changing it invalidates every cache.
var key = []byte("layerlint-result-cache-key-00001")

// Store is a file-based implementation of domain.ResultStore.
type Store struct{}

// New creates a new file-based cache store.
func New() *Store {
	return &Store{}
}

// Load reads a project cache from disk. Returns (nil, nil) if no cache exists.
func (s *Store) Load(projectPath string) (*domain.ResultCache, error) {
	data, err := os.ReadFile(cachePath(projectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no cache is not an error
		}
		return nil, err
	}

	var cache domain.ResultCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("decoding result cache: %w", err)
	}
	return &cache, nil
}

// Save writes a project cache to disk, creating directories as needed.
func (s *Store) Save(cache *domain.ResultCache) error {
	if err := os.MkdirAll(cacheDir(cache.ProjectPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(cachePath(cache.ProjectPath), data, 0644)
}

// Invalidate removes the cache file for the given project path.
func (s *Store) Invalidate(projectPath string) error {
	if err := os.Remove(cachePath(projectPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Fingerprint returns a 64-bit HighwayHash of data as 16 hex digits.
func (s *Store) Fingerprint(data []byte) (string, error) {
	h, err := highwayhash.New64(key)
	if err != nil {
		return "", err
	}
	if _, err := h.Write(data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func cacheDir(projectPath string) string {
	return filepath.Join(projectPath, ".layerlint", "cache")
}

func cachePath(projectPath string) string {
	return filepath.Join(cacheDir(projectPath), "results.json")
}
