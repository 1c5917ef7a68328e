package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// DiskStore implements KV with one JSON file per key under a base
// directory. Namespaces ("ns:key") become subdirectories.
type DiskStore struct {
	d *diskv.Diskv
}

var _ KV = (*DiskStore)(nil)

// NewDiskStore opens a store rooted at basePath. The directory is created
// on first write.
func NewDiskStore(basePath string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      256 * 1024,
	})}
}

func keyToPath(key string) *diskv.PathKey {
	parts := strings.Split(key, ":")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1] + ".json",
	}
}

func pathToKey(pk *diskv.PathKey) string {
	name := strings.TrimSuffix(pk.FileName, ".json")
	if len(pk.Path) == 0 {
		return name
	}
	return strings.Join(pk.Path, ":") + ":" + name
}

// Get reads and deserializes a value by key.
func (s *DiskStore) Get(_ context.Context, key string, dest any) error {
	data, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("kv get %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

// Set serializes value and writes it under key.
func (s *DiskStore) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *DiskStore) Delete(_ context.Context, key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has returns whether a key exists.
func (s *DiskStore) Has(_ context.Context, key string) (bool, error) {
	return s.d.Has(key), nil
}

// ListKeys returns all keys in sorted order.
func (s *DiskStore) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	for key := range s.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
