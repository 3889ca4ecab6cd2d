// Package cryptonym loads the code name dictionary from a JSON file or the database.
package cryptonym

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kailas-cloud/hoover/internal/domain"
)

// store is the consumer interface for the dictionary hash (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, key string) error
	Rename(ctx context.Context, src, dst string) error
}

// Repo keeps the dictionary in a database hash.
type Repo struct {
	store store
}

// New creates a database-backed dictionary repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Load returns every entry. An empty hash is ErrConfigMissing.
func (r *Repo) Load(ctx context.Context) (map[string]string, error) {
	m, err := r.store.HGetAll(ctx, domain.CryptonymsHashKey)
	if err != nil {
		return nil, fmt.Errorf("load cryptonyms: %w", err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: cryptonym hash %s is empty", domain.ErrConfigMissing, domain.CryptonymsHashKey)
	}
	return m, nil
}

// Replace swaps the stored dictionary for entries. The new hash is written
// under a staging key and renamed over the live one, so readers never see it empty.
func (r *Repo) Replace(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no cryptonyms to store", domain.ErrConfigMissing)
	}
	if err := r.store.Del(ctx, domain.CryptonymsStagingKey); err != nil {
		return fmt.Errorf("clear staged cryptonyms: %w", err)
	}
	if err := r.store.HSet(ctx, domain.CryptonymsStagingKey, entries); err != nil {
		return fmt.Errorf("stage cryptonyms: %w", err)
	}
	if err := r.store.Rename(ctx, domain.CryptonymsStagingKey, domain.CryptonymsHashKey); err != nil {
		return fmt.Errorf("publish cryptonyms: %w", err)
	}
	return nil
}

// LoadFile reads a JSON object of code name to definition.
// A missing or empty file is ErrConfigMissing.
func LoadFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: cryptonym file path is empty", domain.ErrConfigMissing)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigMissing, path)
		}
		return nil, fmt.Errorf("read cryptonyms: %w", err)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse cryptonyms %s: %w", path, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: %s has no entries", domain.ErrConfigMissing, path)
	}
	return m, nil
}
