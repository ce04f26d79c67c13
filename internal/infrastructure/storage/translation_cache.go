package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"LawExporter/internal/ports"
)

// TranslationCache keeps one "<key>.txt" file per translated article.
type TranslationCache struct {
	store ports.FileStore
	dir   string
	ready bool
}

var _ ports.TranslationCache = (*TranslationCache)(nil)

// NewTranslationCache stores entries under dir.
func NewTranslationCache(store ports.FileStore, dir string) *TranslationCache {
	return &TranslationCache{store: store, dir: dir}
}

// Lookup reports a miss with Found=false rather than an error.
func (c *TranslationCache) Lookup(ctx context.Context, key string) (ports.CacheResult, error) {
	raw, err := c.store.ReadFile(ctx, c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return ports.CacheResult{}, nil
	}
	if err != nil {
		return ports.CacheResult{}, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	return ports.CacheResult{Text: string(raw), Found: true}, nil
}

// Store writes the entry, creating the cache directory on first use.
func (c *TranslationCache) Store(ctx context.Context, key, text string) error {
	if !c.ready {
		if err := c.store.MkdirAll(ctx, c.dir); err != nil {
			return err
		}
		c.ready = true
	}
	return c.store.WriteFile(ctx, c.path(key), []byte(text))
}

func (c *TranslationCache) path(key string) string {
	return filepath.Join(c.dir, key+".txt")
}
