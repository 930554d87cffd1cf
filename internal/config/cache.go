package config

import (
	"fmt"
	"sync"
)

// Store loads settings from their persisted form.
type Store interface {
	Load() (*Config, error)
}

// FileStore reads settings from a YAML file on disk.
type FileStore struct {
	Path string
}

// Load implements Store.
func (s FileStore) Load() (*Config, error) {
	cfg, err := Load(s.Path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// Cache holds the last successfully loaded settings snapshot. Readers get
// the snapshot without blocking; the snapshot is replaced atomically on
// reload, so readers never observe a partially updated value.
type Cache struct {
	store Store

	mu      sync.RWMutex
	current *Config
	stale   bool
}

// NewCache creates a cache over the given store with an optional initial
// snapshot. A nil initial snapshot falls back to defaults until the first
// successful Reload.
func NewCache(store Store, initial *Config) *Cache {
	return &Cache{store: store, current: initial}
}

// Current returns the last-loaded snapshot. It never blocks and never
// fails: if nothing has ever loaded, defaulted settings are returned.
func (c *Cache) Current() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return *Default()
	}
	return *c.current
}

// Reload forces a fresh read from the store. On success the cached snapshot
// is replaced and returned; on failure the previous snapshot is left
// untouched and the error is surfaced to the caller.
func (c *Cache) Reload() (Config, error) {
	cfg, err := c.store.Load()
	if err != nil {
		return Config{}, fmt.Errorf("reload settings: %w", err)
	}

	c.mu.Lock()
	c.current = cfg
	c.stale = false
	c.mu.Unlock()

	return *cfg, nil
}

// Invalidate marks the snapshot stale after an external settings-changed
// notification. The cache does not reload eagerly; call-sites that care
// about freshness check Stale and call Reload themselves.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// Stale reports whether a settings-changed notification arrived since the
// last successful Reload.
func (c *Cache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}
