package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	cfg   *Config
	err   error
	loads int
}

func (s *stubStore) Load() (*Config, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

func TestCacheCurrentFallsBackToDefaults(t *testing.T) {
	cache := NewCache(&stubStore{}, nil)
	assert.Equal(t, *Default(), cache.Current())
}

func TestCacheCurrentReturnsSnapshot(t *testing.T) {
	initial := Default()
	initial.OpenAIAPIKey = "sk-initial"
	cache := NewCache(&stubStore{}, initial)

	assert.Equal(t, "sk-initial", cache.Current().OpenAIAPIKey)
}

func TestCacheReloadReplacesSnapshot(t *testing.T) {
	fresh := Default()
	fresh.OpenAIAPIKey = "sk-fresh"
	store := &stubStore{cfg: fresh}
	cache := NewCache(store, Default())

	got, err := cache.Reload()
	require.NoError(t, err)
	assert.Equal(t, "sk-fresh", got.OpenAIAPIKey)
	assert.Equal(t, "sk-fresh", cache.Current().OpenAIAPIKey)
	assert.Equal(t, 1, store.loads)
}

func TestCacheReloadFailureKeepsSnapshot(t *testing.T) {
	initial := Default()
	initial.OpenAIAPIKey = "sk-keep"
	store := &stubStore{err: errors.New("disk gone")}
	cache := NewCache(store, initial)

	_, err := cache.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reload settings")
	assert.Equal(t, "sk-keep", cache.Current().OpenAIAPIKey)
}

func TestCacheStaleClearedByReload(t *testing.T) {
	store := &stubStore{cfg: Default()}
	cache := NewCache(store, Default())

	assert.False(t, cache.Stale())
	cache.Invalidate()
	assert.True(t, cache.Stale())

	_, err := cache.Reload()
	require.NoError(t, err)
	assert.False(t, cache.Stale())
}

func TestCacheStaleSurvivesFailedReload(t *testing.T) {
	store := &stubStore{err: errors.New("bad yaml")}
	cache := NewCache(store, Default())

	cache.Invalidate()
	_, err := cache.Reload()
	require.Error(t, err)
	assert.True(t, cache.Stale(), "a failed reload must not mark the snapshot fresh")
}

func TestFileStoreLoadValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: nonsense\n"), 0o600))

	_, err := FileStore{Path: path}.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid settings")
}
