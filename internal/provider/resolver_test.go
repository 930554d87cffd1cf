package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echohuiecho/hotkey-type/internal/config"
)

type countingStore struct {
	cfgs  []*config.Config // consumed in order; last one repeats
	err   error
	loads int
}

func (s *countingStore) Load() (*config.Config, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	cfg := s.cfgs[0]
	if len(s.cfgs) > 1 {
		s.cfgs = s.cfgs[1:]
	}
	return cfg, nil
}

func openaiConfig(key string) *config.Config {
	cfg := config.Default()
	cfg.Provider = config.ProviderOpenAI
	cfg.OpenAIAPIKey = key
	return cfg
}

func TestResolveUsesCachedKey(t *testing.T) {
	store := &countingStore{cfgs: []*config.Config{openaiConfig("sk-test")}}
	resolver := NewResolver(config.NewCache(store, openaiConfig("sk-test")))

	transcriber, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, transcriber)
	assert.Equal(t, 0, store.loads, "a configured key must not trigger a reload")
}

func TestResolveReloadsOnceOnMissingKey(t *testing.T) {
	store := &countingStore{cfgs: []*config.Config{openaiConfig("sk-just-saved")}}
	resolver := NewResolver(config.NewCache(store, openaiConfig("")))

	transcriber, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, transcriber)
	assert.Equal(t, 1, store.loads)
}

func TestResolveMissingKeyAfterReload(t *testing.T) {
	store := &countingStore{cfgs: []*config.Config{openaiConfig("")}}
	resolver := NewResolver(config.NewCache(store, openaiConfig("")))

	_, err := resolver.Resolve(context.Background())
	require.Error(t, err)

	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, config.ProviderOpenAI, missing.Provider)
	assert.Equal(t, `no API key configured for provider "openai"`, err.Error())
	assert.Equal(t, 1, store.loads, "the lookup reloads exactly once")
}

func TestResolveReloadFailureFoldsIntoMissingKey(t *testing.T) {
	store := &countingStore{err: errors.New("settings file corrupted")}
	resolver := NewResolver(config.NewCache(store, openaiConfig("")))

	_, err := resolver.Resolve(context.Background())
	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, config.ProviderOpenAI, missing.Provider)
}

func TestResolveStaleSnapshotReloadsFirst(t *testing.T) {
	fresh := config.Default()
	fresh.Provider = config.ProviderGoogle
	fresh.GoogleAPIKey = "goog-key"
	store := &countingStore{cfgs: []*config.Config{fresh}}

	cache := config.NewCache(store, openaiConfig("sk-old"))
	cache.Invalidate()

	resolver := NewResolver(cache)
	transcriber, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &Google{}, transcriber, "a stale snapshot must be refreshed before provider selection")
	assert.Equal(t, 1, store.loads)
}

func TestResolveGoogleLanguageDefault(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = config.ProviderGoogle
	cfg.GoogleAPIKey = "goog-key"
	cfg.GoogleLanguage = ""

	resolver := NewResolver(config.NewCache(&countingStore{cfgs: []*config.Config{cfg}}, cfg))
	transcriber, err := resolver.Resolve(context.Background())
	require.NoError(t, err)

	google, ok := transcriber.(*Google)
	require.True(t, ok)
	assert.Equal(t, "en-US", google.language)
}

func TestResolveOpenAILanguageHint(t *testing.T) {
	cfg := openaiConfig("sk-test")
	cfg.GoogleLanguage = " ja-JP "

	resolver := NewResolver(config.NewCache(&countingStore{cfgs: []*config.Config{cfg}}, cfg))
	transcriber, err := resolver.Resolve(context.Background())
	require.NoError(t, err)

	openAI, ok := transcriber.(*OpenAI)
	require.True(t, ok)
	assert.Equal(t, "ja-JP", openAI.language)
}

func TestResolveOpenAIWithoutLanguage(t *testing.T) {
	cfg := openaiConfig("sk-test")
	cfg.GoogleLanguage = ""

	resolver := NewResolver(config.NewCache(&countingStore{cfgs: []*config.Config{cfg}}, cfg))
	transcriber, err := resolver.Resolve(context.Background())
	require.NoError(t, err)

	openAI, ok := transcriber.(*OpenAI)
	require.True(t, ok)
	assert.Empty(t, openAI.language, "an unset language stays a no-op hint, not a default")
}

func TestResolveTrimsWhitespaceOnlyKey(t *testing.T) {
	store := &countingStore{cfgs: []*config.Config{openaiConfig("   ")}}
	resolver := NewResolver(config.NewCache(store, openaiConfig("   ")))

	_, err := resolver.Resolve(context.Background())
	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)
}
