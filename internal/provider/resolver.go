package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/echohuiecho/hotkey-type/internal/config"
	"github.com/echohuiecho/hotkey-type/internal/log"
	"github.com/echohuiecho/hotkey-type/internal/session"
)

// Resolver implements session.Resolver over the settings cache.
type Resolver struct {
	settings *config.Cache
	httpc    *http.Client
	logger   zerolog.Logger
}

// NewResolver creates a resolver over the given settings cache.
func NewResolver(settings *config.Cache) *Resolver {
	return &Resolver{
		settings: settings,
		httpc:    &http.Client{Timeout: 60 * time.Second},
		logger:   log.WithComponent("provider"),
	}
}

// Resolve returns a transcriber for the currently selected provider.
//
// If the cached settings lack the selected provider's credential, settings
// are reloaded exactly once and the lookup retried: the key may have just
// been saved in a settings view that has not pushed a change notification
// yet. A second miss fails with MissingKeyError. A reload failure nets out
// the same for the user (no usable key right now), so it is folded into
// the missing-key outcome rather than surfaced separately.
func (r *Resolver) Resolve(ctx context.Context) (session.Transcriber, error) {
	cfg := r.settings.Current()
	if r.settings.Stale() {
		if fresh, err := r.settings.Reload(); err == nil {
			cfg = fresh
		} else {
			r.logger.Warn().Err(err).Msg("stale settings reload failed, using cached snapshot")
		}
	}

	if t, ok := r.transcriberFor(cfg); ok {
		return t, nil
	}

	fresh, err := r.settings.Reload()
	if err != nil {
		r.logger.Warn().Err(err).Msg("settings reload failed during credential lookup")
		return nil, &MissingKeyError{Provider: cfg.Provider}
	}
	if t, ok := r.transcriberFor(fresh); ok {
		return t, nil
	}
	return nil, &MissingKeyError{Provider: fresh.Provider}
}

func (r *Resolver) transcriberFor(cfg config.Config) (session.Transcriber, bool) {
	key := cfg.Key(cfg.Provider)
	if key == "" {
		return nil, false
	}
	switch cfg.Provider {
	case config.ProviderGoogle:
		// Google requires a language code, defaulted to en-US when unset.
		return NewGoogle(GoogleConfig{
			APIKey:   key,
			Language: cfg.Language(),
			Client:   r.httpc,
		}), true
	default:
		// OpenAI takes the language only as a hint, so an unset value is
		// passed through empty rather than defaulted.
		return NewOpenAI(key, strings.TrimSpace(cfg.GoogleLanguage)), true
	}
}
