// Package provider selects and implements transcription backends. The
// resolver decides which backend and credentials to use at the moment a
// transcription is needed, reloading settings once when the configured
// key is missing.
package provider

import (
	"fmt"

	"github.com/echohuiecho/hotkey-type/internal/config"
)

// MissingKeyError reports that the selected provider has no API key
// configured, even after a forced settings reload.
type MissingKeyError struct {
	Provider config.Provider
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("no API key configured for provider %q", e.Provider)
}
