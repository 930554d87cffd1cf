// Package paste delivers transcribed text into the active application
// using robotgo. The clipboard is written first in every case, so even a
// failed paste keystroke leaves the text reachable by the user.
package paste

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-vgo/robotgo"
	"github.com/rs/zerolog"

	"github.com/echohuiecho/hotkey-type/internal/log"
)

// Paster implements session.Paster.
type Paster struct {
	logger zerolog.Logger
}

// New creates a Paster.
func New() *Paster {
	return &Paster{logger: log.WithComponent("paste")}
}

// Paste writes text to the clipboard and simulates the platform paste
// keystroke (Cmd+V on macOS, Ctrl+V elsewhere). A failed keystroke is a
// degraded result, not an error: the text is already on the clipboard.
// Only a failed clipboard write is an error.
func (p *Paster) Paste(_ context.Context, text string) (bool, error) {
	if text == "" {
		return false, nil
	}

	if err := robotgo.WriteAll(text); err != nil {
		return false, fmt.Errorf("write to clipboard: %w", err)
	}

	modifier := "ctrl"
	if runtime.GOOS == "darwin" {
		modifier = "cmd"
	}
	if err := robotgo.KeyTap("v", modifier); err != nil {
		p.logger.Warn().Err(err).Msg("paste keystroke failed, text left on clipboard")
		return false, nil
	}

	return true, nil
}
