// Package hotkey provides the global dictation hotkey listener using
// gohook. Every activation is reduced to a single opaque toggle signal;
// the session state machine decides what a toggle means.
package hotkey

import (
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// Toggle is one hotkey activation. Deduplication of duplicate deliveries
// happens downstream in the session's toggle gate, not here.
type Toggle struct {
	At time.Time
}

// Listener manages a global hotkey and emits toggle signals.
//
// In "toggle" mode each key press emits one signal. In "hold" mode the
// press and the release each emit one signal, which drives the same
// start/stop cycle as two presses would.
type Listener struct {
	keys []string
	mode string // "toggle" or "hold"
	ch   chan Toggle
	done chan struct{}
	once sync.Once
}

// NewListener creates a Listener for the given key combo and mode.
// keys should be lowercase key names (e.g., ["ctrl", "shift", "t"]).
func NewListener(keys []string, mode string) *Listener {
	return &Listener{
		keys: keys,
		mode: mode,
		ch:   make(chan Toggle, 16),
		done: make(chan struct{}),
	}
}

// Toggles returns the channel that receives toggle signals.
// The channel is closed when Stop is called.
func (l *Listener) Toggles() <-chan Toggle {
	return l.ch
}

// Start begins listening for the global hotkey.
// This function blocks until Stop is called. Run it in a goroutine.
func (l *Listener) Start() {
	l.register()

	evChan := hook.Start()
	go func() {
		<-l.done
		hook.End()
	}()
	<-hook.Process(evChan)
	close(l.ch)
}

func (l *Listener) register() {
	hook.Register(hook.KeyDown, l.keys, func(e hook.Event) {
		l.emit()
	})
	if l.mode == "hold" {
		hook.Register(hook.KeyUp, l.keys, func(e hook.Event) {
			l.emit()
		})
	}
}

func (l *Listener) emit() {
	select {
	case l.ch <- Toggle{At: time.Now()}:
	default: // don't block if channel is full
	}
}

// Stop terminates the hotkey listener.
// It is safe to call multiple times.
func (l *Listener) Stop() {
	l.once.Do(func() {
		close(l.done)
	})
}
