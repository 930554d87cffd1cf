// Command hotkey-type is a hotkey-driven dictation tool: press the global
// hotkey to start recording, press it again to transcribe the audio with
// the configured provider and paste the text into the active application.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/echohuiecho/hotkey-type/internal/audio"
	"github.com/echohuiecho/hotkey-type/internal/config"
	"github.com/echohuiecho/hotkey-type/internal/hotkey"
	"github.com/echohuiecho/hotkey-type/internal/log"
	"github.com/echohuiecho/hotkey-type/internal/paste"
	"github.com/echohuiecho/hotkey-type/internal/provider"
	"github.com/echohuiecho/hotkey-type/internal/session"
)

// consoleSink is the presentation boundary: it renders the session's
// phase and message, nothing else.
type consoleSink struct{}

func (consoleSink) PhaseChanged(phase session.Phase, message string) {
	if message == "" {
		fmt.Printf("[%s]\n", phase)
		return
	}
	fmt.Printf("[%s] %s\n", phase, message)
}

func main() {
	configPath := flag.String("config", "", "path to settings file (default: ~/.config/hotkey-type/config.yaml)")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	store := config.FileStore{Path: path}
	cfg, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log.Configure(log.Config{Level: cfg.LogLevel, Pretty: true})
	logger := log.WithComponent("main")

	cache := config.NewCache(store, cfg)

	recorder, err := audio.NewRecorder(cfg.Audio.SampleRate, cfg.Audio.Channels, cfg.InputDevice)
	if err != nil {
		logger.Fatal().Err(err).Msg("audio recorder init failed; check microphone permissions")
	}

	controller := session.NewController(
		recorder,
		provider.NewResolver(cache),
		paste.New(),
		consoleSink{},
		session.Config{},
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := config.Watch(ctx, path, cache); err != nil {
			logger.Warn().Err(err).Msg("settings watcher unavailable")
		}
	}()

	listener := hotkey.NewListener(cfg.Hotkey.Keys, cfg.Hotkey.Mode)
	go listener.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logger.Info().
		Str("hotkey", strings.Join(cfg.Hotkey.Keys, "+")).
		Str("mode", cfg.Hotkey.Mode).
		Str("provider", string(cfg.Provider)).
		Msg("ready, press the hotkey to dictate")

	toggles := listener.Toggles()
	for {
		select {
		case ev, ok := <-toggles:
			if !ok {
				logger.Info().Msg("hotkey listener stopped")
				cancel()
				recorder.Close()
				return
			}
			controller.Toggle(ctx, ev.At)

		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			cancel()
			listener.Stop()
			recorder.Close()
			// Exit directly to avoid gohook's C cleanup crash.
			// The OS reclaims the event hook on process exit.
			os.Exit(0)
		}
	}
}
