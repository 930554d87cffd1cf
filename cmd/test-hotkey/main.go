// Command test-hotkey is a manual test for the global hotkey listener.
// Run it, then press Ctrl+Shift+T to see toggle signals.
// Press Ctrl+C to exit.
//
// Usage:
//
//	go run ./cmd/test-hotkey [--mode toggle|hold]
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/echohuiecho/hotkey-type/internal/hotkey"
)

func main() {
	mode := flag.String("mode", "toggle", "hotkey mode: toggle or hold")
	flag.Parse()

	keys := []string{"ctrl", "shift", "t"}
	fmt.Printf("Listening for Ctrl+Shift+T in %q mode...\n", *mode)
	fmt.Println("Press Ctrl+C to exit.")

	listener := hotkey.NewListener(keys, *mode)

	// Handle Ctrl+C
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nShutting down...")
		listener.Stop()
	}()

	// Read toggle signals
	go func() {
		for ev := range listener.Toggles() {
			fmt.Printf(">>> TOGGLE at %s\n", ev.At.Format("15:04:05.000"))
		}
		fmt.Println("Signal channel closed.")
	}()

	// Blocks until stopped
	listener.Start()
	fmt.Println("Done.")
}
