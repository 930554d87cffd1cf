// Command test-paste is a manual test for the paste service.
// It waits 3 seconds, then pastes test text into the focused application.
// Focus a text editor before the countdown finishes.
//
// Usage:
//
//	go run ./cmd/test-paste
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/echohuiecho/hotkey-type/internal/paste"
)

func main() {
	text := "Hello from hotkey-type!"

	fmt.Printf("Will paste %q in 3 seconds...\n", text)
	fmt.Println("Focus a text editor now!")

	for i := 3; i > 0; i-- {
		fmt.Printf("%d...\n", i)
		time.Sleep(time.Second)
	}

	pasted, err := paste.New().Paste(context.Background(), text)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !pasted {
		fmt.Println("\nPaste keystroke failed; text is on the clipboard.")
		return
	}

	fmt.Println("\nDone!")
}
