package session

import "context"

// Artifact describes a finished recording on disk.
type Artifact struct {
	Path         string
	SampleRateHz int
	DurationMs   int64
}

// RecordingHandle identifies an in-progress recording. It is owned
// exclusively by the controller between Start and Stop/Discard.
type RecordingHandle interface {
	// Stop finalizes the recording and returns the audio artifact.
	Stop() (Artifact, error)
	// Discard drops the recording and its backing file without error.
	Discard()
}

// Recorder starts microphone capture sessions.
type Recorder interface {
	Start(ctx context.Context) (RecordingHandle, error)
}

// Transcriber converts a recorded artifact to text. An empty result is a
// valid outcome; the controller classifies it, not the provider.
type Transcriber interface {
	Transcribe(ctx context.Context, a Artifact) (string, error)
}

// Resolver picks the transcription backend and validates its credentials
// at the moment they are needed, not earlier.
type Resolver interface {
	Resolve(ctx context.Context) (Transcriber, error)
}

// Paster writes text into the focused application. The boolean result
// distinguishes a real paste from the clipboard-only degraded outcome; an
// error means not even the clipboard could be written.
type Paster interface {
	Paste(ctx context.Context, text string) (pasted bool, err error)
}

// EventSink receives phase/message updates for the presentation boundary.
// It never observes raw errors, only the translated phase and message.
// Implementations are called from inside a transition and must not call
// back into the controller.
type EventSink interface {
	PhaseChanged(phase Phase, message string)
}
