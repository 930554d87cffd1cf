// Package session implements the dictation session state machine: it turns
// accepted hotkey toggles into the record -> transcribe -> paste sequence and
// exposes a single phase plus message to the presentation boundary.
package session

// Phase is the sole externally visible state of the dictation session.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseRecording    Phase = "recording"
	PhaseTranscribing Phase = "transcribing"
	PhasePasting      Phase = "pasting"
	PhaseDone         Phase = "done"
	PhaseError        Phase = "error"
)

// Terminal reports whether the phase ends a cycle. A new toggle in a
// terminal phase starts a fresh recording immediately.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseError
}
