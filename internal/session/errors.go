package session

import "errors"

// ErrEmptyTranscript marks a successful provider call whose result held no
// usable text. It is distinct from a transport failure so tests and
// messaging can tell the two apart; its text is the user-facing message.
var ErrEmptyTranscript = errors.New("no text transcribed")
