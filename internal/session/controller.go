package session

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/echohuiecho/hotkey-type/internal/log"
)

// Config tunes controller timing. Zero values fall back to the defaults.
type Config struct {
	Clock          Clock
	DebounceWindow time.Duration
	DoneRecovery   time.Duration
	ErrorRecovery  time.Duration
}

// Controller is the dictation session state machine. One controller exists
// per process; it is created idle at startup and lives for the process
// lifetime, only ever resetting back to idle.
//
// All session state is owned here and mutated only inside toggle-driven
// transitions, the finishing pipeline, and the recovery timer callback.
// The presentation boundary observes state solely through the EventSink.
type Controller struct {
	recorder Recorder
	resolver Resolver
	paster   Paster
	sink     EventSink
	clock    Clock
	logger   zerolog.Logger

	doneRecovery  time.Duration
	errorRecovery time.Duration

	mu       sync.Mutex
	phase    Phase
	message  string
	active   RecordingHandle
	inFlight bool
	gen      uint64 // bumped on every toggle-driven transition; stale recovery fires check it
	gate     *ToggleGate
	recovery *RecoveryScheduler
}

// NewController wires the state machine to its collaborators.
func NewController(recorder Recorder, resolver Resolver, paster Paster, sink EventSink, cfg Config) *Controller {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	doneRecovery := cfg.DoneRecovery
	if doneRecovery <= 0 {
		doneRecovery = DoneRecoveryDelay
	}
	errorRecovery := cfg.ErrorRecovery
	if errorRecovery <= 0 {
		errorRecovery = ErrorRecoveryDelay
	}

	return &Controller{
		recorder:      recorder,
		resolver:      resolver,
		paster:        paster,
		sink:          sink,
		clock:         clock,
		logger:        log.WithComponent("session"),
		doneRecovery:  doneRecovery,
		errorRecovery: errorRecovery,
		phase:         PhaseIdle,
		gate:          NewToggleGate(cfg.DebounceWindow),
		recovery:      NewRecoveryScheduler(clock),
	}
}

// Status returns the current phase and message.
func (c *Controller) Status() (Phase, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase, c.message
}

// Toggle processes one hotkey signal stamped at the moment it was
// delivered. Signals are handled in arrival order; one dropped by the
// debounce gate has no observable effect.
func (c *Controller) Toggle(ctx context.Context, at time.Time) {
	c.mu.Lock()
	if !c.gate.Accept(at) {
		c.mu.Unlock()
		c.logger.Debug().Msg("toggle dropped by debounce gate")
		return
	}
	if c.inFlight {
		// The stop->transcribe->paste pipeline is not interruptible once
		// started: the recording handle is already released and external
		// calls are in flight. The gate accepted the signal, the machine
		// ignores it.
		phase := c.phase
		c.mu.Unlock()
		c.logger.Debug().Str("phase", string(phase)).Msg("toggle ignored while transition in flight")
		return
	}

	c.gen++
	c.recovery.CancelPending()

	if c.phase == PhaseRecording {
		handle := c.active
		c.active = nil
		c.inFlight = true
		c.mu.Unlock()
		go c.finish(ctx, handle)
		return
	}

	// Idle, or a terminal phase not yet auto-reset: either way a new cycle
	// starts now. Entering done/error never blocks the next recording.
	c.mu.Unlock()
	c.startRecording(ctx)
}

// startRecording acquires a recording handle and enters the recording
// phase, or fails the cycle.
func (c *Controller) startRecording(ctx context.Context) {
	handle, err := c.recorder.Start(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("start recording failed")
		c.fail(err.Error())
		return
	}

	c.mu.Lock()
	c.active = handle
	c.apply(PhaseRecording, "Recording...")
	c.mu.Unlock()
}

// finish runs the non-interruptible half of a cycle: stop the recording,
// resolve the provider, transcribe, paste. It runs on its own goroutine so
// signal delivery continues while external calls are in flight. The
// transcribing phase is announced only once the recording has actually
// stopped and produced an artifact.
func (c *Controller) finish(ctx context.Context, handle RecordingHandle) {
	artifact, err := handle.Stop()
	if err != nil {
		c.logger.Error().Err(err).Msg("stop recording failed")
		c.fail(fmt.Sprintf("stop recording: %v", err))
		return
	}
	c.setPhase(PhaseTranscribing, "Transcribing...")

	transcriber, err := c.resolver.Resolve(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("provider resolution failed")
		c.discardArtifact(artifact)
		c.fail(err.Error())
		return
	}

	started := c.clock.Now()
	text, err := transcriber.Transcribe(ctx, artifact)
	c.discardArtifact(artifact)
	if err != nil {
		// Surface the provider message unmodified so the user can diagnose
		// quota or key problems.
		c.logger.Error().Err(err).Msg("transcription failed")
		c.fail(err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		c.logger.Warn().Msg("transcription returned no usable text")
		c.fail(ErrEmptyTranscript.Error())
		return
	}
	c.logger.Info().
		Dur("took", c.clock.Now().Sub(started)).
		Int("chars", len(text)).
		Msg("transcription complete")

	c.setPhase(PhasePasting, "Pasting...")

	pasted, err := c.paster.Paste(ctx, text)
	message := fmt.Sprintf("Pasted: %q", text)
	if err != nil || !pasted {
		// Degraded success: the text is still reachable via the clipboard.
		if err != nil {
			c.logger.Warn().Err(err).Msg("paste failed, clipboard fallback")
		}
		message = fmt.Sprintf("Copied to clipboard: %q", text)
	}

	c.mu.Lock()
	c.inFlight = false
	c.armRecoveryLocked(c.doneRecovery)
	c.apply(PhaseDone, message)
	c.mu.Unlock()
}

// fail ends the current cycle in the error phase: any held recording handle
// is released, the message is surfaced, and the longer recovery delay is
// armed.
func (c *Controller) fail(message string) {
	c.mu.Lock()
	if c.active != nil {
		c.active.Discard()
		c.active = nil
	}
	c.inFlight = false
	c.armRecoveryLocked(c.errorRecovery)
	c.apply(PhaseError, message)
	c.mu.Unlock()
}

// setPhase updates phase and message outside a toggle transition.
func (c *Controller) setPhase(phase Phase, message string) {
	c.mu.Lock()
	c.apply(phase, message)
	c.mu.Unlock()
}

// apply records the new phase and notifies the sink. Callers hold c.mu.
func (c *Controller) apply(phase Phase, message string) {
	c.phase = phase
	c.message = message
	c.logger.Info().Str("phase", string(phase)).Str("message", message).Msg("phase changed")
	if c.sink != nil {
		c.sink.PhaseChanged(phase, message)
	}
}

// armRecoveryLocked schedules the reset back to idle. The generation guard
// keeps a timer that was already firing when a new toggle arrived from
// clobbering the new cycle.
func (c *Controller) armRecoveryLocked(delay time.Duration) {
	gen := c.gen
	c.recovery.Arm(delay, func() {
		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			return
		}
		c.apply(PhaseIdle, "")
		c.mu.Unlock()
	})
}

func (c *Controller) discardArtifact(a Artifact) {
	if a.Path == "" {
		return
	}
	if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
		c.logger.Debug().Err(err).Str("path", a.Path).Msg("could not remove audio artifact")
	}
}
