// Package audio captures microphone input with malgo and finalizes each
// recording into a 16-bit PCM WAV artifact on disk.
package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/echohuiecho/hotkey-type/internal/log"
	"github.com/echohuiecho/hotkey-type/internal/session"
)

// ErrAlreadyRecording is returned when Start is called while a capture is
// still live. The session controller never does this; the guard protects
// against misuse from diagnostics.
var ErrAlreadyRecording = errors.New("already recording")

// Recorder creates microphone capture sessions. Call Close when done.
type Recorder struct {
	ctx        *malgo.AllocatedContext
	sampleRate uint32
	channels   uint32
	device     string
	dir        string
	logger     zerolog.Logger

	mu     sync.Mutex
	active bool
}

// NewRecorder initializes the audio backend. device selects the capture
// device by name; empty means the system default microphone. Artifacts are
// written under the user cache directory.
func NewRecorder(sampleRate, channels uint32, device string) (*Recorder, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}

	dir := os.TempDir()
	if cache, err := os.UserCacheDir(); err == nil {
		dir = filepath.Join(cache, "hotkey-type")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		mctx.Free()
		return nil, fmt.Errorf("creating artifact dir: %w", err)
	}

	return &Recorder{
		ctx:        mctx,
		sampleRate: sampleRate,
		channels:   channels,
		device:     device,
		dir:        dir,
		logger:     log.WithComponent("audio"),
	}, nil
}

// Start begins capturing from the default microphone and returns the live
// recording handle. Implements session.Recorder.
func (r *Recorder) Start(_ context.Context) (session.RecordingHandle, error) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return nil, ErrAlreadyRecording
	}
	r.active = true
	r.mu.Unlock()

	c := &capture{
		rec:     r,
		path:    filepath.Join(r.dir, fmt.Sprintf("dictation-%s.wav", uuid.NewString())),
		started: time.Now(),
	}

	deviceCfg := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceCfg.Capture.Format = malgo.FormatS16
	deviceCfg.Capture.Channels = r.channels
	deviceCfg.SampleRate = r.sampleRate
	if id := r.lookupDevice(); id != nil {
		deviceCfg.Capture.DeviceID = id.Pointer()
	}

	device, err := malgo.InitDevice(r.ctx.Context, deviceCfg, malgo.DeviceCallbacks{Data: c.onData})
	if err != nil {
		r.release()
		return nil, fmt.Errorf("initializing capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		r.release()
		return nil, fmt.Errorf("starting capture device: %w", err)
	}
	c.device = device

	r.logger.Debug().Str("path", c.path).Uint32("sample_rate", r.sampleRate).Msg("recording started")
	return c, nil
}

// lookupDevice resolves the configured capture device name to its malgo
// device ID. A missing or unmatched name selects the system default with a
// warning, matching how an unplugged device should degrade.
func (r *Recorder) lookupDevice() *malgo.DeviceID {
	if r.device == "" {
		return nil
	}
	infos, err := r.ctx.Devices(malgo.Capture)
	if err != nil {
		r.logger.Warn().Err(err).Msg("listing capture devices failed, using default device")
		return nil
	}
	for i := range infos {
		if infos[i].Name() == r.device {
			id := infos[i].ID
			r.logger.Debug().Str("device", r.device).Msg("using configured input device")
			return &id
		}
	}
	r.logger.Warn().Str("device", r.device).Msg("configured input device not found, using default device")
	return nil
}

// Close releases the audio backend.
func (r *Recorder) Close() error {
	if r.ctx != nil {
		if err := r.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninitializing audio context: %w", err)
		}
		r.ctx.Free()
		r.ctx = nil
	}
	return nil
}

func (r *Recorder) release() {
	r.mu.Lock()
	r.active = false
	r.mu.Unlock()
}

// capture is one live recording. Samples accumulate in memory and are
// encoded to WAV when the capture stops.
type capture struct {
	rec     *Recorder
	path    string
	started time.Time

	mu      sync.Mutex
	device  *malgo.Device
	samples []int
	done    bool
}

// onData is the malgo callback invoked with S16LE frames.
func (c *capture) onData(_, pSample []byte, _ uint32) {
	c.mu.Lock()
	for i := 0; i+1 < len(pSample); i += 2 {
		c.samples = append(c.samples, int(int16(binary.LittleEndian.Uint16(pSample[i:i+2]))))
	}
	c.mu.Unlock()
}

// Stop ends the capture, writes the WAV artifact, and reports its path,
// sample rate, and duration.
func (c *capture) Stop() (session.Artifact, error) {
	samples, err := c.teardown()
	if err != nil {
		return session.Artifact{}, err
	}
	c.rec.release()

	if len(samples) == 0 {
		return session.Artifact{}, errors.New("recording captured no audio")
	}

	if err := c.encode(samples); err != nil {
		_ = os.Remove(c.path)
		return session.Artifact{}, err
	}

	rate := int(c.rec.sampleRate)
	channels := int(c.rec.channels)
	durationMs := int64(len(samples)) * 1000 / int64(rate*channels)

	c.rec.logger.Debug().
		Str("path", c.path).
		Int64("duration_ms", durationMs).
		Msg("recording stopped")

	return session.Artifact{
		Path:         c.path,
		SampleRateHz: rate,
		DurationMs:   durationMs,
	}, nil
}

// Discard drops the capture and removes any artifact file.
func (c *capture) Discard() {
	if _, err := c.teardown(); err != nil {
		return
	}
	c.rec.release()
	_ = os.Remove(c.path)
}

// teardown uninitializes the device exactly once and returns the captured
// samples. The device is released outside the sample lock because Uninit
// waits for in-flight data callbacks.
func (c *capture) teardown() ([]int, error) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return nil, errors.New("recording already stopped")
	}
	c.done = true
	device := c.device
	c.device = nil
	c.mu.Unlock()

	if device != nil {
		device.Uninit()
	}

	c.mu.Lock()
	samples := c.samples
	c.samples = nil
	c.mu.Unlock()
	return samples, nil
}

func (c *capture) encode(samples []int) error {
	out, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}

	enc := wav.NewEncoder(out, int(c.rec.sampleRate), 16, int(c.rec.channels), 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: int(c.rec.channels),
			SampleRate:  int(c.rec.sampleRate),
		},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = out.Close()
		return fmt.Errorf("writing wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("finalizing wav file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing wav file: %w", err)
	}
	return nil
}
