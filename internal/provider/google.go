package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/echohuiecho/hotkey-type/internal/session"
)

const defaultGoogleRecognizeURL = "https://speech.googleapis.com/v1p1beta1/speech:recognize"

// GoogleConfig holds configuration for the Google transcriber.
type GoogleConfig struct {
	APIKey   string
	Language string       // BCP-47 language code, required by the API
	BaseURL  string       // optional, defaults to the public recognize endpoint
	Client   *http.Client // optional
}

// Google transcribes recorded WAV files through the Google Speech-to-Text
// synchronous recognize endpoint. Recordings are sent inline as base64
// LINEAR16 content.
type Google struct {
	apiKey   string
	language string
	baseURL  string
	httpc    *http.Client
}

// NewGoogle creates a Google transcriber.
func NewGoogle(cfg GoogleConfig) *Google {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGoogleRecognizeURL
	}
	httpc := cfg.Client
	if httpc == nil {
		httpc = &http.Client{Timeout: 60 * time.Second}
	}
	return &Google{
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		baseURL:  baseURL,
		httpc:    httpc,
	}
}

type googleRecognizeRequest struct {
	Audio  googleAudio  `json:"audio"`
	Config googleConfig `json:"config"`
}

type googleAudio struct {
	Content string `json:"content"`
}

type googleConfig struct {
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	Encoding                   string `json:"encoding"`
	LanguageCode               string `json:"languageCode"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
}

type googleRecognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Transcribe implements session.Transcriber. An empty results list means
// no speech was detected; that is reported as an empty transcript, not an
// error, so the session can classify it.
func (g *Google) Transcribe(ctx context.Context, a session.Artifact) (string, error) {
	audio, err := os.ReadFile(a.Path)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("audio file %s is empty", a.Path)
	}

	payload, err := json.Marshal(googleRecognizeRequest{
		Audio: googleAudio{Content: base64.StdEncoding.EncodeToString(audio)},
		Config: googleConfig{
			EnableAutomaticPunctuation: true,
			Encoding:                   "LINEAR16",
			LanguageCode:               g.language,
			SampleRateHertz:            a.SampleRateHz,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode recognize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"?key="+g.apiKey, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create recognize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("google speech request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read recognize response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google speech error %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	var parsed googleRecognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse recognize response: %w", err)
	}
	if len(parsed.Results) == 0 || len(parsed.Results[0].Alternatives) == 0 {
		return "", nil
	}
	return parsed.Results[0].Alternatives[0].Transcript, nil
}
