package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/echohuiecho/hotkey-type/internal/session"
)

// OpenAI transcribes recorded WAV files through the OpenAI audio
// transcription endpoint using the whisper-1 model. The language hint is
// optional; when empty the model detects the language itself.
type OpenAI struct {
	client   openai.Client
	language string
}

// NewOpenAI creates an OpenAI transcriber with the given API key and
// optional language hint.
func NewOpenAI(apiKey, language string, opts ...option.RequestOption) *OpenAI {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{client: openai.NewClient(opts...), language: language}
}

// Transcribe implements session.Transcriber.
func (o *OpenAI) Transcribe(ctx context.Context, a session.Artifact) (string, error) {
	f, err := os.Open(a.Path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModelWhisper1,
	}
	if o.language != "" {
		params.Language = openai.String(o.language)
	}

	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	return resp.Text, nil
}
