package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultLanguage = "tr"

type ITranscriber interface {
	Transcribe(ctx context.Context, name string, data []byte) (string, error)
}

type audioTranscriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

type TranscriptionService struct {
	client   audioTranscriber
	language string
}

// NewTranscriptionService uses Whisper through OPENAI_API_KEY. Voice notes
// are transcribed as Turkish unless TRANSCRIPTION_LANGUAGE says otherwise.
func NewTranscriptionService() (ITranscriber, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	language := os.Getenv("TRANSCRIPTION_LANGUAGE")
	if language == "" {
		language = defaultLanguage
	}

	return &TranscriptionService{
		client:   openai.NewClient(apiKey),
		language: language,
	}, nil
}

// Transcribe sends the audio bytes to Whisper. name carries the file
// extension the API uses to detect the format, e.g. "voice.ogg".
func (t *TranscriptionService) Transcribe(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty audio")
	}

	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: name,
		Reader:   bytes.NewReader(data),
		Language: t.language,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}
