package audio

import (
	"context"
	"errors"
	"io"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type recordingTranscriber struct {
	req  openai.AudioRequest
	body []byte
	text string
	err  error
}

func (r *recordingTranscriber) CreateTranscription(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	r.req = req
	r.body, _ = io.ReadAll(req.Reader)
	return openai.AudioResponse{Text: r.text}, r.err
}

func TestTranscribe(t *testing.T) {
	rec := &recordingTranscriber{text: "  Adana palyaço  "}
	svc := &TranscriptionService{client: rec, language: defaultLanguage}

	got, err := svc.Transcribe(context.Background(), "voice.ogg", []byte("OggS"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != "Adana palyaço" {
		t.Fatalf("got %q", got)
	}
	if rec.req.Model != openai.Whisper1 || rec.req.Language != "tr" || rec.req.FilePath != "voice.ogg" {
		t.Fatalf("unexpected request %+v", rec.req)
	}
	if string(rec.body) != "OggS" {
		t.Fatalf("body = %q", rec.body)
	}
}

func TestTranscribeErrors(t *testing.T) {
	svc := &TranscriptionService{client: &recordingTranscriber{err: errors.New("quota")}, language: "tr"}

	if _, err := svc.Transcribe(context.Background(), "voice.ogg", nil); err == nil {
		t.Fatal("expected an error for empty audio")
	}
	if _, err := svc.Transcribe(context.Background(), "voice.ogg", []byte("x")); err == nil {
		t.Fatal("expected the client error")
	}
}

func TestNewTranscriptionServiceRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewTranscriptionService(); err == nil {
		t.Fatal("expected an error without OPENAI_API_KEY")
	}
}
