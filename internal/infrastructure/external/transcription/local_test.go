package transcription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tuandm-dev/meeting-scribe/pkg/config"
)

func TestLocalProviderTranscribe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/whisper/transcribe" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("invalid multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != "small" {
			t.Errorf("expected model small, got %s", got)
		}
		if _, _, err := r.FormFile("audio"); err != nil {
			t.Fatalf("missing audio file: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"text": "hello from whisper",
			"segments": []map[string]interface{}{
				{"id": 0, "start": 0.0, "end": 1.5, "text": "hello from whisper"},
			},
			"language": "en",
			"duration": 1.5,
		})
	}))
	defer ts.Close()

	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(audioPath, []byte("RIFF fake wav"), 0o644); err != nil {
		t.Fatalf("failed to write audio file: %v", err)
	}

	provider := NewLocalProvider(&config.TranscriptionConfig{
		LocalWhisperURL:   ts.URL,
		LocalWhisperModel: "small",
	})

	result, err := provider.Transcribe(context.Background(), Request{FilePath: audioPath})
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if result.Text != "hello from whisper" {
		t.Errorf("unexpected text %q", result.Text)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(result.Segments))
	}
	if result.Segments[0].End != 1.5 {
		t.Errorf("unexpected segment end %f", result.Segments[0].End)
	}
	if result.Language != "en" {
		t.Errorf("unexpected language %s", result.Language)
	}
	if result.ModelUsed != "small" {
		t.Errorf("unexpected model %s", result.ModelUsed)
	}
}

func TestLocalProviderServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer ts.Close()

	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(audioPath, []byte("RIFF fake wav"), 0o644); err != nil {
		t.Fatalf("failed to write audio file: %v", err)
	}

	provider := NewLocalProvider(&config.TranscriptionConfig{LocalWhisperURL: ts.URL})
	if _, err := provider.Transcribe(context.Background(), Request{FilePath: audioPath}); err == nil {
		t.Fatal("expected error from failing server")
	}
}

func TestLocalProviderRequiresFile(t *testing.T) {
	provider := NewLocalProvider(&config.TranscriptionConfig{LocalWhisperURL: "http://localhost:9999"})
	if _, err := provider.Transcribe(context.Background(), Request{}); err == nil {
		t.Fatal("expected error without file path")
	}
}

func TestFactorySelectsProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.Transcription.Provider = ProviderLocal
	cfg.Transcription.LocalWhisperURL = "http://localhost:9999"

	provider, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	if provider.Name() != ProviderLocal {
		t.Errorf("expected local provider, got %s", provider.Name())
	}

	cfg.Transcription.Provider = "carrier-pigeon"
	if _, err := New(cfg, nil, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
