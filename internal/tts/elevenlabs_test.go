package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSynthesize(t *testing.T) {
	audio := []byte("fake-mp3-bytes")
	var gotPath, gotKey string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer srv.Close()

	client := NewElevenLabs("secret", "voice-default", 5*time.Second, WithBaseURL(srv.URL))

	got, err := client.Synthesize(context.Background(), "hello world", "")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("Expected audio bytes %q, got %q", audio, got)
	}
	if gotPath != "/v1/text-to-speech/voice-default" {
		t.Errorf("Unexpected path %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("Expected api key header, got %q", gotKey)
	}
	if gotBody["model_id"] != "eleven_monolingual_v1" {
		t.Errorf("Unexpected model_id %q", gotBody["model_id"])
	}
}

func TestSynthesizeVoiceHint(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	client := NewElevenLabs("secret", "voice-default", 5*time.Second, WithBaseURL(srv.URL))
	if _, err := client.Synthesize(context.Background(), "hi", "voice-custom"); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if gotPath != "/v1/text-to-speech/voice-custom" {
		t.Errorf("Voice hint not used, path %q", gotPath)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	client := NewElevenLabs("secret", "voice", time.Second)
	if _, err := client.Synthesize(context.Background(), "", ""); err == nil {
		t.Fatal("Expected error for empty text")
	}
}

func TestSynthesizeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": {"message": "invalid api key"}}`))
	}))
	defer srv.Close()

	client := NewElevenLabs("bad", "voice", 5*time.Second, WithBaseURL(srv.URL))
	_, err := client.Synthesize(context.Background(), "hello", "")
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
}
