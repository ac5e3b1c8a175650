// Package tts synthesizes narrated audio from text using the ElevenLabs API.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	modelID        = "eleven_monolingual_v1"
)

// ElevenLabs is an HTTP client for the ElevenLabs text-to-speech API.
type ElevenLabs struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	defaultVoice string
}

// Option configures an ElevenLabs client.
type Option func(*ElevenLabs)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(u string) Option {
	return func(e *ElevenLabs) { e.baseURL = strings.TrimSuffix(u, "/") }
}

// NewElevenLabs creates an ElevenLabs client. timeout bounds each call;
// synthesis of long passages can take a while.
func NewElevenLabs(apiKey, defaultVoice string, timeout time.Duration, opts ...Option) *ElevenLabs {
	e := &ElevenLabs{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      defaultBaseURL,
		apiKey:       apiKey,
		defaultVoice: defaultVoice,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Synthesize converts text to MP3 bytes. voiceHint selects a voice; empty
// means the configured default.
func (e *ElevenLabs) Synthesize(ctx context.Context, text, voiceHint string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	voice := voiceHint
	if voice == "" {
		voice = e.defaultVoice
	}

	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": modelID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", e.baseURL, voice)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", e.apiKey)

	log.Printf("🎙️  [TTS] Synthesizing %d chars (voice: %s)", len(text), voice)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("TTS API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ [TTS] ElevenLabs API error: %d", resp.StatusCode)

		var errorResp struct {
			Detail struct {
				Message string `json:"message"`
			} `json:"detail"`
		}
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Detail.Message != "" {
			return nil, fmt.Errorf("ElevenLabs API error: %s", errorResp.Detail.Message)
		}
		return nil, fmt.Errorf("ElevenLabs API error: %d", resp.StatusCode)
	}

	log.Printf("✅ [TTS] Synthesized %d bytes of audio", len(body))
	return body, nil
}
