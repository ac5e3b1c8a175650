package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"tripatlas/internal/models"
)

// AudioSynthesizer converts text to audio bytes.
type AudioSynthesizer interface {
	Synthesize(ctx context.Context, text, voiceHint string) ([]byte, error)
}

// BlobStore persists bytes durably and returns a publicly readable URL.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// AudioService is the cache-and-backfill pipeline for narrated audio.
// Synthesis happens once per (country, kind) under normal operation; the
// resulting bytes are persisted to blob storage and the URL is patched back
// into the country document. Persistence is best-effort: its failure only
// costs a re-synthesis next time, never the current response.
type AudioService struct {
	store      CountryStore
	synth      AudioSynthesizer
	blob       BlobStore
	httpClient *http.Client
	metrics    *Metrics
}

// NewAudioService creates the audio pipeline. metrics may be nil.
func NewAudioService(store CountryStore, synth AudioSynthesizer, blob BlobStore, metrics *Metrics) *AudioService {
	return &AudioService{
		store:      store,
		synth:      synth,
		blob:       blob,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		metrics:    metrics,
	}
}

// EnsureAudio returns the narration bytes for (countrySlug, kind). knownURL
// is the pointer from a prior country read, or "" when none exists yet.
// Synthesis failure is fatal (AssetGenerationFailedError); every failure
// after synthesis is swallowed and the fresh bytes are returned anyway.
func (s *AudioService) EnsureAudio(ctx context.Context, countrySlug string, kind models.AudioKind, sourceText, knownURL string) ([]byte, error) {
	if !models.ValidAudioKind(kind) {
		return nil, fmt.Errorf("unknown audio kind %q", kind)
	}

	if knownURL != "" {
		data, err := s.fetch(ctx, knownURL)
		if err == nil {
			s.metrics.recordAudioPointerHit()
			return data, nil
		}
		// The stored object is gone or unreachable; regenerate.
		log.Printf("⚠️  [AUDIO] Fetch of stored %s/%s failed, resynthesizing: %v", countrySlug, kind, err)
	}

	if sourceText == "" {
		return nil, &AssetGenerationFailedError{
			Slug: countrySlug, Kind: string(kind),
			Cause: fmt.Errorf("no narration text available"),
		}
	}

	start := time.Now()
	data, err := s.synth.Synthesize(ctx, sourceText, "")
	s.metrics.recordAudioSynthLatency(time.Since(start).Seconds())
	if err != nil {
		return nil, &AssetGenerationFailedError{Slug: countrySlug, Kind: string(kind), Cause: err}
	}

	s.backfill(ctx, countrySlug, kind, data)
	return data, nil
}

// backfill persists the audio and points the country record at it.
// Best-effort: failures are logged and counted, never surfaced.
func (s *AudioService) backfill(ctx context.Context, countrySlug string, kind models.AudioKind, data []byte) {
	path := fmt.Sprintf("%s/%s.mp3", countrySlug, kind)

	url, err := s.blob.Put(ctx, path, data, "audio/mpeg")
	if err != nil {
		log.Printf("⚠️  [AUDIO] Failed to persist %s (audio still served): %v", path, err)
		s.metrics.recordAudioPersistFailure()
		return
	}

	if err := s.store.SetAudioURL(ctx, countrySlug, kind, url); err != nil {
		log.Printf("⚠️  [AUDIO] Failed to backfill pointer for %s (audio still served): %v", path, err)
		s.metrics.recordAudioPersistFailure()
		return
	}

	log.Printf("✅ [AUDIO] Backfilled %s -> %s", path, url)
}

func (s *AudioService) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
