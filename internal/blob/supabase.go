// Package blob persists generated binary assets to Supabase Storage and
// returns publicly readable URLs.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Supabase is a minimal client for the Supabase Storage object API.
type Supabase struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	bucket     string
}

// NewSupabase creates a storage client for one bucket. The bucket is assumed
// to be public; Put returns the public object URL.
func NewSupabase(baseURL, apiKey, bucket string, timeout time.Duration) *Supabase {
	return &Supabase{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		bucket:     bucket,
	}
}

// Put uploads data under path, overwriting any existing object, and returns
// the public URL.
func (s *Supabase) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("❌ [BLOB] Upload of %s failed: %d - %s", path, resp.StatusCode, string(body))
		return "", fmt.Errorf("storage upload failed: %d", resp.StatusCode)
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
	log.Printf("✅ [BLOB] Uploaded %s (%d bytes)", path, len(data))
	return publicURL, nil
}
