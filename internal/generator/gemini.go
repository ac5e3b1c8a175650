// Package generator calls the Gemini API to produce structured travel
// documents. Responses are strictly validated: anything that fails to parse
// or violates the schema is reported as a generation error, never returned
// as partial success.
package generator

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

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"tripatlas/internal/logging"
	"tripatlas/internal/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Gemini is an HTTP client for the Gemini generateContent API.
type Gemini struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	limiter    *rate.Limiter
}

// Option configures a Gemini client.
type Option func(*Gemini)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(u string) Option {
	return func(g *Gemini) { g.baseURL = strings.TrimSuffix(u, "/") }
}

// WithRateLimit caps outbound generation calls at rps requests per second.
func WithRateLimit(rps float64) Option {
	return func(g *Gemini) { g.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// NewGemini creates a Gemini client. timeout bounds each individual call.
func NewGemini(apiKey, model string, timeout time.Duration, opts ...Option) *Gemini {
	g := &Gemini{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateCountry generates a full travel guide document for a country name.
// The returned document carries the generator's corrected name; the caller is
// responsible for deriving the storage slug from it.
func (g *Gemini) GenerateCountry(ctx context.Context, topic string) (*models.Country, error) {
	genID := uuid.NewString()[:8]
	glog := logging.WithGeneration(genID, topic)
	glog.Info("generating guide", "model", g.model)

	text, err := g.generateText(ctx, countryPrompt(topic))
	if err != nil {
		return nil, err
	}

	var country models.Country
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &country); err != nil {
		return nil, fmt.Errorf("failed to parse generated guide: %w", err)
	}
	if err := country.Validate(); err != nil {
		return nil, fmt.Errorf("generated guide failed validation: %w", err)
	}

	glog.Info("generated guide", "name", country.Name, "safety_score", country.Safety.Score)
	return &country, nil
}

// GenerateRecommendations generates ranked destination suggestions.
func (g *Gemini) GenerateRecommendations(ctx context.Context, req RecommendationRequest) ([]models.RecommendationItem, error) {
	genID := uuid.NewString()[:8]
	glog := logging.WithGeneration(genID, "recommendations")
	glog.Info("generating recommendations", "count", req.count(), "mood", req.Mood)

	text, err := g.generateText(ctx, recommendationPrompt(req))
	if err != nil {
		return nil, err
	}

	var items []models.RecommendationItem
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &items); err != nil {
		return nil, fmt.Errorf("failed to parse recommendations: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("generator returned no recommendations")
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("recommendation %d failed validation: %w", i, err)
		}
	}

	glog.Info("generated recommendations", "items", len(items))
	return items, nil
}

// generateText runs one generateContent call and returns the raw model text.
func (g *Gemini) generateText(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	reqBody := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Gemini API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ [GEN] Gemini API error: %d - %s", resp.StatusCode, truncate(string(respBody), 200))

		var errorResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Error.Message != "" {
			return "", fmt.Errorf("Gemini API error: %s", errorResp.Error.Message)
		}
		return "", fmt.Errorf("Gemini API error: %d", resp.StatusCode)
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini returned no candidates")
	}

	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}

// StripCodeFences removes markdown ```json fences the model sometimes wraps
// its output in despite instructions not to.
func StripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
