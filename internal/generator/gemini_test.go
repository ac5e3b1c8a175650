package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const validGuideJSON = `{
	"name": "Japan",
	"overview": "An island nation blending ancient tradition with modern life. Visitors find temples, food and neon cities.",
	"estimatedCost": {"budget": "$60/day", "medium": "$150/day", "luxury": "$400/day", "currency": "JPY"},
	"safety": {"score": 92, "details": {"crime": "Very low", "transport": "Excellent", "women": "Generally safe", "lgbtq": "Tolerant", "health": "High quality care", "political": "Stable"}},
	"bestSeason": "March to May",
	"visaRequirements": "Visa-free for US/EU up to 90 days",
	"culturalWarnings": ["Remove shoes indoors", "No tipping", "Quiet on trains"],
	"localLaws": ["Carry your passport", "No smoking on streets in some wards"],
	"emergencyNumbers": {"police": "110", "ambulance": "119"},
	"internetAvailability": "Fast and widespread",
	"advisoryText": "Japan is among the safest destinations worldwide.",
	"historyText": "From samurai to skyscrapers, Japan's story spans millennia."
}`

func geminiResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGemini("test-key", "gemini-2.5-flash", 5*time.Second, WithBaseURL(srv.URL))
}

func TestGenerateCountry(t *testing.T) {
	var gotPath string
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(geminiResponse(validGuideJSON)))
	})

	country, err := g.GenerateCountry(context.Background(), "japan")
	if err != nil {
		t.Fatalf("GenerateCountry failed: %v", err)
	}
	if country.Name != "Japan" {
		t.Errorf("Expected name Japan, got %q", country.Name)
	}
	if country.Safety.Score != 92 {
		t.Errorf("Expected safety score 92, got %d", country.Safety.Score)
	}
	if gotPath != "/v1beta/models/gemini-2.5-flash:generateContent" {
		t.Errorf("Unexpected request path %q", gotPath)
	}
}

func TestGenerateCountryStripsFences(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fenced := "```json\n" + validGuideJSON + "\n```"
		w.Write([]byte(geminiResponse(fenced)))
	})

	country, err := g.GenerateCountry(context.Background(), "japan")
	if err != nil {
		t.Fatalf("GenerateCountry failed on fenced output: %v", err)
	}
	if country.Name != "Japan" {
		t.Errorf("Expected name Japan, got %q", country.Name)
	}
}

func TestGenerateCountrySchemaViolationIsFailure(t *testing.T) {
	// Out-of-range safety score must be rejected, not partially accepted.
	bad := strings.Replace(validGuideJSON, `"score": 92`, `"score": 150`, 1)
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiResponse(bad)))
	})

	if _, err := g.GenerateCountry(context.Background(), "japan"); err == nil {
		t.Fatal("Expected validation error for out-of-range safety score")
	}
}

func TestGenerateCountryMalformedJSON(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiResponse("this is not json")))
	})

	if _, err := g.GenerateCountry(context.Background(), "japan"); err == nil {
		t.Fatal("Expected parse error for malformed output")
	}
}

func TestGenerateCountryAPIError(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	})

	_, err := g.GenerateCountry(context.Background(), "japan")
	if err == nil {
		t.Fatal("Expected error for API failure")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Expected API error message surfaced, got: %v", err)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	recs := `[
		{"name": "Portugal", "matchScore": 93, "reason": "Affordable coastal escape."},
		{"name": "Vietnam", "matchScore": 88, "reason": "Great food on a backpacker budget."},
		{"name": "Georgia", "matchScore": 81, "reason": "Visa-free mountain adventure."}
	]`
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiResponse(recs)))
	})

	items, err := g.GenerateRecommendations(context.Background(), RecommendationRequest{Mood: "Adventurous"})
	if err != nil {
		t.Fatalf("GenerateRecommendations failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[0].Name != "Portugal" || items[0].MatchScore != 93 {
		t.Errorf("Unexpected first item: %+v", items[0])
	}
}

func TestGenerateRecommendationsInvalidItem(t *testing.T) {
	recs := `[{"name": "", "matchScore": 93, "reason": "Nameless."}]`
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiResponse(recs)))
	})

	if _, err := g.GenerateRecommendations(context.Background(), RecommendationRequest{}); err == nil {
		t.Fatal("Expected validation error for item without a name")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"{\"a\":1}", `{"a":1}`},
		{"  ```\n[1]\n```  ", "[1]"},
	}
	for _, c := range cases {
		if got := StripCodeFences(c.in); got != c.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
