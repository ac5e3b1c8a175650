package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"tripatlas/internal/models"
	"tripatlas/internal/services"
)

type stubCountryStore struct {
	countries map[string]*models.Country
}

func (s *stubCountryStore) FindBySlug(ctx context.Context, slug string) (*models.Country, error) {
	return s.countries[slug], nil
}

func (s *stubCountryStore) Upsert(ctx context.Context, country *models.Country) (*models.Country, error) {
	s.countries[country.Slug] = country
	return country, nil
}

func (s *stubCountryStore) SetAudioURL(ctx context.Context, slug string, kind models.AudioKind, url string) error {
	return nil
}

func (s *stubCountryStore) Search(ctx context.Context, query string, limit int64) ([]models.CountrySummary, error) {
	return nil, nil
}

type stubCountryGenerator struct{}

func (g *stubCountryGenerator) GenerateCountry(ctx context.Context, topic string) (*models.Country, error) {
	return nil, context.DeadlineExceeded
}

type recordingUserStore struct {
	mu         sync.Mutex
	users      map[string]*models.User
	pushCalls  int
	lastPushed models.SearchEntry
}

func (r *recordingUserStore) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	return r.users[uid], nil
}

func (r *recordingUserStore) UpsertProfile(ctx context.Context, uid string, update services.ProfileUpdate) (*models.User, error) {
	return r.users[uid], nil
}

func (r *recordingUserStore) AppendMood(ctx context.Context, uid string, mood models.MoodLog) error {
	return nil
}

func (r *recordingUserStore) PushSearch(ctx context.Context, uid string, entry models.SearchEntry, cap int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[uid]
	if !ok {
		return nil, &services.NotFoundError{Resource: "user", Key: uid}
	}
	r.pushCalls++
	r.lastPushed = entry
	return user, nil
}

func (r *recordingUserStore) SetRecommendations(ctx context.Context, uid string, set models.RecommendationSet) error {
	return nil
}

func setupCountryTestApp(t *testing.T) (*fiber.App, *recordingUserStore) {
	store := &stubCountryStore{countries: map[string]*models.Country{
		"japan": {
			Name:         "Japan",
			Slug:         "japan",
			Overview:     "An island nation.",
			AdvisoryText: "Very safe.",
			HistoryText:  "Long history.",
			LastUpdated:  time.Now(),
		},
	}}
	userStore := &recordingUserStore{users: map[string]*models.User{
		"u1": {UID: "u1"},
	}}

	countryService := services.NewCountryService(store, &stubCountryGenerator{}, 7*24*time.Hour, time.Minute, nil)
	historyService := services.NewHistoryService(userStore, 3*24*time.Hour, 50)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "u1")
		return c.Next()
	})

	countryHandler := NewCountryHandler(countryService)
	historyHandler := NewHistoryHandler(historyService)
	app.Get("/api/country", countryHandler.Get)
	app.Post("/api/user/search-history", historyHandler.Record)

	return app, userStore
}

func TestCountryGetDoesNotRecordHistory(t *testing.T) {
	app, userStore := setupCountryTestApp(t)

	req := httptest.NewRequest("GET", "/api/country?name=Japan", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data  models.Country `json:"data"`
		Stale bool           `json:"stale"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Data.Name != "Japan" {
		t.Errorf("Expected Japan, got %q", body.Data.Name)
	}
	if body.Stale {
		t.Error("Expected fresh record")
	}

	// Recording is the client's job via POST /api/user/search-history;
	// reading a guide must not touch the history.
	if userStore.pushCalls != 0 {
		t.Errorf("Expected 0 history writes from guide read, got %d", userStore.pushCalls)
	}
}

func TestSearchHistoryRecordEndpoint(t *testing.T) {
	app, userStore := setupCountryTestApp(t)

	payload, _ := json.Marshal(map[string]string{
		"country_name": "Japan",
		"slug":         "japan",
	})
	req := httptest.NewRequest("POST", "/api/user/search-history", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	if userStore.pushCalls != 1 {
		t.Fatalf("Expected 1 history write, got %d", userStore.pushCalls)
	}
	if userStore.lastPushed.Slug != "japan" {
		t.Errorf("Expected japan recorded, got %q", userStore.lastPushed.Slug)
	}
}
