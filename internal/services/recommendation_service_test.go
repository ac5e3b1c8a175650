package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"tripatlas/internal/generator"
	"tripatlas/internal/models"
)

type fakeRecGenerator struct {
	mu      sync.Mutex
	calls   int
	lastReq generator.RecommendationRequest
	result  []models.RecommendationItem
	err     error
}

func (f *fakeRecGenerator) GenerateRecommendations(ctx context.Context, req generator.RecommendationRequest) ([]models.RecommendationItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeRecGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRecGenerator) request() generator.RecommendationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

var sampleRecs = []models.RecommendationItem{
	{Name: "Portugal", MatchScore: 91, Reason: "Mild weather and walkable cities"},
	{Name: "Japan", MatchScore: 88, Reason: "Great solo travel infrastructure"},
	{Name: "Peru", MatchScore: 80, Reason: "Budget-friendly adventure"},
}

const day = 24 * time.Hour

func newTestRecommendationService(store *fakeUserStore, gen *fakeRecGenerator) *RecommendationService {
	return NewRecommendationService(store, gen, day, nil)
}

func TestGetRecommendationsFreshCacheHit(t *testing.T) {
	store := newFakeUserStore()
	store.put(&models.User{
		UID: "u1",
		Recommendations: &models.RecommendationSet{
			Data:        sampleRecs,
			GeneratedAt: time.Now().Add(-time.Hour),
		},
	})
	gen := &fakeRecGenerator{result: sampleRecs}
	svc := newTestRecommendationService(store, gen)

	items, cached, err := svc.GetRecommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetRecommendations failed: %v", err)
	}
	if !cached {
		t.Error("Expected cached=true for a fresh set")
	}
	if len(items) != 3 || items[0].Name != "Portugal" {
		t.Errorf("Unexpected items: %+v", items)
	}
	if gen.callCount() != 0 {
		t.Errorf("Expected no generator calls on cache hit, got %d", gen.callCount())
	}
}

func TestGetRecommendationsExpiredSetRegenerates(t *testing.T) {
	store := newFakeUserStore()
	store.put(&models.User{
		UID: "u1",
		Profile: models.Profile{
			Age:       30,
			GroupType: models.GroupSolo,
			Location:  "Berlin",
		},
		Recommendations: &models.RecommendationSet{
			Data:        []models.RecommendationItem{{Name: "Old", MatchScore: 50, Reason: "stale"}},
			GeneratedAt: time.Now().Add(-25 * time.Hour),
		},
	})
	gen := &fakeRecGenerator{result: sampleRecs}
	svc := newTestRecommendationService(store, gen)

	items, cached, err := svc.GetRecommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetRecommendations failed: %v", err)
	}
	if cached {
		t.Error("Expected cached=false after expiry")
	}
	if len(items) != 3 {
		t.Fatalf("Expected regenerated items, got %+v", items)
	}
	if gen.callCount() != 1 {
		t.Errorf("Expected 1 generator call, got %d", gen.callCount())
	}

	// The regenerated set replaces the expired one.
	stored := store.get("u1").Recommendations
	if stored == nil || len(stored.Data) != 3 || stored.Data[0].Name != "Portugal" {
		t.Errorf("Expected stored set replaced, got %+v", stored)
	}
	if time.Since(stored.GeneratedAt) > time.Minute {
		t.Errorf("Expected fresh GeneratedAt, got %v", stored.GeneratedAt)
	}
}

func TestGetRecommendationsGeneratorFailureNoStaleFallback(t *testing.T) {
	expired := &models.RecommendationSet{
		Data:        []models.RecommendationItem{{Name: "Old", MatchScore: 50, Reason: "stale"}},
		GeneratedAt: time.Now().Add(-25 * time.Hour),
	}
	store := newFakeUserStore()
	store.put(&models.User{UID: "u1", Recommendations: expired})
	gen := &fakeRecGenerator{err: context.DeadlineExceeded}
	svc := newTestRecommendationService(store, gen)

	_, _, err := svc.GetRecommendations(context.Background(), "u1")
	if !IsGenerationFailed(err) {
		t.Fatalf("Expected GenerationFailedError, got %v", err)
	}

	// The expired set must survive the failed regeneration untouched.
	stored := store.get("u1").Recommendations
	if stored == nil || len(stored.Data) != 1 || stored.Data[0].Name != "Old" {
		t.Errorf("Expected expired set left in place, got %+v", stored)
	}
}

func TestGetRecommendationsUnknownUser(t *testing.T) {
	svc := newTestRecommendationService(newFakeUserStore(), &fakeRecGenerator{})
	_, _, err := svc.GetRecommendations(context.Background(), "ghost")
	if !IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestGetRecommendationsBuildsRequestFromProfile(t *testing.T) {
	store := newFakeUserStore()
	store.put(&models.User{
		UID: "u1",
		Profile: models.Profile{
			Age:             28,
			GroupType:       models.GroupCouple,
			Location:        "Lisbon",
			TravelDocuments: []string{"EU passport"},
		},
		MoodLogs: []models.MoodLog{
			{Date: time.Now().Add(-2 * time.Hour), Mood: "Adventurous"},
			{Date: time.Now().Add(-time.Hour), Mood: "Relaxed"},
		},
	})
	gen := &fakeRecGenerator{result: sampleRecs}
	svc := newTestRecommendationService(store, gen)

	if _, _, err := svc.GetRecommendations(context.Background(), "u1"); err != nil {
		t.Fatalf("GetRecommendations failed: %v", err)
	}

	req := gen.request()
	if req.Age != 28 || req.GroupType != string(models.GroupCouple) || req.Location != "Lisbon" {
		t.Errorf("Profile fields not carried into request: %+v", req)
	}
	if req.Mood != "Relaxed" {
		t.Errorf("Expected latest mood, got %q", req.Mood)
	}
	if req.Count != 3 {
		t.Errorf("Expected Count 3, got %d", req.Count)
	}
}

func TestGenerateForCriteriaBypassesCache(t *testing.T) {
	store := newFakeUserStore()
	store.put(&models.User{
		UID: "u1",
		Recommendations: &models.RecommendationSet{
			Data:        sampleRecs,
			GeneratedAt: time.Now(),
		},
	})
	gen := &fakeRecGenerator{result: sampleRecs}
	svc := newTestRecommendationService(store, gen)

	criteria := RecommendationCriteria{
		Budget:    "$2000",
		Documents: []string{"US passport"},
		Age:       35,
		Mood:      "Excited",
	}
	items, err := svc.GenerateForCriteria(context.Background(), "u1", criteria)
	if err != nil {
		t.Fatalf("GenerateForCriteria failed: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("Unexpected items: %+v", items)
	}

	// Fresh cached set or not, criteria runs always hit the generator.
	if gen.callCount() != 1 {
		t.Errorf("Expected 1 generator call, got %d", gen.callCount())
	}
	req := gen.request()
	if req.Budget != "$2000" || req.Age != 35 || req.Mood != "Excited" {
		t.Errorf("Criteria not carried into request: %+v", req)
	}
	if req.Count != 5 {
		t.Errorf("Expected Count 5 for criteria runs, got %d", req.Count)
	}

	// And never touch the cached set.
	stored := store.get("u1").Recommendations
	if len(stored.Data) != 3 || stored.Data[0].Name != "Portugal" {
		t.Errorf("Expected cached set untouched, got %+v", stored)
	}
}

func TestGenerateForCriteriaRequiresUID(t *testing.T) {
	svc := newTestRecommendationService(newFakeUserStore(), &fakeRecGenerator{})
	if _, err := svc.GenerateForCriteria(context.Background(), "", RecommendationCriteria{}); err == nil {
		t.Error("Expected error for empty uid")
	}
}
