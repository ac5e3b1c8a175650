package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"tripatlas/internal/generator"
	"tripatlas/internal/logging"
	"tripatlas/internal/models"
)

// RecommendationGenerator produces ranked destination suggestions.
type RecommendationGenerator interface {
	GenerateRecommendations(ctx context.Context, req generator.RecommendationRequest) ([]models.RecommendationItem, error)
}

// RecommendationService is the get-or-generate cache for per-subject
// destination recommendations. Same shape as the country cache, but keyed by
// subject identity (which never changes, so there is no rename step), with a
// 24h freshness window and a small ranked list as payload.
//
// Policy on generator failure: always propagate GenerationFailed, even when
// an expired cached set exists. Recommendations are cheap to retry and a
// day-old mood-based list has little value, so no stale fallback here — the
// one freshness-checked path below is used by every caller.
type RecommendationService struct {
	users     UserStore
	gen       RecommendationGenerator
	flight    singleflight.Group
	freshness time.Duration
	metrics   *Metrics
}

// NewRecommendationService creates the recommendation cache. metrics may be nil.
func NewRecommendationService(users UserStore, gen RecommendationGenerator, freshness time.Duration, metrics *Metrics) *RecommendationService {
	return &RecommendationService{
		users:     users,
		gen:       gen,
		freshness: freshness,
		metrics:   metrics,
	}
}

// GetRecommendations returns the subject's recommendations, regenerating when
// missing or older than the freshness window. The bool reports whether the
// cached set was served.
func (s *RecommendationService) GetRecommendations(ctx context.Context, uid string) ([]models.RecommendationItem, bool, error) {
	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, &NotFoundError{Resource: "user", Key: uid}
	}

	if set := user.Recommendations; set != nil && len(set.Data) > 0 && time.Since(set.GeneratedAt) < s.freshness {
		logging.WithUser(slog.Default(), uid).Info("serving cached recommendations")
		s.metrics.recordRecommendationHit()
		return set.Data, true, nil
	}

	s.metrics.recordRecommendationMiss()

	v, err, _ := s.flight.Do(uid, func() (interface{}, error) {
		return s.generate(ctx, user)
	})
	if err != nil {
		return nil, false, err
	}

	return v.([]models.RecommendationItem), false, nil
}

func (s *RecommendationService) generate(ctx context.Context, user *models.User) ([]models.RecommendationItem, error) {
	req := generator.RecommendationRequest{
		Age:       user.Profile.Age,
		GroupType: string(user.Profile.GroupType),
		Location:  user.Profile.Location,
		Mood:      user.LatestMood(),
		Documents: user.Profile.TravelDocuments,
		Count:     3,
	}

	items, err := s.gen.GenerateRecommendations(ctx, req)
	if err != nil {
		return nil, &GenerationFailedError{Topic: "recommendations for " + user.UID, Cause: err}
	}

	set := models.RecommendationSet{Data: items, GeneratedAt: time.Now()}
	if err := s.users.SetRecommendations(ctx, user.UID, set); err != nil {
		// The generated list is still good for this response; losing the
		// cache write only costs a regeneration next time.
		logging.WithUser(slog.Default(), user.UID).Warn("failed to cache recommendations", "error", err)
	}

	return items, nil
}

// RecommendationCriteria are ad-hoc inputs for a one-off recommendation run.
type RecommendationCriteria struct {
	Budget    string
	Documents []string
	Age       int
	Mood      string
}

// GenerateForCriteria produces recommendations from explicit criteria rather
// than the stored profile. Uncacheable by construction (the criteria are
// ad-hoc, not subject state), so it never reads or writes the cached set.
func (s *RecommendationService) GenerateForCriteria(ctx context.Context, uid string, criteria RecommendationCriteria) ([]models.RecommendationItem, error) {
	if uid == "" {
		return nil, fmt.Errorf("uid is required")
	}

	req := generator.RecommendationRequest{
		Age:       criteria.Age,
		Mood:      criteria.Mood,
		Documents: criteria.Documents,
		Budget:    criteria.Budget,
		Count:     5,
	}

	items, err := s.gen.GenerateRecommendations(ctx, req)
	if err != nil {
		return nil, &GenerationFailedError{Topic: "criteria recommendations for " + uid, Cause: err}
	}
	return items, nil
}
