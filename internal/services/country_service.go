package services

import (
	"context"
	"fmt"
	"log"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"tripatlas/internal/models"
	"tripatlas/internal/slug"
)

// CountryGenerator produces a full guide document for a country name. The
// returned document may carry a corrected name (typo fix, capitalization,
// translation) differing from the requested topic.
type CountryGenerator interface {
	GenerateCountry(ctx context.Context, topic string) (*models.Country, error)
}

// CountryService is the get-or-generate cache for guide documents.
//
// Lookup key is always slug.Make(identifier). A record younger than the
// freshness window is served as-is with zero writes; a missing or expired
// record triggers exactly one generation and one atomic upsert. When
// generation fails and an expired record exists, that record is served
// unchanged, flagged Stale.
type CountryService struct {
	store     CountryStore
	gen       CountryGenerator
	hot       *cache.Cache // in-process layer in front of Mongo
	flight    singleflight.Group
	freshness time.Duration
	metrics   *Metrics
}

// NewCountryService creates a country cache service. metrics may be nil.
func NewCountryService(store CountryStore, gen CountryGenerator, freshness, hotTTL time.Duration, metrics *Metrics) *CountryService {
	return &CountryService{
		store:     store,
		gen:       gen,
		hot:       cache.New(hotTTL, 2*hotTTL),
		freshness: freshness,
		metrics:   metrics,
	}
}

// GetCountry returns the guide for a free-text identifier, generating it when
// missing or stale. Returns a GenerationFailedError only when no record exists
// and generation also failed.
func (s *CountryService) GetCountry(ctx context.Context, identifier string) (*models.Country, error) {
	key := slug.Make(identifier)
	if key == "" {
		return nil, fmt.Errorf("identifier is required")
	}

	if hit, ok := s.hot.Get(key); ok {
		if country := hit.(*models.Country); s.fresh(country) {
			s.metrics.recordCountryHit()
			return country, nil
		}
		s.hot.Delete(key)
	}

	existing, err := s.store.FindBySlug(ctx, key)
	if err != nil {
		return nil, err
	}

	if existing != nil && s.fresh(existing) {
		log.Printf("📦 Serving %s from cache", key)
		s.hot.Set(key, existing, cache.DefaultExpiration)
		s.metrics.recordCountryHit()
		return existing, nil
	}

	reason := "miss"
	if existing != nil {
		reason = "stale"
	}
	s.metrics.recordCountryMiss(reason)

	// Concurrent requests for the same key share one in-flight generation
	// instead of each paying the generator cost.
	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		return s.generate(ctx, key)
	})
	if err != nil {
		if existing != nil {
			// Degrade to the expired record rather than failing the request.
			// LastUpdated is left untouched so the next request retries.
			log.Printf("⚠️  Serving stale cache for %s after generation error: %v", key, err)
			s.metrics.recordStaleServed()
			stale := *existing
			stale.Stale = true
			return &stale, nil
		}
		return nil, err
	}

	return v.(*models.Country), nil
}

func (s *CountryService) generate(ctx context.Context, key string) (*models.Country, error) {
	topic := slug.Display(key)

	start := time.Now()
	generated, err := s.gen.GenerateCountry(ctx, topic)
	s.metrics.recordGenerationLatency(time.Since(start).Seconds())
	if err != nil {
		s.metrics.recordGenerationError()
		return nil, &GenerationFailedError{Topic: topic, Cause: err}
	}

	// The slug is always derived from the generator's (possibly corrected)
	// name. A request for "farnce" stores "france"; no alias is kept, so the
	// next "farnce" request regenerates. Accepted inefficiency.
	generated.Slug = slug.Make(generated.Name)
	generated.LastUpdated = time.Now()

	stored, err := s.store.Upsert(ctx, generated)
	if err != nil {
		return nil, fmt.Errorf("failed to store generated guide for %q: %w", generated.Slug, err)
	}

	log.Printf("💾 Stored generated guide %s (requested as %s)", stored.Slug, key)
	s.hot.Set(stored.Slug, stored, cache.DefaultExpiration)
	return stored, nil
}

func (s *CountryService) fresh(c *models.Country) bool {
	return time.Since(c.LastUpdated) < s.freshness
}

// SearchCountries finds cached countries whose name contains the query,
// case-insensitive. Never triggers generation.
func (s *CountryService) SearchCountries(ctx context.Context, query string) ([]models.CountrySummary, error) {
	return s.store.Search(ctx, query, 10)
}
