package services

import (
	"context"
	"fmt"
	"time"

	"tripatlas/internal/models"
	"tripatlas/internal/slug"
)

// HistoryService maintains the per-subject search history: bounded,
// deduplicated by slug, most-recent-first.
type HistoryService struct {
	users      UserStore
	window     time.Duration // default read window
	maxEntries int           // stored cap per subject
}

// NewHistoryService creates the history service.
func NewHistoryService(users UserStore, window time.Duration, maxEntries int) *HistoryService {
	return &HistoryService{
		users:      users,
		window:     window,
		maxEntries: maxEntries,
	}
}

// RecordSearch logs that the subject looked up a country. Re-recording a slug
// already present moves it to the head of the log instead of duplicating it;
// the mutation is atomic on the subject document.
func (s *HistoryService) RecordSearch(ctx context.Context, uid, countryName, countrySlug string) error {
	if uid == "" {
		return fmt.Errorf("uid is required")
	}
	if countryName == "" || countrySlug == "" {
		return fmt.Errorf("country name and slug are required")
	}

	entry := models.SearchEntry{
		CountryName: countryName,
		Slug:        slug.Make(countrySlug),
		SearchedAt:  time.Now(),
	}

	_, err := s.users.PushSearch(ctx, uid, entry, s.maxEntries)
	return err
}

// RecentSearches returns the subject's history entries recorded within the
// window, newest first. window <= 0 selects the configured default. Entries
// outside the window stay stored; they are only hidden from this view.
func (s *HistoryService) RecentSearches(ctx context.Context, uid string, window time.Duration) ([]models.SearchEntry, error) {
	if window <= 0 {
		window = s.window
	}

	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &NotFoundError{Resource: "user", Key: uid}
	}

	cutoff := time.Now().Add(-window)
	recent := make([]models.SearchEntry, 0, len(user.SearchHistory))
	for _, entry := range user.SearchHistory {
		// Stored order is already most-recent-first; no re-sort.
		if entry.SearchedAt.After(cutoff) {
			recent = append(recent, entry)
		}
	}
	return recent, nil
}
