package services

import (
	"context"
	"fmt"
	"time"

	"tripatlas/internal/models"
)

// UserService handles subject profile operations.
type UserService struct {
	users UserStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetProfile retrieves a user by auth subject id.
func (s *UserService) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &NotFoundError{Resource: "user", Key: uid}
	}
	return user, nil
}

// SaveProfile creates or updates the subject's profile. A profile is complete
// once location, age and group type are all set; completeness gates the
// recommendation flow in the UI.
func (s *UserService) SaveProfile(ctx context.Context, uid, email, displayName string, profile models.Profile) (*models.User, error) {
	if uid == "" {
		return nil, fmt.Errorf("uid is required")
	}

	complete := profile.Location != "" && profile.Age > 0 && profile.GroupType != ""

	return s.users.UpsertProfile(ctx, uid, ProfileUpdate{
		Email:       email,
		DisplayName: displayName,
		Profile:     profile,
		Complete:    complete,
	})
}

// LogMood appends a dated mood entry; the most recent one seeds
// recommendation prompts.
func (s *UserService) LogMood(ctx context.Context, uid, mood, note string) error {
	if uid == "" {
		return fmt.Errorf("uid is required")
	}
	if mood == "" {
		return fmt.Errorf("mood is required")
	}

	return s.users.AppendMood(ctx, uid, models.MoodLog{
		Date: time.Now(),
		Mood: mood,
		Note: note,
	})
}
