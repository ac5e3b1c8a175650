package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupType describes who the user travels with.
type GroupType string

const (
	GroupSolo    GroupType = "Solo"
	GroupFriends GroupType = "Friends"
	GroupFamily  GroupType = "Family"
	GroupCouple  GroupType = "Couple"
)

// Profile holds the traveler attributes recommendations are generated from.
type Profile struct {
	Location        string    `bson:"location,omitempty" json:"location,omitempty"`
	Age             int       `bson:"age,omitempty" json:"age,omitempty"`
	GroupType       GroupType `bson:"groupType,omitempty" json:"group_type,omitempty"`
	TravelDocuments []string  `bson:"travelDocuments,omitempty" json:"travel_documents,omitempty"` // e.g. ["Passport", "Visa-USA"]
	Health          []string  `bson:"health,omitempty" json:"health,omitempty"`
}

// MoodLog is a dated mood entry; the latest one feeds recommendation prompts.
type MoodLog struct {
	Date time.Time `bson:"date" json:"date"`
	Mood string    `bson:"mood" json:"mood"`
	Note string    `bson:"note,omitempty" json:"note,omitempty"`
}

// SearchEntry is one item in a user's search history. Within a single user's
// history, slugs are unique: re-searching a country moves its entry to the
// head instead of duplicating it.
type SearchEntry struct {
	CountryName string    `bson:"countryName" json:"country_name"`
	Slug        string    `bson:"slug" json:"slug"`
	SearchedAt  time.Time `bson:"searchedAt" json:"searched_at"`
}

// RecommendationItem is one ranked destination suggestion.
type RecommendationItem struct {
	Name       string `bson:"name" json:"name"`
	MatchScore int    `bson:"matchScore" json:"matchScore"`
	Reason     string `bson:"reason" json:"reason"`
}

// Validate checks a generated recommendation item.
func (r *RecommendationItem) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("missing name")
	}
	if r.MatchScore < 0 || r.MatchScore > 100 {
		return fmt.Errorf("match score %d out of range 0-100", r.MatchScore)
	}
	if r.Reason == "" {
		return fmt.Errorf("missing reason")
	}
	return nil
}

// RecommendationSet is the cached recommendation list for one user,
// overwritten wholesale on regeneration.
type RecommendationSet struct {
	Data        []RecommendationItem `bson:"data" json:"data"`
	GeneratedAt time.Time            `bson:"generatedAt" json:"generated_at"`
}

// User is the per-subject document owning profile, mood logs, search history
// and cached recommendations. UID is the opaque stable identifier supplied by
// the auth provider.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UID         string             `bson:"uid" json:"uid"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	DisplayName string             `bson:"displayName,omitempty" json:"display_name,omitempty"`

	Profile           Profile            `bson:"profile" json:"profile"`
	MoodLogs          []MoodLog          `bson:"moodLogs,omitempty" json:"mood_logs,omitempty"`
	SearchHistory     []SearchEntry      `bson:"searchHistory,omitempty" json:"search_history,omitempty"`
	Recommendations   *RecommendationSet `bson:"recommendations,omitempty" json:"recommendations,omitempty"`
	IsProfileComplete bool               `bson:"isProfileComplete" json:"is_profile_complete"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// LatestMood returns the most recent mood entry, or "General" when none exists.
func (u *User) LatestMood() string {
	if len(u.MoodLogs) == 0 {
		return "General"
	}
	return u.MoodLogs[len(u.MoodLogs)-1].Mood
}
