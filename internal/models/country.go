package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AudioKind identifies which narrated text a generated audio asset belongs to.
type AudioKind string

const (
	AudioKindAdvisory AudioKind = "advisory"
	AudioKindHistory  AudioKind = "history"
)

// ValidAudioKind reports whether kind is one of the known audio kinds.
func ValidAudioKind(kind AudioKind) bool {
	return kind == AudioKindAdvisory || kind == AudioKindHistory
}

// EstimatedCost holds daily cost estimates per travel style.
type EstimatedCost struct {
	Budget   string `bson:"budget" json:"budget"`
	Medium   string `bson:"medium" json:"medium"`
	Luxury   string `bson:"luxury" json:"luxury"`
	Currency string `bson:"currency" json:"currency"` // local currency code
}

// SafetyDetails breaks the safety picture down by category.
type SafetyDetails struct {
	Crime     string `bson:"crime" json:"crime"`
	Transport string `bson:"transport" json:"transport"`
	Women     string `bson:"women" json:"women"`
	LGBTQ     string `bson:"lgbtq" json:"lgbtq"`
	Health    string `bson:"health" json:"health"`
	Political string `bson:"political" json:"political"`
}

// Safety is the generated safety assessment for a country.
type Safety struct {
	Score   int           `bson:"score" json:"score"` // 0-100
	Details SafetyDetails `bson:"details" json:"details"`
}

// EmergencyNumbers holds local emergency phone numbers.
type EmergencyNumbers struct {
	Police    string `bson:"police" json:"police"`
	Ambulance string `bson:"ambulance" json:"ambulance"`
}

// Country is a cached AI-generated travel guide document.
// Slug is always derived from Name, even when the generator corrected the
// name the caller searched for, and is the sole lookup key.
type Country struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name string             `bson:"name" json:"name"`
	Slug string             `bson:"slug" json:"slug"`

	Overview      string        `bson:"overview" json:"overview"`
	EstimatedCost EstimatedCost `bson:"estimatedCost" json:"estimatedCost"`
	Safety        Safety        `bson:"safety" json:"safety"`

	BestSeason           string           `bson:"bestSeason" json:"bestSeason"`
	VisaRequirements     string           `bson:"visaRequirements" json:"visaRequirements"`
	CulturalWarnings     []string         `bson:"culturalWarnings" json:"culturalWarnings"`
	LocalLaws            []string         `bson:"localLaws" json:"localLaws"`
	EmergencyNumbers     EmergencyNumbers `bson:"emergencyNumbers" json:"emergencyNumbers"`
	InternetAvailability string           `bson:"internetAvailability" json:"internetAvailability"`

	// Narration source texts, generated alongside the structured fields.
	AdvisoryText string `bson:"advisoryText" json:"advisoryText"`
	HistoryText  string `bson:"historyText" json:"historyText"`

	// AudioURLs maps an AudioKind to the durable URL of its synthesized
	// narration. Sparse: entries appear only after a successful backfill.
	AudioURLs map[string]string `bson:"audioUrls,omitempty" json:"audioUrls,omitempty"`

	LastUpdated time.Time `bson:"lastUpdated" json:"lastUpdated"`

	// Stale marks a response that was served from an expired record because
	// regeneration failed. Never persisted.
	Stale bool `bson:"-" json:"stale,omitempty"`
}

// Validate checks that a generated guide conforms to the expected schema.
// A document failing validation is treated as a generator failure, never
// stored or returned.
func (c *Country) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("missing name")
	}
	if c.Overview == "" {
		return fmt.Errorf("missing overview")
	}
	if c.Safety.Score < 0 || c.Safety.Score > 100 {
		return fmt.Errorf("safety score %d out of range 0-100", c.Safety.Score)
	}
	if len(c.CulturalWarnings) == 0 {
		return fmt.Errorf("missing cultural warnings")
	}
	if len(c.LocalLaws) == 0 {
		return fmt.Errorf("missing local laws")
	}
	if c.AdvisoryText == "" {
		return fmt.Errorf("missing advisory text")
	}
	if c.HistoryText == "" {
		return fmt.Errorf("missing history text")
	}
	return nil
}

// NarrationText returns the source text for an audio kind.
func (c *Country) NarrationText(kind AudioKind) string {
	switch kind {
	case AudioKindAdvisory:
		return c.AdvisoryText
	case AudioKindHistory:
		return c.HistoryText
	default:
		return ""
	}
}

// AudioURL returns the known durable URL for an audio kind, or "" if none
// has been backfilled yet.
func (c *Country) AudioURL(kind AudioKind) string {
	return c.AudioURLs[string(kind)]
}

// CountrySummary is the projection returned by name search.
type CountrySummary struct {
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
}
