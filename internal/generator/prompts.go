package generator

import (
	"fmt"
	"strings"
)

// RecommendationRequest carries the traveler attributes a recommendation
// prompt is built from. Zero-value fields render as "Unknown"/defaults.
type RecommendationRequest struct {
	Age       int
	GroupType string
	Location  string
	Mood      string
	Documents []string
	Budget    string
	Count     int
}

func (r RecommendationRequest) count() int {
	if r.Count <= 0 {
		return 3
	}
	return r.Count
}

func countryPrompt(name string) string {
	return fmt.Sprintf(`
Act as a professional travel guide. Generate a comprehensive JSON guide for the country "%s".
The JSON must strictly follow this structure:
{
  "name": "Country name",
  "overview": "Short inviting description (2 sentences).",
  "estimatedCost": {
    "budget": "Daily cost for backpackers (include currency)",
    "medium": "Daily cost for average tourist",
    "luxury": "Daily cost for luxury",
    "currency": "Local currency code"
  },
  "safety": {
    "score": 85,
    "details": {
      "crime": "Status",
      "transport": "Status",
      "women": "Specific safety info",
      "lgbtq": "Specific safety info",
      "health": "Health risks/quality",
      "political": "Stability status"
    }
  },
  "bestSeason": "Best months to visit",
  "visaRequirements": "General visa info for US/EU citizens",
  "culturalWarnings": ["Array of 3 important dos/donts"],
  "localLaws": ["Array of 2 important laws"],
  "emergencyNumbers": {
    "police": "Number",
    "ambulance": "Number"
  },
  "internetAvailability": "Speed/Coverage description",
  "advisoryText": "A calm, neutral paragraph (approx 50 words) summarizing safety and travel advice, suitable for reading aloud.",
  "historyText": "An engaging, documentary-style short paragraph (approx 60 words) about the country's history and culture."
}
The safety score is an integer from 0 to 100.
Do not include markdown formatting like `+"```json"+`. Just return the raw JSON string.
`, name)
}

func recommendationPrompt(r RecommendationRequest) string {
	age := "Unknown"
	if r.Age > 0 {
		age = fmt.Sprintf("%d", r.Age)
	}
	group := r.GroupType
	if group == "" {
		group = "Solo"
	}
	location := r.Location
	if location == "" {
		location = "Unknown"
	}
	mood := r.Mood
	if mood == "" {
		mood = "General"
	}
	documents := "None"
	if len(r.Documents) > 0 {
		documents = strings.Join(r.Documents, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, `
Act as an expert travel agent.
Recommend %d travel destinations based on the following user details:

- Age: %s
- Group Type: %s
- Location: %s
- Current Mood: %s
- Travel Documents Held: %s
`, r.count(), age, group, location, mood, documents)

	if r.Budget != "" {
		fmt.Fprintf(&b, "- Budget Level: %s\n", r.Budget)
	}

	fmt.Fprintf(&b, `
Constraints:
1. Consider the visa requirements for the held documents.
2. Match the budget level if given.
3. Match the vibe/mood.
4. Provide distinct options.

Return a JSON array with exactly %d objects. Format:
[
  {
    "name": "Country Name",
    "matchScore": 95,
    "reason": "One succinct sentence explaining why it fits particularly well."
  }
]
matchScore is an integer from 0 to 100.
Do not include markdown or code blocks. Strictly return valid JSON.
`, r.count())

	return b.String()
}
