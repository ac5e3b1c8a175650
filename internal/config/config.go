package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port     string
	MongoURI string

	// Gemini content generation
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration
	GeminiRPS     float64 // outbound generation rate limit, requests per second

	// ElevenLabs text-to-speech
	ElevenLabsAPIKey string
	ElevenLabsVoice  string
	TTSTimeout       time.Duration

	// Supabase storage (audio blob backfill)
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	// Auth token verification
	JWTSecret string

	// Cache policy
	CountryFreshness        time.Duration // guide records older than this are stale
	RecommendationFreshness time.Duration
	SearchHistoryWindow     time.Duration // read-side window on search history
	SearchHistoryCap        int           // stored entries kept per user
	HotCacheTTL             time.Duration // in-process hot cache in front of Mongo
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "3001"),
		MongoURI: getEnv("MONGODB_URI", ""),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeout: getDurationEnv("GEMINI_TIMEOUT", 60*time.Second),
		GeminiRPS:     getFloatEnv("GEMINI_RPS", 2),

		ElevenLabsAPIKey: getEnv("ELEVENLABS_API_KEY", ""),
		// "Rachel", a stable premade voice
		ElevenLabsVoice: getEnv("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		TTSTimeout:      getDurationEnv("TTS_TIMEOUT", 120*time.Second),

		SupabaseURL:    getEnv("SUPABASE_URL", ""),
		SupabaseKey:    getEnv("SUPABASE_KEY", ""),
		SupabaseBucket: getEnv("SUPABASE_AUDIO_BUCKET", "country-audio"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		CountryFreshness:        getDurationEnv("COUNTRY_FRESHNESS", 7*24*time.Hour),
		RecommendationFreshness: getDurationEnv("RECOMMENDATION_FRESHNESS", 24*time.Hour),
		SearchHistoryWindow:     getDurationEnv("SEARCH_HISTORY_WINDOW", 3*24*time.Hour),
		SearchHistoryCap:        getIntEnv("SEARCH_HISTORY_CAP", 50),
		HotCacheTTL:             getDurationEnv("HOT_CACHE_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
