package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"tripatlas/internal/models"
	"tripatlas/internal/services"
)

// AudioHandler serves narration audio for country guides
type AudioHandler struct {
	countries *services.CountryService
	audio     *services.AudioService
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(countries *services.CountryService, audio *services.AudioService) *AudioHandler {
	return &AudioHandler{countries: countries, audio: audio}
}

type ttsRequest struct {
	Slug string `json:"slug"`
	Kind string `json:"kind"`
}

// Synthesize returns MP3 narration for one section of a country guide,
// synthesizing and backfilling the stored pointer when no blob exists yet.
// POST /api/tts {"slug": "japan", "kind": "advisory"}
func (h *AudioHandler) Synthesize(c *fiber.Ctx) error {
	var req ttsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	kind := models.AudioKind(req.Kind)
	if req.Slug == "" || !models.ValidAudioKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "slug and kind (advisory or history) are required",
		})
	}

	country, err := h.countries.GetCountry(c.Context(), req.Slug)
	if err != nil {
		log.Printf("❌ [TTS-API] Country lookup failed for %q: %v", req.Slug, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Country not found",
		})
	}

	data, err := h.audio.EnsureAudio(c.Context(), country.Slug, kind, country.NarrationText(kind), country.AudioURL(kind))
	if err != nil {
		var assetErr *services.AssetGenerationFailedError
		if errors.As(err, &assetErr) {
			log.Printf("❌ [TTS-API] Synthesis failed for %s/%s: %v", country.Slug, kind, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Audio synthesis failed. Please try again later.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to produce audio",
		})
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(data)
}
