package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"tripatlas/internal/services"
)

// RecommendHandler serves destination recommendations
type RecommendHandler struct {
	recommendations *services.RecommendationService
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(recommendations *services.RecommendationService) *RecommendHandler {
	return &RecommendHandler{recommendations: recommendations}
}

// Personal returns recommendations derived from the user's stored profile and
// latest mood, regenerating when the cached set has expired.
// POST /api/recommend
func (h *RecommendHandler) Personal(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)

	items, cached, err := h.recommendations.GetRecommendations(c.Context(), uid)
	if err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User profile not found. Complete your profile first.",
			})
		}
		if services.IsGenerationFailed(err) {
			log.Printf("❌ [RECOMMEND-API] Generation failed for %s: %v", uid, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Could not generate recommendations. Please try again later.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load recommendations",
		})
	}

	return c.JSON(fiber.Map{
		"data":   items,
		"cached": cached,
	})
}

type criteriaRequest struct {
	Budget    string   `json:"budget"`
	Documents []string `json:"documents"`
	Age       int      `json:"age"`
	Mood      string   `json:"mood"`
}

// ForCriteria returns one-off recommendations for explicit trip criteria.
// Responses are never cached: the criteria are request-scoped, not profile
// state.
// POST /api/recommendations
func (h *RecommendHandler) ForCriteria(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)

	var req criteriaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	items, err := h.recommendations.GenerateForCriteria(c.Context(), uid, services.RecommendationCriteria{
		Budget:    req.Budget,
		Documents: req.Documents,
		Age:       req.Age,
		Mood:      req.Mood,
	})
	if err != nil {
		if services.IsGenerationFailed(err) {
			log.Printf("❌ [RECOMMEND-API] Criteria generation failed for %s: %v", uid, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Could not generate recommendations. Please try again later.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate recommendations",
		})
	}

	return c.JSON(fiber.Map{
		"data": items,
	})
}
