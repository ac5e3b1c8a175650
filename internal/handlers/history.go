package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"tripatlas/internal/services"
)

// HistoryHandler exposes the per-user search history
type HistoryHandler struct {
	history *services.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

type recordSearchRequest struct {
	CountryName string `json:"country_name"`
	Slug        string `json:"slug"`
}

// Record logs a country lookup into the user's search history.
// POST /api/user/search-history
func (h *HistoryHandler) Record(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)

	var req recordSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.CountryName == "" || req.Slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "country_name and slug are required",
		})
	}

	if err := h.history.RecordSearch(c.Context(), uid, req.CountryName, req.Slug); err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		log.Printf("❌ [HISTORY-API] Record failed for %s: %v", uid, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record search",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Recent returns the user's searches within the read window, newest first.
// GET /api/user/search-history?days=3
func (h *HistoryHandler) Recent(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)

	window := time.Duration(c.QueryInt("days", 0)) * 24 * time.Hour

	entries, err := h.history.RecentSearches(c.Context(), uid, window)
	if err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		log.Printf("❌ [HISTORY-API] Read failed for %s: %v", uid, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load search history",
		})
	}

	return c.JSON(fiber.Map{
		"data": entries,
	})
}
