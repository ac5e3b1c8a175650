package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"tripatlas/internal/models"
	"tripatlas/internal/services"
)

// UserHandler manages the traveler profile and mood log
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile returns the user's stored document.
// GET /api/user/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)

	user, err := h.users.GetProfile(c.Context(), uid)
	if err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		log.Printf("❌ [USER-API] Profile load failed for %s: %v", uid, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load profile",
		})
	}

	return c.JSON(fiber.Map{
		"data": user,
	})
}

type profileRequest struct {
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	Profile     models.Profile `json:"profile"`
}

// SaveProfile creates or updates the traveler profile.
// PUT /api/user/profile
func (h *UserHandler) SaveProfile(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)

	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.users.SaveProfile(c.Context(), uid, req.Email, req.DisplayName, req.Profile)
	if err != nil {
		log.Printf("❌ [USER-API] Profile save failed for %s: %v", uid, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save profile",
		})
	}

	return c.JSON(fiber.Map{
		"data":     user,
		"complete": user.IsProfileComplete,
	})
}

type moodRequest struct {
	Mood string `json:"mood"`
	Note string `json:"note"`
}

// LogMood appends a dated mood entry; the latest one steers recommendations.
// POST /api/user/mood
func (h *UserHandler) LogMood(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)

	var req moodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Mood == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "mood is required",
		})
	}

	if err := h.users.LogMood(c.Context(), uid, req.Mood, req.Note); err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		log.Printf("❌ [USER-API] Mood log failed for %s: %v", uid, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to log mood",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
