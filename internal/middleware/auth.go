package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"tripatlas/pkg/auth"
)

// AuthMiddleware verifies JWT access tokens and stores the subject uid in
// c.Locals("user_id") for downstream handlers.
func AuthMiddleware(jwtAuth *auth.JWTAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := auth.ExtractToken(authHeader)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid authorization token",
			})
		}

		user, err := jwtAuth.VerifyToken(token)
		if err != nil {
			log.Printf("❌ Auth failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", user.UID)
		c.Locals("user_email", user.Email)
		return c.Next()
	}
}
