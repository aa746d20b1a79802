package middleware

import (
	"github.com/gofiber/fiber/v2"

	"skillpath/backend/config"
	"skillpath/backend/utils"
)

// AuthMiddleware rejects requests without a valid token and stores the
// learner ID in locals for the handlers.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		learnerID, err := utils.ExtractLearnerID(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals("learnerID", learnerID)
		return c.Next()
	}
}

// LearnerID returns the authenticated learner ID set by AuthMiddleware.
func LearnerID(c *fiber.Ctx) string {
	id, _ := c.Locals("learnerID").(string)
	return id
}
