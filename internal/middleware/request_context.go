package middleware

import (
	"go-warehouse-orders/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// RequestContext copies the request id set by fiber's requestid middleware
// into the request's context logger.
func RequestContext(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			c.SetUserContext(log.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}
