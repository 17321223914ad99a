package middleware

import (
	"strings"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/service"
	pkgerrors "go-warehouse-orders/pkg/errors"
	"go-warehouse-orders/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// RequireAuth validates the bearer token and stores the caller as a
// model.Actor in the request locals. Errors are returned to the app's
// error handler.
func RequireAuth(auth service.AuthService, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid authorization format, use: Bearer <token>")
		}

		actor, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			return err
		}

		c.Locals(actorKey, actor)
		if log != nil {
			c.SetUserContext(log.WithActor(c.UserContext(), actor.ID.String(), actor.Role.String()))
		}
		return c.Next()
	}
}

// ActorFrom returns the caller stored by RequireAuth.
func ActorFrom(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(actorKey).(model.Actor)
	return actor, ok
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
		}
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return pkgerrors.Newf(pkgerrors.CodeForbidden, "requires role %s", joinRoles(roles))
	}
}

func joinRoles(roles []model.Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}
	return strings.Join(names, " or ")
}
