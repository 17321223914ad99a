package handler

import (
	"errors"
	"strconv"

	"go-warehouse-orders/internal/middleware"
	"go-warehouse-orders/internal/model"
	pkgerrors "go-warehouse-orders/pkg/errors"
	"go-warehouse-orders/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorHandler renders every error returned by handlers and middleware as
// {"error", "code", "details"} with the status mapped from its code.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
				"code":  codeForStatus(fiberErr.Code),
			})
		}

		typed := pkgerrors.As(err)
		if typed == nil {
			typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
		}
		meta := pkgerrors.MetadataFor(typed.Code())
		if typed.Code() == pkgerrors.CodeInternal {
			if log != nil {
				log.Error(log.WithField(c.UserContext(), "path", c.Path()), "request failed", err)
			}
			return c.Status(meta.HTTPStatus).JSON(fiber.Map{
				"error": meta.PublicMessage,
				"code":  typed.Code(),
			})
		}

		body := fiber.Map{
			"error": typed.Message(),
			"code":  typed.Code(),
		}
		if meta.DetailsAllowed && typed.Details() != nil {
			body["details"] = typed.Details()
		}
		return c.Status(meta.HTTPStatus).JSON(body)
	}
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	case fiber.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case fiber.StatusForbidden:
		return pkgerrors.CodeForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return pkgerrors.CodeNotFound
	case fiber.StatusConflict:
		return pkgerrors.CodeConflict
	default:
		return pkgerrors.CodeInternal
	}
}

func invalidJSON() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid JSON")
}

// Helper to get the caller set by the auth middleware
func currentActor(c *fiber.Ctx) (model.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return model.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return actor, nil
}

// Helper to parse a UUID route parameter
func paramUUID(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid %s ID", label)
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be an integer", key)
	}
	return value, nil
}
