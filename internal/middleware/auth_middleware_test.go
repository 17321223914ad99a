package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/service"
	pkgerrors "go-warehouse-orders/pkg/errors"
	"go-warehouse-orders/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	service.AuthService
	actors map[string]model.Actor
}

func (s stubAuth) Authenticate(_ context.Context, token string) (model.Actor, error) {
	if actor, ok := s.actors[token]; ok {
		return actor, nil
	}
	return model.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token")
}

func newTestApp(auth service.AuthService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus).SendString(string(pkgerrors.CodeOf(err)))
		},
	})
	app.Use(RequireAuth(auth, logger.Nop()))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(actor.Name)
	})
	app.Get("/admin", RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func call(t *testing.T, app *fiber.App, path, authorization string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	app := newTestApp(stubAuth{actors: map[string]model.Actor{
		"staff-token": {ID: uuid.New(), Name: "Picker", Role: model.RoleStaff},
	}})

	assert.Equal(t, http.StatusOK, call(t, app, "/whoami", "Bearer staff-token"))
	assert.Equal(t, http.StatusOK, call(t, app, "/whoami", "bearer staff-token"))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/whoami", ""))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/whoami", "staff-token"))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/whoami", "Bearer other"))
}

func TestRequireRole(t *testing.T) {
	app := newTestApp(stubAuth{actors: map[string]model.Actor{
		"staff-token": {ID: uuid.New(), Name: "Picker", Role: model.RoleStaff},
		"admin-token": {ID: uuid.New(), Name: "Boss", Role: model.RoleAdmin},
	}})

	assert.Equal(t, http.StatusForbidden, call(t, app, "/admin", "Bearer staff-token"))
	assert.Equal(t, http.StatusOK, call(t, app, "/admin", "Bearer admin-token"))
}
