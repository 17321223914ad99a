package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-warehouse-orders/internal/middleware"
	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/repository"
	"go-warehouse-orders/internal/service"
	"go-warehouse-orders/internal/testutil"
	"go-warehouse-orders/pkg/config"
	"go-warehouse-orders/pkg/jwt"
	"go-warehouse-orders/pkg/logger"
	"go-warehouse-orders/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiFixture struct {
	app *fiber.App
	db  *gorm.DB
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := logger.Nop()
	m := metrics.NewOrderMetrics(nil)
	employees := repository.NewEmployeeRepo(db)
	products := repository.NewProductRepo(db)
	ledger := repository.NewStockLedger(db)
	movements := repository.NewMovementRepo(db)

	authService := service.NewAuthService(employees, jwt.NewManager(config.JWTConfig{
		Secret:          "handler-test-secret",
		Issuer:          "go-warehouse-orders",
		ExpirationHours: 1,
	}))
	orderService := service.NewOrderService(db, service.OrderRepositories{
		Orders:    repository.NewOrderRepo(db),
		Products:  products,
		Ledger:    ledger,
		Audit:     repository.NewAuditRepo(db),
		Movements: movements,
		Sequences: repository.NewSequenceRepo(db),
	}, log, m)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	Register(app, Handlers{
		Auth:      NewAuthHandler(authService),
		Orders:    NewOrderHandler(orderService),
		Products:  NewProductHandler(service.NewProductService(db, products, ledger, movements, log, m)),
		Employees: NewEmployeeHandler(service.NewEmployeeService(employees, log)),
	}, middleware.RequireAuth(authService, log))

	return &apiFixture{app: app, db: db}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	decoded := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func (f *apiFixture) login(t *testing.T, email string, role model.Role) string {
	t.Helper()
	testutil.SeedEmployee(t, f.db, email, role)
	status, body := f.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, status, body)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func TestOrderRoutesEndToEnd(t *testing.T) {
	f := newAPI(t)
	testutil.SeedProduct(t, f.db, "WIRE001", 20)
	staff := f.login(t, "picker@example.com", model.RoleStaff)
	admin := f.login(t, "admin@example.com", model.RoleAdmin)

	status, body := f.do(t, http.MethodGet, "/api/orders/next-order-id", staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ORD-0001", body["order_id"])

	status, body = f.do(t, http.MethodPost, "/api/orders", staff, fiber.Map{
		"customer_name": "Ravi",
		"items":         []fiber.Map{{"sku": "WIRE001", "quantity_required": 5}},
	})
	require.Equal(t, http.StatusCreated, status, body)
	order := body["data"].(map[string]any)
	orderID := order["id"].(string)
	itemID := order["items"].([]any)[0].(map[string]any)["id"].(string)
	assert.Equal(t, "ORD-0001", order["order_number"])

	status, _ = f.do(t, http.MethodPatch, "/api/orders/"+orderID+"/items/"+itemID+"/pick", staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 15, testutil.Stock(t, f.db, "WIRE001"))

	status, body = f.do(t, http.MethodPatch, "/api/orders/"+orderID+"/items/"+itemID+"/quantity", staff, fiber.Map{"quantity_required": 30})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	status, _ = f.do(t, http.MethodPatch, "/api/orders/"+orderID+"/status", staff, fiber.Map{"status": "completed"})
	require.Equal(t, http.StatusOK, status)

	status, body = f.do(t, http.MethodDelete, "/api/orders/"+orderID+"/items/"+itemID, staff, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, _ = f.do(t, http.MethodDelete, "/api/orders/"+orderID+"?reason=duplicate", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 20, testutil.Stock(t, f.db, "WIRE001"))

	status, _ = f.do(t, http.MethodGet, "/api/orders/"+orderID, admin, nil)
	assert.Equal(t, http.StatusNotFound, status)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/history/ORD-0001", nil)
	req.Header.Set("Authorization", "Bearer "+staff)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []model.OrderModification
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	require.Len(t, history, 2)
	assert.Equal(t, model.ModStatusChange, history[0].Type)
	assert.Equal(t, model.ModDeleteOrder, history[1].Type)
	require.NotNil(t, history[1].Reason)
	assert.Equal(t, "duplicate", *history[1].Reason)
}

func TestAuthErrors(t *testing.T) {
	f := newAPI(t)

	status, body := f.do(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, _ = f.do(t, http.MethodGet, "/api/orders", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	testutil.SeedEmployee(t, f.db, "picker@example.com", model.RoleStaff)
	status, body = f.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "picker@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", body["error"])
}

func TestValidationErrorsCarryDetails(t *testing.T) {
	f := newAPI(t)
	staff := f.login(t, "picker@example.com", model.RoleStaff)

	status, body := f.do(t, http.MethodPost, "/api/orders", staff, fiber.Map{"customer_name": "", "items": []fiber.Map{}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.NotEmpty(t, body["details"])

	status, body = f.do(t, http.MethodGet, "/api/orders/not-a-uuid", staff, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid order ID", body["error"])
}

func TestAdminOnlyRoutes(t *testing.T) {
	f := newAPI(t)
	staff := f.login(t, "picker@example.com", model.RoleStaff)
	admin := f.login(t, "admin@example.com", model.RoleAdmin)

	status, _ := f.do(t, http.MethodGet, "/api/employees", staff, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := f.do(t, http.MethodPost, "/api/employees", admin, fiber.Map{
		"email":    "new@example.com",
		"password": "hunter22",
		"name":     "New Picker",
		"role":     "staff",
	})
	require.Equal(t, http.StatusCreated, status, body)
	created := body["data"].(map[string]any)
	assert.Equal(t, "active", created["status"])

	status, body = f.do(t, http.MethodPatch, "/api/employees/"+created["id"].(string)+"/status", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "inactive", body["data"].(map[string]any)["status"])

	status, _ = f.do(t, http.MethodPost, "/api/products", staff, fiber.Map{"sku": "X"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = f.do(t, http.MethodPost, "/api/products", admin, fiber.Map{
		"sku":                "BOLT10",
		"product_name":       "Hex bolt M10",
		"zone":               "A",
		"aisle":              1,
		"rack":               1,
		"shelf":              1,
		"bin":                1,
		"quantity_available": 12,
		"reorder_level":      4,
		"selling_price":      "12.50",
		"mrp":                "15",
		"gst_percentage":     "18",
	})
	require.Equal(t, http.StatusCreated, status, body)
	productID := body["data"].(map[string]any)["id"].(string)

	status, body = f.do(t, http.MethodPatch, "/api/products/"+productID+"/stock", admin, fiber.Map{"quantity": -2, "reason": "damaged"})
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 10, body["data"].(map[string]any)["quantity_available"])
}

func TestPublicCatalogue(t *testing.T) {
	f := newAPI(t)
	testutil.SeedProduct(t, f.db, "PUB1", 3)

	req := httptest.NewRequest(http.MethodGet, "/api/public/catalogue", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var catalogue []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&catalogue))
	require.Len(t, catalogue, 1)
	assert.Equal(t, "PUB1", catalogue[0]["sku"])
	assert.NotContains(t, catalogue[0], "quantity_available")
	assert.NotContains(t, catalogue[0], "full_location_code")
}
