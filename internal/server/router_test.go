package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/fekuna/omnipos-mrp-service/internal/app"
	"github.com/fekuna/omnipos-mrp-service/internal/auth"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewFromZap(zaptest.NewLogger(t))
	uc := app.NewUseCases(app.NewMemoryRepositories(), app.Options{Logger: log})
	return NewRouter(uc, Config{JWTSecret: secret}, log)
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthIsPublic(t *testing.T) {
	r := newTestRouter(t, testSecret)

	w := do(t, r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	r := newTestRouter(t, testSecret)

	if w := do(t, r, http.MethodGet, "/api/products", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/products", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}

	claims := auth.Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if w := do(t, r, http.MethodGet, "/api/products", token, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProductAndStockFlow(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(t, r, http.MethodPost, "/api/products", "", map[string]any{
		"product_code": "RM001",
		"name":         "Steel sheet",
		"quantity":     100,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/products", "", map[string]any{"product_code": "RM001", "name": "dup"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", w.Code)
	}

	w = do(t, r, http.MethodPost, "/api/wip", "", map[string]any{
		"batch_number":  "B1",
		"raw_materials": []map[string]any{{"product_code": "RM001", "quantity": 150}},
		"output":        []map[string]any{},
		"status":        "in_progress",
		"start_date":    "2024-03-01",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("overdraw: expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/inventory/adjust", "", map[string]any{"product_code": "RM001", "quantity": -3})
	if w.Code != http.StatusOK {
		t.Fatalf("adjust: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/api/products/RM001", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	var p model.Product
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !p.Quantity.Equal(decimal.NewFromInt(97)) {
		t.Fatalf("expected 97, got %s", p.Quantity)
	}

	if w := do(t, r, http.MethodGet, "/api/products/NOPE", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestWipCreateStatuses(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(t, r, http.MethodPost, "/api/products", "", map[string]any{
		"product_code": "RM001",
		"name":         "Steel sheet",
		"quantity":     10,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/wip", "", map[string]any{
		"batch_number":  "B-MISSING",
		"raw_materials": []map[string]any{{"product_code": "NOPE", "quantity": 1}},
		"status":        "in_progress",
		"start_date":    "2024-03-01",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing material: expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/wip", "", map[string]any{
		"batch_number":  "B-FREE",
		"raw_materials": []map[string]any{{"product_code": "RM001", "quantity": 1}},
		"status":        "started",
		"start_date":    "2024-03-01",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("free-text status: expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOrderRoutes(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(t, r, http.MethodPost, "/api/orders", "", map[string]any{
		"order_id": "PO-1",
		"party_id": "Steel Co",
		"type":     "purchase",
		"products": []map[string]any{{"product_code": "RM002", "quantity_ordered": 50}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPut, "/api/orders/PO-1/status", "", map[string]any{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPut, "/api/orders/PO-1/status", "", map[string]any{"status": "completed"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second completion: expected 400, got %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/suppliers/Steel%20Co", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("auto-created supplier: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/api/orders?view=history", "", nil)
	if w.Code != http.StatusOK || w.Header().Get("X-Total-Count") != "1" {
		t.Fatalf("history: got %d with total %q", w.Code, w.Header().Get("X-Total-Count"))
	}

	w = do(t, r, http.MethodDelete, "/api/quotations", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete quotations: expected 200, got %d", w.Code)
	}
	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 0 {
		t.Fatalf("completed order is not a quotation, deleted %d", body.Count)
	}
}
