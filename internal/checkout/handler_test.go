package checkout

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/ovenfresh/bakery-shop-backend/internal/cart"
)

func makeAppWithCheckoutHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func checkoutJSONRequest(t *testing.T, app *fiber.App, method, path, body, userID string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestCheckoutRoute_Unauthorized(t *testing.T) {
	svc := newTestService(seededCarts(), &fakeOrders{}, &fakePayments{})
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	code, _ := checkoutJSONRequest(t, app, "POST", "/api/v1/checkout", "", "")
	if code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestCheckoutRoute_OpenWithEmptyCart(t *testing.T) {
	svc := newTestService(&fakeCarts{lines: map[int][]cart.Line{}}, &fakeOrders{}, &fakePayments{})
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	code, body := checkoutJSONRequest(t, app, "POST", "/api/v1/checkout", "", "1")
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d: %s", code, body)
	}
}

func TestCheckoutRoute_GetWithoutSession(t *testing.T) {
	svc := newTestService(seededCarts(), &fakeOrders{}, &fakePayments{})
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	code, _ := checkoutJSONRequest(t, app, "GET", "/api/v1/checkout", "", "1")
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 without a session, got %d", code)
	}
}

func TestCheckoutRoute_InvalidEmailReportsField(t *testing.T) {
	svc := newTestService(seededCarts(), &fakeOrders{}, &fakePayments{})
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	code, _ := checkoutJSONRequest(t, app, "POST", "/api/v1/checkout", "", "1")
	if code != fiber.StatusCreated {
		t.Fatalf("expected 201 on open, got %d", code)
	}

	code, body := checkoutJSONRequest(t, app, "PUT", "/api/v1/checkout/contact",
		`{"name":"Asha Rao","email":"not-an-email","phone":"9876543210"}`, "1")
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d: %s", code, body)
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if parsed["field"] != "email" {
		t.Fatalf("expected field=email, got %v", parsed["field"])
	}
}

func TestCheckoutRoute_FullWizardToCODSubmission(t *testing.T) {
	carts := seededCarts()
	orders := &fakeOrders{}
	payments := &fakePayments{configured: true}
	svc := newTestService(carts, orders, payments)
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	code, body := checkoutJSONRequest(t, app, "POST", "/api/v1/checkout", "", "1")
	if code != fiber.StatusCreated {
		t.Fatalf("expected 201 on open, got %d: %s", code, body)
	}
	// contact was prefilled from the stored profile
	if !strings.Contains(body, "asha@example.com") {
		t.Fatalf("open response missing prefilled contact: %s", body)
	}

	code, body = checkoutJSONRequest(t, app, "PUT", "/api/v1/checkout/contact",
		`{"name":"Asha Rao","email":"asha@example.com","phone":"9876543210"}`, "1")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 on contact step, got %d: %s", code, body)
	}

	code, body = checkoutJSONRequest(t, app, "PUT", "/api/v1/checkout/delivery",
		`{"street":"12 Baker Lane","city":"Pune","state":"MH","pincode":"411001","country":"IN","notes":"ring twice"}`, "1")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 on delivery step, got %d: %s", code, body)
	}

	code, body = checkoutJSONRequest(t, app, "PUT", "/api/v1/checkout/payment",
		`{"paymentMethod":"cod"}`, "1")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 on payment step, got %d: %s", code, body)
	}

	code, body = checkoutJSONRequest(t, app, "POST", "/api/v1/checkout/submit", "", "1")
	if code != fiber.StatusCreated {
		t.Fatalf("expected 201 on submit, got %d: %s", code, body)
	}
	var parsed struct {
		Success bool         `json:"success"`
		Result  SubmitResult `json:"result"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("bad submit body: %v", err)
	}
	if !parsed.Success || parsed.Result.PaymentMethod != MethodCOD {
		t.Fatalf("unexpected submit result: %s", body)
	}
	if payments.calls != 0 {
		t.Fatal("gateway touched on the cod path")
	}
	if len(carts.lines[1]) != 0 {
		t.Fatal("cart not cleared after cod submission")
	}

	// the session is gone once the order settled
	code, _ = checkoutJSONRequest(t, app, "GET", "/api/v1/checkout", "", "1")
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 after completion, got %d", code)
	}
}

func TestCheckoutRoute_BackAndClose(t *testing.T) {
	svc := newTestService(seededCarts(), &fakeOrders{}, &fakePayments{})
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	checkoutJSONRequest(t, app, "POST", "/api/v1/checkout", "", "1")
	checkoutJSONRequest(t, app, "PUT", "/api/v1/checkout/contact",
		`{"name":"Asha Rao","email":"asha@example.com","phone":"9876543210"}`, "1")

	code, body := checkoutJSONRequest(t, app, "POST", "/api/v1/checkout/back", "", "1")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 on back, got %d: %s", code, body)
	}
	if !strings.Contains(body, `"step":"contact"`) {
		t.Fatalf("expected contact step after back: %s", body)
	}

	code, _ = checkoutJSONRequest(t, app, "DELETE", "/api/v1/checkout", "", "1")
	if code != fiber.StatusNoContent {
		t.Fatalf("expected 204 on close, got %d", code)
	}
	code, _ = checkoutJSONRequest(t, app, "GET", "/api/v1/checkout", "", "1")
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 after close, got %d", code)
	}
}

func TestCheckoutRoute_SubmitBeforePaymentStep(t *testing.T) {
	svc := newTestService(seededCarts(), &fakeOrders{}, &fakePayments{})
	app := makeAppWithCheckoutHandler(NewHandler(svc))

	checkoutJSONRequest(t, app, "POST", "/api/v1/checkout", "", "1")

	code, body := checkoutJSONRequest(t, app, "POST", "/api/v1/checkout/submit", "", "1")
	if code != fiber.StatusConflict {
		t.Fatalf("expected 409 before the payment step, got %d: %s", code, body)
	}
}
