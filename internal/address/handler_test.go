package address

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeAppWithAddressHandler(a *Handler) *fiber.App {
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
	a.RegisterProtectedRoutes(app)
	return app
}

func TestAddressBookLifecycle(t *testing.T) {
	seed := map[int][]Address{
		42: {{AddressID: 1, UserID: 42, AddressDesc: "12 Baker Lane, Pune 411001", Phone: "9876543210", AddressName: "Home"}},
	}
	repo := NewInMemoryRepository(seed)
	handler := NewHandler(NewService(repo))
	app := makeAppWithAddressHandler(handler)

	// unauthorized
	req := httptest.NewRequest("GET", "/api/v1/address", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	// authorized GET returns the seeded entry
	req2 := httptest.NewRequest("GET", "/api/v1/address", nil)
	req2.Header.Set("X-User-ID", "42")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res2.StatusCode)
	}
	b, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b), "Baker Lane") {
		t.Fatalf("unexpected body: %s", string(b))
	}

	// POST a second entry
	req3 := httptest.NewRequest("POST", "/api/v1/address", strings.NewReader(`{"addressDesc":"4 Mill Road, Pune 411002","phone":"9123456780","addressName":"Office"}`))
	req3.Header.Set("Content-Type", "application/json")
	req3.Header.Set("X-User-ID", "42")
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d", res3.StatusCode)
	}
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), "Office") {
		t.Fatalf("add response unexpected: %s", string(b3))
	}

	// PATCH the new entry
	req4 := httptest.NewRequest("PATCH", "/api/v1/address", strings.NewReader(`{"addressId":2,"addressDesc":"4 Mill Road, 2nd floor","addressName":"Office"}`))
	req4.Header.Set("Content-Type", "application/json")
	req4.Header.Set("X-User-ID", "42")
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for patch, got %d", res4.StatusCode)
	}
	b4, _ := io.ReadAll(res4.Body)
	if !strings.Contains(string(b4), "2nd floor") {
		t.Fatalf("patch response unexpected: %s", string(b4))
	}

	// DELETE it and confirm it is gone
	req5 := httptest.NewRequest("DELETE", "/api/v1/address", strings.NewReader(`{"addressId":2}`))
	req5.Header.Set("Content-Type", "application/json")
	req5.Header.Set("X-User-ID", "42")
	res5, _ := app.Test(req5)
	if res5.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", res5.StatusCode)
	}
	req6 := httptest.NewRequest("GET", "/api/v1/address", nil)
	req6.Header.Set("X-User-ID", "42")
	res6, _ := app.Test(req6)
	b6, _ := io.ReadAll(res6.Body)
	if strings.Contains(string(b6), "Mill Road") {
		t.Fatalf("delete did not remove entry: %s", string(b6))
	}
}

func TestAddressService_StampsTimestamps(t *testing.T) {
	repo := NewInMemoryRepository(map[int][]Address{})
	svc := NewService(repo)

	added, err := svc.AddAddress(7, "12 Baker Lane", "9876543210", "Home")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.CreatedAt == "" || added.UpdatedAt == "" {
		t.Fatalf("timestamps not set on add: %+v", added)
	}

	updated, err := svc.UpdateAddress(7, added.AddressID, "12 Baker Lane, rear gate", "", "Home")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UpdatedAt == "" {
		t.Fatalf("updatedAt not set on update: %+v", updated)
	}
	if updated.AddressDesc != "12 Baker Lane, rear gate" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestAddressService_RejectsEmptyEntry(t *testing.T) {
	svc := NewService(NewInMemoryRepository(map[int][]Address{}))
	if _, err := svc.AddAddress(7, "", "9876543210", ""); err != ErrEmptyEntry {
		t.Fatalf("expected ErrEmptyEntry, got %v", err)
	}
}

func TestAddressBook_IsolatedPerUser(t *testing.T) {
	repo := NewInMemoryRepository(map[int][]Address{
		1: {{AddressID: 1, UserID: 1, AddressDesc: "12 Baker Lane", AddressName: "Home"}},
	})
	svc := NewService(repo)

	// another user cannot touch the entry
	if _, err := svc.UpdateAddress(2, 1, "hijacked", "", "Home"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign update, got %v", err)
	}
	if err := svc.DeleteAddress(2, 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	addrs, err := svc.GetAddresses(1)
	if err != nil || len(addrs) != 1 {
		t.Fatalf("owner's entry lost: %v %+v", err, addrs)
	}
}
