package user

import (
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// makeAppWithUserHandler injects a jwt.Token into locals when the X-User-ID
// header is provided, so tests run without the full jwtware middleware.
func makeAppWithUserHandler(uHandler *Handler) *fiber.App {
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
	uHandler.RegisterProtectedRoutes(app)
	return app
}

func TestProfileRoute_AuthAndShape(t *testing.T) {
	mainAddr := 99
	seed := []User{{ID: 7, Email: "asha@example.com", FirstName: "Asha", LastName: "Rao", Phone: "9876543210", Gender: "female", MainAddressID: &mainAddr}}
	handler := NewHandler(NewService(NewInMemoryRepository(seed)))
	app := makeAppWithUserHandler(handler)

	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Path] = true
		}
	}
	if !routes["/api/v1/profile"] {
		t.Fatalf("expected route '/api/v1/profile' to be registered")
	}

	// no token -> 401 before any lookup
	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("profile request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected unauthorized status, got %d", res.StatusCode)
	}

	req2 := httptest.NewRequest("GET", "/api/v1/profile", nil)
	req2.Header.Set("X-User-ID", "7")
	res2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("authorized profile request failed: %v", err)
	}
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 OK for authorized profile, got %d", res2.StatusCode)
	}

	b, _ := io.ReadAll(res2.Body)
	body := string(b)
	if !strings.Contains(body, "asha@example.com") {
		t.Fatalf("response body does not contain expected email, got %s", body)
	}
	if !strings.Contains(body, "mainAddressId") {
		t.Fatalf("response body does not include mainAddressId, got %s", body)
	}
	if strings.Contains(body, "password") {
		t.Fatalf("response body should not expose password field")
	}
}

func TestProfileUpdate_JSONAndMainAddress(t *testing.T) {
	seed := []User{{ID: 15, Email: "ravi@example.com", FirstName: "Old", LastName: "Name", Phone: "000", Gender: "male"}}
	repo := NewInMemoryRepository(seed)
	handler := NewHandler(NewService(repo))
	app := makeAppWithUserHandler(handler)

	updateJSON := `{"firstName":"Ravi","lastName":"Kumar","phone":"9123456780","gender":"male"}`
	for _, method := range []string{"PUT", "PATCH"} {
		req := httptest.NewRequest(method, "/api/v1/profile", strings.NewReader(updateJSON))
		req.Header.Set("X-User-ID", "15")
		req.Header.Set("Content-Type", "application/json")
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s update request failed: %v", method, err)
		}
		if res.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200 OK on %s update, got %d", method, res.StatusCode)
		}
		b, _ := io.ReadAll(res.Body)
		if !strings.Contains(string(b), "Ravi") {
			t.Fatalf("updated response missing new name for %s: %s", method, string(b))
		}
	}

	reqMain := httptest.NewRequest("PATCH", "/api/v1/profile", strings.NewReader(`{"mainAddressId":42}`))
	reqMain.Header.Set("X-User-ID", "15")
	reqMain.Header.Set("Content-Type", "application/json")
	resMain, err := app.Test(reqMain)
	if err != nil {
		t.Fatalf("main address update failed: %v", err)
	}
	if resMain.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 OK on main address update, got %d", resMain.StatusCode)
	}
	u, _ := repo.GetByID(15)
	if u.MainAddressID == nil || *u.MainAddressID != 42 {
		t.Fatalf("mainAddressId not persisted: %+v", u)
	}
}

func TestProfileAvatar_UploadAndRemove(t *testing.T) {
	seed := []User{{ID: 15, Email: "ravi@example.com", FirstName: "Ravi", LastName: "Kumar", Phone: "9123456780", Gender: "male"}}
	repo := NewInMemoryRepository(seed)
	handler := NewHandler(NewService(repo))
	app := makeAppWithUserHandler(handler)

	// dedicated avatar endpoint
	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "avatar.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write([]byte("PNGDATA"))
	writer.Close()

	req := httptest.NewRequest("POST", "/api/v1/profile/avatar", strings.NewReader(body.String()))
	req.Header.Set("X-User-ID", "15")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("avatar upload failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 OK avatar upload, got %d", res.StatusCode)
	}
	u, _ := repo.GetByID(15)
	if u.AvatarPic == nil || *u.AvatarPic == "" {
		t.Fatalf("avatar pic not set in repo")
	}

	// combined multipart profile update accepts both file field names
	for _, key := range []string{"file", "avatarPic"} {
		body2 := &strings.Builder{}
		writer2 := multipart.NewWriter(body2)
		writer2.WriteField("firstName", "Combined")
		part2, err := writer2.CreateFormFile(key, "avatar2.png")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part2.Write([]byte("PNGDATA2"))
		writer2.Close()

		req2 := httptest.NewRequest("PUT", "/api/v1/profile", strings.NewReader(body2.String()))
		req2.Header.Set("X-User-ID", "15")
		req2.Header.Set("Content-Type", writer2.FormDataContentType())
		res2, err := app.Test(req2)
		if err != nil {
			t.Fatalf("combined update failed using %s: %v", key, err)
		}
		if res2.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200 OK on combined update using %s, got %d", key, res2.StatusCode)
		}
		u2, _ := repo.GetByID(15)
		if u2.FirstName != "Combined" || u2.AvatarPic == nil {
			t.Fatalf("combined update did not persist changes using %s: %+v", key, u2)
		}
	}

	// removeAvatar flag clears the stored picture
	body3 := &strings.Builder{}
	writer3 := multipart.NewWriter(body3)
	writer3.WriteField("firstName", "Removed")
	writer3.WriteField("removeAvatar", "true")
	writer3.Close()

	req3 := httptest.NewRequest("PUT", "/api/v1/profile", strings.NewReader(body3.String()))
	req3.Header.Set("X-User-ID", "15")
	req3.Header.Set("Content-Type", writer3.FormDataContentType())
	res3, err := app.Test(req3)
	if err != nil {
		t.Fatalf("avatar removal update failed: %v", err)
	}
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 OK on avatar removal update, got %d", res3.StatusCode)
	}
	u3, _ := repo.GetByID(15)
	if u3.FirstName != "Removed" || u3.AvatarPic != nil {
		t.Fatalf("avatar was not cleared by removal request: %+v", u3)
	}
}
