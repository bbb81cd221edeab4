package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/gigflow/gigflow-api/internal/utils"
)

const testSecret = "test-secret"

func testApp() *fiber.App {
	app := fiber.New()
	app.Get("/me",
		JWTFromCookie(testSecret),
		AttachJWTLocals(),
		func(c *fiber.Ctx) error {
			return c.SendString(c.Locals("userId").(string) + ":" + c.Locals("role").(string))
		},
	)
	app.Get("/clients-only",
		JWTFromCookie(testSecret),
		AttachJWTLocals(),
		RequireRoles("client"),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)
	return app
}

func TestJWTMiddleware(t *testing.T) {
	app := testApp()

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("expected %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
		}
	})

	t.Run("garbage cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "not-a-token"})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("expected %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
		}
	})

	t.Run("valid cookie exposes locals", func(t *testing.T) {
		token, err := utils.SignJWT(testSecret, "some-user-id", "freelancer", 60)
		if err != nil {
			t.Fatalf("sign failed: %v", err)
		}

		req := httptest.NewRequest("GET", "/me", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected %d, got %d", fiber.StatusOK, resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != "some-user-id:freelancer" {
			t.Fatalf("unexpected body %q", body)
		}
	})
}

func TestRequireRoles(t *testing.T) {
	app := testApp()

	t.Run("wrong role", func(t *testing.T) {
		token, _ := utils.SignJWT(testSecret, "some-user-id", "freelancer", 60)
		req := httptest.NewRequest("GET", "/clients-only", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusForbidden {
			t.Fatalf("expected %d, got %d", fiber.StatusForbidden, resp.StatusCode)
		}
	})

	t.Run("matching role", func(t *testing.T) {
		token, _ := utils.SignJWT(testSecret, "some-user-id", "client", 60)
		req := httptest.NewRequest("GET", "/clients-only", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected %d, got %d", fiber.StatusOK, resp.StatusCode)
		}
	})
}
