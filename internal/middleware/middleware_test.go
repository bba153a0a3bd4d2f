package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(EnsurePlayerID())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("playerID").(string))
	})
	app.Get("/ws/:gameId", WebSocketUpgrade(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusSwitchingProtocols)
	})
	return app
}

func TestEnsurePlayerID(t *testing.T) {
	app := newApp()
	for _, tc := range []struct {
		name   string
		target string
		header string
		status int
	}{
		{"header", "/whoami", "alice", fiber.StatusOK},
		{"query", "/whoami?playerId=bob", "", fiber.StatusOK},
		{"missing", "/whoami", "", fiber.StatusUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			if tc.header != "" {
				req.Header.Set(PlayerIDHeader, tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("status %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestWebSocketUpgradeRequiresUpgrade(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/g1?playerId=alice", nil)
	resp, err := newApp().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("status %d, want %d", resp.StatusCode, fiber.StatusUpgradeRequired)
	}
}

func TestPlayerIDOutlivesRequest(t *testing.T) {
	var seen []string
	app := fiber.New()
	app.Use(EnsurePlayerID())
	app.Get("/", func(c *fiber.Ctx) error {
		seen = append(seen, c.Locals("playerID").(string))
		return nil
	})

	for _, id := range []string{"alice", "zzzzz", "bob"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(PlayerIDHeader, id)
		if _, err := app.Test(req); err != nil {
			t.Fatal(err)
		}
	}
	if len(seen) != 3 || seen[0] != "alice" || seen[1] != "zzzzz" || seen[2] != "bob" {
		t.Fatalf("stored IDs changed: %q", seen)
	}
}
