package controller

import (
	"strings"

	"github.com/benbeisheim/movegen-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the REST API under /api and the game socket under /ws.
func RegisterRoutes(app *fiber.App, gc *GameController, ac *AnalysisController, wsc *WebSocketController, allowedOrigins string) {
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsc.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         splitOrigins(allowedOrigins),
	}))

	api := app.Group("/api")

	analysis := api.Group("/analysis")
	analysis.Post("/pseudo", ac.PseudoLegal)
	analysis.Post("/legal", ac.Legal)

	games := api.Group("/game", middleware.EnsurePlayerID())
	games.Post("/create", gc.CreateGame)
	games.Post("/join/:gameId", gc.JoinGame)
	games.Get("/:gameId", gc.GetGameState)
	games.Delete("/:gameId", gc.DeleteGame)
	games.Get("/:gameId/moves/:square", gc.LegalMoves)
	games.Post("/:gameId/move", gc.MakeMove)
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
