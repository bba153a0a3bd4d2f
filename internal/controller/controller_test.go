package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benbeisheim/movegen-backend/internal/middleware"
	"github.com/benbeisheim/movegen-backend/internal/model"
	"github.com/benbeisheim/movegen-backend/internal/service"
	"github.com/benbeisheim/movegen-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store, err := storage.OpenBadger("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	gameService := service.NewGameService(service.NewGameManager(store))
	app := fiber.New()
	RegisterRoutes(app,
		NewGameController(gameService),
		NewAnalysisController(service.NewAnalysisService()),
		NewWebSocketController(gameService),
		"http://localhost:5173",
	)
	return app
}

func call(t *testing.T, app *fiber.App, method, target, player string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set(middleware.PlayerIDHeader, player)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, target, err)
		}
	}
	return resp.StatusCode
}

func createGame(t *testing.T, app *fiber.App, fen string) string {
	t.Helper()
	var created struct {
		GameID string `json:"game_id"`
	}
	var body any
	if fen != "" {
		body = map[string]string{"fen": fen}
	}
	if status := call(t, app, "POST", "/api/game/create", "alice", body, &created); status != http.StatusCreated {
		t.Fatalf("create: status %d", status)
	}
	return created.GameID
}

type movesResponse struct {
	From  string `json:"from"`
	Moves []struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"moves"`
}

func TestGameRoutes(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")

	var joined struct {
		Color string `json:"color"`
	}
	if status := call(t, app, "POST", "/api/game/join/"+id, "alice", nil, &joined); status != http.StatusOK || joined.Color != "white" {
		t.Fatalf("alice join: %d %s", status, joined.Color)
	}
	call(t, app, "POST", "/api/game/join/"+id, "bob", nil, &joined)
	if joined.Color != "black" {
		t.Fatalf("bob joined as %s", joined.Color)
	}

	var moves movesResponse
	if status := call(t, app, "GET", "/api/game/"+id+"/moves/e2", "alice", nil, &moves); status != http.StatusOK {
		t.Fatalf("moves: status %d", status)
	}
	if len(moves.Moves) != 2 || moves.Moves[0].From != "e2" {
		t.Fatalf("e2 moves %+v", moves.Moves)
	}

	var state model.GameState
	if status := call(t, app, "POST", "/api/game/"+id+"/move", "alice", model.WSMove{From: "e2", To: "e4"}, &state); status != http.StatusOK {
		t.Fatalf("move: status %d", status)
	}
	if state.FEN != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Fatalf("fen after e4: %s", state.FEN)
	}

	state = model.GameState{}
	if status := call(t, app, "GET", "/api/game/"+id, "bob", nil, &state); status != http.StatusOK || state.Board.ToMove.String() != "black" {
		t.Fatalf("state: %d", status)
	}
}

func TestGameRouteErrors(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")
	call(t, app, "POST", "/api/game/join/"+id, "alice", nil, nil)
	call(t, app, "POST", "/api/game/join/"+id, "bob", nil, nil)

	for _, tc := range []struct {
		name   string
		method string
		target string
		player string
		body   any
		status int
	}{
		{"no player", "GET", "/api/game/" + id, "", nil, http.StatusUnauthorized},
		{"unknown game", "GET", "/api/game/missing", "alice", nil, http.StatusNotFound},
		{"bad square", "GET", "/api/game/" + id + "/moves/k9", "alice", nil, http.StatusBadRequest},
		{"empty square", "GET", "/api/game/" + id + "/moves/e4", "alice", nil, http.StatusUnprocessableEntity},
		{"not your turn", "POST", "/api/game/" + id + "/move", "bob", model.WSMove{From: "e7", To: "e5"}, http.StatusConflict},
		{"illegal", "POST", "/api/game/" + id + "/move", "alice", model.WSMove{From: "e2", To: "e5"}, http.StatusBadRequest},
		{"stranger", "POST", "/api/game/" + id + "/move", "carol", model.WSMove{From: "e2", To: "e4"}, http.StatusForbidden},
		{"full", "POST", "/api/game/join/" + id, "carol", nil, http.StatusConflict},
		{"bad fen", "POST", "/api/game/create", "alice", map[string]string{"fen": "nonsense"}, http.StatusBadRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var body struct {
				Error string `json:"error"`
			}
			if status := call(t, app, tc.method, tc.target, tc.player, tc.body, &body); status != tc.status {
				t.Fatalf("status %d, want %d (%s)", status, tc.status, body.Error)
			}
			if body.Error == "" {
				t.Fatal("expected an error message")
			}
		})
	}
}

func TestAnalysisRoutes(t *testing.T) {
	app := newTestApp(t)

	var res struct {
		Side  string `json:"side"`
		Moves []any  `json:"moves"`
	}
	status := call(t, app, "POST", "/api/analysis/pseudo", "", map[string]string{"fen": model.StartFEN}, &res)
	if status != http.StatusOK || len(res.Moves) != 20 || res.Side != "white" {
		t.Fatalf("pseudo: %d, %d moves for %s", status, len(res.Moves), res.Side)
	}

	status = call(t, app, "POST", "/api/analysis/legal", "", map[string]string{
		"fen":    "4r1k1/8/8/8/8/8/4N3/4K3 w - - 0 1",
		"square": "e2",
	}, &res)
	if status != http.StatusOK || len(res.Moves) != 0 {
		t.Fatalf("pinned knight: %d, %d moves", status, len(res.Moves))
	}

	for _, tc := range []struct {
		body   map[string]string
		status int
	}{
		{map[string]string{}, http.StatusBadRequest},
		{map[string]string{"fen": "junk"}, http.StatusBadRequest},
		{map[string]string{"fen": model.StartFEN, "square": "d5"}, http.StatusUnprocessableEntity},
		{map[string]string{"fen": model.StartFEN, "side": "purple"}, http.StatusBadRequest},
	} {
		if status := call(t, app, "POST", "/api/analysis/legal", "", tc.body, nil); status != tc.status {
			t.Errorf("%v: status %d, want %d", tc.body, status, tc.status)
		}
	}
}

func TestSplitOrigins(t *testing.T) {
	got := splitOrigins(" http://a.test, ,http://b.test ")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("origins %q", got)
	}
}

func TestSeatsSurviveLaterRequests(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")
	call(t, app, "POST", "/api/game/join/"+id, "alice", nil, nil)
	call(t, app, "POST", "/api/game/join/"+id, "bob", nil, nil)

	// later requests reuse the request buffers the seat IDs were read from
	call(t, app, "GET", "/api/game/"+id, "zzzzz", nil, nil)
	call(t, app, "GET", "/api/game/"+id+"/moves/e2", "yyyyyyyy", nil, nil)

	var state model.GameState
	call(t, app, "GET", "/api/game/"+id, "alice", nil, &state)
	if state.Players.White.ID != "alice" || state.Players.Black.ID != "bob" {
		t.Fatalf("seats changed to white=%q black=%q", state.Players.White.ID, state.Players.Black.ID)
	}
	if status := call(t, app, "POST", "/api/game/"+id+"/move", "carol", model.WSMove{From: "e2", To: "e4"}, nil); status != http.StatusForbidden {
		t.Fatalf("stranger move: status %d, want %d", status, http.StatusForbidden)
	}
}

func TestDeleteGameRoute(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")
	call(t, app, "POST", "/api/game/join/"+id, "alice", nil, nil)

	if status := call(t, app, "DELETE", "/api/game/"+id, "carol", nil, nil); status != http.StatusForbidden {
		t.Fatalf("stranger delete: status %d", status)
	}
	if status := call(t, app, "DELETE", "/api/game/"+id, "alice", nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete: status %d", status)
	}
	if status := call(t, app, "GET", "/api/game/"+id, "alice", nil, nil); status != http.StatusNotFound {
		t.Fatalf("deleted game: status %d", status)
	}
}
