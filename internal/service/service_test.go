package service

import (
	"context"
	"errors"
	"testing"

	"github.com/benbeisheim/movegen-backend/internal/chess"
	"github.com/benbeisheim/movegen-backend/internal/model"
	"github.com/benbeisheim/movegen-backend/internal/storage"
)

func newStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := storage.OpenBadger("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGameLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	gs := NewGameService(NewGameManager(store))

	id, err := gs.CreateGame(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if c, err := gs.JoinGame(ctx, id, "alice"); err != nil || c != chess.White {
		t.Fatalf("alice: %v, %v", c, err)
	}
	if c, err := gs.JoinGame(ctx, id, "bob"); err != nil || c != chess.Black {
		t.Fatalf("bob: %v, %v", c, err)
	}

	moves, err := gs.LegalMoves(ctx, id, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 2 {
		t.Fatalf("g1 knight has %d moves", len(moves))
	}

	if err := gs.HandleMove(ctx, id, "alice", model.WSMove{From: "g1", To: "f3"}); err != nil {
		t.Fatal(err)
	}
	if err := gs.HandleMove(ctx, id, "alice", model.WSMove{From: "f3", To: "e5"}); !errors.Is(err, model.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	// a fresh manager over the same store picks the game up where it was left
	restarted := NewGameService(NewGameManager(store))
	state, err := restarted.GetGameState(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if state.FEN != "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1" {
		t.Fatalf("restored fen %s", state.FEN)
	}
	if err := restarted.HandleMove(ctx, id, "bob", model.WSMove{From: "e7", To: "e5"}); err != nil {
		t.Fatalf("restored game should accept bob's move: %v", err)
	}
}

func TestUnknownGame(t *testing.T) {
	ctx := context.Background()
	gs := NewGameService(NewGameManager(newStore(t)))
	if _, err := gs.GetGameState(ctx, "nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if _, err := gs.JoinGame(ctx, "nope", "alice"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestCreateGameFromFEN(t *testing.T) {
	ctx := context.Background()
	gm := NewGameManager(newStore(t))
	const fen = "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	if _, err := gm.CreateGame(ctx, "custom", fen); err != nil {
		t.Fatal(err)
	}
	if _, err := gm.CreateGame(ctx, "custom", fen); !errors.Is(err, ErrGameExists) {
		t.Fatalf("expected ErrGameExists, got %v", err)
	}
	for _, bad := range []string{"not a fen", "P6k/8/8/8/8/8/8/4K3 w - - 0 1"} {
		if _, err := gm.CreateGame(ctx, "broken", bad); !errors.Is(err, ErrBadPosition) {
			t.Fatalf("%q: expected ErrBadPosition, got %v", bad, err)
		}
	}
	if err := gm.DeleteGame(ctx, "custom"); err != nil {
		t.Fatal(err)
	}
	if _, err := gm.GetGame(ctx, "custom"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("deleted game still found: %v", err)
	}
}

func TestAnalysis(t *testing.T) {
	ctx := context.Background()
	as := NewAnalysisService()

	res, err := as.PseudoLegal(ctx, AnalysisRequest{FEN: model.StartFEN})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Moves) != 20 || res.Side != chess.White || res.InCheck {
		t.Fatalf("start position: %d moves for %v", len(res.Moves), res.Side)
	}

	res, err = as.PseudoLegal(ctx, AnalysisRequest{FEN: model.StartFEN, Side: chess.Black})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Moves) != 20 || res.Side != chess.Black {
		t.Fatalf("black: %d moves for %v", len(res.Moves), res.Side)
	}

	// the e2 knight is pinned: it has pseudo-legal moves but no legal ones
	const pinned = "4r1k1/8/8/8/8/8/4N3/4K3 w - - 0 1"
	pseudo, err := as.PseudoLegal(ctx, AnalysisRequest{FEN: pinned, Square: "e2"})
	if err != nil {
		t.Fatal(err)
	}
	legal, err := as.Legal(ctx, AnalysisRequest{FEN: pinned, Square: "e2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pseudo.Moves) != 6 || len(legal.Moves) != 0 {
		t.Fatalf("pinned knight: %d pseudo, %d legal", len(pseudo.Moves), len(legal.Moves))
	}
}

func TestAnalysisErrors(t *testing.T) {
	ctx := context.Background()
	as := NewAnalysisService()

	if _, err := as.Legal(ctx, AnalysisRequest{FEN: model.StartFEN, Square: "e4"}); !errors.Is(err, chess.ErrContractViolation) {
		t.Fatalf("empty square should be a contract violation, got %v", err)
	}
	if _, err := as.Legal(ctx, AnalysisRequest{FEN: "P7/8/8/8/8/8/8/k6K w - - 0 1"}); !errors.Is(err, chess.ErrContractViolation) {
		t.Fatalf("pawn on the last rank should be a contract violation, got %v", err)
	}
	if _, err := as.Legal(ctx, AnalysisRequest{FEN: "garbage"}); err == nil {
		t.Fatal("expected a FEN error")
	}
	if _, err := as.Legal(ctx, AnalysisRequest{FEN: model.StartFEN, Square: "z9"}); err == nil {
		t.Fatal("expected a square error")
	}
}

// flakyStore fails every Save while broken is set.
type flakyStore struct {
	storage.Store
	broken bool
}

func (s *flakyStore) Save(ctx context.Context, snap storage.Snapshot) error {
	if s.broken {
		return errors.New("disk full")
	}
	return s.Store.Save(ctx, snap)
}

func TestMoveRolledBackWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: newStore(t)}
	gs := NewGameService(NewGameManager(store))

	id, err := gs.CreateGame(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	gs.JoinGame(ctx, id, "alice")
	gs.JoinGame(ctx, id, "bob")

	store.broken = true
	if err := gs.HandleMove(ctx, id, "alice", model.WSMove{From: "e2", To: "e4"}); err == nil {
		t.Fatal("expected the save error")
	}
	state, err := gs.GetGameState(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if state.FEN != model.StartFEN || len(state.MoveHistory) != 0 {
		t.Fatalf("failed move stayed applied: %s", state.FEN)
	}

	store.broken = false
	if err := gs.HandleMove(ctx, id, "alice", model.WSMove{From: "e2", To: "e4"}); err != nil {
		t.Fatalf("move after recovery: %v", err)
	}
}
