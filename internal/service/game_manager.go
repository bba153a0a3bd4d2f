package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/movegen-backend/internal/chess"
	"github.com/benbeisheim/movegen-backend/internal/model"
	"github.com/benbeisheim/movegen-backend/internal/storage"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrBadPosition  = errors.New("invalid starting position")
)

// GameManager keeps live games in memory and writes every change through to the store.
type GameManager struct {
	games map[string]*model.Game
	store storage.Store
	mu    sync.RWMutex
}

func NewGameManager(store storage.Store) *GameManager {
	return &GameManager{
		games: make(map[string]*model.Game),
		store: store,
	}
}

func (gm *GameManager) CreateGame(ctx context.Context, gameID, fen string) (*model.Game, error) {
	if fen == "" {
		fen = model.StartFEN
	}
	game, err := model.NewGameFromFEN(gameID, fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPosition, err)
	}

	gm.mu.Lock()
	if _, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return nil, ErrGameExists
	}
	gm.games[gameID] = game
	gm.mu.Unlock()

	if err := gm.persist(ctx, game); err != nil {
		gm.mu.Lock()
		delete(gm.games, gameID)
		gm.mu.Unlock()
		return nil, err
	}
	log.Infow("game created", "game", gameID, "fen", fen)
	return game, nil
}

// GetGame returns a live game, loading it from the store on a miss.
func (gm *GameManager) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}

	snap, err := gm.store.Load(ctx, gameID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	// another request may have loaded it meanwhile
	if game, exists := gm.games[gameID]; exists {
		return game, nil
	}
	game = model.RestoreGame(snap.State)
	gm.games[gameID] = game
	log.Debugw("game restored", "game", gameID, "updatedAt", snap.UpdatedAt)
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(ctx context.Context, gameID, playerID string) (chess.Color, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return chess.NoColor, err
	}
	color, err := game.AddPlayer(playerID)
	if err != nil {
		return chess.NoColor, err
	}
	return color, gm.persist(ctx, game)
}

func (gm *GameManager) GetGameState(ctx context.Context, gameID string) (model.GameState, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(ctx context.Context, gameID, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	return game.CommitMove(playerID, move, func(state model.GameState) error {
		return gm.save(ctx, state)
	})
}

func (gm *GameManager) DeleteGame(ctx context.Context, gameID string) error {
	gm.mu.Lock()
	delete(gm.games, gameID)
	gm.mu.Unlock()
	return gm.store.Delete(ctx, gameID)
}

func (gm *GameManager) persist(ctx context.Context, game *model.Game) error {
	return gm.save(ctx, game.GetState())
}

func (gm *GameManager) save(ctx context.Context, state model.GameState) error {
	snap := storage.Snapshot{State: state, UpdatedAt: time.Now().UTC()}
	if err := gm.store.Save(ctx, snap); err != nil {
		log.Errorf("save game %s: %v", state.ID, err)
		return fmt.Errorf("save game %s: %w", state.ID, err)
	}
	return nil
}

func (gm *GameManager) RegisterConnection(ctx context.Context, gameID, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}
	game.UnregisterConnection(playerID)
}
