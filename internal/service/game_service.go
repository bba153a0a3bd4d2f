package service

import (
	"context"
	"fmt"

	"github.com/benbeisheim/movegen-backend/internal/chess"
	"github.com/benbeisheim/movegen-backend/internal/model"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame starts a game from fen, or from the initial position when fen is empty.
func (gs *GameService) CreateGame(ctx context.Context, fen string) (string, error) {
	gameID := uuid.New().String()

	if _, err := gs.gameManager.CreateGame(ctx, gameID, fen); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinGame(ctx context.Context, gameID, playerID string) (chess.Color, error) {
	return gs.gameManager.AddPlayerToGame(ctx, gameID, playerID)
}

func (gs *GameService) GetGameState(ctx context.Context, gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(ctx, gameID)
}

// LegalMoves lists the legal moves of the piece on square, given in algebraic notation.
func (gs *GameService) LegalMoves(ctx context.Context, gameID, square string) ([]chess.Move, error) {
	from, err := chess.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	game, err := gs.gameManager.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from)
}

func (gs *GameService) HandleMove(ctx context.Context, gameID, playerID string, move model.WSMove) error {
	return gs.gameManager.MakeMove(ctx, gameID, playerID, move)
}

// DeleteGame removes a game for good. Only a seated player may delete it.
func (gs *GameService) DeleteGame(ctx context.Context, gameID, playerID string) error {
	game, err := gs.gameManager.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if !game.IsPlayerInGame(playerID) {
		return model.ErrNotInGame
	}
	return gs.gameManager.DeleteGame(ctx, gameID)
}

func (gs *GameService) RegisterConnection(ctx context.Context, gameID, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(ctx, gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}

func (gs *GameService) Game(ctx context.Context, gameID string) (*model.Game, error) {
	return gs.gameManager.GetGame(ctx, gameID)
}
