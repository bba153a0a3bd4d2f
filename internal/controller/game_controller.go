package controller

import (
	"github.com/benbeisheim/movegen-backend/internal/chess"
	"github.com/benbeisheim/movegen-backend/internal/model"
	"github.com/benbeisheim/movegen-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return sendError(c, fiber.StatusBadRequest, err)
		}
	}

	gameID, err := gc.gameService.CreateGame(c.UserContext(), req.FEN)
	if err != nil {
		return sendError(c, statusFor(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := paramGameID(c)
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(c.UserContext(), gameID, playerID)
	if err != nil {
		return sendError(c, statusFor(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.UserContext(), paramGameID(c))
	if err != nil {
		return sendError(c, statusFor(err), err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	square := c.Params("square")
	if _, err := chess.ParseSquare(square); err != nil {
		return sendError(c, fiber.StatusBadRequest, err)
	}

	moves, err := gc.gameService.LegalMoves(c.UserContext(), paramGameID(c), square)
	if err != nil {
		return sendError(c, statusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"from":  square,
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := paramGameID(c)
	playerID := c.Locals("playerID").(string)

	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return sendError(c, fiber.StatusBadRequest, err)
	}
	if err := gc.gameService.HandleMove(c.UserContext(), gameID, playerID, move); err != nil {
		return sendError(c, statusFor(err), err)
	}

	gameState, err := gc.gameService.GetGameState(c.UserContext(), gameID)
	if err != nil {
		return sendError(c, statusFor(err), err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)
	if err := gc.gameService.DeleteGame(c.UserContext(), paramGameID(c), playerID); err != nil {
		return sendError(c, statusFor(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
