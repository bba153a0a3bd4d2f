package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/movegen-backend/internal/model"
	"github.com/benbeisheim/movegen-backend/internal/service"
	"github.com/benbeisheim/movegen-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := utils.CopyString(c.Params("gameId"))
	playerID := c.Locals("playerID").(string)
	ctx := context.Background()

	if err := wsc.gameService.RegisterConnection(ctx, gameID, playerID, c); err != nil {
		log.Warnf("register connection %s/%s: %v", gameID, playerID, err)
		writeError(c, err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugw("websocket closed", "game", gameID, "player", playerID, "err", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.reply(ctx, gameID, playerID, *errorMessage(fmt.Errorf("parse message: %w", err)))
			continue
		}

		resp, err := wsc.handleMessage(ctx, gameID, playerID, msg)
		if err != nil {
			log.Debugw("websocket message rejected", "game", gameID, "player", playerID, "type", msg.Type, "err", err)
			resp = errorMessage(err)
		}
		if resp != nil {
			wsc.reply(ctx, gameID, playerID, *resp)
		}
	}
}

// handleMessage returns the reply for msg, if any. Moves are answered by the
// game's state broadcast.
func (wsc *WebSocketController) handleMessage(ctx context.Context, gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return nil, err
		}
		return nil, wsc.gameService.HandleMove(ctx, gameID, playerID, move)

	case ws.MessageTypeLegalMoves:
		var req ws.LegalMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, err
		}
		moves, err := wsc.gameService.LegalMoves(ctx, gameID, req.From)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(ws.LegalMovesResponse{From: req.From, Moves: moves})
		if err != nil {
			return nil, err
		}
		return &ws.Message{Type: ws.MessageTypeLegalMoves, Payload: payload}, nil

	default:
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) reply(ctx context.Context, gameID, playerID string, msg ws.Message) {
	game, err := wsc.gameService.Game(ctx, gameID)
	if err == nil {
		err = game.Send(playerID, msg)
	}
	if err != nil {
		log.Warnf("reply to %s/%s: %v", gameID, playerID, err)
	}
}

func errorMessage(err error) *ws.Message {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: err.Error()})
	return &ws.Message{Type: ws.MessageTypeError, Payload: payload}
}

// writeError is for connections that never got registered with a game.
func writeError(c *websocket.Conn, err error) {
	if werr := c.WriteJSON(errorMessage(err)); werr != nil {
		log.Debugw("write error", "err", werr)
	}
}
