package ws

import (
	"encoding/json"

	"github.com/benbeisheim/movegen-backend/internal/chess"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeLegalMoves MessageType = "legalMoves"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// LegalMovesRequest asks for the legal moves of the piece on From.
type LegalMovesRequest struct {
	From string `json:"from"`
}

type LegalMovesResponse struct {
	From  string       `json:"from"`
	Moves []chess.Move `json:"moves"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
