package model

import "github.com/benbeisheim/movegen-backend/internal/chess"

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color chess.Color `json:"color"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(color chess.Color) *ClientPlayer {
	if color == chess.White {
		return &p.White
	}
	return &p.Black
}

// ColorOf returns the seat playerID occupies.
func (p Players) ColorOf(playerID string) (chess.Color, bool) {
	switch {
	case playerID == "":
		return chess.NoColor, false
	case p.White.ID == playerID:
		return chess.White, true
	case p.Black.ID == playerID:
		return chess.Black, true
	}
	return chess.NoColor, false
}
