package model

import (
	"fmt"

	"github.com/benbeisheim/movegen-backend/internal/chess"
)

// WSMove is a move request from a client. Promotion may be empty, in which
// case a promoting pawn becomes a queen.
type WSMove struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func (m WSMove) parse() (from, to chess.Square, promo chess.Kind, err error) {
	if from, err = chess.ParseSquare(m.From); err != nil {
		return
	}
	if to, err = chess.ParseSquare(m.To); err != nil {
		return
	}
	if m.Promotion != "" {
		var ok bool
		promo, ok = chess.ParseKind(m.Promotion)
		if !ok || promo == chess.Pawn || promo == chess.King {
			err = fmt.Errorf("invalid promotion %q", m.Promotion)
		}
	}
	return
}

type CastleRookMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

type Ply struct {
	Piece          chess.Piece     `json:"piece"`
	From           chess.Square    `json:"from"`
	To             chess.Square    `json:"to"`
	CapturedPiece  *chess.Piece    `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      chess.Kind      `json:"promotion,omitempty"`
	Notation       string          `json:"notation"`
}

type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}
