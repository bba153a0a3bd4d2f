package service

import (
	"context"

	"github.com/benbeisheim/movegen-backend/internal/chess"
	"github.com/benbeisheim/movegen-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
)

// AnalysisRequest selects a position and what to list from it. An empty
// Square lists every piece of Side, which defaults to the side to move.
type AnalysisRequest struct {
	FEN    string      `json:"fen"`
	Square string      `json:"square,omitempty"`
	Side   chess.Color `json:"side,omitempty"`
}

type AnalysisResult struct {
	FEN     string       `json:"fen"`
	Side    chess.Color  `json:"side"`
	InCheck bool         `json:"inCheck"`
	Moves   []chess.Move `json:"moves"`
}

// AnalysisService lists moves for arbitrary positions without creating a game.
type AnalysisService struct{}

func NewAnalysisService() *AnalysisService {
	return &AnalysisService{}
}

func (as *AnalysisService) PseudoLegal(ctx context.Context, req AnalysisRequest) (AnalysisResult, error) {
	return as.analyze(ctx, req, false)
}

func (as *AnalysisService) Legal(ctx context.Context, req AnalysisRequest) (AnalysisResult, error) {
	return as.analyze(ctx, req, true)
}

func (as *AnalysisService) analyze(ctx context.Context, req AnalysisRequest, legal bool) (AnalysisResult, error) {
	b, err := model.ParseFEN(req.FEN)
	if err != nil {
		return AnalysisResult{}, err
	}
	if req.Side.Valid() && req.Side != b.ToMove {
		// the recorded en-passant target belongs to the other side
		b.ToMove = req.Side
		b.EnPassantTarget = nil
	}

	var moves []chess.Move
	switch {
	case req.Square != "":
		from, err := chess.ParseSquare(req.Square)
		if err != nil {
			return AnalysisResult{}, err
		}
		if legal {
			moves, err = b.LegalMoves(from)
		} else {
			moves, err = b.PseudoLegalMoves(from)
		}
		if err != nil {
			return AnalysisResult{}, err
		}
	case legal:
		moves, err = b.AllLegalMoves(ctx)
	default:
		moves, err = b.AllPseudoLegalMoves(ctx)
	}
	if err != nil {
		return AnalysisResult{}, err
	}
	if moves == nil {
		moves = []chess.Move{}
	}

	log.Debugw("analysis", "fen", req.FEN, "square", req.Square, "legal", legal, "moves", len(moves))
	return AnalysisResult{
		FEN:     b.FEN(),
		Side:    b.ToMove,
		InCheck: b.InCheck(b.ToMove),
		Moves:   moves,
	}, nil
}
