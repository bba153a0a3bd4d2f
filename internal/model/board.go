package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benbeisheim/movegen-backend/internal/chess"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

func (c CastlingRights) kingside(color chess.Color) bool {
	if color == chess.White {
		return c.WhiteKingside
	}
	return c.BlackKingside
}

func (c CastlingRights) queenside(color chess.Color) bool {
	if color == chess.White {
		return c.WhiteQueenside
	}
	return c.BlackQueenside
}

func (c CastlingRights) String() string {
	s := ""
	if c.WhiteKingside {
		s += "K"
	}
	if c.WhiteQueenside {
		s += "Q"
	}
	if c.BlackKingside {
		s += "k"
	}
	if c.BlackQueenside {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}

// BoardState is a position: the grid plus everything the grid alone cannot
// tell, such as whose turn it is and which en-passant capture is available.
type BoardState struct {
	Board           chess.Grid     `json:"board"`
	ToMove          chess.Color    `json:"toMove"`
	Castling        CastlingRights `json:"castling"`
	EnPassantTarget *chess.Square  `json:"enPassantTarget"`
	HalfmoveClock   int            `json:"halfmoveClock"`
	FullmoveNumber  int            `json:"fullmoveNumber"`
}

func newBoard() *BoardState {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseFEN reads a FEN record. The clock fields may be omitted.
func ParseFEN(fen string) (*BoardState, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("fen %q: want 4 to 6 fields, got %d", fen, len(fields))
	}

	grid, err := chess.ParsePlacement(fields[0])
	if err != nil {
		return nil, err
	}
	b := &BoardState{Board: *grid, FullmoveNumber: 1}

	switch fields[1] {
	case "w":
		b.ToMove = chess.White
	case "b":
		b.ToMove = chess.Black
	default:
		return nil, fmt.Errorf("fen %q: invalid side to move %q", fen, fields[1])
	}

	if fields[2] != "-" {
		for _, r := range fields[2] {
			switch r {
			case 'K':
				b.Castling.WhiteKingside = true
			case 'Q':
				b.Castling.WhiteQueenside = true
			case 'k':
				b.Castling.BlackKingside = true
			case 'q':
				b.Castling.BlackQueenside = true
			default:
				return nil, fmt.Errorf("fen %q: invalid castling field %q", fen, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := chess.ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen %q: %w", fen, err)
		}
		b.EnPassantTarget = &sq
	}

	if len(fields) > 4 {
		if b.HalfmoveClock, err = strconv.Atoi(fields[4]); err != nil || b.HalfmoveClock < 0 {
			return nil, fmt.Errorf("fen %q: invalid halfmove clock %q", fen, fields[4])
		}
	}
	if len(fields) > 5 {
		if b.FullmoveNumber, err = strconv.Atoi(fields[5]); err != nil || b.FullmoveNumber < 1 {
			return nil, fmt.Errorf("fen %q: invalid fullmove number %q", fen, fields[5])
		}
	}
	return b, nil
}

func (b *BoardState) FEN() string {
	ep := "-"
	if b.EnPassantTarget != nil {
		ep = b.EnPassantTarget.String()
	}
	side := "w"
	if b.ToMove == chess.Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s %s %s %d %d",
		b.Board.Placement(), side, b.Castling, ep, b.HalfmoveClock, b.FullmoveNumber)
}

func (b *BoardState) Clone() *BoardState {
	c := *b
	if b.EnPassantTarget != nil {
		sq := *b.EnPassantTarget
		c.EnPassantTarget = &sq
	}
	return &c
}

func (b *BoardState) kingSquare(color chess.Color) (chess.Square, bool) {
	for _, sq := range b.Board.Squares(color) {
		if b.Board[sq.Col][sq.Row].Kind == chess.King {
			return sq, true
		}
	}
	return chess.Square{}, false
}
