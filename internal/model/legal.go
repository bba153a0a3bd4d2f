package model

import (
	"context"

	"github.com/benbeisheim/movegen-backend/internal/chess"
)

var (
	rookDirs   = []chess.Square{{Col: 1, Row: 0}, {Col: -1, Row: 0}, {Col: 0, Row: 1}, {Col: 0, Row: -1}}
	bishopDirs = []chess.Square{{Col: 1, Row: 1}, {Col: 1, Row: -1}, {Col: -1, Row: 1}, {Col: -1, Row: -1}}
	knightDirs = []chess.Square{{Col: 2, Row: 1}, {Col: 2, Row: -1}, {Col: -2, Row: 1}, {Col: -2, Row: -1}, {Col: 1, Row: 2}, {Col: 1, Row: -2}, {Col: -1, Row: 2}, {Col: -1, Row: -2}}
	kingDirs   = append(append([]chess.Square{}, rookDirs...), bishopDirs...)
)

// PseudoLegalMoves returns the core's moves for the piece on from, narrowed
// to the en-passant capture the last move actually allows, plus castling.
func (b *BoardState) PseudoLegalMoves(from chess.Square) ([]chess.Move, error) {
	moves, err := chess.Generate(&b.Board, from)
	if err != nil {
		return nil, err
	}
	moves = b.eligible(moves)
	if p, _ := b.Board.Get(from); p.Kind == chess.King {
		moves = append(moves, b.castleMoves(from, p)...)
	}
	return moves, nil
}

// eligible drops en-passant captures other than onto the recorded target.
func (b *BoardState) eligible(moves []chess.Move) []chess.Move {
	out := moves[:0]
	for _, m := range moves {
		if m.IsEnPassant() && (b.EnPassantTarget == nil || *b.EnPassantTarget != m.To) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (b *BoardState) castleMoves(from chess.Square, king chess.Piece) []chess.Move {
	home := 0
	if king.Color == chess.Black {
		home = chess.BoardWidth - 1
	}
	if from != chess.Sq(4, home) || b.InCheck(king.Color) {
		return nil
	}
	rook := chess.NewPiece(chess.Rook, king.Color)
	enemy := king.Color.Opponent()

	var moves []chess.Move
	if b.Castling.kingside(king.Color) &&
		b.Board[7][home] == rook &&
		b.Board[5][home].IsEmpty() && b.Board[6][home].IsEmpty() &&
		!isSquareAttacked(&b.Board, enemy, chess.Sq(5, home)) {
		moves = append(moves, chess.Move{Mover: king, From: from, To: chess.Sq(6, home), Event: chess.EventCastle})
	}
	if b.Castling.queenside(king.Color) &&
		b.Board[0][home] == rook &&
		b.Board[1][home].IsEmpty() && b.Board[2][home].IsEmpty() && b.Board[3][home].IsEmpty() &&
		!isSquareAttacked(&b.Board, enemy, chess.Sq(3, home)) {
		moves = append(moves, chess.Move{Mover: king, From: from, To: chess.Sq(2, home), Event: chess.EventCastle})
	}
	return moves
}

// LegalMoves filters PseudoLegalMoves by playing each one on a scratch copy
// and discarding those that leave the mover's king attacked.
func (b *BoardState) LegalMoves(from chess.Square) ([]chess.Move, error) {
	pseudo, err := b.PseudoLegalMoves(from)
	if err != nil {
		return nil, err
	}
	return b.filterLegalMoves(pseudo), nil
}

// Validate reports a position the generator cannot work with, such as a pawn
// on its promotion rank, for either side.
func (b *BoardState) Validate(ctx context.Context) error {
	for _, color := range []chess.Color{chess.White, chess.Black} {
		if _, err := chess.GenerateAll(ctx, &b.Board, color); err != nil {
			return err
		}
	}
	return nil
}

// AllPseudoLegalMoves is PseudoLegalMoves over every piece of the side to move.
func (b *BoardState) AllPseudoLegalMoves(ctx context.Context) ([]chess.Move, error) {
	moves, err := chess.GenerateAll(ctx, &b.Board, b.ToMove)
	if err != nil {
		return nil, err
	}
	moves = b.eligible(moves)
	if from, ok := b.kingSquare(b.ToMove); ok {
		king, _ := b.Board.Get(from)
		moves = append(moves, b.castleMoves(from, king)...)
	}
	return moves, nil
}

// AllLegalMoves lists the legal moves of the side to move.
func (b *BoardState) AllLegalMoves(ctx context.Context) ([]chess.Move, error) {
	pseudo, err := b.AllPseudoLegalMoves(ctx)
	if err != nil {
		return nil, err
	}
	return b.filterLegalMoves(pseudo), nil
}

func (b *BoardState) filterLegalMoves(pseudo []chess.Move) []chess.Move {
	legal := []chess.Move{}
	for _, m := range pseudo {
		scratch := b.Clone()
		scratch.apply(m)
		if !scratch.InCheck(m.Mover.Color) {
			legal = append(legal, m)
		}
	}
	return legal
}

// InCheck reports whether color's king is attacked. A side without a king is
// never in check.
func (b *BoardState) InCheck(color chess.Color) bool {
	king, ok := b.kingSquare(color)
	if !ok {
		return false
	}
	return isSquareAttacked(&b.Board, color.Opponent(), king)
}

func isSquareAttacked(g *chess.Grid, attacker chess.Color, sq chess.Square) bool {
	attackedBy := func(target chess.Square, kinds ...chess.Kind) bool {
		p, ok := g.Get(target)
		if !ok || p.Color != attacker {
			return false
		}
		for _, k := range kinds {
			if p.Kind == k {
				return true
			}
		}
		return false
	}
	ray := func(dirs []chess.Square, kinds ...chess.Kind) bool {
		for _, dir := range dirs {
			target := sq.Offset(dir.Col, dir.Row)
			for target.Valid() {
				if _, ok := g.Get(target); ok {
					if attackedBy(target, kinds...) {
						return true
					}
					break
				}
				target = target.Offset(dir.Col, dir.Row)
			}
		}
		return false
	}

	if ray(rookDirs, chess.Rook, chess.Queen) || ray(bishopDirs, chess.Bishop, chess.Queen) {
		return true
	}
	for _, dir := range knightDirs {
		if attackedBy(sq.Offset(dir.Col, dir.Row), chess.Knight) {
			return true
		}
	}
	for _, dir := range kingDirs {
		if attackedBy(sq.Offset(dir.Col, dir.Row), chess.King) {
			return true
		}
	}
	// a pawn attacks diagonally forward, so it stands one row behind sq
	back := -attacker.Forward()
	for _, dCol := range []int{-1, 1} {
		if attackedBy(sq.Offset(dCol, back), chess.Pawn) {
			return true
		}
	}
	return false
}

// apply plays m on the position, updating every field, and returns the
// captured piece if any.
func (b *BoardState) apply(m chess.Move) *chess.Piece {
	var captured *chess.Piece
	if p, ok := b.Board.Get(m.CapturedSquare()); ok {
		captured = &p
		b.Board.Clear(m.CapturedSquare())
	}

	placed := m.Mover
	if m.IsPromotion() {
		placed.Kind = m.Promotion
	}
	b.Board.Clear(m.From)
	b.Board.Set(m.To, placed)

	if m.Event == chess.EventCastle {
		rookFrom, rookTo := castleRookSquares(m)
		b.Board.Set(rookTo, b.Board[rookFrom.Col][rookFrom.Row])
		b.Board.Clear(rookFrom)
	}

	b.updateCastling(m)

	b.EnPassantTarget = nil
	if m.Mover.Kind == chess.Pawn && abs(m.To.Row-m.From.Row) == 2 {
		passed := chess.Sq(m.From.Col, (m.From.Row+m.To.Row)/2)
		b.EnPassantTarget = &passed
	}

	if m.Mover.Kind == chess.Pawn || captured != nil {
		b.HalfmoveClock = 0
	} else {
		b.HalfmoveClock++
	}
	if b.ToMove == chess.Black {
		b.FullmoveNumber++
	}
	b.ToMove = b.ToMove.Opponent()
	return captured
}

func castleRookSquares(m chess.Move) (from, to chess.Square) {
	row := m.From.Row
	if m.To.Col == 6 {
		return chess.Sq(7, row), chess.Sq(5, row)
	}
	return chess.Sq(0, row), chess.Sq(3, row)
}

func (b *BoardState) updateCastling(m chess.Move) {
	if m.Mover.Kind == chess.King {
		if m.Mover.Color == chess.White {
			b.Castling.WhiteKingside, b.Castling.WhiteQueenside = false, false
		} else {
			b.Castling.BlackKingside, b.Castling.BlackQueenside = false, false
		}
	}
	// a rook leaving or being captured on its corner
	for _, sq := range []chess.Square{m.From, m.To} {
		switch sq {
		case chess.Sq(0, 0):
			b.Castling.WhiteQueenside = false
		case chess.Sq(7, 0):
			b.Castling.WhiteKingside = false
		case chess.Sq(0, 7):
			b.Castling.BlackQueenside = false
		case chess.Sq(7, 7):
			b.Castling.BlackKingside = false
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
