package chess

// startRank is the row a pawn of color double-steps from.
func startRank(c Color) int {
	if c == White {
		return 1
	}
	return BoardWidth - 2
}

// lastRank is the row a pawn of color promotes on.
func lastRank(c Color) int {
	if c == White {
		return BoardWidth - 1
	}
	return 0
}

// enPassantRank is the row a pawn of color captures en passant from.
func enPassantRank(c Color) int {
	return lastRank(c) - 3*c.Forward()
}

type pawnMoves struct{}

// Moves does not know which move was played last, so any opposing pawn
// beside a pawn on its en-passant rank yields an en-passant capture. Callers
// holding the game history drop the ones that are not eligible.
func (pawnMoves) Moves(b Board, from Square, p Piece) []Move {
	var moves []Move
	dir := p.Color.Forward()

	// single forward step
	one := from.Offset(0, dir)
	if one.Valid() && isEmpty(b, one) {
		moves = appendPawnMove(moves, p, from, one)

		// double forward step
		if from.Row == startRank(p.Color) {
			two := from.Offset(0, 2*dir)
			if isEmpty(b, two) {
				moves = append(moves, Move{Mover: p, From: from, To: two})
			}
		}
	}

	// diagonal captures
	for _, dCol := range [2]int{-1, 1} {
		to := from.Offset(dCol, dir)
		if to.Valid() && isEnemy(b, to, p.Color) {
			moves = appendPawnMove(moves, p, from, to)
		}
	}

	// en passant
	if from.Row == enPassantRank(p.Color) {
		for _, dCol := range [2]int{-1, 1} {
			beside := from.Offset(dCol, 0)
			if !beside.Valid() {
				continue
			}
			to := beside.Offset(0, dir)
			// the square a double step passes over is always empty
			if !isEmpty(b, to) {
				continue
			}
			if victim, ok := b.Get(beside); ok && victim.Kind == Pawn && victim.Color != p.Color {
				moves = append(moves, Move{Mover: p, From: from, To: to, Event: EventEnPassant})
			}
		}
	}

	return moves
}

// appendPawnMove adds a plain move, or one move per promotion kind when to
// is on the pawn's last rank.
func appendPawnMove(moves []Move, p Piece, from, to Square) []Move {
	if to.Row != lastRank(p.Color) {
		return append(moves, Move{Mover: p, From: from, To: to})
	}
	for _, k := range PromotionKinds {
		moves = append(moves, Move{Mover: p, From: from, To: to, Promotion: k})
	}
	return moves
}
