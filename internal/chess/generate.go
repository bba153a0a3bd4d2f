// Package chess generates pseudo-legal moves: every move a piece could make
// under its movement rules and the board occupancy, without checking whether
// the mover's own king is left attacked.
package chess

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Generator produces the pseudo-legal moves of one piece kind. The caller
// guarantees that p stands on from.
type Generator interface {
	Moves(b Board, from Square, p Piece) []Move
}

var (
	pawnGenerator   Generator = pawnMoves{}
	knightGenerator Generator = leaperMoves{offsets: knightOffsets}
	bishopGenerator Generator = sliderMoves{dirs: diagonalDirs}
	rookGenerator   Generator = sliderMoves{dirs: orthogonalDirs}
	queenGenerator  Generator = sliderMoves{dirs: allDirs}
	kingGenerator   Generator = leaperMoves{offsets: allDirs}
)

// GeneratorFor returns the generator of kind k.
func GeneratorFor(k Kind) (Generator, bool) {
	switch k {
	case Pawn:
		return pawnGenerator, true
	case Knight:
		return knightGenerator, true
	case Bishop:
		return bishopGenerator, true
	case Rook:
		return rookGenerator, true
	case Queen:
		return queenGenerator, true
	case King:
		return kingGenerator, true
	}
	return nil, false
}

// Generate returns the pseudo-legal moves of the piece standing on origin.
// The result is unordered and may be empty. A *ContractViolation is returned
// when origin is off the board or empty, or the piece there is malformed.
// Positions are not checked for reachability: a pawn on its own back rank
// still steps forward.
func Generate(b Board, origin Square) ([]Move, error) {
	if !origin.Valid() {
		return nil, violation(origin, NoPiece, "square is off the board")
	}
	p, ok := b.Get(origin)
	if !ok {
		return nil, violation(origin, NoPiece, "square is empty")
	}
	return GenerateFor(b, origin, p)
}

// GenerateFor is Generate for a caller that already holds the piece. The
// piece must be the one on origin.
func GenerateFor(b Board, origin Square, p Piece) ([]Move, error) {
	if !origin.Valid() {
		return nil, violation(origin, p, "square is off the board")
	}
	if onBoard, _ := b.Get(origin); onBoard != p {
		return nil, violation(origin, p, "board holds %s, not %s", onBoard, p)
	}
	if !p.Color.Valid() {
		return nil, violation(origin, p, "invalid color %d for %s", p.Color, p.Kind)
	}
	gen, ok := GeneratorFor(p.Kind)
	if !ok {
		return nil, violation(origin, p, "invalid piece kind %d", p.Kind)
	}
	// a pawn on its promotion rank has no forward square
	if p.Kind == Pawn && origin.Row == lastRank(p.Color) {
		return nil, violation(origin, p, "pawn cannot stand on row %d", origin.Row)
	}
	return gen.Moves(b, origin, p), nil
}

// GenerateAll returns the pseudo-legal moves of every piece of color, one
// goroutine per piece. The board must not be mutated until it returns.
// Moves are grouped by origin in column-major square order.
func GenerateAll(ctx context.Context, b Board, color Color) ([]Move, error) {
	var origins []Square
	for col := 0; col < BoardWidth; col++ {
		for row := 0; row < BoardWidth; row++ {
			sq := Sq(col, row)
			if p, ok := b.Get(sq); ok && p.Color == color {
				origins = append(origins, sq)
			}
		}
	}

	results := make([][]Move, len(origins))
	g, ctx := errgroup.WithContext(ctx)
	for i, sq := range origins {
		i, sq := i, sq
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			moves, err := Generate(b, sq)
			if err != nil {
				return err
			}
			results[i] = moves
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Move
	for _, moves := range results {
		all = append(all, moves...)
	}
	return all, nil
}
