package chess

type offset struct {
	dCol, dRow int
}

var (
	knightOffsets = []offset{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	orthogonalDirs = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirs   = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	allDirs        = append(append([]offset{}, orthogonalDirs...), diagonalDirs...)
)

// leaperMoves jumps once along each offset (knight, king).
type leaperMoves struct {
	offsets []offset
}

func (g leaperMoves) Moves(b Board, from Square, p Piece) []Move {
	var moves []Move
	for _, o := range g.offsets {
		to := from.Offset(o.dCol, o.dRow)
		if to.Valid() && (isEmpty(b, to) || isEnemy(b, to, p.Color)) {
			moves = append(moves, Move{Mover: p, From: from, To: to})
		}
	}
	return moves
}

// sliderMoves casts a ray along each direction until the edge or the first
// occupied square, which is captured if it holds an enemy (bishop, rook, queen).
type sliderMoves struct {
	dirs []offset
}

func (g sliderMoves) Moves(b Board, from Square, p Piece) []Move {
	var moves []Move
	for _, d := range g.dirs {
		for to := from.Offset(d.dCol, d.dRow); to.Valid(); to = to.Offset(d.dCol, d.dRow) {
			if isEmpty(b, to) {
				moves = append(moves, Move{Mover: p, From: from, To: to})
				continue
			}
			if isEnemy(b, to, p.Color) {
				moves = append(moves, Move{Mover: p, From: from, To: to})
			}
			break
		}
	}
	return moves
}
