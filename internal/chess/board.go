package chess

import (
	"fmt"
	"strings"
	"unicode"
)

// Board is a read-only view of an 8x8 position. Generators never mutate it.
type Board interface {
	Get(sq Square) (Piece, bool)
}

// Grid is the array-backed Board, indexed [col][row].
type Grid [BoardWidth][BoardWidth]Piece

func (g *Grid) Get(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return NoPiece, false
	}
	p := g[sq.Col][sq.Row]
	return p, !p.IsEmpty()
}

func (g *Grid) Set(sq Square, p Piece) {
	g[sq.Col][sq.Row] = p
}

func (g *Grid) Clear(sq Square) {
	g[sq.Col][sq.Row] = NoPiece
}

// Clone returns an independent copy; Grid is an array so assignment copies.
func (g *Grid) Clone() *Grid {
	c := *g
	return &c
}

// Squares returns every occupied square holding a piece of color.
func (g *Grid) Squares(color Color) []Square {
	var out []Square
	for col := 0; col < BoardWidth; col++ {
		for row := 0; row < BoardWidth; row++ {
			if p := g[col][row]; !p.IsEmpty() && p.Color == color {
				out = append(out, Sq(col, row))
			}
		}
	}
	return out
}

func isEmpty(b Board, sq Square) bool {
	_, ok := b.Get(sq)
	return !ok
}

func isEnemy(b Board, sq Square, color Color) bool {
	p, ok := b.Get(sq)
	return ok && p.Color != color
}

var kindLetters = map[Kind]rune{Pawn: 'p', Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q', King: 'k'}

// Letter is the FEN letter: upper case for White, lower case for Black.
func (p Piece) Letter() rune {
	r, ok := kindLetters[p.Kind]
	if !ok {
		return '?'
	}
	if p.Color == White {
		return unicode.ToUpper(r)
	}
	return r
}

// Placement renders the FEN piece-placement field, eighth rank first.
func (g *Grid) Placement() string {
	var sb strings.Builder
	for row := BoardWidth - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < BoardWidth; col++ {
			p := g[col][row]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteRune(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ParsePlacement reads a FEN piece-placement field.
func ParsePlacement(s string) (*Grid, error) {
	ranks := strings.Split(s, "/")
	if len(ranks) != BoardWidth {
		return nil, fmt.Errorf("placement %q: want %d ranks, got %d", s, BoardWidth, len(ranks))
	}
	g := &Grid{}
	for i, rank := range ranks {
		row := BoardWidth - 1 - i
		col := 0
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				col += int(r - '0')
				continue
			}
			kind, ok := ParseKind(string(unicode.ToLower(r)))
			if !ok {
				return nil, fmt.Errorf("placement %q: invalid piece %q", s, r)
			}
			if col >= BoardWidth {
				return nil, fmt.Errorf("placement %q: rank %d overflows", s, row+1)
			}
			color := Black
			if unicode.IsUpper(r) {
				color = White
			}
			g[col][row] = NewPiece(kind, color)
			col++
		}
		if col != BoardWidth {
			return nil, fmt.Errorf("placement %q: rank %d has %d files", s, row+1, col)
		}
	}
	return g, nil
}

func (g Grid) MarshalText() ([]byte, error) {
	return []byte(g.Placement()), nil
}

func (g *Grid) UnmarshalText(text []byte) error {
	parsed, err := ParsePlacement(string(text))
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
