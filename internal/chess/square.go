package chess

import "fmt"

const BoardWidth = 8

// Square is a (column, row) coordinate. Column 0 is the a-file and row 0 is
// White's back rank.
type Square struct {
	Col int
	Row int
}

func Sq(col, row int) Square {
	return Square{Col: col, Row: row}
}

func (s Square) Valid() bool {
	return s.Col >= 0 && s.Col < BoardWidth && s.Row >= 0 && s.Row < BoardWidth
}

func (s Square) Offset(dCol, dRow int) Square {
	return Square{Col: s.Col + dCol, Row: s.Row + dRow}
}

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Col, s.Row)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, s.Row+1)
}

// ParseSquare reads algebraic notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("invalid square %q", s)
	}
	sq := Square{Col: int(s[0] - 'a'), Row: int(s[1] - '1')}
	if !sq.Valid() {
		return Square{}, fmt.Errorf("invalid square %q", s)
	}
	return sq, nil
}

func (s Square) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("square %s is off the board", s)
	}
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}
