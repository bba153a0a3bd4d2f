package chess

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Forward is the row delta of a pawn advance.
func (c Color) Forward() int {
	switch c {
	case White:
		return 1
	case Black:
		return -1
	}
	return 0
}

func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	if string(text) == "none" {
		*c = NoColor
		return nil
	}
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("invalid color %q", text)
	}
	*c = parsed
	return nil
}

func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	}
	return NoColor, false
}

type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PromotionKinds lists the kinds a pawn may become, in emission order.
var PromotionKinds = [...]Kind{Knight, Bishop, Rook, Queen}

func (k Kind) Valid() bool {
	return k >= Pawn && k <= King
}

// Value is the material value of the kind.
func (k Kind) Value() int {
	switch k {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	}
	return 0
}

// Letter is the upper-case notation letter; pawns have none.
func (k Kind) Letter() string {
	switch k {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return ""
}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	if string(text) == "none" {
		*k = NoKind
		return nil
	}
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("invalid piece kind %q", text)
	}
	*k = parsed
	return nil
}

func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "pawn", "p":
		return Pawn, true
	case "knight", "n":
		return Knight, true
	case "bishop", "b":
		return Bishop, true
	case "rook", "r":
		return Rook, true
	case "queen", "q":
		return Queen, true
	case "king", "k":
		return King, true
	}
	return NoKind, false
}

// Piece is a kind and a color. The zero value is the empty square.
type Piece struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
}

var NoPiece = Piece{}

func NewPiece(kind Kind, color Color) Piece {
	return Piece{Kind: kind, Color: color}
}

func (p Piece) IsEmpty() bool {
	return p == NoPiece
}

func (p Piece) Value() int {
	return p.Kind.Value()
}

var symbols = map[Piece]string{
	{King, White}: "♔", {Queen, White}: "♕", {Rook, White}: "♖",
	{Bishop, White}: "♗", {Knight, White}: "♘", {Pawn, White}: "♙",
	{King, Black}: "♚", {Queen, Black}: "♛", {Rook, Black}: "♜",
	{Bishop, Black}: "♝", {Knight, Black}: "♞", {Pawn, Black}: "♟",
}

// Symbol returns the unicode glyph, or "?" for a malformed piece.
func (p Piece) Symbol() string {
	if s, ok := symbols[p]; ok {
		return s
	}
	return "?"
}

func (p Piece) String() string {
	return p.Color.String() + " " + p.Kind.String()
}
