package chess

import (
	"fmt"
	"strings"
)

type Event uint8

const (
	EventNone Event = iota
	EventEnPassant
	EventCastle
)

func (e Event) String() string {
	switch e {
	case EventEnPassant:
		return "enPassant"
	case EventCastle:
		return "castle"
	}
	return ""
}

func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Event) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*e = EventNone
	case "enPassant":
		*e = EventEnPassant
	case "castle":
		*e = EventCastle
	default:
		return fmt.Errorf("invalid move event %q", text)
	}
	return nil
}

// Move is a single transition produced by a generator. Promotion is NoKind
// unless the pawn reaches its last rank.
type Move struct {
	Mover     Piece  `json:"mover"`
	From      Square `json:"from"`
	To        Square `json:"to"`
	Promotion Kind   `json:"promotion,omitempty"`
	Event     Event  `json:"event,omitempty"`
}

func (m Move) IsPromotion() bool {
	return m.Promotion != NoKind
}

func (m Move) IsEnPassant() bool {
	return m.Event == EventEnPassant
}

// CapturedSquare is where the captured piece stands. It differs from To only
// for en passant, where the victim sits beside the origin.
func (m Move) CapturedSquare() Square {
	if m.IsEnPassant() {
		return Sq(m.To.Col, m.From.Row)
	}
	return m.To
}

// String returns UCI notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += strings.ToLower(m.Promotion.Letter())
	}
	return s
}
