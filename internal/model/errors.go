package model

import "errors"

var (
	ErrGameFull    = errors.New("game is full")
	ErrNotInGame   = errors.New("player not in game")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNoPiece     = errors.New("no piece of the side to move at from square")
	ErrIllegalMove = errors.New("invalid move, not legal")
	ErrGameOver    = errors.New("game is over")

	ErrAlreadyConnected = errors.New("player already has an open connection")
)
