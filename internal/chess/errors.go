package chess

import (
	"errors"
	"fmt"
)

// ErrContractViolation matches every *ContractViolation via errors.Is.
var ErrContractViolation = errors.New("move generation contract violated")

// ContractViolation reports caller-side corruption: a generator was asked
// about a square or piece that cannot be valid. No moves accompany it.
type ContractViolation struct {
	Square Square
	Piece  Piece
	Reason string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrContractViolation, e.Square, e.Reason)
}

func (e *ContractViolation) Is(target error) bool {
	return target == ErrContractViolation
}

func violation(sq Square, p Piece, format string, args ...any) error {
	return &ContractViolation{Square: sq, Piece: p, Reason: fmt.Sprintf(format, args...)}
}
