// ABOUTME: Exact-rational score position type used to avoid float drift
// ABOUTME: when accumulating time across many tempo changes and divisions updates

package musictime

import "math/big"

// Position is a beat offset since the start of a piece, expressed as an exact
// rational number so that repeated additions and subtractions across many
// measures never accumulate floating-point error. Seconds are derived from a
// Position only once, at emission time.
type Position struct {
	r *big.Rat
}

// Zero returns the position at the start of the piece.
func Zero() Position {
	return Position{r: big.NewRat(0, 1)}
}

// NewPosition builds a position equal to num/den beats.
func NewPosition(num, den int64) Position {
	return Position{r: big.NewRat(num, den)}
}

// Add returns p + other without mutating either operand.
func (p Position) Add(other Position) Position {
	return Position{r: new(big.Rat).Add(p.r, other.r)}
}

// Sub returns p - other without mutating either operand.
func (p Position) Sub(other Position) Position {
	return Position{r: new(big.Rat).Sub(p.r, other.r)}
}

// Cmp returns -1, 0, or +1 as p is less than, equal to, or greater than other.
func (p Position) Cmp(other Position) int {
	return p.r.Cmp(other.r)
}

// IsZero reports whether p is exactly the zero position.
func (p Position) IsZero() bool {
	return p.r.Sign() == 0
}

// Float64 converts the position to an inexact float64, used only when
// combining with a tempo to produce a duration in seconds.
func (p Position) Float64() float64 {
	f, _ := p.r.Float64()
	return f
}
