package combat

import "fmt"

// Side identifies one of the two fighters of a match.
type Side int

const (
	P1 Side = iota + 1
	P2
)

// ParseSide maps "1" and "2" to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "1":
		return P1, nil
	case "2":
		return P2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == P1 {
		return P2
	}
	return P1
}

func (s Side) String() string {
	return fmt.Sprintf("P%d", int(s))
}

// Match tracks the health of both sides. The zero value is not ready; use
// NewMatch.
type Match struct {
	HealthP1 int
	HealthP2 int
	GameOver bool
	// Winner is the player id of the side that brought the other to 0.
	Winner int
}

// NewMatch returns a match with both sides at full health.
func NewMatch() *Match {
	m := &Match{}
	m.Reset()
	return m
}

// Reset restores full health and clears the result.
func (m *Match) Reset() {
	m.HealthP1 = FullHealth
	m.HealthP2 = FullHealth
	m.GameOver = false
	m.Winner = 0
}

// Health returns the current health of a side.
func (m *Match) Health(s Side) int {
	if s == P1 {
		return m.HealthP1
	}
	return m.HealthP2
}

// Strike applies damage from side to its opponent. It reports whether the
// strike ended the match. Strikes after the match is over are ignored.
func (m *Match) Strike(side Side, attackerID, damage int) (bool, error) {
	if side != P1 && side != P2 {
		return false, fmt.Errorf("%w: %d", ErrInvalidSide, int(side))
	}
	if m.GameOver {
		return false, nil
	}

	target := &m.HealthP2
	if side == P2 {
		target = &m.HealthP1
	}
	*target = max(*target-damage, 0)

	if *target == 0 {
		m.GameOver = true
		m.Winner = attackerID
		return true, nil
	}
	return false, nil
}
