package loadgen

import (
	"crypto/rand"
	"math/big"
)

// randomPlayer returns a player id in 1..n.
func randomPlayer(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64()) + 1
}

// generateHits creates count hits between distinct players.
func generateHits(count, players int) []Hit {
	hits := make([]Hit, count)
	for i := range hits {
		a := randomPlayer(players)
		d := randomPlayer(players - 1)
		if d >= a {
			d++
		}
		hits[i] = Hit{AttackerID: a, DefenderID: d}
	}
	return hits
}
