package extraction

import (
	"math/rand"
	"time"
)

// Rand is the random source behind fallback synthesis and line-item splits.
// Injectable so tests can pin outputs exactly.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeededRand pins the sequence for tests.
func NewSeededRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
