package util

import (
	"math/rand"
	"time"
)

// New returns a generator for seed; seed 0 seeds from the clock.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}
