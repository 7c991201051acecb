// Package dice provides the engine's single seedable random source. All
// probabilistic behavior (eligibility draws, pair selection, template
// shuffling, stat rolls) goes through one Dice so tests can pin a seed.
package dice

import (
	"math/rand"
	"sync"
	"time"
)

// Dice is a mutex-guarded random source safe for use across sessions.
type Dice struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a Dice seeded with seed. A zero seed falls back to the
// current time.
func New(seed int64) *Dice {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Dice{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform int in [0, n).
func (d *Dice) Intn(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Intn(n)
}

// IntRange returns a uniform int in [lo, hi).
func (d *Dice) IntRange(lo, hi int) int {
	return lo + d.Intn(hi-lo)
}

// Chance returns true with probability p.
func (d *Dice) Chance(p float64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Float64() < p
}

// Shuffle performs a uniform Fisher-Yates shuffle.
func (d *Dice) Shuffle(n int, swap func(i, j int)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.r.Shuffle(n, swap)
}
