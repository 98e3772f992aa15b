package rules

import (
	"math/rand"
	"sync"
	"time"
)

// Dice is the randomness source for combat, loot and raffles. Handlers take
// it as a dependency so tests can script exact rolls.
type Dice interface {
	// Float64 returns a uniform value in [0,1).
	Float64() float64
	// Intn returns a uniform int in [0,n).
	Intn(n int) int
}

type systemDice struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewDice returns a time-seeded source safe for concurrent use.
func NewDice() Dice {
	return &systemDice{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (d *systemDice) Float64() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Float64()
}

func (d *systemDice) Intn(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Intn(n)
}

// RollRange returns a uniform int in [min,max].
func RollRange(d Dice, min, max int) int {
	if max <= min {
		return min
	}
	return min + d.Intn(max-min+1)
}
