package random

import (
	"math/rand"
	"sync"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_random.go github.com/KirkDiggler/bingo/internal/random Source

// Source is the randomness used for cards, draws and bot decisions
type Source interface {
	// Intn returns a value in [0, n)
	Intn(n int) int

	// Float64 returns a value in [0.0, 1.0)
	Float64() float64

	// Perm returns a random permutation of [0, n)
	Perm(n int) []int
}

// Roller is a seedable Source that is safe for concurrent use
type Roller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// Config for the roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new roller
func New(cfg *Config) *Roller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &Roller{
		random: rand.New(rand.NewSource(seed)),
	}
}

func (r *Roller) Intn(n int) int {
	if n < 1 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Intn(n)
}

func (r *Roller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Float64()
}

func (r *Roller) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Perm(n)
}
