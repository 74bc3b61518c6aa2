package recipes

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/on-the-ground/effect_ive_cookbook/effects/service"
	"github.com/on-the-ground/effect_ive_cookbook/effects/task"
)

// Random produces pseudo-random numbers in [0, 1).
type Random interface {
	Next() task.Task[float64]
}

var RandomTag = service.NewTag[Random]("Random")

type seededRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random whose sequence is fixed by seed.
func NewRandom(seed uint64) Random {
	return &seededRandom{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (r *seededRandom) Next() task.Task[float64] {
	return func(context.Context) (float64, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.rng.Float64(), nil
	}
}
