package learning

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/summarizer"
)

const DefaultPerturbation = 0.1

// DefaultFloors returns the minimum value of each weight component
func DefaultFloors() summarizer.Weights {
	return summarizer.Weights{
		Position:         0.5,
		Length:           0.3,
		Keyword:          0.1,
		ImportancePhrase: 0.5,
		AcademicTerm:     0.05,
		Question:         0.05,
	}
}

// ApplyFloors raises every component of w to at least its floor
func ApplyFloors(w, floors summarizer.Weights) summarizer.Weights {
	c, f := w.Components(), floors.Components()
	for i := range c {
		if c[i] < f[i] {
			c[i] = f[i]
		}
	}
	return summarizer.WeightsFromComponents(c)
}

// AdjustmentPolicy proposes the next weight vector. Floors are applied by
// the caller.
type AdjustmentPolicy interface {
	Adjust(current summarizer.Weights) summarizer.Weights
}

// RandomPerturbation shifts every component by a uniform delta in
// [-Magnitude, Magnitude].
type RandomPerturbation struct {
	Magnitude float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPerturbation builds a seeded policy; seed 0 picks a time-based seed
func NewRandomPerturbation(magnitude float64, seed uint64) *RandomPerturbation {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomPerturbation{
		Magnitude: magnitude,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (p *RandomPerturbation) Adjust(current summarizer.Weights) summarizer.Weights {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := current.Components()
	for i := range c {
		c[i] += (p.rng.Float64()*2 - 1) * p.Magnitude
	}
	return summarizer.WeightsFromComponents(c)
}
