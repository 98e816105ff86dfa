package initializers

import (
	"math/rand"
	"sync"
)

// RNG is a source of random values for Random
type RNG interface {
	Gen() float64
}

// all RNGs in this package draw from src, which is replaced by Seed
var (
	srcMux sync.Mutex
	src    = rand.New(rand.NewSource(rand.Int63()))
)

// Seed makes every RNG of this package deterministic from this point on. Networks built
// concurrently from the same seed are still deterministic as a whole only if they are built in a
// fixed order.
func Seed(seed int64) {
	srcMux.Lock()
	src = rand.New(rand.NewSource(seed))
	srcMux.Unlock()
}

func float() float64 {
	srcMux.Lock()
	defer srcMux.Unlock()
	return src.Float64()
}

func normFloat() float64 {
	srcMux.Lock()
	defer srcMux.Unlock()
	return src.NormFloat64()
}

type uniform struct {
	lower, upper float64
}

// Uniform returns an RNG that gives values uniformly spread between its bounds, which can be set
// by Bounds. The defaults ("uniform-lower" and "uniform-upper") can be set by SetDefault.
//
// Random(Uniform()) is the default Initializer once this package is imported.
func Uniform() *uniform {
	return &uniform{defaultValue["uniform-lower"], defaultValue["uniform-upper"]}
}

// Bounds sets the range of a Uniform RNG, returning it.
func (u *uniform) Bounds(lower, upper float64) *uniform {
	if lower > upper {
		lower, upper = upper, lower
	}

	u.lower = lower
	u.upper = upper
	return u
}

func (u *uniform) Gen() float64 {
	return float()*(u.upper-u.lower) + u.lower
}

type normal struct {
	µ, σ float64
}

// Normal returns an RNG that gives values within a normal distribution, centered on
// "normal-mean" with standard deviation "normal-sd" (see SetDefault).
func Normal() *normal {
	return &normal{defaultValue["normal-mean"], defaultValue["normal-sd"]}
}

func (n *normal) Gen() float64 {
	return normFloat()*n.σ + n.µ
}

type truncNormal struct {
	*normal
	trunc float64
}

const defaultTrunc float64 = 2.0

// TruncNormal returns an RNG like Normal, but that discards values further than 2 standard
// deviations from the mean
func TruncNormal() *truncNormal {
	return &truncNormal{Normal(), defaultTrunc}
}

func (t *truncNormal) Gen() float64 {
	for {
		v := normFloat()
		if v < -t.trunc || v > t.trunc {
			continue
		}

		return v*t.σ + t.µ
	}
}
