package costfuncs

import (
	"math"
)

type huber struct {
	δ float64
}

// Huber returns the mean Huber loss. δ controls the bounds of the transition between MSE and
// Absolute Value.
func Huber(δ float64) huber {
	return huber{δ}
}

func (h huber) TypeString() string {
	return "huber"
}

func (h huber) Cost(outs, targets []float64) float64 {
	var sum float64
	for i := range outs {
		d := math.Abs(outs[i] - targets[i])
		if d <= h.δ {
			sum += 0.5 * d * d // faster than math.Pow
		} else {
			sum += h.δ*d - 0.5*h.δ*h.δ
		}
	}

	return sum / float64(len(outs))
}
