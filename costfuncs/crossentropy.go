package costfuncs

import (
	"math"
)

// outputs are kept this far away from 0 and 1 so that the logarithms stay finite
const epsilon = 1e-12

type crossEntropy struct{}

// CrossEntropy returns the mean binary cross-entropy of each channel. It assumes outputs and
// targets within [0, 1], like those of a sigmoid output layer with one-hot targets.
func CrossEntropy() crossEntropy {
	return crossEntropy{}
}

// NegativeLog is a proxy for CrossEntropy
func NegativeLog() crossEntropy {
	return CrossEntropy()
}

func (crossEntropy) TypeString() string {
	return "cross-entropy"
}

func (crossEntropy) Cost(outs, targets []float64) float64 {
	var sum float64
	for i := range outs {
		o := math.Min(math.Max(outs[i], epsilon), 1-epsilon)
		sum -= targets[i]*math.Log(o) + (1-targets[i])*math.Log(1-o)
	}

	return sum / float64(len(outs))
}
