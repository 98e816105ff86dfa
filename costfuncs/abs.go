package costfuncs

import (
	"gonum.org/v1/gonum/floats"
)

type abs struct{}

// Abs returns the mean absolute error
func Abs() abs {
	return abs{}
}

// L1 is a proxy for Abs
func L1() abs {
	return Abs()
}

func (abs) TypeString() string {
	return "abs"
}

func (abs) Cost(outs, targets []float64) float64 {
	return floats.Distance(outs, targets, 1) / float64(len(outs))
}
