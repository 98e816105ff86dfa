// Package collectors accumulates the errors reported while training, and reduces them to values
// that can be plotted or summarized.
//
// Both collectors may be written to from many goroutines at once.
package collectors

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MeanStdDev returns the mean and the population standard deviation of xs. Both are NaN if xs is
// empty.
func MeanStdDev(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}

	return stat.PopMeanStdDev(xs, nil)
}
