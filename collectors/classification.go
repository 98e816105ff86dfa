package collectors

import (
	"math"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
)

// ClassificationLevel returns the percentage of samples for which the Network's answer, with each
// value rounded to the nearest integer, is exactly the expected output.
func ClassificationLevel(net *bp.Network, data bp.Dataset) (float64, error) {
	if len(data) == 0 {
		return 0, errors.Errorf("Can't calculate classification level of %q on empty dataset", net.Name())
	}

	var good int
	for i, s := range data {
		ans, err := net.Answer(s.Input)
		if err != nil {
			return 0, errors.Wrapf(err, "Can't calculate classification level, sample %d\n", i)
		}

		if roundedEqual(ans, s.Expected) {
			good++
		}
	}

	return float64(good) / float64(len(data)) * 100, nil
}

func roundedEqual(ans, expected []float64) bool {
	if len(ans) != len(expected) {
		return false
	}

	for i := range ans {
		if math.Round(ans[i]) != expected[i] {
			return false
		}
	}

	return true
}
