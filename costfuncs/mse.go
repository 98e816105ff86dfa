package costfuncs

type mse struct {
	half bool
}

// MSE returns the mean squared error: the sum of the squared differences divided by the number of
// samples.
func MSE() mse {
	return mse{false}
}

// HalfMSE is MSE with the sum divided by twice the number of samples. This is the measure error
// goals are usually given in, and the default for teachers.
func HalfMSE() mse {
	return mse{true}
}

func (m mse) TypeString() string {
	if m.half {
		return "half-mse"
	}

	return "mse"
}

func (m mse) Cost(outs, targets []float64) float64 {
	var sum float64
	for i := range outs {
		d := outs[i] - targets[i]
		sum += d * d
	}

	n := float64(len(outs))
	if m.half {
		n *= 2
	}

	return sum / n
}
