package teachers

import (
	"math/rand"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
)

// online is stochastic gradient descent: the weights are updated after every sample
type online struct {
	base
}

// NewOnline returns a Teacher that updates the Network after each sample, going through the
// training set in a new random order on each call to Teach.
func NewOnline(alpha, beta float64, opts ...Option) (Teacher, error) {
	b, err := newBase(Online, alpha, beta, opts)
	if err != nil {
		return nil, err
	}

	if b.perm == nil {
		b.perm = rand.Perm
	}

	return &online{b}, nil
}

func (t *online) Metric() string {
	return "Epochs"
}

// Teach makes one pass over the shuffled training set.
//
// For each sample the layers are updated from the output backwards. The error signal of a hidden
// layer is computed from the following layer's weights as they were before this sample's update,
// which Neuron.PreviousWeights gives once that layer has been updated.
func (t *online) Teach(net *bp.Network) error {
	if err := check(net, t.training); err != nil {
		return errors.Wrapf(err, "Can't teach %q\n", net.Name())
	}

	order := t.perm(len(t.training))
	if err := checkPermutation(order, len(t.training)); err != nil {
		return errors.Wrapf(err, "Can't teach %q\n", net.Name())
	}

	layers := net.Layers()
	last := len(layers) - 1

	for _, i := range order {
		s := t.training[i]

		if _, err := net.Answer(s.Input); err != nil {
			return errors.Wrapf(err, "Can't teach %q, forward pass failed on sample %d\n", net.Name(), i)
		}

		var deltas []float64
		for li := last; li >= 0; li-- {
			l := layers[li]
			outs := l.LastOutput()
			deriv := l.Activation().Derivative

			ds := make([]float64, l.Size())
			if li == last {
				for j, o := range outs {
					ds[j] = (o.Activation - s.Expected[j]) * deriv(o)
				}
			} else {
				following := layers[li+1]
				for j, o := range outs {
					var sum float64
					for k, d := range deltas {
						sum += d * following.Neuron(k).PreviousWeights()[j]
					}

					ds[j] = sum * deriv(o)
				}
			}

			input := s.Input
			if li > 0 {
				input = layers[li-1].Values()
			}

			for j, n := range l.Neurons() {
				if err := update(n, ds[j], input, t.alpha, t.beta); err != nil {
					return errors.Wrapf(err, "Can't teach %q, update of layer %d failed\n", net.Name(), li)
				}
			}

			deltas = ds
		}
	}

	return nil
}

// checkPermutation makes sure every index in [0, n) appears exactly once
func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return errors.Wrapf(ErrBadPermutation, "Got %d indices for %d samples", len(order), n)
	}

	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n {
			return errors.Wrapf(ErrBadPermutation, "Index %d out of range [0, %d)", i, n)
		} else if seen[i] {
			return errors.Wrapf(ErrBadPermutation, "Index %d is repeated", i)
		}
		seen[i] = true
	}

	return nil
}
