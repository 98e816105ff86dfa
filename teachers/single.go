package teachers

import (
	"math"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
)

// SingleNeuron trains a lone Neuron with plain batch gradient descent, without momentum. Each
// input is paired with the single value the Neuron should give for it.
type SingleNeuron struct {
	alpha float64
}

func NewSingleNeuron(alpha float64) (*SingleNeuron, error) {
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return nil, errors.Wrapf(ErrAlphaRange, "Can't create single neuron teacher with alpha %v", alpha)
	}

	return &SingleNeuron{alpha}, nil
}

func (t *SingleNeuron) Alpha() float64 {
	return t.alpha
}

func checkSingle(n *bp.Neuron, inputs [][]float64, expected []float64) error {
	if len(inputs) == 0 {
		return ErrEmptyDataset
	} else if len(inputs) != len(expected) {
		return errors.Errorf("Number of inputs doesn't match number of expected values (%d != %d)", len(inputs), len(expected))
	}

	return nil
}

// Teach makes one update of the Neuron, averaging the gradient over every input
func (t *SingleNeuron) Teach(n *bp.Neuron, inputs [][]float64, expected []float64) error {
	if err := checkSingle(n, inputs, expected); err != nil {
		return errors.Wrapf(err, "Can't teach neuron\n")
	}

	grads := make([]float64, n.Inputs())
	var biasGrad float64

	for i, in := range inputs {
		out, err := n.Activate(in)
		if err != nil {
			return errors.Wrapf(err, "Can't teach neuron, input %d\n", i)
		}

		delta := (out.Activation - expected[i]) * n.Activation().Derivative(out)
		for w := range grads {
			grads[w] += delta * in[w]
		}

		biasGrad += delta
	}

	count := float64(len(inputs))
	for w := range grads {
		grads[w] /= count
	}

	return n.Update(grads, biasGrad/count, t.alpha, 0)
}

// Verify returns the mean squared error of the Neuron over the inputs
func (t *SingleNeuron) Verify(n *bp.Neuron, inputs [][]float64, expected []float64) (float64, error) {
	if err := checkSingle(n, inputs, expected); err != nil {
		return 0, errors.Wrapf(err, "Can't verify neuron\n")
	}

	var sum float64
	for i, in := range inputs {
		out, err := n.Activate(in)
		if err != nil {
			return 0, errors.Wrapf(err, "Can't verify neuron, input %d\n", i)
		}

		d := out.Activation - expected[i]
		sum += d * d
	}

	return sum / float64(len(inputs)), nil
}
