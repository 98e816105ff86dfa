package teachers

import (
	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// offline is batch gradient descent: the gradient is averaged over the whole training set
// before any weight is changed
type offline struct {
	base
}

// NewOffline returns a Teacher that makes one update per call to Teach, using the average
// gradient over the full training set.
func NewOffline(alpha, beta float64, opts ...Option) (Teacher, error) {
	b, err := newBase(Offline, alpha, beta, opts)
	if err != nil {
		return nil, err
	}

	return &offline{b}, nil
}

func (t *offline) Metric() string {
	return "Iterations"
}

// answers holds the outputs of every layer for every sample of the training set, with one row per
// sample
type answers struct {
	inputs *mat.Dense
	values []*mat.Dense
	derivs []*mat.Dense
}

func (t *offline) collectAnswers(net *bp.Network) (answers, error) {
	layers := net.Layers()
	n := len(t.training)

	a := answers{
		inputs: mat.NewDense(n, net.InputSize(), nil),
		values: make([]*mat.Dense, len(layers)),
		derivs: make([]*mat.Dense, len(layers)),
	}

	for li, l := range layers {
		a.values[li] = mat.NewDense(n, l.Size(), nil)
		a.derivs[li] = mat.NewDense(n, l.Size(), nil)
	}

	for i, s := range t.training {
		if _, err := net.Answer(s.Input); err != nil {
			return answers{}, errors.Wrapf(err, "Forward pass failed on sample %d\n", i)
		}

		a.inputs.SetRow(i, s.Input)

		for li, l := range layers {
			deriv := l.Activation().Derivative
			for j, o := range l.LastOutput() {
				a.values[li].Set(i, j, o.Activation)
				a.derivs[li].Set(i, j, deriv(o))
			}
		}
	}

	return a, nil
}

// Teach makes a single update of every layer, from the output backwards. Errors are propagated to
// a layer through the following layer's weights as they were before this update.
func (t *offline) Teach(net *bp.Network) error {
	if err := check(net, t.training); err != nil {
		return errors.Wrapf(err, "Can't teach %q\n", net.Name())
	}

	a, err := t.collectAnswers(net)
	if err != nil {
		return errors.Wrapf(err, "Can't teach %q\n", net.Name())
	}

	layers := net.Layers()
	last := len(layers) - 1
	n := float64(len(t.training))

	// differences between the output layer's answers and the expected values
	errs := mat.DenseCopyOf(a.values[last])
	for i, s := range t.training {
		for j, e := range s.Expected {
			errs.Set(i, j, errs.At(i, j)-e)
		}
	}

	for li := last; li >= 0; li-- {
		l := layers[li]

		if li < last {
			following := layers[li+1]
			ws := mat.NewDense(following.Size(), l.Size(), nil)
			for k, fn := range following.Neurons() {
				ws.SetRow(k, fn.PreviousWeights())
			}

			var propagated mat.Dense
			propagated.Mul(errs, ws)
			errs = &propagated
		}

		var deltas mat.Dense
		deltas.MulElem(errs, a.derivs[li])
		errs = &deltas

		input := a.inputs
		if li > 0 {
			input = a.values[li-1]
		}

		// one row of weight gradients per neuron
		var grads mat.Dense
		grads.Mul(errs.T(), input)

		for j, neuron := range l.Neurons() {
			g := mat.Row(nil, j, &grads)
			floats.Scale(1/n, g)

			biasGrad := floats.Sum(mat.Col(nil, j, errs)) / n

			if err := neuron.Update(g, biasGrad, t.alpha, t.beta); err != nil {
				return errors.Wrapf(err, "Can't teach %q, update of layer %d failed\n", net.Name(), li)
			}
		}
	}

	return nil
}
