package backprop

import (
	"github.com/pkg/errors"
)

// Layer is an ordered group of Neurons with the same fan-in, activation and bias policy.
//
// The output of the most recent call to Activate is cached, so that teachers can read the
// intermediate outputs of a forward pass without recomputing them. Because of that cache, a
// Layer (and so a Network) must not be activated from more than one goroutine at a time.
type Layer struct {
	neurons    []*Neuron
	inputs     int
	activation *Activation
	hasBias    bool

	lastOutput []Out
}

// NewLayer creates a Layer of 'size' freshly initialized Neurons, each with 'inputs' inputs
func NewLayer(size, inputs int, act *Activation, hasBias bool, init Initializer) (*Layer, error) {
	if size < 1 {
		return nil, errors.Errorf("Layer must have size >= 1 (%d)", size)
	}

	l := &Layer{
		neurons:    make([]*Neuron, size),
		inputs:     inputs,
		activation: act,
		hasBias:    hasBias,
	}

	for i := range l.neurons {
		var err error
		if l.neurons[i], err = NewNeuron(inputs, act, hasBias, init); err != nil {
			return nil, errors.Wrapf(err, "Can't create neuron %d of layer\n", i)
		}
	}

	return l, nil
}

// LayerFrom assembles a Layer from existing Neurons, which must all share the same fan-in, bias
// policy and activation.
func LayerFrom(neurons []*Neuron) (*Layer, error) {
	if len(neurons) == 0 {
		return nil, errors.Errorf("Can't assemble layer with no neurons")
	}

	first := neurons[0]
	for i, n := range neurons {
		if n == nil {
			return nil, NilArgError{"Neuron"}
		} else if n.Inputs() != first.Inputs() {
			return nil, errors.Errorf("Can't assemble layer, neuron %d has %d inputs (expected %d)", i, n.Inputs(), first.Inputs())
		} else if n.HasBias() != first.HasBias() || n.Activation() != first.Activation() {
			return nil, errors.Errorf("Can't assemble layer, neuron %d has a different bias policy or activation", i)
		}
	}

	ns := make([]*Neuron, len(neurons))
	copy(ns, neurons)

	return &Layer{
		neurons:    ns,
		inputs:     first.Inputs(),
		activation: first.Activation(),
		hasBias:    first.HasBias(),
	}, nil
}

// Activate returns the output of each Neuron given the input, in order. The result is also kept
// as the Layer's LastOutput.
func (l *Layer) Activate(input []float64) ([]Out, error) {
	if len(input) != l.inputs {
		return nil, SizeMismatchError{"Layer", l.inputs, len(input)}
	}

	result := make([]Out, len(l.neurons))
	for i, n := range l.neurons {
		var err error
		if result[i], err = n.Activate(input); err != nil {
			return nil, err
		}
	}

	l.lastOutput = result
	return result, nil
}

// LastOutput returns the output of the most recent call to Activate, or nil if there has not
// been one.
func (l *Layer) LastOutput() []Out {
	return l.lastOutput
}

// Values returns the activation values of LastOutput
func (l *Layer) Values() []float64 {
	return activations(l.lastOutput)
}

func activations(outs []Out) []float64 {
	vs := make([]float64, len(outs))
	for i := range outs {
		vs[i] = outs[i].Activation
	}

	return vs
}

// Size returns the number of Neurons in the Layer
func (l *Layer) Size() int {
	return len(l.neurons)
}

// Inputs returns the fan-in of each Neuron in the Layer
func (l *Layer) Inputs() int {
	return l.inputs
}

func (l *Layer) Neuron(i int) *Neuron {
	return l.neurons[i]
}

func (l *Layer) Neurons() []*Neuron {
	return l.neurons
}

func (l *Layer) Activation() *Activation {
	return l.activation
}

func (l *Layer) HasBias() bool {
	return l.hasBias
}
