package backprop

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Snapshot is a by-value copy of a Neuron's weights and bias
type Snapshot struct {
	Weights []float64
	Bias    float64
}

func (s Snapshot) copy() Snapshot {
	ws := make([]float64, len(s.Weights))
	copy(ws, s.Weights)
	return Snapshot{ws, s.Bias}
}

// Neuron is a single unit of a Layer. Along with its current weights and bias, it keeps the values
// they had before the most recent update, which are used for the momentum term of the next one.
//
// If the Neuron has no bias, Bias is zero and is never changed by Update.
type Neuron struct {
	Weights []float64
	Bias    float64

	hasBias    bool
	activation *Activation

	previousWeights []float64
	previousBias    float64
}

// NewNeuron creates a Neuron with the given fan-in, drawing its weights (and bias, if it has one)
// from the Initializer. The previous state starts as a copy of the current state.
func NewNeuron(inputs int, act *Activation, hasBias bool, init Initializer) (*Neuron, error) {
	if inputs < 1 {
		return nil, errors.Errorf("Neuron must have at least 1 input (%d)", inputs)
	} else if act == nil {
		return nil, NilArgError{"Activation"}
	} else if init == nil {
		return nil, NilArgError{"Initializer"}
	}

	n := &Neuron{
		Weights:    make([]float64, inputs),
		hasBias:    hasBias,
		activation: act,
	}

	init.Set(n.Weights)

	if hasBias {
		b := make([]float64, 1)
		init.Set(b)
		n.Bias = b[0]
	}

	n.SetPrevious(n.Backup())
	return n, nil
}

// RestoreNeuron rebuilds a Neuron from stored current and previous states
func RestoreNeuron(act *Activation, hasBias bool, current, previous Snapshot) (*Neuron, error) {
	if act == nil {
		return nil, NilArgError{"Activation"}
	} else if len(current.Weights) == 0 {
		return nil, errors.Errorf("Can't restore neuron without weights")
	} else if len(current.Weights) != len(previous.Weights) {
		return nil, errors.Errorf("Can't restore neuron, previous weights have different length (%d != %d)",
			len(previous.Weights), len(current.Weights))
	}

	if !hasBias {
		current.Bias, previous.Bias = 0, 0
	}

	current = current.copy()
	previous = previous.copy()

	return &Neuron{
		Weights:         current.Weights,
		Bias:            current.Bias,
		hasBias:         hasBias,
		activation:      act,
		previousWeights: previous.Weights,
		previousBias:    previous.Bias,
	}, nil
}

// Activate computes the weighted sum of the input plus the bias, and applies the Neuron's
// activation to it.
func (n *Neuron) Activate(input []float64) (Out, error) {
	if len(input) != len(n.Weights) {
		return Out{}, SizeMismatchError{"Neuron", len(n.Weights), len(input)}
	}

	x := floats.Dot(n.Weights, input) + n.Bias
	return Out{n.activation.Function(x), x}, nil
}

// Backup returns a copy of the current weights and bias
func (n *Neuron) Backup() Snapshot {
	return Snapshot{n.Weights, n.Bias}.copy()
}

// SetPrevious installs the given snapshot as the state read by the momentum term of the next
// update.
func (n *Neuron) SetPrevious(s Snapshot) {
	s = s.copy()
	n.previousWeights = s.Weights
	if n.hasBias {
		n.previousBias = s.Bias
	}
}

// Update applies one step of gradient descent with momentum:
//
//	w_new = w - alpha*grad + beta*(w - w_previous)
//
// All new values are computed from a snapshot of the current state and the stored previous
// state before any of them are installed. The snapshot then becomes the previous state, so that
// after Update, PreviousWeights returns the weights as they were before it.
//
// biasGrad is ignored if the Neuron has no bias.
func (n *Neuron) Update(weightGrads []float64, biasGrad, alpha, beta float64) error {
	if len(weightGrads) != len(n.Weights) {
		return SizeMismatchError{"Neuron update", len(n.Weights), len(weightGrads)}
	}

	snap := n.Backup()

	ws := make([]float64, len(snap.Weights))
	for i, w := range snap.Weights {
		ws[i] = w - alpha*weightGrads[i] + beta*(w-n.previousWeights[i])
	}

	bias := snap.Bias
	if n.hasBias {
		bias = snap.Bias - alpha*biasGrad + beta*(snap.Bias-n.previousBias)
	}

	copy(n.Weights, ws)
	n.Bias = bias
	n.SetPrevious(snap)

	return nil
}

// PreviousWeights returns the weights from before the most recent update. The returned slice
// must not be modified.
func (n *Neuron) PreviousWeights() []float64 {
	return n.previousWeights
}

// PreviousBias returns the bias from before the most recent update
func (n *Neuron) PreviousBias() float64 {
	return n.previousBias
}

// Previous returns a copy of the previous state
func (n *Neuron) Previous() Snapshot {
	return Snapshot{n.previousWeights, n.previousBias}.copy()
}

func (n *Neuron) HasBias() bool {
	return n.hasBias
}

func (n *Neuron) Activation() *Activation {
	return n.activation
}

// Inputs returns the fan-in of the Neuron
func (n *Neuron) Inputs() int {
	return len(n.Weights)
}
