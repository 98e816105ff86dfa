package backprop

import (
	"github.com/pkg/errors"
)

// Builder constructs a Network layer by layer. Methods can be chained; the first error
// encountered is kept and returned by OutputLayer (or Error), and every call after it has no
// effect.
//
//	net, err := backprop.NewBuilder().
//		Name("xor").
//		Inputs(2).
//		DefaultActivation(backprop.Sigmoid).
//		HiddenLayer(2, true).
//		OutputLayer(1, true)
//
// Inputs must be given before any layer. The activation of each layer is the one passed to it,
// or the default, and if neither is set construction fails with ErrNoActivation.
type Builder struct {
	name       string
	inputs     int
	inputsSet  bool
	activation *Activation
	init       Initializer

	hidden    []*Layer
	finalized bool

	err error
}

func NewBuilder() *Builder {
	return new(Builder)
}

// setError keeps the first error given to it
func (b *Builder) setError(e error) {
	if b.err == nil {
		b.err = e
	}
}

// Error returns the first error encountered while building, if there was one
func (b *Builder) Error() error {
	return b.err
}

func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Inputs sets the number of inputs of the Network. It may only be called once, before any
// layers have been added.
func (b *Builder) Inputs(n int) *Builder {
	if b.err != nil {
		return b
	}

	if b.inputsSet || len(b.hidden) != 0 {
		b.setError(ErrInputsAlreadySet)
	} else if n < 1 {
		b.setError(errors.Errorf("Network must have at least 1 input (%d)", n))
	} else {
		b.inputs = n
		b.inputsSet = true
	}

	return b
}

// DefaultActivation sets the activation used by layers that aren't given one explicitly
func (b *Builder) DefaultActivation(a *Activation) *Builder {
	b.activation = a
	return b
}

// Initializer sets the Initializer for the weights of all following layers. If never called, the
// package default is used.
func (b *Builder) Initializer(i Initializer) *Builder {
	b.init = i
	return b
}

func (b *Builder) newLayer(size int, hasBias bool, act []*Activation) (*Layer, error) {
	if b.finalized {
		return nil, ErrFinalized
	} else if !b.inputsSet {
		return nil, ErrInputsNotSet
	} else if len(act) > 1 {
		return nil, errors.Errorf("Layer can only have one activation (got %d)", len(act))
	}

	a := b.activation
	if len(act) == 1 && act[0] != nil {
		a = act[0]
	}

	if a == nil {
		return nil, ErrNoActivation
	}

	init := b.init
	if init == nil {
		init = defaultInitializer
	}

	inputs := b.inputs
	if len(b.hidden) != 0 {
		inputs = b.hidden[len(b.hidden)-1].Size()
	}

	return NewLayer(size, inputs, a, hasBias, init)
}

// HiddenLayer appends a hidden layer with the given number of neurons. Its fan-in is the size of
// the previous layer, or the number of inputs if it is the first.
func (b *Builder) HiddenLayer(neurons int, hasBias bool, act ...*Activation) *Builder {
	if b.err != nil {
		return b
	}

	l, err := b.newLayer(neurons, hasBias, act)
	if err != nil {
		b.setError(errors.Wrapf(err, "Can't add hidden layer %d\n", len(b.hidden)))
		return b
	}

	b.hidden = append(b.hidden, l)
	return b
}

// OutputLayer adds the output layer and returns the finished Network. The Builder cannot be
// used after a successful call.
func (b *Builder) OutputLayer(neurons int, hasBias bool, act ...*Activation) (*Network, error) {
	if b.err != nil {
		return nil, b.err
	}

	if !b.inputsSet {
		b.setError(ErrInputsNotSet)
		return nil, b.err
	} else if b.name == "" {
		b.setError(ErrNameNotSet)
		return nil, b.err
	}

	l, err := b.newLayer(neurons, hasBias, act)
	if err != nil {
		b.setError(errors.Wrapf(err, "Can't add output layer\n"))
		return nil, b.err
	}

	b.finalized = true
	return &Network{
		name:   b.name,
		hidden: b.hidden,
		output: l,
	}, nil
}
