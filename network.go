package backprop

import (
	"github.com/pkg/errors"
)

// Network is a feed-forward stack of hidden Layers followed by a single output Layer. Its topology
// does not change after construction; only the weights of its Neurons do.
type Network struct {
	name   string
	hidden []*Layer
	output *Layer
}

// Assemble builds a Network from already constructed Layers, checking that the fan-in of each
// Layer matches the size of the one before it.
//
// Most Networks are better made with a Builder. Assemble is for restoring stored Networks.
func Assemble(name string, hidden []*Layer, output *Layer) (*Network, error) {
	if name == "" {
		return nil, ErrNameNotSet
	} else if output == nil {
		return nil, NilArgError{"Output layer"}
	}

	layers := append(append([]*Layer{}, hidden...), output)
	for i := range layers {
		if layers[i] == nil {
			return nil, NilArgError{"Layer"}
		} else if i > 0 && layers[i].Inputs() != layers[i-1].Size() {
			return nil, errors.Wrapf(SizeMismatchError{"Layer", layers[i].Inputs(), layers[i-1].Size()},
				"Can't assemble network %q, layer %d does not fit the one before it\n", name, i)
		}
	}

	return &Network{
		name:   name,
		hidden: layers[:len(layers)-1],
		output: output,
	}, nil
}

// Answer runs the input through every Layer of the Network and returns the activation values of
// the output Layer.
func (net *Network) Answer(input []float64) ([]float64, error) {
	last := input
	for i, l := range net.hidden {
		outs, err := l.Activate(last)
		if err != nil {
			return nil, errors.Wrapf(err, "Network %q failed on hidden layer %d\n", net.name, i)
		}

		last = activations(outs)
	}

	outs, err := net.output.Activate(last)
	if err != nil {
		return nil, errors.Wrapf(err, "Network %q failed on output layer\n", net.name)
	}

	return activations(outs), nil
}

func (net *Network) Name() string {
	return net.name
}

func (net *Network) HiddenLayers() []*Layer {
	return net.hidden
}

func (net *Network) OutputLayer() *Layer {
	return net.output
}

// Layers returns the hidden Layers followed by the output Layer
func (net *Network) Layers() []*Layer {
	return append(append([]*Layer{}, net.hidden...), net.output)
}

// InputSize returns the number of values the Network takes as input
func (net *Network) InputSize() int {
	if len(net.hidden) != 0 {
		return net.hidden[0].Inputs()
	}

	return net.output.Inputs()
}

// OutputSize returns the number of values given by Answer
func (net *Network) OutputSize() int {
	return net.output.Size()
}
