// Package freezer persists trained Networks, so that they can be used again without retraining.
//
// Networks are stored as JSON documents keyed by their name, either as files in a directory
// (FileStore) or as rows in a SQLite database (SQLStore). Both keep the previous weights of every
// Neuron, so that training can continue with momentum after loading.
package freezer

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
)

// ErrNotFound is returned by Load when no Network is stored under the name
var ErrNotFound = errors.New("Network not found")

// CorruptError is returned by Load when a stored Network exists but can't be restored
type CorruptError struct {
	Name string
	Err  error
}

func (err *CorruptError) Error() string {
	return fmt.Sprintf("Stored network %q is corrupt: %v", err.Name, err.Err)
}

func (err *CorruptError) Cause() error  { return err.Err }
func (err *CorruptError) Unwrap() error { return err.Err }

// Store saves and loads Networks by name
type Store interface {
	Save(*bp.Network) error

	// Load returns ErrNotFound if there is no Network with the name, and a *CorruptError if
	// there is one that can't be restored.
	Load(name string) (*bp.Network, error)
}

// LoadAll loads every named Network. If any of them is missing, it returns ErrNotFound and no
// Networks, so that the whole set can be trained again.
func LoadAll(s Store, names []string) ([]*bp.Network, error) {
	nets := make([]*bp.Network, len(names))
	for i, name := range names {
		var err error
		if nets[i], err = s.Load(name); err != nil {
			return nil, err
		}
	}

	return nets, nil
}

// SaveAll saves every Network, stopping at the first failure
func SaveAll(s Store, nets []*bp.Network) error {
	for _, net := range nets {
		if err := s.Save(net); err != nil {
			return errors.Wrapf(err, "Can't save network %q\n", net.Name())
		}
	}

	return nil
}

type frozenNeuron struct {
	Weights         []float64 `json:"weights"`
	Bias            float64   `json:"bias"`
	PreviousWeights []float64 `json:"previousWeights"`
	PreviousBias    float64   `json:"previousBias"`
}

type frozenLayer struct {
	Activation string         `json:"activation"`
	HasBias    bool           `json:"hasBias"`
	Neurons    []frozenNeuron `json:"neurons"`
}

type frozenNetwork struct {
	Name   string        `json:"name"`
	Hidden []frozenLayer `json:"hiddenLayers"`
	Output frozenLayer   `json:"outputLayer"`
}

func freezeLayer(l *bp.Layer) frozenLayer {
	f := frozenLayer{
		Activation: l.Activation().Name,
		HasBias:    l.HasBias(),
		Neurons:    make([]frozenNeuron, l.Size()),
	}

	for i, n := range l.Neurons() {
		cur, prev := n.Backup(), n.Previous()
		f.Neurons[i] = frozenNeuron{cur.Weights, cur.Bias, prev.Weights, prev.Bias}
	}

	return f
}

func (f frozenLayer) thaw() (*bp.Layer, error) {
	act, err := bp.ActivationByName(f.Activation)
	if err != nil {
		return nil, err
	}

	ns := make([]*bp.Neuron, len(f.Neurons))
	for i, fn := range f.Neurons {
		ns[i], err = bp.RestoreNeuron(act, f.HasBias,
			bp.Snapshot{Weights: fn.Weights, Bias: fn.Bias},
			bp.Snapshot{Weights: fn.PreviousWeights, Bias: fn.PreviousBias})
		if err != nil {
			return nil, errors.Wrapf(err, "Neuron %d\n", i)
		}
	}

	return bp.LayerFrom(ns)
}

// Marshal encodes a Network as an indented JSON document
func Marshal(net *bp.Network) ([]byte, error) {
	f := frozenNetwork{
		Name:   net.Name(),
		Hidden: make([]frozenLayer, len(net.HiddenLayers())),
		Output: freezeLayer(net.OutputLayer()),
	}

	for i, l := range net.HiddenLayers() {
		f.Hidden[i] = freezeLayer(l)
	}

	return json.MarshalIndent(f, "", "  ")
}

// Unmarshal restores a Network encoded by Marshal
func Unmarshal(data []byte) (*bp.Network, error) {
	var f frozenNetwork
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	hidden := make([]*bp.Layer, len(f.Hidden))
	for i, fl := range f.Hidden {
		var err error
		if hidden[i], err = fl.thaw(); err != nil {
			return nil, errors.Wrapf(err, "Hidden layer %d\n", i)
		}
	}

	output, err := f.Output.thaw()
	if err != nil {
		return nil, errors.Wrapf(err, "Output layer\n")
	}

	return bp.Assemble(f.Name, hidden, output)
}

// thaw is the part of Load shared by every Store: it turns stored data into a Network, or a
// CorruptError
func thaw(name string, data []byte) (*bp.Network, error) {
	net, err := Unmarshal(data)
	if err != nil {
		return nil, &CorruptError{name, err}
	} else if net.Name() != name {
		return nil, &CorruptError{name, errors.Errorf("Stored network is named %q", net.Name())}
	}

	return net, nil
}
