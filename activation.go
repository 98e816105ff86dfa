package backprop

import (
	"math"
	"sync"

	"github.com/pkg/errors"
)

// Out is the result of activating a single Neuron: the activation value and the raw weighted sum
// it was computed from.
type Out struct {
	Activation float64
	RawValue   float64
}

// Activation is a scalar activation function paired with its derivative. The derivative is given
// the full Out of the neuron, so that it may use the already-computed activation value instead of
// recalculating from the raw value.
type Activation struct {
	Name       string
	Function   func(float64) float64
	Derivative func(Out) float64
}

// Sigmoid is the logistic function, 1/(1+e^-x)
var Sigmoid = &Activation{
	Name: "sigmoid",
	Function: func(x float64) float64 {
		return 1 / (1 + math.Exp(-x))
	},
	Derivative: func(o Out) float64 {
		return o.Activation * (1 - o.Activation)
	},
}

// Identity passes the raw value through unchanged
var Identity = &Activation{
	Name:       "identity",
	Function:   func(x float64) float64 { return x },
	Derivative: func(Out) float64 { return 1 },
}

var (
	activationsMux sync.RWMutex
	registry       = map[string]*Activation{}
)

func init() {
	for _, a := range []*Activation{Sigmoid, Identity} {
		if err := RegisterActivation(a); err != nil {
			panic(err.Error())
		}
	}
}

// RegisterActivation makes an Activation available by name, which is required for networks
// using it to be loaded from storage.
func RegisterActivation(a *Activation) error {
	if a == nil || a.Function == nil || a.Derivative == nil {
		return ErrRegisterNil
	}

	activationsMux.Lock()
	defer activationsMux.Unlock()

	if _, ok := registry[a.Name]; ok {
		return errors.Wrapf(ErrRegisterDuplicate, "Can't register activation %q", a.Name)
	}

	registry[a.Name] = a
	return nil
}

// ActivationByName returns the registered Activation with the given name
func ActivationByName(name string) (*Activation, error) {
	activationsMux.RLock()
	defer activationsMux.RUnlock()

	a, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("No activation registered with name %q", name)
	}

	return a, nil
}
