package backprop

import (
	"math/rand"
)

// Initializer sets the starting values of a Neuron's weights. The bias of a Neuron with bias is
// set by calling Set with a slice of length 1.
type Initializer interface {
	Set(ws []float64)
}

// uniformRange is the Initializer used when none has been given to the Builder and no default
// has been set with SetDefaultInitializer. Values are drawn from [-1, 1).
type uniformRange struct{}

func (uniformRange) Set(ws []float64) {
	for i := range ws {
		ws[i] = rand.Float64()*2 - 1
	}
}

var defaultInitializer Initializer = uniformRange{}

// SetDefaultInitializer sets the Initializer used by Builders that were not given one. The
// subpackage initializers calls this on import.
func SetDefaultInitializer(i Initializer) error {
	if i == nil {
		return NilArgError{"Initializer"}
	}

	defaultInitializer = i
	return nil
}

// DefaultInitializer returns the current package-level Initializer
func DefaultInitializer() Initializer {
	return defaultInitializer
}
