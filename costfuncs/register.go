// Package costfuncs provides the measures used to reduce the differences between a network's
// answers and the expected outputs into a single error per output channel.
package costfuncs

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// CostFunction reduces a single output channel. It is given the network's answers and the
// expected values for every sample of a dataset, in the same order.
//
// Both slices are guaranteed to be of the same, non-zero length.
type CostFunction interface {
	TypeString() string
	Cost(outs, targets []float64) float64
}

var (
	listMux sync.RWMutex
	list    = map[string]func() CostFunction{}
)

func init() {
	for _, f := range []func() CostFunction{
		func() CostFunction { return MSE() },
		func() CostFunction { return HalfMSE() },
		func() CostFunction { return Abs() },
		func() CostFunction { return Huber(1) },
		func() CostFunction { return CrossEntropy() },
	} {
		if err := Register(f); err != nil {
			panic(err.Error())
		}
	}
}

// Register makes a CostFunction available through Get, under its TypeString
func Register(f func() CostFunction) error {
	if f == nil {
		return errors.Errorf("Can't register nil function")
	}

	c := f()
	if c == nil {
		return errors.Errorf("Can't register cost function, function return is nil")
	}

	listMux.Lock()
	defer listMux.Unlock()

	if _, ok := list[c.TypeString()]; ok {
		return errors.Errorf("Can't register cost function, %q is already registered", c.TypeString())
	}

	list[c.TypeString()] = f
	return nil
}

// Get returns a new instance of the registered CostFunction with the given name
func Get(name string) (CostFunction, error) {
	listMux.RLock()
	defer listMux.RUnlock()

	f, ok := list[name]
	if !ok {
		return nil, errors.Errorf("No cost function registered with name %q", name)
	}

	return f(), nil
}

// Names returns the names of every registered CostFunction, sorted
func Names() []string {
	listMux.RLock()
	defer listMux.RUnlock()

	names := make([]string, 0, len(list))
	for n := range list {
		names = append(names, n)
	}

	sort.Strings(names)
	return names
}
