package initializers

import (
	"math"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
)

// default values, because 'default' is a keyword
var defaultValue map[string]float64

func init() {
	defaultValue = map[string]float64{
		"uniform-lower": -1,
		"uniform-upper": 1,
		"normal-mean":   0,
		"normal-sd":     1,
	}

	if err := bp.SetDefaultInitializer(Random(Uniform())); err != nil {
		panic(err.Error())
	}
}

// SetDefault sets one of the default values used by the constructors in this package. Values
// already constructed are unaffected.
func SetDefault(name string, value float64) error {
	if _, ok := defaultValue[name]; !ok {
		return errors.Errorf("Value with name %q does not exist", name)
	} else if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Errorf("Value is invalid (%v)", value)
	}

	defaultValue[name] = value
	return nil
}

// ByName returns a Random Initializer drawing from the named RNG: "uniform" (in [-bound, bound)),
// "normal" or "truncnormal". The normal RNGs take their parameters from the current defaults.
func ByName(name string, bound float64) (bp.Initializer, error) {
	switch name {
	case "uniform":
		if !(bound > 0) || math.IsInf(bound, 0) {
			return nil, errors.Errorf("Uniform bound must be a positive number (%v)", bound)
		}
		return Random(Uniform().Bounds(-bound, bound)), nil
	case "normal":
		return Random(Normal()), nil
	case "truncnormal":
		return Random(TruncNormal()), nil
	default:
		return nil, errors.Errorf("No initializer named %q", name)
	}
}
