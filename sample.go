package backprop

import (
	"github.com/pkg/errors"
)

// Sample is a single input along with the output the Network is expected to give for it
type Sample struct {
	Input    []float64
	Expected []float64
}

// Dataset is an ordered set of Samples. Datasets are not modified by anything that reads them, and
// can be shared between goroutines.
type Dataset []Sample

// Fits returns an error if any Sample does not have the given input and expected widths
func (d Dataset) Fits(inputs, outputs int) error {
	for i, s := range d {
		if len(s.Input) != inputs {
			return errors.Wrapf(SizeMismatchError{"Sample input", inputs, len(s.Input)}, "Sample %d doesn't fit\n", i)
		} else if len(s.Expected) != outputs {
			return errors.Wrapf(SizeMismatchError{"Sample expected", outputs, len(s.Expected)}, "Sample %d doesn't fit\n", i)
		}
	}

	return nil
}

// FitsNetwork is shorthand for Fits with the Network's input and output sizes
func (d Dataset) FitsNetwork(net *Network) error {
	return d.Fits(net.InputSize(), net.OutputSize())
}

// Split divides the Dataset by index, with the Samples for which keep returns true going to the
// first Dataset and the rest to the second.
func (d Dataset) Split(keep func(int) bool) (Dataset, Dataset) {
	var in, out Dataset
	for i, s := range d {
		if keep(i) {
			in = append(in, s)
		} else {
			out = append(out, s)
		}
	}

	return in, out
}
