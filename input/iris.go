package input

import (
	"strings"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
)

// IrisClasses are the class labels of the iris dataset, in the order of their one-hot encoding
var IrisClasses = []string{"Iris-setosa", "Iris-versicolor", "Iris-virginica"}

// IrisTransformer returns a line transform that replaces the class label at the end of a line of
// the iris dataset with its one-hot encoding, using the given separator. Lines with unknown labels
// are left unchanged, and so fail to parse.
func IrisTransformer(sep string) func(string) string {
	return func(line string) string {
		line = strings.TrimSpace(line)
		for i, class := range IrisClasses {
			if !strings.HasSuffix(line, class) {
				continue
			}

			code := make([]string, len(IrisClasses))
			for j := range code {
				code[j] = "0"
			}
			code[i] = "1"

			return strings.TrimSuffix(line, class) + strings.Join(code, sep)
		}

		return line
	}
}

// FieldMask selects which input fields of a sample are kept
type FieldMask []bool

// ParseMask reads a mask written as a string of '0's and '1's, one for each of 'fields' inputs. At
// least one field must be kept.
func ParseMask(s string, fields int) (FieldMask, error) {
	s = strings.TrimSpace(s)
	if len(s) != fields {
		return nil, errors.Errorf("Invalid mask %q, must have %d fields", s, fields)
	}

	m := make(FieldMask, fields)
	kept := false
	for i, c := range s {
		switch c {
		case '1':
			m[i] = true
			kept = true
		case '0':
		default:
			return nil, errors.Errorf("Invalid mask %q, may only contain '0' and '1'", s)
		}
	}

	if !kept {
		return nil, errors.Errorf("Invalid mask %q, at least one field must be used", s)
	}

	return m, nil
}

// Kept returns the number of fields kept by the mask
func (m FieldMask) Kept() int {
	var n int
	for _, k := range m {
		if k {
			n++
		}
	}

	return n
}

func (m FieldMask) String() string {
	var sb strings.Builder
	for _, k := range m {
		if k {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// Apply returns a copy of the Dataset with only the masked input fields
func (m FieldMask) Apply(d bp.Dataset) (bp.Dataset, error) {
	out := make(bp.Dataset, len(d))
	for i, s := range d {
		if len(s.Input) != len(m) {
			return nil, errors.Wrapf(bp.SizeMismatchError{Where: "Field mask", Expected: len(m), Got: len(s.Input)}, "Sample %d\n", i)
		}

		in := make([]float64, 0, m.Kept())
		for j, keep := range m {
			if keep {
				in = append(in, s.Input[j])
			}
		}

		out[i] = bp.Sample{Input: in, Expected: s.Expected}
	}

	return out, nil
}
