package initializers

type random struct {
	RNG
}

// Random returns an Initializer that uses the provided RNG to generate the weights. There is no
// scaling beyond that of the RNG.
func Random(g RNG) random {
	return random{g}
}

// Set is the implementation of backprop.Initializer
func (r random) Set(ws []float64) {
	for i := range ws {
		ws[i] = r.Gen()
	}
}

type constant float64

// Constant returns an Initializer that sets every weight to the same value. It is mostly useful
// for reproducing a known starting point.
func Constant(v float64) constant {
	return constant(v)
}

func (c constant) Set(ws []float64) {
	for i := range ws {
		ws[i] = float64(c)
	}
}

type values struct {
	vs []float64
	i  int
}

// Values returns an Initializer that hands out the given values in order, wrapping around when
// they run out. Calls to Set continue from where the last one stopped, so a single Values can
// initialize a whole Network deterministically.
func Values(vs ...float64) *values {
	return &values{vs: vs}
}

func (v *values) Set(ws []float64) {
	if len(v.vs) == 0 {
		return
	}

	for i := range ws {
		ws[i] = v.vs[v.i%len(v.vs)]
		v.i++
	}
}
