package backprop_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/initializers"
)

const tolerance = 1e-12

func TestLayerActivate(t *testing.T) {
	for _, c := range []struct{ neurons, inputs int }{{1, 1}, {3, 2}, {4, 7}} {
		l, err := bp.NewLayer(c.neurons, c.inputs, bp.Sigmoid, true, initializers.Random(initializers.Uniform()))
		if err != nil {
			t.Fatal(err)
		}

		outs, err := l.Activate(make([]float64, c.inputs))
		if err != nil {
			t.Fatal(err)
		} else if len(outs) != c.neurons {
			t.Errorf("layer %dx%d gave %d outputs", c.neurons, c.inputs, len(outs))
		} else if len(l.LastOutput()) != c.neurons {
			t.Errorf("last output not cached")
		}

		_, err = l.Activate(make([]float64, c.inputs+1))
		var sm bp.SizeMismatchError
		if !errors.As(err, &sm) {
			t.Errorf("expected SizeMismatchError for wrong fan-in, got %v", err)
		}
	}
}

func TestSigmoidDerivative(t *testing.T) {
	for _, x := range []float64{-5, -1, 0, 1, 5} {
		out := bp.Out{Activation: bp.Sigmoid.Function(x), RawValue: x}
		direct := math.Exp(-x) / math.Pow(1+math.Exp(-x), 2)

		if d := bp.Sigmoid.Derivative(out); math.Abs(d-direct) > tolerance {
			t.Errorf("x = %v: shortcut derivative %v != direct %v", x, d, direct)
		}
	}
}

func TestIdentity(t *testing.T) {
	if bp.Identity.Function(-3.5) != -3.5 || bp.Identity.Derivative(bp.Out{}) != 1 {
		t.Fatal("identity is not identity")
	}
}

func TestNeuronActivate(t *testing.T) {
	n, err := bp.NewNeuron(2, bp.Identity, true, initializers.Values(2, -1, 0.5))
	if err != nil {
		t.Fatal(err)
	}

	out, err := n.Activate([]float64{3, 4})
	if err != nil {
		t.Fatal(err)
	}

	// 2*3 - 1*4 + 0.5
	if out.RawValue != 2.5 || out.Activation != 2.5 {
		t.Fatalf("got %+v", out)
	}

	if _, err := n.Activate([]float64{1}); err == nil {
		t.Fatal("expected error for short input")
	}
}

func TestNeuronWithoutBias(t *testing.T) {
	n, err := bp.NewNeuron(1, bp.Identity, false, initializers.Constant(1))
	if err != nil {
		t.Fatal(err)
	}

	if n.Bias != 0 {
		t.Fatalf("bias set on neuron without bias: %v", n.Bias)
	}

	if err := n.Update([]float64{1}, 10, 0.5, 0); err != nil {
		t.Fatal(err)
	}

	if n.Bias != 0 || n.PreviousBias() != 0 {
		t.Fatalf("bias changed on neuron without bias: %v, %v", n.Bias, n.PreviousBias())
	}
}

func TestUpdateWithoutMomentum(t *testing.T) {
	// whatever the previous weights are, beta = 0 must give plain gradient descent
	for _, prev := range []float64{-3, 0, 0.7} {
		n, err := bp.RestoreNeuron(bp.Sigmoid, true,
			bp.Snapshot{Weights: []float64{0.5, -0.25}, Bias: 0.1},
			bp.Snapshot{Weights: []float64{prev, prev}, Bias: prev})
		if err != nil {
			t.Fatal(err)
		}

		if err := n.Update([]float64{1, -2}, 0.5, 0.1, 0); err != nil {
			t.Fatal(err)
		}

		want := []float64{0.5 - 0.1*1, -0.25 - 0.1*-2}
		for i := range want {
			if math.Abs(n.Weights[i]-want[i]) > tolerance {
				t.Errorf("previous %v: weight %d = %v, want %v", prev, i, n.Weights[i], want[i])
			}
		}

		if wantBias := 0.1 - 0.1*0.5; math.Abs(n.Bias-wantBias) > tolerance {
			t.Errorf("previous %v: bias = %v, want %v", prev, n.Bias, wantBias)
		}
	}
}

func TestUpdateMomentum(t *testing.T) {
	n, err := bp.RestoreNeuron(bp.Identity, true,
		bp.Snapshot{Weights: []float64{1}, Bias: 1},
		bp.Snapshot{Weights: []float64{0.5}, Bias: 2})
	if err != nil {
		t.Fatal(err)
	}

	if err := n.Update([]float64{2}, 1, 0.1, 0.5); err != nil {
		t.Fatal(err)
	}

	// 1 - 0.1*2 + 0.5*(1 - 0.5)
	if w := n.Weights[0]; math.Abs(w-1.05) > tolerance {
		t.Errorf("weight = %v, want 1.05", w)
	}
	// 1 - 0.1*1 + 0.5*(1 - 2)
	if b := n.Bias; math.Abs(b-0.4) > tolerance {
		t.Errorf("bias = %v, want 0.4", b)
	}

	if n.PreviousWeights()[0] != 1 || n.PreviousBias() != 1 {
		t.Errorf("previous state is not the state before the update: %v, %v", n.PreviousWeights(), n.PreviousBias())
	}
}

func TestBuilderErrors(t *testing.T) {
	cases := []struct {
		name  string
		build func() (*bp.Network, error)
		want  error
	}{
		{"hidden before inputs", func() (*bp.Network, error) {
			return bp.NewBuilder().Name("n").DefaultActivation(bp.Sigmoid).
				HiddenLayer(2, true).Inputs(1).OutputLayer(1, true)
		}, bp.ErrInputsNotSet},
		{"output before inputs", func() (*bp.Network, error) {
			return bp.NewBuilder().Name("n").DefaultActivation(bp.Sigmoid).OutputLayer(1, true)
		}, bp.ErrInputsNotSet},
		{"no name", func() (*bp.Network, error) {
			return bp.NewBuilder().Inputs(1).DefaultActivation(bp.Sigmoid).OutputLayer(1, true)
		}, bp.ErrNameNotSet},
		{"no activation", func() (*bp.Network, error) {
			return bp.NewBuilder().Name("n").Inputs(1).HiddenLayer(2, true).OutputLayer(1, true, bp.Identity)
		}, bp.ErrNoActivation},
		{"no activation on output", func() (*bp.Network, error) {
			return bp.NewBuilder().Name("n").Inputs(1).HiddenLayer(2, true, bp.Sigmoid).OutputLayer(1, true)
		}, bp.ErrNoActivation},
		{"inputs twice", func() (*bp.Network, error) {
			return bp.NewBuilder().Name("n").Inputs(1).Inputs(2).DefaultActivation(bp.Sigmoid).OutputLayer(1, true)
		}, bp.ErrInputsAlreadySet},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			net, err := c.build()
			if net != nil {
				t.Fatal("network returned despite error")
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("got error %v, want %v", err, c.want)
			}
		})
	}
}

func TestBuilderTopology(t *testing.T) {
	net, err := bp.NewBuilder().
		Name("shape").
		Inputs(3).
		DefaultActivation(bp.Sigmoid).
		HiddenLayer(4, true).
		HiddenLayer(2, false).
		OutputLayer(5, true, bp.Identity)
	if err != nil {
		t.Fatal(err)
	}

	if net.InputSize() != 3 || net.OutputSize() != 5 || len(net.HiddenLayers()) != 2 {
		t.Fatalf("unexpected shape: %d in, %d out, %d hidden", net.InputSize(), net.OutputSize(), len(net.HiddenLayers()))
	}

	wantInputs := []int{3, 4, 2}
	for i, l := range net.Layers() {
		if l.Inputs() != wantInputs[i] {
			t.Errorf("layer %d has fan-in %d, want %d", i, l.Inputs(), wantInputs[i])
		}
	}

	if net.HiddenLayers()[1].HasBias() || net.OutputLayer().Activation() != bp.Identity {
		t.Error("layer options not applied")
	}

	out, err := net.Answer([]float64{0.1, 0.2, 0.3})
	if err != nil {
		t.Fatal(err)
	} else if len(out) != 5 {
		t.Fatalf("answer has %d values", len(out))
	}

	if _, err := net.Answer([]float64{1}); err == nil {
		t.Fatal("expected error for wrong input width")
	}
}

func TestAnswer(t *testing.T) {
	// every weight 1, no bias: hidden = 2*x, out = 2*hidden
	net, err := bp.NewBuilder().
		Name("doubler").
		Inputs(1).
		Initializer(initializers.Constant(1)).
		DefaultActivation(bp.Identity).
		HiddenLayer(2, false).
		OutputLayer(1, false)
	if err != nil {
		t.Fatal(err)
	}

	out, err := net.Answer([]float64{3})
	if err != nil {
		t.Fatal(err)
	}

	if out[0] != 6 {
		t.Fatalf("got %v, want 6", out[0])
	}

	if vs := net.HiddenLayers()[0].Values(); vs[0] != 3 || vs[1] != 3 {
		t.Fatalf("hidden cache not updated: %v", vs)
	}
}

func TestAssemble(t *testing.T) {
	in, _ := bp.NewLayer(3, 2, bp.Sigmoid, true, initializers.Constant(0))
	out, _ := bp.NewLayer(1, 2, bp.Sigmoid, true, initializers.Constant(0))

	if _, err := bp.Assemble("bad", []*bp.Layer{in}, out); err == nil {
		t.Fatal("expected error for mismatched layers")
	}

	out, _ = bp.NewLayer(1, 3, bp.Sigmoid, true, initializers.Constant(0))
	if _, err := bp.Assemble("", []*bp.Layer{in}, out); !errors.Is(err, bp.ErrNameNotSet) {
		t.Fatalf("expected ErrNameNotSet, got %v", err)
	}

	if _, err := bp.Assemble("good", []*bp.Layer{in}, out); err != nil {
		t.Fatal(err)
	}
}

func TestDatasetFitsAndSplit(t *testing.T) {
	d := bp.Dataset{
		{Input: []float64{1}, Expected: []float64{1, 0}},
		{Input: []float64{2}, Expected: []float64{0, 1}},
		{Input: []float64{3}, Expected: []float64{1, 0}},
	}

	if err := d.Fits(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := d.Fits(2, 2); err == nil {
		t.Fatal("expected error for wrong input width")
	}

	even, odd := d.Split(func(i int) bool { return i%2 == 0 })
	if len(even) != 2 || len(odd) != 1 || odd[0].Input[0] != 2 {
		t.Fatalf("bad split: %v / %v", even, odd)
	}
}

func TestActivationRegistry(t *testing.T) {
	a, err := bp.ActivationByName("sigmoid")
	if err != nil || a != bp.Sigmoid {
		t.Fatalf("sigmoid not registered: %v", err)
	}

	if err := bp.RegisterActivation(bp.Identity); err == nil {
		t.Fatal("expected error registering a duplicate")
	}

	if _, err := bp.ActivationByName("nope"); err == nil {
		t.Fatal("expected error for unknown activation")
	}
}
