package costfuncs

import (
	"math"
	"strings"
	"testing"
)

func TestCosts(t *testing.T) {
	outs := []float64{1, 2, 3}
	targets := []float64{1, 0, 5}

	cases := []struct {
		c    CostFunction
		want float64
	}{
		{MSE(), 8.0 / 3},
		{HalfMSE(), 8.0 / 6},
		{Abs(), 4.0 / 3},
		// |d| = 0, 2, 2 with δ = 1: 0 + 1.5 + 1.5
		{Huber(1), 3.0 / 3},
	}

	for _, c := range cases {
		if got := c.c.Cost(outs, targets); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("%s: got %v, want %v", c.c.TypeString(), got, c.want)
		}
	}
}

func TestCrossEntropyFinite(t *testing.T) {
	got := CrossEntropy().Cost([]float64{0, 1, 0.5}, []float64{1, 0, 1})
	if math.IsInf(got, 0) || math.IsNaN(got) || got <= 0 {
		t.Fatalf("cross-entropy not finite and positive: %v", got)
	}

	if perfect := CrossEntropy().Cost([]float64{1, 0}, []float64{1, 0}); perfect > 1e-9 {
		t.Fatalf("perfect answers gave %v", perfect)
	}
}

func TestGet(t *testing.T) {
	for _, name := range []string{"mse", "half-mse", "abs", "huber", "cross-entropy"} {
		c, err := Get(name)
		if err != nil {
			t.Fatal(err)
		} else if c.TypeString() != name {
			t.Errorf("Get(%q) returned %q", name, c.TypeString())
		}
	}

	if _, err := Get("nope"); err == nil {
		t.Fatal("expected error for unknown name")
	}

	if err := Register(func() CostFunction { return MSE() }); err == nil {
		t.Fatal("expected error for duplicate registration")
	}
}

func TestNames(t *testing.T) {
	want := "abs cross-entropy half-mse huber mse"
	if got := strings.Join(Names(), " "); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
