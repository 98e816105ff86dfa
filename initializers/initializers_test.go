package initializers

import (
	"testing"
)

func TestUniformBounds(t *testing.T) {
	Seed(1)

	ws := make([]float64, 1000)
	Random(Uniform().Bounds(0.5, -0.5)).Set(ws)

	for i, w := range ws {
		if w < -0.5 || w >= 0.5 {
			t.Fatalf("weight %d out of bounds: %v", i, w)
		}
	}
}

func TestDefaultRange(t *testing.T) {
	ws := make([]float64, 1000)
	Random(Uniform()).Set(ws)

	for i, w := range ws {
		if w < -1 || w >= 1 {
			t.Fatalf("weight %d out of [-1, 1): %v", i, w)
		}
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a, b := make([]float64, 10), make([]float64, 10)

	Seed(42)
	Random(Normal()).Set(a)
	Seed(42)
	Random(Normal()).Set(b)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d differs after reseeding: %v != %v", i, a[i], b[i])
		}
	}
}

func TestTruncNormal(t *testing.T) {
	if err := SetDefault("normal-mean", 3); err != nil {
		t.Fatal(err)
	}
	defer SetDefault("normal-mean", 0)
	if err := SetDefault("normal-sd", 0.5); err != nil {
		t.Fatal(err)
	}
	defer SetDefault("normal-sd", 1)

	ws := make([]float64, 1000)
	Random(TruncNormal()).Set(ws)

	for i, w := range ws {
		if w < 2 || w > 4 {
			t.Fatalf("weight %d outside truncation: %v", i, w)
		}
	}
}

func TestValues(t *testing.T) {
	v := Values(1, 2, 3)

	a, b := make([]float64, 2), make([]float64, 3)
	v.Set(a)
	v.Set(b)

	want := []float64{1, 2, 3, 1, 2}
	got := append(a, b...)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSetDefault(t *testing.T) {
	if err := SetDefault("nope", 1); err == nil {
		t.Fatal("expected error for unknown name")
	}

	if err := SetDefault("normal-sd", 2); err != nil {
		t.Fatal(err)
	}
	defer SetDefault("normal-sd", 1)

	if n := Normal(); n.σ != 2 {
		t.Fatalf("default sd not applied: %v", n.σ)
	}
}

func TestByName(t *testing.T) {
	ws := make([]float64, 1000)

	in, err := ByName("uniform", 0.1)
	if err != nil {
		t.Fatal(err)
	}
	in.Set(ws)
	for i, w := range ws {
		if w < -0.1 || w >= 0.1 {
			t.Fatalf("weight %d out of [-0.1, 0.1): %v", i, w)
		}
	}

	for _, name := range []string{"normal", "truncnormal"} {
		if _, err := ByName(name, 0); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	for _, c := range []struct {
		name  string
		bound float64
	}{
		{"uniform", 0},
		{"uniform", -1},
		{"sideways", 1},
	} {
		if _, err := ByName(c.name, c.bound); err == nil {
			t.Errorf("expected error for %s with bound %v", c.name, c.bound)
		}
	}
}
