package freezer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/initializers"
)

func network(t *testing.T, name string) *bp.Network {
	net, err := bp.NewBuilder().
		Name(name).
		Inputs(2).
		DefaultActivation(bp.Sigmoid).
		HiddenLayer(3, true).
		HiddenLayer(2, false).
		OutputLayer(1, true, bp.Identity)
	if err != nil {
		t.Fatal(err)
	}

	// give the neurons a previous state different from the current one
	for _, l := range net.Layers() {
		for _, n := range l.Neurons() {
			grads := make([]float64, n.Inputs())
			for i := range grads {
				grads[i] = 0.1
			}
			if err := n.Update(grads, 0.2, 1, 0); err != nil {
				t.Fatal(err)
			}
		}
	}

	return net
}

func sameNetwork(t *testing.T, a, b *bp.Network) {
	t.Helper()

	if a.Name() != b.Name() {
		t.Fatalf("names differ: %q, %q", a.Name(), b.Name())
	}

	la, lb := a.Layers(), b.Layers()
	if len(la) != len(lb) {
		t.Fatalf("%d layers, %d layers", len(la), len(lb))
	}

	for i := range la {
		if la[i].Activation() != lb[i].Activation() || la[i].HasBias() != lb[i].HasBias() || la[i].Size() != lb[i].Size() {
			t.Fatalf("layer %d differs", i)
		}

		for j := range la[i].Neurons() {
			na, nb := la[i].Neuron(j), lb[i].Neuron(j)
			pa, pb := na.Previous(), nb.Previous()
			if na.Bias != nb.Bias || pa.Bias != pb.Bias {
				t.Fatalf("layer %d neuron %d: bias differs", i, j)
			}
			for w := range na.Weights {
				if na.Weights[w] != nb.Weights[w] || pa.Weights[w] != pb.Weights[w] {
					t.Fatalf("layer %d neuron %d: weight %d differs", i, j, w)
				}
			}
		}
	}

	input := []float64{0.3, -0.7}
	oa, _ := a.Answer(input)
	ob, _ := b.Answer(input)
	if oa[0] != ob[0] {
		t.Fatalf("answers differ: %v, %v", oa, ob)
	}
}

func testStore(t *testing.T, s Store) {
	net := network(t, "4-2-4 bias")

	if err := s.Save(net); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load("4-2-4 bias")
	if err != nil {
		t.Fatal(err)
	}
	sameNetwork(t, net, loaded)

	// saving again replaces the stored network
	if err := s.Save(network(t, "4-2-4 bias")); err != nil {
		t.Fatal(err)
	}

	_, err = s.Load("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var ce *CorruptError
	if errors.As(err, &ce) {
		t.Fatal("missing network reported as corrupt")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "freezer"))
	if err != nil {
		t.Fatal(err)
	}

	testStore(t, s)
}

func TestFileStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	for name, content := range map[string]string{
		"truncated": `{"name": "truncated", "hiddenLayers": [`,
		"renamed":   `{"name": "other", "outputLayer": {"activation": "identity", "neurons": [{"weights": [1], "previousWeights": [1]}]}}`,
		"unknown":   `{"name": "unknown", "outputLayer": {"activation": "softsign", "neurons": [{"weights": [1], "previousWeights": [1]}]}}`,
	} {
		if err := os.WriteFile(filepath.Join(dir, name+Extension), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := s.Load(name)
		var ce *CorruptError
		if !errors.As(err, &ce) || ce.Name != name {
			t.Errorf("%s: expected CorruptError, got %v", name, err)
		}
		if errors.Is(err, ErrNotFound) {
			t.Errorf("%s: corrupt network reported as not found", name)
		}
	}
}

func TestFileStoreRejectsPaths(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"", "../escape", `a\b`, ".."} {
		if _, err := s.Path(name); err == nil {
			t.Errorf("name %q accepted", name)
		}
	}
}

func TestSQLStore(t *testing.T) {
	s, err := NewSQLStore(filepath.Join(t.TempDir(), "networks.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	testStore(t, s)

	names, err := s.Names()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "4-2-4 bias" {
		t.Fatalf("stored names %v", names)
	}
}

func TestLoadAll(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	initializers.Seed(3)
	if err := SaveAll(s, []*bp.Network{network(t, "a"), network(t, "b")}); err != nil {
		t.Fatal(err)
	}

	nets, err := LoadAll(s, []string{"a", "b"})
	if err != nil || len(nets) != 2 {
		t.Fatalf("LoadAll: %d networks, %v", len(nets), err)
	}

	nets, err = LoadAll(s, []string{"a", "b", "c"})
	if !errors.Is(err, ErrNotFound) || nets != nil {
		t.Fatalf("partial load should fail with ErrNotFound, got %v", err)
	}
}
