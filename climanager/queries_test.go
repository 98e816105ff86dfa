package climanager

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func prompter(in string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(in), &out), &out
}

func TestQueryTF(t *testing.T) {
	p, out := prompter("maybe\nyes\nn\nq\n")

	if v, quit, err := p.QueryTF(); !v || quit || err != nil {
		t.Fatalf("first query: %v %v %v", v, quit, err)
	}
	if !strings.Contains(out.String(), "Please enter 'y' or 'n'") {
		t.Errorf("no complaint about invalid answer: %q", out.String())
	}

	if v, quit, err := p.QueryTF(); v || quit || err != nil {
		t.Fatalf("second query: %v %v %v", v, quit, err)
	}

	if _, quit, err := p.QueryTF(); !quit || err != nil {
		t.Fatalf("third query should quit: %v %v", quit, err)
	}

	if _, _, err := p.QueryTF(); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestQueryString(t *testing.T) {
	p, out := prompter("hello\n  \n world \n")

	if s, _, err := p.QueryString(nil); s != "hello" || err != nil {
		t.Fatalf("without check: %q %v", s, err)
	}

	notEmpty := func(s string) string {
		if s == "" {
			return "Can't be empty: "
		}
		return ""
	}

	if s, _, err := p.QueryString(notEmpty); s != "world" || err != nil {
		t.Fatalf("with check: %q %v", s, err)
	}

	if got := out.String(); got != "Can't be empty: " {
		t.Errorf("unexpected prompts %q", got)
	}
}

func TestQueryMask(t *testing.T) {
	p, out := prompter("0000\n101\n1011\n")

	m, quit, err := p.QueryMask(4)
	if err != nil || quit {
		t.Fatal(quit, err)
	}

	if m.String() != "1011" || m.Kept() != 3 {
		t.Errorf("got mask %s", m)
	}

	if n := strings.Count(out.String(), "Invalid mask!"); n != 2 {
		t.Errorf("expected 2 complaints, got %d: %q", n, out.String())
	}
}
