// Package climanager asks the user for values on the command line, for experiments that need
// more than their flags.
//
// Every query repeats until it gets a valid answer, and reports whether the user quit instead
// (by entering "quit" or "q").
package climanager

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/sharnoff/backprop/input"
)

// ErrNoInput is returned by every query if the input runs out before a valid answer is given
var ErrNoInput = errors.New("No more input")

// Prompter reads answers from one source, and writes prompts and complaints about invalid answers
// to another
type Prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{bufio.NewScanner(in), out}
}

// next returns the next line of input, and whether the user quit
func (p *Prompter) next() (string, bool, error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", false, errors.Wrapf(err, "Can't read input\n")
		}
		return "", false, ErrNoInput
	}

	text := strings.TrimSpace(p.sc.Text())
	return text, text == "quit" || text == "q", nil
}

// Prompt writes the message, without a newline
func (p *Prompter) Prompt(msg string) {
	fmt.Fprint(p.out, msg)
}

// returns user input of true/false, whether or not user quits
//
// in case of other return states (error or quit), booleans default to 'false'
func (p *Prompter) QueryTF() (bool, bool, error) {
	for {
		text, quit, err := p.next()
		if err != nil || quit {
			return false, quit, err
		}

		switch text {
		case "y", "yes":
			return true, false, nil
		case "n", "no":
			return false, false, nil
		default:
			p.Prompt("Please enter 'y' or 'n': ")
		}
	}
}

// QueryString gets a string from user input. 'isValid' returns a complaint if the string can't be
// used, which is printed before asking again; an empty complaint accepts it. 'isValid' may be nil.
func (p *Prompter) QueryString(isValid func(string) string) (string, bool, error) {
	for {
		text, quit, err := p.next()
		if err != nil || quit {
			return "", quit, err
		}

		if isValid == nil {
			return text, false, nil
		} else if msg := isValid(text); msg != "" {
			p.Prompt(msg)
		} else {
			return text, false, nil
		}
	}
}

// QueryMask asks for a field mask of '0's and '1's, one for each of 'fields' input fields
func (p *Prompter) QueryMask(fields int) (input.FieldMask, bool, error) {
	p.Prompt(fmt.Sprintf("Fields mask (%d characters of '0' or '1'): ", fields))

	text, quit, err := p.QueryString(func(s string) string {
		if _, err := input.ParseMask(s, fields); err != nil {
			return "Invalid mask! Try again: "
		}
		return ""
	})
	if err != nil || quit {
		return nil, quit, err
	}

	m, err := input.ParseMask(text, fields)
	return m, false, err
}
