// Package input reads datasets from delimited text, one sample per line: the input values
// followed by the expected output values.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
)

// ParsingError is returned for any line that can't be read as a sample
type ParsingError struct {
	// File is empty when parsing from a plain io.Reader
	File string
	Line int
	Err  error
}

func (err *ParsingError) Error() string {
	where := fmt.Sprintf("line %d", err.Line)
	if err.File != "" {
		where = fmt.Sprintf("%s:%d", err.File, err.Line)
	}

	return fmt.Sprintf("Parsing failed at %s! You probably picked the wrong separator or this network requires more inputs: %v", where, err.Err)
}

func (err *ParsingError) Cause() error  { return err.Err }
func (err *ParsingError) Unwrap() error { return err.Err }

// Parser reads samples from text. Blank lines are skipped; any other line that doesn't hold
// enough numbers fails the whole parse. Values after the expected outputs are ignored.
type Parser struct {
	Separator string

	// Transform, if not nil, is applied to each line before it is split
	Transform func(string) string
}

// DefaultSeparator is used by Parsers with no Separator
const DefaultSeparator = ";"

func (p Parser) Parse(r io.Reader, inputs, expected int) (bp.Dataset, error) {
	if inputs < 1 || expected < 1 {
		return nil, errors.Errorf("Can't parse samples with %d inputs and %d expected values", inputs, expected)
	}

	sep := p.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	var data bp.Dataset

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if p.Transform != nil {
			text = p.Transform(text)
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		s, err := parseLine(text, sep, inputs, expected)
		if err != nil {
			return nil, &ParsingError{Line: line, Err: err}
		}

		data = append(data, s)
	}

	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "Reading samples failed\n")
	}

	return data, nil
}

func parseLine(text, sep string, inputs, expected int) (bp.Sample, error) {
	fields := strings.Split(text, sep)
	if len(fields) < inputs+expected {
		return bp.Sample{}, errors.Errorf("Line has %d values, needs %d", len(fields), inputs+expected)
	}

	values := make([]float64, inputs+expected)
	for i := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return bp.Sample{}, errors.Wrapf(err, "Value %d", i)
		}

		values[i] = v
	}

	return bp.Sample{Input: values[:inputs:inputs], Expected: values[inputs:]}, nil
}

// ParseFile is Parse on the contents of a file. ParsingErrors include the file's path.
func (p Parser) ParseFile(path string, inputs, expected int) (bp.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't parse data file\n")
	}
	defer f.Close()

	data, err := p.Parse(f, inputs, expected)
	if pe, ok := err.(*ParsingError); ok {
		pe.File = path
	}

	return data, err
}
