package backprop

import (
	"fmt"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables, and can be compared against with
// errors.Cause or errors.Is.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned during construction of a Network.
var (
	ErrInputsNotSet     = Error{"You have to set the network's inputs count before adding layers"}
	ErrInputsAlreadySet = Error{"Inputs count can only be set once, before any layers"}
	ErrNameNotSet       = Error{"You have to set a name for the network"}
	ErrNoActivation     = Error{"Activation function not chosen! Set a default activation or pass one to the layer"}
	ErrFinalized        = Error{"Network has already been finalized by OutputLayer"}

	ErrRegisterDuplicate = Error{"Name is already registered"}
	ErrRegisterNil       = Error{"Registered value is nil"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// SizeMismatchError is returned when a vector handed to a Neuron, Layer or Network does not have
// the width that was declared at construction.
type SizeMismatchError struct {
	Where    string
	Expected int
	Got      int
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("%s requires %d values on input! Passed %d values", err.Where, err.Expected, err.Got)
}
