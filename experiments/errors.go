package experiments

import "fmt"

// UnfulfilledExpectationsError is returned when an experiment is given data it can't use, like
// the wrong number of files
type UnfulfilledExpectationsError struct {
	Experiment string
	Msg        string
}

func (err *UnfulfilledExpectationsError) Error() string {
	return fmt.Sprintf("Experiment %q: %s", err.Experiment, err.Msg)
}

func unfulfilled(experiment, format string, args ...interface{}) error {
	return &UnfulfilledExpectationsError{experiment, fmt.Sprintf(format, args...)}
}
