package teachers

// Error is a wrapper for errors for which there is no additional information necessary
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

var (
	ErrBetaRange    = Error{"Beta must have value in range [0; 1]"}
	ErrAlphaRange   = Error{"Alpha must be a finite number greater than 0"}
	ErrEmptyDataset = Error{"Dataset is empty"}
	ErrUnknownMode  = Error{"Unknown teaching mode"}

	ErrBadPermutation = Error{"Shuffle did not return a permutation of the training set"}
)
