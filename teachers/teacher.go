// Package teachers implements backpropagation for backprop Networks, in online (per-sample) and
// offline (full batch) variants, both with momentum.
//
// A Teacher holds only its hyperparameters and datasets, which do not change after construction.
// All state that changes during training lives in the Network's Neurons, so one Teacher may train
// many Networks at once, from different goroutines.
package teachers

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/costfuncs"
)

// Mode selects between the two teaching algorithms
type Mode int8

const (
	Online Mode = iota
	Offline
)

func (m Mode) String() string {
	switch m {
	case Online:
		return "online"
	case Offline:
		return "offline"
	default:
		return fmt.Sprintf("Mode(%d)", int8(m))
	}
}

// ParseMode returns the Mode with the given name, as given by Mode.String
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "online", "on":
		return Online, nil
	case "offline", "off":
		return Offline, nil
	default:
		return 0, errors.Wrapf(ErrUnknownMode, "Can't parse mode %q", s)
	}
}

// Teacher trains Networks with backpropagation.
//
// Teach changes the Network's weights once; for online teachers this is a pass over the whole
// (shuffled) training set, and for offline teachers a single batch update. Verify and
// VerifyTraining give one error per output channel, measured on the verification and training
// sets respectively.
type Teacher interface {
	Teach(*bp.Network) error
	Verify(*bp.Network) ([]float64, error)
	VerifyTraining(*bp.Network) ([]float64, error)

	Name() string
	Alpha() float64
	Beta() float64
	Mode() Mode

	// Metric is the name of the unit counted by one call to Teach
	Metric() string

	TrainingSet() bp.Dataset
	VerificationSet() bp.Dataset

	// Cost reduces each output channel in Verify and VerifyTraining
	Cost() costfuncs.CostFunction
}

// Option configures a Teacher at construction
type Option func(*base)

// WithName sets the name of the Teacher, which otherwise is generated from its mode and
// hyperparameters.
func WithName(name string) Option {
	return func(b *base) { b.name = name }
}

func WithTrainingSet(d bp.Dataset) Option {
	return func(b *base) { b.training = d }
}

func WithVerificationSet(d bp.Dataset) Option {
	return func(b *base) { b.verification = d }
}

// WithData sets both the training and verification sets to the same Dataset
func WithData(d bp.Dataset) Option {
	return func(b *base) {
		b.training = d
		b.verification = d
	}
}

// WithCost sets how per-channel errors are measured by Verify. The default is
// costfuncs.HalfMSE.
func WithCost(c costfuncs.CostFunction) Option {
	return func(b *base) { b.cost = c }
}

// WithShuffle replaces the function used by online teachers to order the training set on each
// call to Teach. It must return a permutation of [0, n). It has no effect on offline teachers.
func WithShuffle(perm func(n int) []int) Option {
	return func(b *base) { b.perm = perm }
}

// New returns a Teacher of the given mode
func New(mode Mode, alpha, beta float64, opts ...Option) (Teacher, error) {
	switch mode {
	case Online:
		return NewOnline(alpha, beta, opts...)
	case Offline:
		return NewOffline(alpha, beta, opts...)
	default:
		return nil, errors.Wrapf(ErrUnknownMode, "Can't create teacher with mode %v", mode)
	}
}

// base is the shared part of both teachers
type base struct {
	name         string
	mode         Mode
	alpha, beta  float64
	training     bp.Dataset
	verification bp.Dataset
	cost         costfuncs.CostFunction
	perm         func(int) []int
}

func newBase(mode Mode, alpha, beta float64, opts []Option) (base, error) {
	if !(beta >= 0 && beta <= 1) {
		return base{}, errors.Wrapf(ErrBetaRange, "Can't create teacher with beta %v", beta)
	} else if !(alpha > 0) || math.IsInf(alpha, 0) {
		return base{}, errors.Wrapf(ErrAlphaRange, "Can't create teacher with alpha %v", alpha)
	}

	b := base{
		mode:  mode,
		alpha: alpha,
		beta:  beta,
		cost:  costfuncs.HalfMSE(),
	}

	for _, o := range opts {
		o(&b)
	}

	if b.name == "" {
		b.name = Label(mode, alpha, beta)
	}

	if b.cost == nil {
		return base{}, errors.Errorf("Can't create teacher, cost function is nil")
	}

	return b, nil
}

// Label gives the default name of a Teacher
func Label(mode Mode, alpha, beta float64) string {
	return fmt.Sprintf("%v α=%v β=%v", mode, alpha, beta)
}

func (b *base) Name() string                { return b.name }
func (b *base) Alpha() float64              { return b.alpha }
func (b *base) Beta() float64               { return b.beta }
func (b *base) Mode() Mode                  { return b.mode }
func (b *base) TrainingSet() bp.Dataset     { return b.training }
func (b *base) VerificationSet() bp.Dataset { return b.verification }

// Cost returns the CostFunction used by Verify
func (b *base) Cost() costfuncs.CostFunction { return b.cost }

func (b *base) Verify(net *bp.Network) ([]float64, error) {
	errs, err := verify(net, b.verification, b.cost)
	if err != nil {
		return nil, errors.Wrapf(err, "Verification of %q failed\n", net.Name())
	}

	return errs, nil
}

func (b *base) VerifyTraining(net *bp.Network) ([]float64, error) {
	errs, err := verify(net, b.training, b.cost)
	if err != nil {
		return nil, errors.Wrapf(err, "Verification of %q on training set failed\n", net.Name())
	}

	return errs, nil
}

// check makes sure the dataset can be used with the Network
func check(net *bp.Network, data bp.Dataset) error {
	if len(data) == 0 {
		return ErrEmptyDataset
	}

	return data.FitsNetwork(net)
}

// verify measures each output channel over the whole dataset
func verify(net *bp.Network, data bp.Dataset, cost costfuncs.CostFunction) ([]float64, error) {
	if err := check(net, data); err != nil {
		return nil, err
	}

	outs := make([][]float64, net.OutputSize())
	targets := make([][]float64, net.OutputSize())
	for c := range outs {
		outs[c] = make([]float64, len(data))
		targets[c] = make([]float64, len(data))
	}

	for i, s := range data {
		ans, err := net.Answer(s.Input)
		if err != nil {
			return nil, err
		}

		for c := range ans {
			outs[c][i] = ans[c]
			targets[c][i] = s.Expected[c]
		}
	}

	errs := make([]float64, len(outs))
	for c := range outs {
		errs[c] = cost.Cost(outs[c], targets[c])
	}

	return errs, nil
}

// update applies a single momentum step to a neuron, given its error signal and its input
func update(n *bp.Neuron, delta float64, input []float64, alpha, beta float64) error {
	grads := make([]float64, len(input))
	for i := range input {
		grads[i] = delta * input[i]
	}

	return n.Update(grads, delta, alpha, beta)
}
