// Package backprop provides fully-connected feed-forward neural networks, along with the pieces
// needed to train them by backpropagation.
//
// Creating Networks
//
// Networks are made with a Builder:
//
//		net, err := bp.NewBuilder().
//			Name("approximation").
//			Inputs(1).
//			DefaultActivation(bp.Sigmoid).
//			HiddenLayer(5, true).
//			OutputLayer(1, true, bp.Identity)
//
// For brevity, backprop is abbreviated 'bp'.
//
// Inputs must be set before any layers are added, and each layer must have an activation, either
// given explicitly or through DefaultActivation. The weights of each Neuron are drawn from the
// Builder's Initializer, or from the package default. Importing the subpackage "initializers"
// sets the default to a uniform distribution over [-1, 1], which is also what is used if it is not
// imported.
//
// Training
//
// Networks themselves only compute answers (with Answer). The backpropagation algorithms are
// implemented by the subpackage "teachers", which changes the weights of a Network's Neurons
// through Neuron.Update. Every Neuron keeps the weights it had before its latest update, which is
// what gives momentum to the next one.
//
// Running many training processes (possibly concurrently) until they reach an error goal is done
// by the subpackage "learning", and the results can be aggregated with "collectors".
//
// Concurrency
//
// A Network caches the outputs of the most recent forward pass in its Layers, so it must only be
// used by one goroutine at a time. Datasets and teachers are never modified by training, and can
// be shared freely.
package backprop
