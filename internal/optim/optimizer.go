// Package optim implements optimization algorithms for training.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - Adagrad: per-parameter adaptive learning rates driven by a running
//     sum of squared gradients, with optional mixed-precision master
//     weights and per-group hyperparameter overrides
//
// Updates can run immediately, mutating parameters in place, or be
// recorded into a graph.Block for deferred execution.
//
// Example usage:
//
//	// Create optimizer
//	optimizer, err := optim.NewAdagrad(model.Parameters(), optim.AdagradConfig{
//	    LR: 0.1,
//	})
//
//	// Training loop
//	for epoch := range epochs {
//	    grads := computeGradients(model, batch) // external autodiff
//	    if err := optimizer.Step(grads); err != nil {
//	        return err
//	    }
//	    optimizer.ZeroGrad()
//	}
package optim

import (
	"github.com/tern-ml/tern/internal/nn"
	"github.com/tern-ml/tern/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers update parameters based on externally computed gradients.
// Gradient clipping and weight-decay regularization are the caller's
// responsibility; optimizers consume a final gradient.
type Optimizer interface {
	// Step applies gradient updates to all parameters, in place.
	//
	// Takes a gradient map keyed by the parameter's RawTensor. Parameters
	// without an entry are skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor) error

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	//
	// Useful for monitoring and learning rate scheduling.
	GetLR() float32
}

// getGradient safely retrieves the gradient for a parameter.
//
// Returns nil if no gradient is found (parameter wasn't part of the
// step's computation).
func getGradient(param *nn.Parameter, grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor()]
}
