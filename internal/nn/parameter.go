// Package nn provides the trainable parameter type for the Tern ML library.
package nn

import (
	"github.com/tern-ml/tern/internal/tensor"
)

// Parameter represents a trainable parameter.
//
// Parameters are tensors that are updated by an optimizer during training.
// Each parameter carries a stable unique name; optimizers key persistent
// per-parameter state (accumulators, master weights) on that name. A
// parameter's shape never changes across training steps.
//
// Example:
//
//	w, _ := tensor.FromFloat32([]float32{0.1, 0.2}, tensor.Shape{2}, tensor.CPU)
//	weight := nn.NewParameter("linear1.weight", w)
type Parameter struct {
	name   string            // Stable unique name (e.g., "linear1.weight")
	tensor *tensor.RawTensor // The parameter tensor
	grad   *tensor.RawTensor // Gradient tensor, supplied externally each step
}

// NewParameter creates a new trainable parameter.
//
// The tensor should be initialized before creating the Parameter. The
// gradient slot starts empty and is set by the training loop each step.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.RawTensor {
	return p.tensor
}

// Grad returns the gradient tensor.
//
// Returns nil if no gradient has been supplied for the current step.
func (p *Parameter) Grad() *tensor.RawTensor {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter) SetGrad(grad *tensor.RawTensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
//
// This should be called after each optimizer step so stale gradients are
// never reapplied.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
