// Package graph provides the deferred-execution instruction container for
// the Tern ML library.
//
// Instead of mutating tensors immediately, a caller may record operations
// as instructions in a Block and execute them later through an Executor.
// Each instruction is an OpDesc: an operation type plus named input and
// output tensors and static attributes.
package graph

import (
	"github.com/tern-ml/tern/internal/tensor"
)

// OpDesc describes a single recorded operation.
//
// Outputs commonly alias inputs: an in-place update op declares the same
// tensor as both "Param" input and "ParamOut" output. Nothing is mutated
// until an Executor runs the instruction.
type OpDesc struct {
	Type    string                       // Operation type (e.g., "adagrad")
	Inputs  map[string]*tensor.RawTensor // Named input tensors
	Outputs map[string]*tensor.RawTensor // Named output tensors (may alias inputs)
	Attrs   map[string]any               // Static attributes

	// StopGradient marks the instruction as excluded from gradient
	// computation. Optimizer update ops always set this.
	StopGradient bool
}

// AttrFloat returns a float32 attribute or the default value.
func (op *OpDesc) AttrFloat(name string, defaultVal float32) float32 {
	if v, ok := op.Attrs[name].(float32); ok {
		return v
	}
	return defaultVal
}

// AttrBool returns a bool attribute or the default value.
func (op *OpDesc) AttrBool(name string, defaultVal bool) bool {
	if v, ok := op.Attrs[name].(bool); ok {
		return v
	}
	return defaultVal
}

// Input returns the named input tensor, or nil if absent.
func (op *OpDesc) Input(name string) *tensor.RawTensor {
	return op.Inputs[name]
}

// Output returns the named output tensor, or nil if absent.
func (op *OpDesc) Output(name string) *tensor.RawTensor {
	return op.Outputs[name]
}
