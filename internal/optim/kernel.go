package optim

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tern-ml/tern/internal/graph"
	"github.com/tern-ml/tern/internal/tensor"
)

// AdagradOpType is the operation type for the recorded Adagrad update
// instruction.
const AdagradOpType = "adagrad"

// Named inputs/outputs of the recorded Adagrad instruction. Every output
// aliases the input of the same role.
const (
	inParam        = "Param"
	inGrad         = "Grad"
	inMoment       = "Moment"
	inLearningRate = "LearningRate"
	inMasterParam  = "MasterParam"

	outParam       = "ParamOut"
	outMoment      = "MomentOut"
	outMasterParam = "MasterParamOut"

	attrEpsilon        = "epsilon"
	attrMultiPrecision = "multi_precision"
)

// adagradUpdate applies the update rule elementwise:
//
//	moment += grad * grad
//	param  -= lr * grad / (sqrt(moment) + eps)
//
// With a master weight present, the arithmetic runs on the master weight
// in full precision and the externally visible parameter receives the
// down-cast copy of the result. The update is unconditional; any clipping
// or regularization happened upstream.
func adagradUpdate(param, grad, moment, master *tensor.RawTensor, lr, eps float32) error {
	if !grad.Shape().Equal(param.Shape()) {
		return errors.Errorf("gradient shape %v does not match parameter shape %v", grad.Shape(), param.Shape())
	}
	target := param
	if master != nil {
		target = master
	}
	if !moment.Shape().Equal(target.Shape()) {
		return errors.Errorf("accumulator shape %v does not match shape %v", moment.Shape(), target.Shape())
	}

	n := param.NumElements()

	// Fast path: everything float32 (the common case, and always the
	// case when a master weight is present).
	if target.DType() == tensor.Float32 && moment.DType() == tensor.Float32 && grad.DType() == tensor.Float32 {
		w := target.AsFloat32()
		mo := moment.AsFloat32()
		g32 := grad.AsFloat32()
		for i := 0; i < n; i++ {
			g := g32[i]
			mo[i] += g * g
			w[i] -= lr * g / (float32(math.Sqrt(float64(mo[i]))) + eps)
			if master != nil {
				param.SetFloatAt(i, w[i])
			}
		}
		return nil
	}

	// Generic path: decode/encode through each tensor's dtype. Covers
	// reduced-precision accumulation and mixed-dtype gradients.
	for i := 0; i < n; i++ {
		g := grad.FloatAt(i)
		m := moment.FloatAt(i) + g*g
		moment.SetFloatAt(i, m)
		w := target.FloatAt(i) - lr*g/(float32(math.Sqrt(float64(m)))+eps)
		target.SetFloatAt(i, w)
		if master != nil {
			param.SetFloatAt(i, w)
		}
	}
	return nil
}

// adagradKernel executes a recorded Adagrad instruction. It is the
// deferred-mode counterpart of the immediate update: all validation the
// immediate path does at construction or emission time is reasserted
// here, because the instruction may outlive the optimizer that built it.
func adagradKernel(op *graph.OpDesc) error {
	param := op.Input(inParam)
	grad := op.Input(inGrad)
	moment := op.Input(inMoment)
	lrTensor := op.Input(inLearningRate)
	if param == nil || grad == nil || moment == nil {
		return errors.New("adagrad instruction requires Param, Grad and Moment inputs")
	}
	if lrTensor == nil {
		return errors.New("adagrad instruction is missing its LearningRate input")
	}
	if lrTensor.DType() != tensor.Float32 || lrTensor.NumElements() != 1 {
		return errors.Errorf("LearningRate input must be a 1-element float32 tensor, got %s with %d elements",
			lrTensor.DType(), lrTensor.NumElements())
	}

	eps := op.AttrFloat(attrEpsilon, 0)
	if !validEpsilon(eps) {
		return errors.Errorf("adagrad instruction is missing a valid epsilon attribute (got %v)", eps)
	}

	var master *tensor.RawTensor
	if op.AttrBool(attrMultiPrecision, false) {
		master = op.Input(inMasterParam)
		if master == nil {
			return errors.New("adagrad instruction has multi_precision set but no MasterParam input")
		}
	}

	lr := lrTensor.AsFloat32()[0]
	return adagradUpdate(param, grad, moment, master, lr, eps)
}

// RegisterAdagradKernel installs the Adagrad kernel into a graph kernel
// registry, so an Executor can run blocks produced by StepGraph.
func RegisterAdagradKernel(r *graph.Registry) {
	r.Register(AdagradOpType, adagradKernel)
}
