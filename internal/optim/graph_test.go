package optim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tern-ml/tern/internal/graph"
	"github.com/tern-ml/tern/internal/nn"
	"github.com/tern-ml/tern/internal/optim"
	"github.com/tern-ml/tern/internal/tensor"
)

func newExecutor() *graph.Executor {
	registry := graph.NewRegistry()
	optim.RegisterAdagradKernel(registry)
	return graph.NewExecutor(registry)
}

// TestStepGraph_InstructionSchema verifies the recorded instruction:
// inputs Param/Grad/Moment/LearningRate, outputs aliasing their inputs,
// static attrs epsilon and multi_precision, excluded from gradients.
func TestStepGraph_InstructionSchema(t *testing.T) {
	param := newParam(t, "x", []float32{1.0, 2.0})
	optimizer, err := optim.NewAdagrad([]*nn.Parameter{param}, optim.AdagradConfig{LR: 0.1})
	require.NoError(t, err)

	block := graph.NewBlock()
	grad := newGrad(t, []float32{0.5, 0.0})
	require.NoError(t, optimizer.StepGraph(block, gradsFor(param, grad)))

	require.Equal(t, 1, block.Len())
	op := block.Ops()[0]

	assert.Equal(t, optim.AdagradOpType, op.Type)
	assert.True(t, op.StopGradient)

	assert.Same(t, param.Tensor(), op.Input("Param"))
	assert.Same(t, grad, op.Input("Grad"))
	require.NotNil(t, op.Input("Moment"))
	require.NotNil(t, op.Input("LearningRate"))
	assert.Nil(t, op.Input("MasterParam"))

	// Outputs alias inputs: the executed instruction mutates in place.
	assert.Same(t, op.Input("Param"), op.Output("ParamOut"))
	assert.Same(t, op.Input("Moment"), op.Output("MomentOut"))

	assert.Equal(t, optim.DefaultEpsilon, op.AttrFloat("epsilon", 0))
	assert.False(t, op.AttrBool("multi_precision", true))
}

// TestStepGraph_DeferredExecution verifies nothing is mutated at record
// time, and that executing the block matches immediate mode bit for bit.
func TestStepGraph_DeferredExecution(t *testing.T) {
	immediate := newParam(t, "x", []float32{1.0, 2.0})
	deferred := newParam(t, "x", []float32{1.0, 2.0})

	optImmediate, err := optim.NewAdagrad([]*nn.Parameter{immediate}, optim.AdagradConfig{LR: 0.1})
	require.NoError(t, err)
	optDeferred, err := optim.NewAdagrad([]*nn.Parameter{deferred}, optim.AdagradConfig{LR: 0.1})
	require.NoError(t, err)

	require.NoError(t, optImmediate.Step(gradsFor(immediate, newGrad(t, []float32{0.5, 0.0}))))

	block := graph.NewBlock()
	require.NoError(t, optDeferred.StepGraph(block, gradsFor(deferred, newGrad(t, []float32{0.5, 0.0}))))

	// Recording mutates nothing.
	assert.Equal(t, []float32{1.0, 2.0}, deferred.Tensor().AsFloat32())
	assert.Equal(t, float32(0), optDeferred.StateDict()["moment.x"].AsFloat32()[0])

	require.NoError(t, newExecutor().Run(block))

	assert.Equal(t, immediate.Tensor().AsFloat32(), deferred.Tensor().AsFloat32())
	assert.Equal(t,
		optImmediate.StateDict()["moment.x"].AsFloat32(),
		optDeferred.StateDict()["moment.x"].AsFloat32())
}

// TestStepGraph_MultiPrecision verifies the master weight flows through
// the instruction and its output aliases the input.
func TestStepGraph_MultiPrecision(t *testing.T) {
	param := newHalfParam(t, "w", []float32{1.0, 2.0}, tensor.Float16)
	optimizer, err := optim.NewAdagrad([]*nn.Parameter{param}, optim.AdagradConfig{
		LR:             0.1,
		MultiPrecision: true,
	})
	require.NoError(t, err)

	grad, err := tensor.FromFloat32([]float32{0.5, 0.0}, tensor.Shape{2}, tensor.CPU)
	require.NoError(t, err)

	block := graph.NewBlock()
	require.NoError(t, optimizer.StepGraph(block, map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor(): grad}))

	op := block.Ops()[0]
	assert.True(t, op.AttrBool("multi_precision", false))
	require.NotNil(t, op.Input("MasterParam"))
	assert.Same(t, op.Input("MasterParam"), op.Output("MasterParamOut"))

	require.NoError(t, newExecutor().Run(block))

	master := optimizer.StateDict()["master.w"]
	assert.InDelta(t, 0.9, master.AsFloat32()[0], 1e-5)
	assert.Equal(t, tensor.Float32ToFloat16(master.AsFloat32()[0]), param.Tensor().AsUint16()[0])
}

// fakeContainer satisfies graph.Container but is not a *graph.Block.
type fakeContainer struct{}

func (fakeContainer) Ops() []*graph.OpDesc { return nil }

// TestStepGraph_RejectsUnknownContainer verifies the type check fires
// before any instruction is emitted or state created.
func TestStepGraph_RejectsUnknownContainer(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	optimizer, err := optim.NewAdagrad([]*nn.Parameter{param}, optim.AdagradConfig{LR: 0.1})
	require.NoError(t, err)

	err = optimizer.StepGraph(fakeContainer{}, gradsFor(param, newGrad(t, []float32{1.0})))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized execution container")

	err = optimizer.StepGraph(nil, gradsFor(param, newGrad(t, []float32{1.0})))
	require.Error(t, err)

	// No accumulator was created by the failed calls.
	assert.Empty(t, optimizer.StateDict())
}

// TestStepGraph_ShapeMismatchEmitsNothing verifies emission stops with
// an error on a bad gradient and the block stays consistent.
func TestStepGraph_ShapeMismatchEmitsNothing(t *testing.T) {
	param := newParam(t, "x", []float32{1.0, 2.0})
	optimizer, err := optim.NewAdagrad([]*nn.Parameter{param}, optim.AdagradConfig{LR: 0.1})
	require.NoError(t, err)

	block := graph.NewBlock()
	err = optimizer.StepGraph(block, gradsFor(param, newGrad(t, []float32{1.0})))
	require.Error(t, err)
	assert.Equal(t, 0, block.Len())
}

// TestAdagradKernel_Validation exercises the kernel's own precondition
// checks on hand-built instructions.
func TestAdagradKernel_Validation(t *testing.T) {
	mk := func(n int) *tensor.RawTensor {
		raw, err := tensor.Full(tensor.Shape{n}, tensor.Float32, 1.0, tensor.CPU)
		require.NoError(t, err)
		return raw
	}
	lr := mk(1)

	base := func() *graph.OpDesc {
		return &graph.OpDesc{
			Type: optim.AdagradOpType,
			Inputs: map[string]*tensor.RawTensor{
				"Param":        mk(2),
				"Grad":         mk(2),
				"Moment":       mk(2),
				"LearningRate": lr,
			},
			Attrs:        map[string]any{"epsilon": float32(1e-6)},
			StopGradient: true,
		}
	}

	run := func(op *graph.OpDesc) error {
		block := graph.NewBlock()
		block.AppendOp(op)
		return newExecutor().Run(block)
	}

	require.NoError(t, run(base()))

	missingLR := base()
	delete(missingLR.Inputs, "LearningRate")
	assert.ErrorContains(t, run(missingLR), "LearningRate")

	missingEps := base()
	missingEps.Attrs = nil
	assert.ErrorContains(t, run(missingEps), "epsilon")

	missingMaster := base()
	missingMaster.Attrs["multi_precision"] = true
	assert.ErrorContains(t, run(missingMaster), "MasterParam")

	missingMoment := base()
	delete(missingMoment.Inputs, "Moment")
	assert.Error(t, run(missingMoment))

	badLR := base()
	badLR.Inputs["LearningRate"] = mk(3)
	assert.ErrorContains(t, run(badLR), "1-element")
}
