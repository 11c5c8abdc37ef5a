package graph

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tern-ml/tern/internal/tensor"
)

// fakeContainer satisfies Container but is not a *Block.
type fakeContainer struct{}

func (fakeContainer) Ops() []*OpDesc { return nil }

func TestAsBlock(t *testing.T) {
	b := NewBlock()
	got, err := AsBlock(b)
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = AsBlock(nil)
	assert.Error(t, err)

	_, err = AsBlock(fakeContainer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized execution container")
}

func TestBlockAppendOrder(t *testing.T) {
	b := NewBlock()
	assert.Equal(t, 0, b.Len())

	first := &OpDesc{Type: "first"}
	second := &OpDesc{Type: "second"}
	b.AppendOp(first)
	b.AppendOp(second)

	require.Equal(t, 2, b.Len())
	assert.Same(t, first, b.Ops()[0])
	assert.Same(t, second, b.Ops()[1])
}

func TestOpDescAttrs(t *testing.T) {
	op := &OpDesc{
		Type: "test",
		Attrs: map[string]any{
			"epsilon":         float32(1e-6),
			"multi_precision": true,
		},
	}

	assert.Equal(t, float32(1e-6), op.AttrFloat("epsilon", 0))
	assert.Equal(t, float32(7), op.AttrFloat("missing", 7))
	assert.True(t, op.AttrBool("multi_precision", false))
	assert.False(t, op.AttrBool("missing", false))
}

func TestExecutorRun(t *testing.T) {
	x, err := tensor.FromFloat32([]float32{1}, tensor.Shape{1}, tensor.CPU)
	require.NoError(t, err)

	registry := NewRegistry()
	registry.Register("incr", func(op *OpDesc) error {
		op.Output("X").AsFloat32()[0]++
		return nil
	})

	block := NewBlock()
	block.AppendOp(&OpDesc{Type: "incr", Outputs: map[string]*tensor.RawTensor{"X": x}})
	block.AppendOp(&OpDesc{Type: "incr", Outputs: map[string]*tensor.RawTensor{"X": x}})

	require.NoError(t, NewExecutor(registry).Run(block))
	assert.Equal(t, float32(3), x.AsFloat32()[0])
}

func TestExecutorUnknownOp(t *testing.T) {
	block := NewBlock()
	block.AppendOp(&OpDesc{Type: "nope"})

	err := NewExecutor(NewRegistry()).Run(block)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no kernel registered")
}

func TestExecutorStopsOnKernelError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	registry := NewRegistry()
	registry.Register("ok", func(op *OpDesc) error { calls++; return nil })
	registry.Register("fail", func(op *OpDesc) error { return boom })

	block := NewBlock()
	block.AppendOp(&OpDesc{Type: "ok"})
	block.AppendOp(&OpDesc{Type: "fail"})
	block.AppendOp(&OpDesc{Type: "ok"})

	err := NewExecutor(registry).Run(block)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestExecutorRejectsForeignContainer(t *testing.T) {
	err := NewExecutor(NewRegistry()).Run(fakeContainer{})
	assert.Error(t, err)
}
