package graph

import (
	"github.com/pkg/errors"
)

// Container is an execution container that instructions can be appended
// to. The only recognized implementation is *Block; APIs that receive a
// Container must resolve it through AsBlock so an unknown type fails
// before any instruction is emitted.
type Container interface {
	// Ops returns the recorded instructions in append order.
	Ops() []*OpDesc
}

// Block is an append-only list of instructions. Appending does not
// execute anything; an Executor runs the recorded ops in order.
type Block struct {
	ops []*OpDesc
}

// NewBlock creates an empty instruction block.
func NewBlock() *Block {
	return &Block{}
}

// AppendOp records an instruction at the end of the block.
func (b *Block) AppendOp(op *OpDesc) {
	b.ops = append(b.ops, op)
}

// Ops returns the recorded instructions in append order.
func (b *Block) Ops() []*OpDesc {
	return b.ops
}

// Len returns the number of recorded instructions.
func (b *Block) Len() int {
	return len(b.ops)
}

// AsBlock resolves a Container to the concrete *Block.
// Returns a type error for nil or unrecognized container types.
func AsBlock(c Container) (*Block, error) {
	if c == nil {
		return nil, errors.New("nil execution container")
	}
	b, ok := c.(*Block)
	if !ok {
		return nil, errors.Errorf("unrecognized execution container type %T (want *graph.Block)", c)
	}
	return b, nil
}
