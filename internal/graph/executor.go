package graph

import (
	"github.com/pkg/errors"
)

// Kernel executes a single recorded instruction, mutating the op's
// output tensors in place.
type Kernel func(op *OpDesc) error

// Registry maps operation types to kernels.
type Registry struct {
	kernels map[string]Kernel
}

// NewRegistry creates an empty kernel registry. Packages that own ops
// register their kernels on it (e.g., optim.RegisterAdagradKernel).
func NewRegistry() *Registry {
	return &Registry{
		kernels: make(map[string]Kernel),
	}
}

// Register adds a kernel for an operation type.
func (r *Registry) Register(opType string, kernel Kernel) {
	r.kernels[opType] = kernel
}

// Get returns the kernel for an operation type.
func (r *Registry) Get(opType string) (Kernel, bool) {
	k, ok := r.kernels[opType]
	return k, ok
}

// Executor runs recorded instruction blocks against a kernel registry.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an executor backed by the given registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Run executes every instruction in the container, in append order.
// Execution stops at the first failing instruction.
func (e *Executor) Run(c Container) error {
	block, err := AsBlock(c)
	if err != nil {
		return err
	}

	for i, op := range block.Ops() {
		kernel, ok := e.registry.Get(op.Type)
		if !ok {
			return errors.Errorf("instruction %d: no kernel registered for op type %q", i, op.Type)
		}
		if err := kernel(op); err != nil {
			return errors.Wrapf(err, "instruction %d (%s)", i, op.Type)
		}
	}
	return nil
}
