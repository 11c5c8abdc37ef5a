// Copyright 2025 Tern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public API for deferred execution in the
// Tern ML library.
//
// Optimizer updates can be recorded as instructions into a Block instead
// of executing immediately, then run later through an Executor:
//
//	block := graph.NewBlock()
//	if err := optimizer.StepGraph(block, grads); err != nil {
//	    return err
//	}
//
//	registry := graph.NewRegistry()
//	optim.RegisterAdagradKernel(registry)
//	if err := graph.NewExecutor(registry).Run(block); err != nil {
//	    return err
//	}
package graph

import (
	"github.com/tern-ml/tern/internal/graph"
)

// Container is an execution container instructions can be appended to.
type Container = graph.Container

// Block is an append-only instruction list; the only recognized
// Container implementation.
type Block = graph.Block

// OpDesc describes a single recorded operation.
type OpDesc = graph.OpDesc

// Kernel executes a single recorded instruction in place.
type Kernel = graph.Kernel

// Registry maps operation types to kernels.
type Registry = graph.Registry

// Executor runs recorded instruction blocks.
type Executor = graph.Executor

// NewBlock creates an empty instruction block.
func NewBlock() *Block {
	return graph.NewBlock()
}

// NewRegistry creates an empty kernel registry.
func NewRegistry() *Registry {
	return graph.NewRegistry()
}

// NewExecutor creates an executor backed by the given registry.
func NewExecutor(registry *Registry) *Executor {
	return graph.NewExecutor(registry)
}
