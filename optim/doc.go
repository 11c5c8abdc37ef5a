// Copyright 2025 Tern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training.
//
// # Overview
//
// This package contains:
//   - Adagrad: per-parameter adaptive learning rates driven by a running
//     sum of squared gradients
//   - Optimizer interface for custom optimizers
//
// Adagrad keeps one persistent accumulator ("moment") per parameter,
// created lazily and exactly once, and supports mixed precision: float16
// and bfloat16 parameters can be updated through a full-precision master
// weight so accumulation never loses precision.
//
// # Basic Usage
//
//	import (
//	    "github.com/tern-ml/tern/nn"
//	    "github.com/tern-ml/tern/optim"
//	    "github.com/tern-ml/tern/tensor"
//	)
//
//	func main() {
//	    w, _ := tensor.FromFloat32([]float32{1, 2}, tensor.Shape{2}, tensor.CPU)
//	    param := nn.NewParameter("w", w)
//
//	    optimizer, err := optim.NewAdagrad(
//	        []*nn.Parameter{param},
//	        optim.AdagradConfig{LR: 0.1},
//	    )
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    // Training loop
//	    for range steps {
//	        grads := computeGradients() // external autodiff collaborator
//	        if err := optimizer.Step(grads); err != nil {
//	            panic(err)
//	        }
//	        optimizer.ZeroGrad()
//	    }
//	}
//
// # Parameter Groups
//
// Hyperparameters can be overridden per parameter group:
//
//	eps := float32(1e-8)
//	optimizer, err := optim.NewAdagradGroups(
//	    []optim.ParamGroup{
//	        {Params: bodyParams},
//	        {Params: headParams, Epsilon: &eps},
//	    },
//	    optim.AdagradConfig{LR: 0.1},
//	)
//
// By default each group resolves its configuration independently against
// the construction-time defaults. Setting
// AdagradConfig.PropagateGroupOverrides restores the historical behavior
// where a group's overrides become the active defaults for subsequent
// groups and unscoped steps.
//
// # Deferred Execution
//
// Instead of mutating tensors immediately, a step can be recorded into a
// graph block and executed later:
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
package optim
