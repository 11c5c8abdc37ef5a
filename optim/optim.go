// Copyright 2025 Tern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/tern-ml/tern/internal/graph"
	"github.com/tern-ml/tern/internal/nn"
	"github.com/tern-ml/tern/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Default hyperparameters for Adagrad.
const (
	DefaultEpsilon                 = optim.DefaultEpsilon
	DefaultInitialAccumulatorValue = optim.DefaultInitialAccumulatorValue
)

// Adagrad (Adaptive Gradient)

// Adagrad represents the Adagrad optimizer.
type Adagrad = optim.Adagrad

// AdagradConfig contains construction-time configuration for Adagrad.
type AdagradConfig = optim.AdagradConfig

// ParamGroup is a subset of parameters with optional hyperparameter
// overrides.
type ParamGroup = optim.ParamGroup

// AdagradOpType is the operation type of the recorded Adagrad update
// instruction.
const AdagradOpType = optim.AdagradOpType

// NewAdagrad creates a new Adagrad optimizer over a flat parameter list.
//
// Example:
//
//	optimizer, err := optim.NewAdagrad(
//	    model.Parameters(),
//	    optim.AdagradConfig{
//	        LR:      0.1,
//	        Epsilon: 1e-6,
//	    },
//	)
func NewAdagrad(params []*nn.Parameter, config AdagradConfig) (*Adagrad, error) {
	return optim.NewAdagrad(params, config)
}

// NewAdagradGroups creates a new Adagrad optimizer over parameter groups
// with per-group hyperparameter overrides.
//
// Example:
//
//	eps := float32(1e-8)
//	optimizer, err := optim.NewAdagradGroups(
//	    []optim.ParamGroup{
//	        {Params: encoderParams},
//	        {Params: headParams, Epsilon: &eps},
//	    },
//	    optim.AdagradConfig{LR: 0.1},
//	)
func NewAdagradGroups(groups []ParamGroup, config AdagradConfig) (*Adagrad, error) {
	return optim.NewAdagradGroups(groups, config)
}

// RegisterAdagradKernel installs the Adagrad kernel into a graph kernel
// registry, enabling execution of blocks recorded by StepGraph.
func RegisterAdagradKernel(r *graph.Registry) {
	optim.RegisterAdagradKernel(r)
}
