// Copyright 2025 Tern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for trainable parameters in the
// Tern ML library.
package nn

import (
	"github.com/tern-ml/tern/internal/nn"
	"github.com/tern-ml/tern/internal/tensor"
)

// Parameter represents a trainable parameter: a named tensor with a
// gradient slot.
type Parameter = nn.Parameter

// NewParameter creates a new trainable parameter.
//
// Example:
//
//	w, _ := tensor.FromFloat32([]float32{0.1, 0.2}, tensor.Shape{2}, tensor.CPU)
//	weight := nn.NewParameter("linear1.weight", w)
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return nn.NewParameter(name, t)
}
