// Copyright 2025 Tern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor storage in the Tern
// ML library.
//
// The package defines the storage-level tensor types:
//   - RawTensor: dtype-tagged flat buffer with a shape
//   - Shape, DataType, Device: core type definitions
//   - Float16/BFloat16 conversion helpers for mixed-precision workflows
//
// Example:
//
//	w, err := tensor.FromFloat32([]float32{1, 2, 3}, tensor.Shape{3}, tensor.CPU)
//	half, err := w.CastTo(tensor.Float16)
package tensor

import (
	"github.com/tern-ml/tern/internal/tensor"
)

// Type aliases for public API

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32  DataType = tensor.Float32
	Float64  DataType = tensor.Float64
	Float16  DataType = tensor.Float16
	BFloat16 DataType = tensor.BFloat16
	Int32    DataType = tensor.Int32
	Int64    DataType = tensor.Int64
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Device represents the compute device for tensor storage.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// RawTensor is the low-level tensor representation.
type RawTensor = tensor.RawTensor

// NewRaw creates a new zero-initialized RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromFloat32 creates a Float32 RawTensor initialized from a slice.
func FromFloat32(values []float32, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromFloat32(values, shape, device)
}

// Full creates a RawTensor with every element set to value.
func Full(shape Shape, dtype DataType, value float32, device Device) (*RawTensor, error) {
	return tensor.Full(shape, dtype, value, device)
}

// Float16ToFloat32 converts IEEE 754 binary16 to float32.
func Float16ToFloat32(h uint16) float32 {
	return tensor.Float16ToFloat32(h)
}

// Float32ToFloat16 converts float32 to IEEE 754 binary16.
func Float32ToFloat16(f float32) uint16 {
	return tensor.Float32ToFloat16(f)
}

// BFloat16ToFloat32 converts bfloat16 to float32.
func BFloat16ToFloat32(b uint16) float32 {
	return tensor.BFloat16ToFloat32(b)
}

// Float32ToBFloat16 converts float32 to bfloat16 with round-to-nearest-even.
func Float32ToBFloat16(f float32) uint16 {
	return tensor.Float32ToBFloat16(f)
}
