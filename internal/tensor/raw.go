package tensor

import (
	"fmt"
	"unsafe"
)

// Device represents the compute device for tensor storage.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level tensor representation: a flat dtype-tagged
// buffer with a shape. It is the storage unit for parameters, gradients,
// optimizer accumulators and master weights.
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	byteSize := shape.NumElements() * dtype.Size()

	return &RawTensor{
		data:   make([]byte, byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// FromFloat32 creates a Float32 RawTensor initialized from a slice.
// The slice length must match the number of elements in the shape.
func FromFloat32(values []float32, shape Shape, device Device) (*RawTensor, error) {
	r, err := NewRaw(shape, Float32, device)
	if err != nil {
		return nil, err
	}
	if len(values) != r.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(values), shape, r.NumElements())
	}
	copy(r.AsFloat32(), values)
	return r, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsUint16 interprets the data as []uint16. This is the storage view for
// Float16 and BFloat16 tensors.
// Panics if the tensor's dtype is not a 16-bit float type.
func (r *RawTensor) AsUint16() []uint16 {
	if !r.dtype.IsReducedFloat() {
		panic(fmt.Sprintf("tensor dtype is %s, not float16/bfloat16", r.dtype))
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// FloatAt returns element i decoded to float32, for any float dtype.
func (r *RawTensor) FloatAt(i int) float32 {
	switch r.dtype {
	case Float32:
		return r.AsFloat32()[i]
	case Float64:
		return float32(r.AsFloat64()[i])
	case Float16:
		return Float16ToFloat32(r.AsUint16()[i])
	case BFloat16:
		return BFloat16ToFloat32(r.AsUint16()[i])
	default:
		panic(fmt.Sprintf("FloatAt on non-float dtype %s", r.dtype))
	}
}

// SetFloatAt stores value at element i, encoding through the tensor's
// float dtype.
func (r *RawTensor) SetFloatAt(i int, value float32) {
	switch r.dtype {
	case Float32:
		r.AsFloat32()[i] = value
	case Float64:
		r.AsFloat64()[i] = float64(value)
	case Float16:
		r.AsUint16()[i] = Float32ToFloat16(value)
	case BFloat16:
		r.AsUint16()[i] = Float32ToBFloat16(value)
	default:
		panic(fmt.Sprintf("SetFloatAt on non-float dtype %s", r.dtype))
	}
}

// Fill sets every element to value, encoded through the tensor's float
// dtype.
func (r *RawTensor) Fill(value float32) {
	for i := 0; i < r.NumElements(); i++ {
		r.SetFloatAt(i, value)
	}
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	clone := &RawTensor{
		data:   make([]byte, len(r.data)),
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
	copy(clone.data, r.data)
	return clone
}

// CastTo returns a copy of the tensor converted to the target float
// dtype. Converting to the same dtype still copies.
func (r *RawTensor) CastTo(dtype DataType) (*RawTensor, error) {
	if !r.dtype.IsFloat() || !dtype.IsFloat() {
		return nil, fmt.Errorf("cast %s -> %s: only float dtypes can be cast", r.dtype, dtype)
	}
	out, err := NewRaw(r.shape, dtype, r.device)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r.NumElements(); i++ {
		out.SetFloatAt(i, r.FloatAt(i))
	}
	return out, nil
}

// Full creates a RawTensor with every element set to value.
func Full(shape Shape, dtype DataType, value float32, device Device) (*RawTensor, error) {
	r, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	r.Fill(value)
	return r, nil
}
