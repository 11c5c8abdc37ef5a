package tensor

import "math"

// Float16ToFloat32 converts half precision (IEEE 754 binary16) to float32.
func Float16ToFloat32(h uint16) float32 {
	sign := (h >> 15) & 0x1
	exp := (h >> 10) & 0x1F
	mant := h & 0x3FF

	var result uint32

	switch exp {
	case 0:
		if mant == 0 {
			// Zero.
			result = uint32(sign) << 31
		} else {
			// Subnormal number - normalize it.
			exp = 1
			for (mant & 0x400) == 0 {
				mant <<= 1
				exp--
			}
			mant &= 0x3FF
			result = (uint32(sign) << 31) | (uint32(exp+127-15) << 23) | (uint32(mant) << 13)
		}
	case 0x1F:
		// Inf or NaN.
		result = (uint32(sign) << 31) | 0x7F800000 | (uint32(mant) << 13)
	default:
		// Normal number.
		result = (uint32(sign) << 31) | (uint32(exp+127-15) << 23) | (uint32(mant) << 13)
	}

	return math.Float32frombits(result)
}

// Float32ToFloat16 converts float32 to half precision (IEEE 754 binary16).
// Values above the float16 range become infinity; values below the smallest
// normal float16 flush to signed zero.
func Float32ToFloat16(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & 0x8000
	bits &= 0x7FFFFFFF

	if bits >= 0x7F800000 {
		if bits > 0x7F800000 {
			// NaN.
			return sign | 0x7E00
		}
		// Infinity.
		return sign | 0x7C00
	}

	// Overflow: anything that would round past the max finite half (65504).
	if bits >= 0x477FF000 {
		return sign | 0x7C00
	}

	// Underflow: below the smallest normal half, flush to zero.
	if bits < 0x38800000 {
		return sign
	}

	// Rebias exponent (127 -> 15), drop 13 mantissa bits with
	// round-to-nearest-even on the dropped bits.
	exp := (bits >> 23) - 127 + 15
	mant := bits & 0x7FFFFF
	h := sign | uint16(exp<<10) | uint16(mant>>13)
	round := mant & 0x1FFF
	if round > 0x1000 || (round == 0x1000 && h&1 == 1) {
		h++ // Carry into the exponent is correct here (rounds up to the next binade).
	}
	return h
}

// BFloat16ToFloat32 converts bfloat16 (truncated float32) to float32.
func BFloat16ToFloat32(b uint16) float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// Float32ToBFloat16 converts float32 to bfloat16 with round-to-nearest-even.
// NaN payloads are squashed to a canonical quiet NaN so rounding cannot
// turn a NaN into infinity.
func Float32ToBFloat16(f float32) uint16 {
	bits := math.Float32bits(f)
	if bits&0x7FFFFFFF > 0x7F800000 {
		return uint16(bits>>16)&0x8000 | 0x7FC1
	}
	round := uint32(0x7FFF + (bits>>16)&1)
	return uint16((bits + round) >> 16)
}
