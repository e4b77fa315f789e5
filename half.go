package dds

import "math"

// HalfToFloatBits converts an IEEE 754 binary16 bit pattern to the binary32
// bit pattern of the same value. Denormals are renormalized; infinities and
// NaNs keep their sign and mantissa.
func HalfToFloatBits(h uint16) uint32 {
	sign := uint32(h>>15) & 0x1
	exp := int32(h>>10) & 0x1f
	mant := uint32(h) & 0x3ff

	switch {
	case exp == 0 && mant == 0:
		return sign << 31

	case exp == 0:
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		exp++
		mant &^= 0x400

	case exp == 31:
		return sign<<31 | 0x7f800000 | mant<<13
	}

	exp += 127 - 15
	return sign<<31 | uint32(exp)<<23 | mant<<13
}

// HalfToFloat converts a binary16 bit pattern to float32.
func HalfToFloat(h uint16) float32 {
	return math.Float32frombits(HalfToFloatBits(h))
}
