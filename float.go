package dds

import "encoding/binary"

const oneBits = 0x3f800000 // float32 1.0

// floatChannels returns how many components a float format stores per pixel.
func floatChannels(format PixelFormat) int {
	switch format {
	case FormatR16F, FormatR32F:
		return 1
	case FormatG16R16F, FormatG32R32F:
		return 2
	default:
		return 4
	}
}

// decompressFloat copies R32F and G32R32F components and fills the missing
// channels with 1.0.
func decompressFloat(j *job) {
	stored := floatChannels(j.format)
	out := j.bpp / 4

	for i, src, dst := 0, 0, 0; i < j.pixelCount(); i, dst = i+1, dst+j.bpp {
		for c := 0; c < out; c++ {
			bits := uint32(oneBits)
			if c < stored {
				bits = binary.LittleEndian.Uint32(j.src[src:])
				src += 4
			}
			binary.LittleEndian.PutUint32(j.dst[dst+4*c:], bits)
		}
	}
}

// decompressHalf widens every half-float component and fills the missing
// channels with 1.0.
func decompressHalf(j *job) {
	stored := floatChannels(j.format)
	out := j.bpp / 4

	for i, src, dst := 0, 0, 0; i < j.pixelCount(); i, dst = i+1, dst+j.bpp {
		for c := 0; c < out; c++ {
			bits := uint32(oneBits)
			if c < stored {
				bits = HalfToFloatBits(binary.LittleEndian.Uint16(j.src[src:]))
				src += 2
			}
			binary.LittleEndian.PutUint32(j.dst[dst+4*c:], bits)
		}
	}
}

// decompressCopy handles formats already stored in the output layout.
func decompressCopy(j *job) {
	copy(j.dst, j.src[:j.pixelCount()*j.bpp])
}
