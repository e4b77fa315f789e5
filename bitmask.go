package dds

import "math/bits"

// channelMask extracts one channel from a packed pixel word and scales it
// to 8 bits by replicating the field: ((v & mask) >> shift1) * mul >> shift2.
type channelMask struct {
	mask   uint32
	shift1 uint32
	mul    uint32
	shift2 uint32
}

func newChannelMask(mask uint32) channelMask {
	if mask == 0 {
		return channelMask{}
	}

	shift1 := uint32(bits.TrailingZeros32(mask))
	width := uint32(bits.Len32(mask >> shift1))

	// append copies of the field below itself until it spans 8 bits
	mul := uint32(1)
	total := width
	for total < 8 {
		mul = mul<<width | 1
		total += width
	}

	return channelMask{
		mask:   mask,
		shift1: shift1,
		mul:    mul,
		shift2: total - 8,
	}
}

// extract returns the channel scaled to 0..255. A zero mask yields 0.
func (c channelMask) extract(word uint32) uint8 {
	v := uint64((word&c.mask)>>c.shift1) * uint64(c.mul)
	return uint8(v >> c.shift2)
}

// present reports whether the mask selects any bits.
func (c channelMask) present() bool { return c.mask != 0 }

// GetBitsFromMask returns the shifts that move a mask's field into the top of
// a 16-bit value: ((v & mask) >> shiftRight) << shiftLeft.
// Fields wider than 16 bits keep their 16 most significant bits.
func GetBitsFromMask(mask uint32) (shiftLeft, shiftRight uint32) {
	if mask == 0 {
		return 0, 0
	}

	shiftRight = uint32(bits.TrailingZeros32(mask))
	width := CountBitsFromMask(mask)
	if width >= 16 {
		return 0, shiftRight + width - 16
	}

	return 16 - width, shiftRight
}

// CountBitsFromMask counts the run of set bits starting at the lowest set bit.
func CountBitsFromMask(mask uint32) uint32 {
	if mask == 0 {
		return 0
	}

	return uint32(bits.TrailingZeros32(^(mask >> uint32(bits.TrailingZeros32(mask)))))
}

// wideChannel expands a masked field to a full 16-bit value.
type wideChannel struct {
	mask  uint32
	left  uint32
	right uint32
	count uint32
}

func newWideChannel(mask uint32) wideChannel {
	left, right := GetBitsFromMask(mask)
	count := CountBitsFromMask(mask)
	if count > 16 {
		count = 16
	}

	return wideChannel{mask: mask, left: left, right: right, count: count}
}

// extract returns the channel scaled to 0..65535; the low padding bits are
// filled by repeating the field.
func (c wideChannel) extract(word uint32) uint16 {
	if c.count == 0 {
		return 0
	}

	v := uint32(uint16(((word & c.mask) >> c.right) << c.left))
	for pad := c.count; pad < 16; pad += c.count {
		v |= v >> pad
	}

	return uint16(v)
}
