package dds

import "encoding/binary"

// cursor walks a little-endian byte slice. Reads past the end return zero
// and set the overrun flag instead of panicking.
type cursor struct {
	buf     []byte
	off     int
	overrun bool
}

func (c *cursor) u32() uint32 {
	if c.off+4 > len(c.buf) {
		c.overrun = true
		c.off = len(c.buf)
		return 0
	}

	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v
}

// readWord reads n (1..4) little-endian bytes starting at off.
func readWord(src []byte, off, n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v |= uint32(src[off+i]) << (8 * i)
	}

	return v
}

// read48 reads a 6-byte little-endian index field.
func read48(src []byte) uint64 {
	return uint64(src[0]) | uint64(src[1])<<8 | uint64(src[2])<<16 |
		uint64(src[3])<<24 | uint64(src[4])<<32 | uint64(src[5])<<40
}

// read24 reads a 3-byte little-endian index field.
func read24(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16
}
