package dds

import "math"

// atiPalette builds the 8-value palette shared by the 3Dc axes and ATI1N.
// Interpolation truncates toward zero.
func atiPalette(c0, c1 uint8) [8]uint8 {
	var p [8]uint8
	p[0], p[1] = c0, c1
	t1, t2 := int(c0), int(c1)

	if t1 > t2 {
		for i := 2; i < 8; i++ {
			p[i] = uint8(t1 + (t2-t1)*(i-1)/7)
		}
		return p
	}

	for i := 2; i < 6; i++ {
		p[i] = uint8(t1 + (t2-t1)*(i-1)/5)
	}
	p[6] = 0x00
	p[7] = 0xff

	return p
}

// normalZ rebuilds the third component of a unit normal from two 8-bit ones.
func normalZ(x, y uint8) uint8 {
	tx, ty := int(x), int(y)
	t := 127*128 - (tx-127)*(tx-128) - (ty-127)*(ty-128)
	if t <= 0 {
		return 0x7f
	}

	return uint8(int(math.Sqrt(float64(t))) + 128)
}

// decompress3Dc decodes two-channel normal maps: the first half of each
// block is the Y axis, the second half the X axis.
func decompress3Dc(j *job) {
	j.blocks(16, func(block []byte, x, y, z int) {
		yPal := atiPalette(block[0], block[1])
		yIdx := read48(block[2:8])
		xPal := atiPalette(block[8], block[9])
		xIdx := read48(block[10:16])

		for k := 0; k < 16; k++ {
			px, py := x+k&3, y+k>>2
			if !j.inside(px, py) {
				continue
			}

			ty := yPal[yIdx>>(3*k)&0x7]
			tx := xPal[xIdx>>(3*k)&0x7]
			o := j.offset(px, py, z)
			j.dst[o+0] = tx
			j.dst[o+1] = ty
			j.dst[o+2] = normalZ(tx, ty)
			j.dst[o+3] = 0xff
		}
	})
}

// decompressATI1N decodes single-channel blocks into one byte per pixel.
func decompressATI1N(j *job) {
	j.blocks(8, func(block []byte, x, y, z int) {
		pal := atiPalette(block[0], block[1])
		idx := read48(block[2:8])

		for k := 0; k < 16; k++ {
			px, py := x+k&3, y+k>>2
			if !j.inside(px, py) {
				continue
			}
			j.dst[j.offset(px, py, z)] = pal[idx>>(3*k)&0x7]
		}
	})
}
