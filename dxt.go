package dds

import "encoding/binary"

type rgba [4]uint8

// expand565 widens a 5:6:5 colour to 8 bits per channel by bit replication.
func expand565(c uint16) rgba {
	r := uint8(c>>11) & 0x1f
	g := uint8(c>>5) & 0x3f
	b := uint8(c) & 0x1f

	return rgba{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2, 0xff}
}

// dxtColors builds the 4-entry palette of a colour block. With punchThrough
// set, blocks where color0 <= color1 use the three-colour mode whose last
// entry is transparent.
func dxtColors(block []byte, expand func(uint16) rgba, punchThrough bool) ([4]rgba, uint32) {
	c0 := binary.LittleEndian.Uint16(block[0:])
	c1 := binary.LittleEndian.Uint16(block[2:])
	bitmask := binary.LittleEndian.Uint32(block[4:])

	var colors [4]rgba
	colors[0] = expand(c0)
	colors[1] = expand(c1)

	if !punchThrough || c0 > c1 {
		for k := 0; k < 3; k++ {
			a, b := uint16(colors[0][k]), uint16(colors[1][k])
			colors[2][k] = uint8((2*a + b + 1) / 3)
			colors[3][k] = uint8((a + 2*b + 1) / 3)
		}
		colors[2][3] = 0xff
		colors[3][3] = 0xff
		return colors, bitmask
	}

	for k := 0; k < 3; k++ {
		a, b := uint16(colors[0][k]), uint16(colors[1][k])
		colors[2][k] = uint8((a + b) / 2)
		colors[3][k] = uint8((a + 2*b + 1) / 3)
	}
	colors[2][3] = 0xff
	colors[3][3] = 0x00

	return colors, bitmask
}

// dxt5Alphas builds the 8-entry interpolated alpha palette.
func dxt5Alphas(a0, a1 uint8) [8]uint8 {
	var alphas [8]uint8
	alphas[0], alphas[1] = a0, a1
	x, y := uint32(a0), uint32(a1)

	if a0 > a1 {
		for i := uint32(1); i < 7; i++ {
			alphas[i+1] = uint8(((7-i)*x + i*y + 3) / 7)
		}
		return alphas
	}

	for i := uint32(1); i < 5; i++ {
		alphas[i+1] = uint8(((5-i)*x + i*y + 2) / 5)
	}
	alphas[6] = 0x00
	alphas[7] = 0xff

	return alphas
}

// writeColorBlock stores the selected palette entries for one block,
// clipping pixels outside the image. When alpha is non-nil it replaces the
// palette's alpha.
func (j *job) writeColorBlock(colors *[4]rgba, bitmask uint32, alpha *[16]uint8, x, y, z int) {
	for k := 0; k < 16; k++ {
		px, py := x+k&3, y+k>>2
		if !j.inside(px, py) {
			continue
		}

		c := colors[bitmask>>(2*k)&0x3]
		if alpha != nil {
			c[3] = alpha[k]
		}
		o := j.offset(px, py, z)
		copy(j.dst[o:o+4], c[:])
	}
}

// explicitAlpha unpacks the 4-bit alpha block of DXT2/DXT3.
func explicitAlpha(block []byte) [16]uint8 {
	var out [16]uint8
	for row := 0; row < 4; row++ {
		word := binary.LittleEndian.Uint16(block[2*row:])
		for col := 0; col < 4; col++ {
			nibble := uint8(word>>(4*col)) & 0x0f
			out[row*4+col] = nibble | nibble<<4
		}
	}

	return out
}

// interpolatedAlpha unpacks an 8-byte DXT5-style alpha block.
func interpolatedAlpha(block []byte) [16]uint8 {
	alphas := dxt5Alphas(block[0], block[1])
	indices := read48(block[2:8])

	var out [16]uint8
	for k := range out {
		out[k] = alphas[indices>>(3*k)&0x7]
	}

	return out
}

func decompressDXT1(j *job) {
	j.blocks(8, func(block []byte, x, y, z int) {
		colors, bitmask := dxtColors(block, expand565, true)
		j.writeColorBlock(&colors, bitmask, nil, x, y, z)
	})
}

func decompressDXT3(j *job) {
	j.blocks(16, func(block []byte, x, y, z int) {
		alpha := explicitAlpha(block[0:8])
		colors, bitmask := dxtColors(block[8:16], expand565, false)
		j.writeColorBlock(&colors, bitmask, &alpha, x, y, z)
	})
}

func decompressDXT5(j *job) {
	j.blocks(16, func(block []byte, x, y, z int) {
		alpha := interpolatedAlpha(block[0:8])
		colors, bitmask := dxtColors(block[8:16], expand565, false)
		j.writeColorBlock(&colors, bitmask, &alpha, x, y, z)
	})
}

func decompressDXT2(j *job) {
	decompressDXT3(j)
	if !j.keepPremultiplied {
		unpremultiply(j)
	}
}

func decompressDXT4(j *job) {
	decompressDXT5(j)
	if !j.keepPremultiplied {
		unpremultiply(j)
	}
}

// unpremultiply divides colour channels by alpha for every pixel with
// nonzero alpha. Results above 255 saturate.
func unpremultiply(j *job) {
	for z := 0; z < j.depth; z++ {
		for y := 0; y < j.height; y++ {
			o := j.offset(0, y, z)
			for x := 0; x < j.width; x, o = x+1, o+4 {
				a := uint32(j.dst[o+3])
				if a == 0 {
					continue
				}
				for k := 0; k < 3; k++ {
					v := (uint32(j.dst[o+k]) << 8) / a
					if v > 0xff {
						v = 0xff
					}
					j.dst[o+k] = uint8(v)
				}
			}
		}
	}
}

// expand565Shift widens a 5:6:5 colour by shifting only, as RXGB expects.
func expand565Shift(c uint16) rgba {
	return rgba{uint8(c>>11) << 3, uint8(c>>5) << 2, uint8(c) << 3, 0xff}
}

func decompressRXGB(j *job) {
	j.blocks(16, func(block []byte, x, y, z int) {
		alpha := interpolatedAlpha(block[0:8])
		colors, bitmask := dxtColors(block[8:16], expand565Shift, false)
		j.writeColorBlock(&colors, bitmask, &alpha, x, y, z)
	})
}
