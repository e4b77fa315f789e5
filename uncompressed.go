package dds

import "encoding/binary"

// pixelCount returns the number of texels in all slices.
func (j *job) pixelCount() int { return j.width * j.height * j.depth }

// srcPixelSize returns the packed size of one uncompressed source pixel.
func (j *job) srcPixelSize() int { return int(j.header.PixelFormat.RGBBitCount+7) / 8 }

// decompressARGB decodes masked RGB and ARGB pixels. Masks wider than 8 bits
// are routed to the 16-bit path.
func decompressARGB(j *job) {
	if j.bpp == LayoutRGBA16.BytesPerPixel() {
		decompressARGB16(j)
		return
	}

	pf := &j.header.PixelFormat
	r := newChannelMask(pf.RBitMask)
	g := newChannelMask(pf.GBitMask)
	b := newChannelMask(pf.BBitMask)
	a := newChannelMask(pf.ABitMask)
	hasAlpha := j.format == FormatARGB && a.present()

	n := j.srcPixelSize()
	for i, src, dst := 0, 0, 0; i < j.pixelCount(); i, src, dst = i+1, src+n, dst+4 {
		word := readWord(j.src, src, n)
		j.dst[dst+0] = r.extract(word)
		j.dst[dst+1] = g.extract(word)
		j.dst[dst+2] = b.extract(word)
		if hasAlpha {
			j.dst[dst+3] = a.extract(word)
		} else {
			j.dst[dst+3] = 0xff
		}
	}
}

// decompressARGB16 decodes masked pixels with channels wider than 8 bits
// into 16 bits per channel.
func decompressARGB16(j *job) {
	pf := &j.header.PixelFormat
	r := newWideChannel(pf.RBitMask)
	g := newWideChannel(pf.GBitMask)
	b := newWideChannel(pf.BBitMask)
	a := newWideChannel(pf.ABitMask)
	hasAlpha := j.format == FormatARGB && pf.ABitMask != 0

	n := j.srcPixelSize()
	for i, src, dst := 0, 0, 0; i < j.pixelCount(); i, src, dst = i+1, src+n, dst+8 {
		word := readWord(j.src, src, n)
		binary.LittleEndian.PutUint16(j.dst[dst+0:], r.extract(word))
		binary.LittleEndian.PutUint16(j.dst[dst+2:], g.extract(word))
		binary.LittleEndian.PutUint16(j.dst[dst+4:], b.extract(word))
		alpha := uint16(0xffff)
		if hasAlpha {
			alpha = a.extract(word)
		}
		binary.LittleEndian.PutUint16(j.dst[dst+6:], alpha)
	}
}

// decompressLuminance replicates the red-mask channel into R, G and B.
func decompressLuminance(j *job) {
	pf := &j.header.PixelFormat
	l := newChannelMask(pf.RBitMask)
	a := newChannelMask(pf.ABitMask)
	hasAlpha := j.format == FormatLuminanceAlpha && a.present()

	n := j.srcPixelSize()
	for i, src, dst := 0, 0, 0; i < j.pixelCount(); i, src, dst = i+1, src+n, dst+4 {
		word := readWord(j.src, src, n)
		v := l.extract(word)
		j.dst[dst+0] = v
		j.dst[dst+1] = v
		j.dst[dst+2] = v
		if hasAlpha {
			j.dst[dst+3] = a.extract(word)
		} else {
			j.dst[dst+3] = 0xff
		}
	}
}
