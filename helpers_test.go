package dds

import (
	"encoding/binary"
	"runtime"
	"testing"
)

// encodeHeader serializes h in on-disk order, magic included.
func encodeHeader(h *Header) []byte {
	pf := &h.PixelFormat
	words := []uint32{h.Size, h.Flags, h.Height, h.Width, h.PitchOrLinearSize, h.Depth, h.MipMapCount, h.AlphaBitDepth}
	words = append(words, h.Reserved[:]...)
	words = append(words,
		pf.Size, pf.Flags, pf.FourCC, pf.RGBBitCount, pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask,
		h.Caps.Caps1, h.Caps.Caps2, h.Caps.Caps3, h.Caps.Caps4, h.TextureStage,
	)

	buf := make([]byte, FileHeaderSize)
	copy(buf, Magic)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4+4*i:], w)
	}

	return buf
}

func fourCCHeader(width, height uint32, fourCC uint32) *Header {
	return &Header{
		Size:   HeaderSize,
		Flags:  FlagCaps | FlagHeight | FlagWidth | FlagPixelFormat | FlagLinearSize,
		Width:  width,
		Height: height,
		Depth:  1,
		PixelFormat: PixelFormatDescriptor{
			Size:   PixelFormatSize,
			Flags:  PFFourCC,
			FourCC: fourCC,
		},
		Caps: Caps{Caps1: CapsTexture},
	}
}

func maskHeader(width, height, flags, bitCount, r, g, b, a uint32) *Header {
	return &Header{
		Size:              HeaderSize,
		Flags:             FlagCaps | FlagHeight | FlagWidth | FlagPixelFormat | FlagPitch,
		Width:             width,
		Height:            height,
		Depth:             1,
		PitchOrLinearSize: width * bitCount / 8,
		PixelFormat: PixelFormatDescriptor{
			Size:        PixelFormatSize,
			Flags:       flags,
			RGBBitCount: bitCount,
			RBitMask:    r,
			GBitMask:    g,
			BBitMask:    b,
			ABitMask:    a,
		},
		Caps: Caps{Caps1: CapsTexture},
	}
}

func ddsFile(h *Header, payload []byte) []byte {
	return append(encodeHeader(h), payload...)
}

func mustDecode(t testing.TB, data []byte, opts *DecodeOptions) *Surface {
	t.Helper()

	s, err := DecodeBytesWithOptions(data, opts)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	return s
}

// pixel returns the 8-bit RGBA pixel at (x, y) of slice 0.
func pixel(s *Surface, x, y int) [4]uint8 {
	o := s.PixOffset(x, y, 0)
	return [4]uint8{s.Pix[o], s.Pix[o+1], s.Pix[o+2], s.Pix[o+3]}
}

// dxt1Block packs two 565 endpoints and 16 2-bit indices.
func dxt1Block(c0, c1 uint16, indices uint32) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint16(b[0:], c0)
	binary.LittleEndian.PutUint16(b[2:], c1)
	binary.LittleEndian.PutUint32(b[4:], indices)
	return b
}

// alphaBlock packs two endpoints and 16 3-bit indices.
func alphaBlock(a0, a1 uint8, indices uint64) []byte {
	b := make([]byte, 8)
	b[0], b[1] = a0, a1
	for i := 0; i < 6; i++ {
		b[2+i] = byte(indices >> (8 * i))
	}
	return b
}

// repeatIndex fills all 16 slots of a 3-bit index word with idx.
func repeatIndex(idx uint64) uint64 {
	var v uint64
	for k := 0; k < 16; k++ {
		v |= idx << (3 * k)
	}
	return v
}

// allocated reports the bytes allocated on the heap while fn runs. Callers
// must not run in parallel with other tests.
func allocated(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}
