package dds

import (
	"encoding/binary"
	"math"
)

// Layout is the channel arrangement of a decoded surface.
type Layout uint8

const (
	// LayoutRGBA8 is 4 interleaved 8-bit channels, R,G,B,A.
	LayoutRGBA8 Layout = iota + 1
	// LayoutGray8 is a single 8-bit channel.
	LayoutGray8
	// LayoutRGBA16 is 4 interleaved little-endian 16-bit channels.
	LayoutRGBA16
	// LayoutRGBF32 is 3 interleaved little-endian float32 channels.
	LayoutRGBF32
	// LayoutRGBAF32 is 4 interleaved little-endian float32 channels.
	LayoutRGBAF32
)

// BytesPerPixel returns the size of one decoded pixel.
func (l Layout) BytesPerPixel() int {
	switch l {
	case LayoutRGBA8:
		return 4
	case LayoutGray8:
		return 1
	case LayoutRGBA16:
		return 8
	case LayoutRGBF32:
		return 12
	case LayoutRGBAF32:
		return 16
	default:
		return 0
	}
}

// Channels returns the number of channels per pixel.
func (l Layout) Channels() int {
	switch l {
	case LayoutGray8:
		return 1
	case LayoutRGBF32:
		return 3
	case LayoutRGBA8, LayoutRGBA16, LayoutRGBAF32:
		return 4
	default:
		return 0
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutRGBA8:
		return "RGBA8"
	case LayoutGray8:
		return "Gray8"
	case LayoutRGBA16:
		return "RGBA16"
	case LayoutRGBF32:
		return "RGBF32"
	case LayoutRGBAF32:
		return "RGBAF32"
	default:
		return "invalid"
	}
}

// Surface is a decoded base-level surface. Pix holds Depth planes of
// PlaneSize bytes; each plane holds Height rows of Stride bytes.
type Surface struct {
	Pix       []byte
	Header    *Header
	Width     int
	Height    int
	Depth     int
	Stride    int
	PlaneSize int
	Format    PixelFormat
	Layout    Layout
}

// newSurface allocates the output buffer. The backing array carries one
// extra plane row plus one pixel of slack past the last plane.
func newSurface(h *Header, format PixelFormat, layout Layout) (*Surface, []byte, error) {
	w, hh, d := int(h.Width), int(h.Height), int(h.Depth)
	bpp := layout.BytesPerPixel()

	stride, err := mulSize(w, bpp)
	if err != nil {
		return nil, nil, err
	}
	plane, err := mulSize(stride, hh)
	if err != nil {
		return nil, nil, err
	}
	planes, err := mulSize(plane, d)
	if err != nil {
		return nil, nil, err
	}
	total, err := addSize(planes, plane, stride)
	if err != nil {
		return nil, nil, err
	}

	buf := make([]byte, total)
	return &Surface{
		Pix:       buf[:planes:planes],
		Header:    h,
		Width:     w,
		Height:    hh,
		Depth:     d,
		Stride:    stride,
		PlaneSize: plane,
		Format:    format,
		Layout:    layout,
	}, buf, nil
}

// PixOffset returns the index of the first byte of pixel (x, y) in slice z.
func (s *Surface) PixOffset(x, y, z int) int {
	return z*s.PlaneSize + y*s.Stride + x*s.Layout.BytesPerPixel()
}

// Plane returns the bytes of depth slice z.
func (s *Surface) Plane(z int) []byte {
	return s.Pix[z*s.PlaneSize : (z+1)*s.PlaneSize]
}

// Float32At returns channel c of pixel (x, y, z) for float layouts.
func (s *Surface) Float32At(x, y, z, c int) float32 {
	off := s.PixOffset(x, y, z) + 4*c
	return math.Float32frombits(binary.LittleEndian.Uint32(s.Pix[off:]))
}

// Uint16At returns channel c of pixel (x, y, z) for LayoutRGBA16.
func (s *Surface) Uint16At(x, y, z, c int) uint16 {
	off := s.PixOffset(x, y, z) + 2*c
	return binary.LittleEndian.Uint16(s.Pix[off:])
}
