package dds

import (
	"encoding/binary"
	"image"
	"image/color"
	"io"
	"math"
)

func init() {
	image.RegisterFormat("dds", Magic, DecodeImage, DecodeConfig)
}

// DecodeImage decodes the first depth slice of a DDS stream as an image.Image.
func DecodeImage(r io.Reader) (image.Image, error) {
	s, err := Decode(r)
	if err != nil {
		return nil, err
	}

	return s.Image(), nil
}

// DecodeConfig returns dimensions and colour model without reading pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}

	format, _, err := Classify(h)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      int(h.Width),
		Height:     int(h.Height),
		ColorModel: colorModel(layoutFor(format, &h.PixelFormat)),
	}, nil
}

func colorModel(l Layout) color.Model {
	switch l {
	case LayoutGray8:
		return color.GrayModel
	case LayoutRGBA16, LayoutRGBF32, LayoutRGBAF32:
		return color.NRGBA64Model
	default:
		return color.NRGBAModel
	}
}

// Image returns depth slice 0 as an image.Image.
func (s *Surface) Image() image.Image {
	return s.SliceImage(0)
}

// SliceImage converts depth slice z to an image.Image. 8-bit layouts map to
// *image.NRGBA or *image.Gray; wider layouts map to *image.NRGBA64 with float
// channels clamped to [0, 1].
func (s *Surface) SliceImage(z int) image.Image {
	rect := image.Rect(0, 0, s.Width, s.Height)
	plane := s.Plane(z)

	switch s.Layout {
	case LayoutGray8:
		img := image.NewGray(rect)
		copy(img.Pix, plane)
		return img

	case LayoutRGBA8:
		img := image.NewNRGBA(rect)
		copy(img.Pix, plane)
		return img
	}

	img := image.NewNRGBA64(rect)
	channels := s.Layout.Channels()
	for i, dst := 0, 0; i < s.Width*s.Height; i, dst = i+1, dst+8 {
		src := i * s.Layout.BytesPerPixel()
		for c := 0; c < 4; c++ {
			v := uint16(0xffff)
			if c < channels {
				v = s.channel16(plane, src, c)
			}
			img.Pix[dst+2*c] = uint8(v >> 8)
			img.Pix[dst+2*c+1] = uint8(v)
		}
	}

	return img
}

// channel16 reads channel c of the pixel at src as a 16-bit value.
func (s *Surface) channel16(plane []byte, src, c int) uint16 {
	if s.Layout == LayoutRGBA16 {
		return binary.LittleEndian.Uint16(plane[src+2*c:])
	}

	f := math.Float32frombits(binary.LittleEndian.Uint32(plane[src+4*c:]))
	switch {
	case math.IsNaN(float64(f)) || f <= 0:
		return 0
	case f >= 1:
		return 0xffff
	default:
		return uint16(f*0xffff + 0.5)
	}
}
