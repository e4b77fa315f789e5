package dds

import "fmt"

// PixelFormat is the canonical pixel format tag derived from a header.
type PixelFormat uint8

// Pixel format tags. FormatUnknown is never decoded.
const (
	FormatUnknown PixelFormat = iota
	FormatARGB
	FormatRGB
	FormatDXT1
	FormatDXT2
	FormatDXT3
	FormatDXT4
	FormatDXT5
	Format3DC
	FormatATI1N
	FormatRXGB
	FormatLuminance
	FormatLuminanceAlpha
	FormatA16B16G16R16
	FormatR16F
	FormatG16R16F
	FormatA16B16G16R16F
	FormatR32F
	FormatG32R32F
	FormatA32B32G32R32F
)

var formatNames = [...]string{
	FormatUnknown:        "UNKNOWN",
	FormatARGB:           "ARGB",
	FormatRGB:            "RGB",
	FormatDXT1:           "DXT1",
	FormatDXT2:           "DXT2",
	FormatDXT3:           "DXT3",
	FormatDXT4:           "DXT4",
	FormatDXT5:           "DXT5",
	Format3DC:            "3DC",
	FormatATI1N:          "ATI1N",
	FormatRXGB:           "RXGB",
	FormatLuminance:      "LUMINANCE",
	FormatLuminanceAlpha: "LUMINANCE_ALPHA",
	FormatA16B16G16R16:   "A16B16G16R16",
	FormatR16F:           "R16F",
	FormatG16R16F:        "G16R16F",
	FormatA16B16G16R16F:  "A16B16G16R16F",
	FormatR32F:           "R32F",
	FormatG32R32F:        "G32R32F",
	FormatA32B32G32R32F:  "A32B32G32R32F",
}

func (f PixelFormat) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}

	return fmt.Sprintf("PixelFormat(%d)", uint8(f))
}

// BlockCompressed reports whether f is stored as 4x4 blocks.
func (f PixelFormat) BlockCompressed() bool {
	switch f {
	case FormatDXT1, FormatDXT2, FormatDXT3, FormatDXT4, FormatDXT5,
		Format3DC, FormatATI1N, FormatRXGB:
		return true
	default:
		return false
	}
}

// fourCCInfo describes how a FourCC code sizes its payload: per 4x4 block
// for compressed formats or per pixel otherwise.
type fourCCInfo struct {
	format   PixelFormat
	unit     int
	perPixel bool
}

var fourCCTable = map[uint32]fourCCInfo{
	makeFourCC('D', 'X', 'T', '1'): {format: FormatDXT1, unit: 8},
	makeFourCC('D', 'X', 'T', '2'): {format: FormatDXT2, unit: 16},
	makeFourCC('D', 'X', 'T', '3'): {format: FormatDXT3, unit: 16},
	makeFourCC('D', 'X', 'T', '4'): {format: FormatDXT4, unit: 16},
	makeFourCC('D', 'X', 'T', '5'): {format: FormatDXT5, unit: 16},
	makeFourCC('A', 'T', 'I', '1'): {format: FormatATI1N, unit: 8},
	makeFourCC('A', 'T', 'I', '2'): {format: Format3DC, unit: 16},
	makeFourCC('R', 'X', 'G', 'B'): {format: FormatRXGB, unit: 16},

	'$': {format: FormatA16B16G16R16, unit: 8, perPixel: true},
	'o': {format: FormatR16F, unit: 2, perPixel: true},
	'p': {format: FormatG16R16F, unit: 4, perPixel: true},
	'q': {format: FormatA16B16G16R16F, unit: 8, perPixel: true},
	'r': {format: FormatR32F, unit: 4, perPixel: true},
	's': {format: FormatG32R32F, unit: 8, perPixel: true},
	't': {format: FormatA32B32G32R32F, unit: 16, perPixel: true},
}

// Classify maps the header's pixel format to a canonical tag and returns the
// payload size in bytes for the base surface.
func Classify(h *Header) (PixelFormat, int, error) {
	pf := &h.PixelFormat
	w, hh, d := int(h.Width), int(h.Height), int(h.Depth)
	if d == 0 {
		d = 1
	}

	if pf.Flags&PFFourCC != 0 {
		info, ok := fourCCTable[pf.FourCC]
		if !ok {
			return FormatUnknown, 0, &FormatError{
				Reason:      "unknown fourCC",
				FourCC:      pf.FourCC,
				Flags:       pf.Flags,
				RGBBitCount: pf.RGBBitCount,
			}
		}

		var (
			size int
			err  error
		)
		if info.perPixel {
			size, err = mulSize(w, hh, d, info.unit)
		} else {
			size, err = mulSize((w+3)/4, (hh+3)/4, d, info.unit)
		}
		if err != nil {
			return FormatUnknown, 0, fmt.Errorf("%w: %dx%dx%d %s", err, w, hh, d, info.format)
		}

		return info.format, size, nil
	}

	switch pf.RGBBitCount {
	case 8, 16, 24, 32:
	default:
		return FormatUnknown, 0, &FormatError{
			Reason:      "uncompressed bit count",
			Flags:       pf.Flags,
			RGBBitCount: pf.RGBBitCount,
		}
	}

	format := FormatRGB
	switch {
	case pf.Flags&PFLuminance != 0:
		format = FormatLuminance
		if pf.Flags&PFAlphaPixels != 0 {
			format = FormatLuminanceAlpha
		}
	case pf.Flags&PFAlphaPixels != 0:
		format = FormatARGB
	}

	size, err := mulSize(w, hh, d, int(pf.RGBBitCount/8))
	if err != nil {
		return FormatUnknown, 0, fmt.Errorf("%w: %dx%dx%d %s", err, w, hh, d, format)
	}

	return format, size, nil
}

// layoutFor picks the output channel layout for a classified format.
func layoutFor(format PixelFormat, pf *PixelFormatDescriptor) Layout {
	switch format {
	case FormatATI1N:
		return LayoutGray8
	case FormatA16B16G16R16:
		return LayoutRGBA16
	case FormatR16F, FormatG16R16F, FormatR32F, FormatG32R32F:
		return LayoutRGBF32
	case FormatA16B16G16R16F, FormatA32B32G32R32F:
		return LayoutRGBAF32
	case FormatARGB, FormatRGB:
		if hasWideChannel(pf) {
			return LayoutRGBA16
		}
	}

	return LayoutRGBA8
}

// hasWideChannel reports whether any colour mask is wider than 8 bits.
func hasWideChannel(pf *PixelFormatDescriptor) bool {
	for _, m := range [...]uint32{pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask} {
		if CountBitsFromMask(m) > 8 {
			return true
		}
	}

	return false
}

func makeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

func fourCCString(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}
