package dds

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// Magic is the four-byte file signature.
	Magic = "DDS "
	// HeaderSize is the required value of the header size field.
	HeaderSize = 124
	// PixelFormatSize is the size of the embedded pixel format block.
	PixelFormatSize = 32
	// FileHeaderSize is magic plus header; the payload starts right after it.
	FileHeaderSize = 4 + HeaderSize

	magicValue = 0x20534444
)

// Header flags (DDSD_*).
const (
	FlagCaps        = 0x00000001
	FlagHeight      = 0x00000002
	FlagWidth       = 0x00000004
	FlagPitch       = 0x00000008
	FlagPixelFormat = 0x00001000
	FlagMipMapCount = 0x00020000
	FlagLinearSize  = 0x00080000
	FlagDepth       = 0x00800000
)

// Pixel format flags (DDPF_*).
const (
	PFAlphaPixels = 0x00000001
	PFAlpha       = 0x00000002
	PFFourCC      = 0x00000004
	PFRGB         = 0x00000040
	PFLuminance   = 0x00020000
)

// Capability flags.
const (
	CapsComplex  = 0x00000008
	CapsTexture  = 0x00001000
	CapsMipmap   = 0x00400000
	Caps2Cubemap = 0x00000200
	Caps2Volume  = 0x00200000
)

// PixelFormatDescriptor is the pixel format block embedded in the header.
type PixelFormatDescriptor struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// Caps holds the four capability words.
type Caps struct {
	Caps1 uint32
	Caps2 uint32
	Caps3 uint32
	Caps4 uint32
}

// Header is the fixed 124-byte DDS surface description.
// Depth is normalized to 1 when the file stores 0.
type Header struct {
	PixelFormat       PixelFormatDescriptor
	Caps              Caps
	Reserved          [10]uint32
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	AlphaBitDepth     uint32
	TextureStage      uint32
}

// IsCubemap reports whether the cubemap capability bit is set.
func (h *Header) IsCubemap() bool { return h.Caps.Caps2&Caps2Cubemap != 0 }

// IsVolume reports whether the volume capability bit is set.
func (h *Header) IsVolume() bool { return h.Caps.Caps2&Caps2Volume != 0 }

// FourCCString returns the pixel format FourCC as text.
func (h *Header) FourCCString() string { return fourCCString(h.PixelFormat.FourCC) }

// ReadHeader reads and validates magic and header from r.
// The magic is checked before anything else is read, and the size field
// before the remaining fields are read.
func ReadHeader(r io.Reader) (*Header, error) {
	var buf [FileHeaderSize]byte

	if err := readSection(r, buf[0:4], 0, "magic"); err != nil {
		return nil, err
	}
	if string(buf[0:4]) != Magic {
		return nil, &HeaderError{
			Field:    "magic",
			Offset:   0,
			Expected: fmt.Sprintf("%q", Magic),
			Got:      binary.LittleEndian.Uint32(buf[0:4]),
		}
	}

	if err := readSection(r, buf[4:8], 4, "header size"); err != nil {
		return nil, err
	}
	if size := binary.LittleEndian.Uint32(buf[4:8]); size != HeaderSize {
		return nil, &HeaderError{Field: "size", Offset: 4, Expected: "124", Got: size}
	}

	if err := readSection(r, buf[8:], 8, "header"); err != nil {
		return nil, err
	}

	return parseHeaderFields(buf[4:])
}

// ParseHeader parses a header from the first FileHeaderSize bytes of data.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < 4 {
		return nil, &TruncatedError{Section: "magic", Offset: 0, Want: 4, Got: len(data)}
	}
	if string(data[0:4]) != Magic {
		return nil, &HeaderError{
			Field:    "magic",
			Offset:   0,
			Expected: fmt.Sprintf("%q", Magic),
			Got:      binary.LittleEndian.Uint32(data[0:4]),
		}
	}
	if len(data) < 8 {
		return nil, &TruncatedError{Section: "header size", Offset: 4, Want: 4, Got: len(data) - 4}
	}
	if size := binary.LittleEndian.Uint32(data[4:8]); size != HeaderSize {
		return nil, &HeaderError{Field: "size", Offset: 4, Expected: "124", Got: size}
	}
	if len(data) < FileHeaderSize {
		return nil, &TruncatedError{Section: "header", Offset: int64(len(data)), Want: HeaderSize - 4, Got: len(data) - 8}
	}

	return parseHeaderFields(data[4:FileHeaderSize])
}

// parseHeaderFields decodes the 124 header bytes following the magic.
func parseHeaderFields(b []byte) (*Header, error) {
	c := &cursor{buf: b}
	h := &Header{}

	h.Size = c.u32()
	h.Flags = c.u32()
	h.Height = c.u32()
	h.Width = c.u32()
	h.PitchOrLinearSize = c.u32()
	h.Depth = c.u32()
	h.MipMapCount = c.u32()
	h.AlphaBitDepth = c.u32()
	for i := range h.Reserved {
		h.Reserved[i] = c.u32()
	}

	pf := &h.PixelFormat
	pf.Size = c.u32()
	pf.Flags = c.u32()
	pf.FourCC = c.u32()
	pf.RGBBitCount = c.u32()
	pf.RBitMask = c.u32()
	pf.GBitMask = c.u32()
	pf.BBitMask = c.u32()
	pf.ABitMask = c.u32()

	h.Caps.Caps1 = c.u32()
	h.Caps.Caps2 = c.u32()
	h.Caps.Caps3 = c.u32()
	h.Caps.Caps4 = c.u32()
	h.TextureStage = c.u32()

	if c.overrun {
		return nil, &TruncatedError{Section: "header", Offset: int64(4 + len(b)), Want: HeaderSize, Got: len(b)}
	}

	// offsets below are absolute, counting the magic
	if h.Height == 0 {
		return nil, &HeaderError{Field: "height", Offset: 12, Expected: ">= 1", Got: 0}
	}
	if h.Width == 0 {
		return nil, &HeaderError{Field: "width", Offset: 16, Expected: ">= 1", Got: 0}
	}
	if h.Depth == 0 {
		h.Depth = 1
	}

	return h, nil
}

// readSection fills buf from r, mapping short reads to TruncatedError.
func readSection(r io.Reader, buf []byte, offset int64, section string) error {
	n, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &TruncatedError{Section: section, Offset: offset + int64(n), Want: len(buf), Got: n}
	}

	return fmt.Errorf("%w: %s: %v", ErrReadHeader, section, err)
}
