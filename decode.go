package dds

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// DecodeOptions configures decoding. A nil *DecodeOptions uses defaults.
type DecodeOptions struct {
	// MaxPixels rejects surfaces with more than MaxPixels texels
	// (width*height*depth) before the payload is read. 0 means no limit.
	MaxPixels int64
	// KeepPremultiplied skips the un-premultiply pass for DXT2 and DXT4.
	KeepPremultiplied bool
}

// decompressFunc writes one classified payload into the job's buffer.
type decompressFunc func(j *job)

// decompressors maps every decodable tag to its algorithm. Classify only
// returns tags present here.
var decompressors = map[PixelFormat]decompressFunc{
	FormatDXT1:           decompressDXT1,
	FormatDXT2:           decompressDXT2,
	FormatDXT3:           decompressDXT3,
	FormatDXT4:           decompressDXT4,
	FormatDXT5:           decompressDXT5,
	Format3DC:            decompress3Dc,
	FormatATI1N:          decompressATI1N,
	FormatRXGB:           decompressRXGB,
	FormatARGB:           decompressARGB,
	FormatRGB:            decompressARGB,
	FormatLuminance:      decompressLuminance,
	FormatLuminanceAlpha: decompressLuminance,
	FormatA16B16G16R16:   decompressCopy,
	FormatR16F:           decompressHalf,
	FormatG16R16F:        decompressHalf,
	FormatA16B16G16R16F:  decompressHalf,
	FormatR32F:           decompressFloat,
	FormatG32R32F:        decompressFloat,
	FormatA32B32G32R32F:  decompressCopy,
}

// job carries one decode call's state; nothing outlives the call.
type job struct {
	header            *Header
	src               []byte
	dst               []byte
	format            PixelFormat
	width             int
	height            int
	depth             int
	bpp               int
	bps               int
	planeSize         int
	keepPremultiplied bool
}

// inside reports whether (x, y) lies within the image extent.
func (j *job) inside(x, y int) bool { return x < j.width && y < j.height }

// offset returns the destination index of pixel (x, y) in slice z.
func (j *job) offset(x, y, z int) int { return z*j.planeSize + y*j.bps + x*j.bpp }

// blocks walks the payload in 4x4 block order, slice by slice.
func (j *job) blocks(blockSize int, fn func(block []byte, x, y, z int)) {
	off := 0
	for z := 0; z < j.depth; z++ {
		for y := 0; y < j.height; y += 4 {
			for x := 0; x < j.width; x += 4 {
				fn(j.src[off:off+blockSize], x, y, z)
				off += blockSize
			}
		}
	}
}

// Decode reads a DDS stream and decodes its base surface.
func Decode(r io.Reader) (*Surface, error) {
	return DecodeWithOptions(r, nil)
}

// DecodeBytes decodes an in-memory DDS file.
func DecodeBytes(data []byte) (*Surface, error) {
	return DecodeBytesWithOptions(data, nil)
}

// DecodeBytesWithOptions decodes an in-memory DDS file with the given options.
func DecodeBytesWithOptions(data []byte, opts *DecodeOptions) (*Surface, error) {
	return DecodeWithOptions(bytes.NewReader(data), opts)
}

// DecodeFile opens and decodes a DDS file.
func DecodeFile(path string) (*Surface, error) {
	return DecodeFileWithOptions(path, nil)
}

// DecodeFileWithOptions opens and decodes a DDS file with the given options.
func DecodeFileWithOptions(path string, opts *DecodeOptions) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeWithOptions(bufio.NewReader(f), opts)
}

// DecodeWithOptions reads the header and the whole base-surface payload from
// r, then decompresses it. Nil opts uses defaults.
func DecodeWithOptions(r io.Reader, opts *DecodeOptions) (*Surface, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	format, size, err := Classify(h)
	if err != nil {
		return nil, err
	}
	if err := checkLimits(h, opts); err != nil {
		return nil, err
	}

	payload, err := readPayload(r, h, format, size)
	if err != nil {
		return nil, err
	}

	return decodePayload(h, format, payload, size, opts)
}

// decodePayload runs the decompressor for format over a fully read payload.
func decodePayload(h *Header, format PixelFormat, payload []byte, size int, opts *DecodeOptions) (*Surface, error) {
	if len(payload) < size {
		return nil, &TruncatedError{Section: "payload", Offset: int64(FileHeaderSize + len(payload)), Want: size, Got: len(payload)}
	}

	fn, ok := decompressors[format]
	if !ok {
		panic(fmt.Sprintf("dds: no decompressor for classified format %s", format))
	}

	surface, buf, err := newSurface(h, format, layoutFor(format, &h.PixelFormat))
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%dx%d %s", err, h.Width, h.Height, h.Depth, format)
	}

	j := &job{
		header:    h,
		src:       payload[:size],
		dst:       buf,
		format:    format,
		width:     surface.Width,
		height:    surface.Height,
		depth:     surface.Depth,
		bpp:       surface.Layout.BytesPerPixel(),
		bps:       surface.Stride,
		planeSize: surface.PlaneSize,
	}
	if opts != nil {
		j.keepPremultiplied = opts.KeepPremultiplied
	}
	fn(j)

	return surface, nil
}

// checkLimits enforces DecodeOptions.MaxPixels.
func checkLimits(h *Header, opts *DecodeOptions) error {
	if opts == nil || opts.MaxPixels <= 0 {
		return nil
	}

	pixels, err := mulSize(int(h.Width), int(h.Height), int(h.Depth))
	if err != nil {
		return err
	}
	if int64(pixels) > opts.MaxPixels {
		return fmt.Errorf("%w: %dx%dx%d exceeds %d pixels", ErrSizeOverflow, h.Width, h.Height, h.Depth, opts.MaxPixels)
	}

	return nil
}
