package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/woozymasta/dds"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var errUnknownOutputFormat = errors.New("unknown output format")

// zstdDecoder is shared; DecodeAll is safe for concurrent use.
var zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil)
})

// readInput loads a texture file, inflating it first when it is
// zstd-wrapped.
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	return unwrapZstd(data)
}

func unwrapZstd(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}

	dec, err := zstdDecoder()
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd inflate: %w", err)
	}

	return out, nil
}

// isEDDS reports whether path names an Enfusion container, ignoring a
// trailing .zst.
func isEDDS(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".zst" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}

	return ext == ".edds"
}

// decodeInput decodes data read from path, choosing the container by
// extension.
func decodeInput(path string, data []byte, opts *dds.DecodeOptions) (*dds.Surface, error) {
	if isEDDS(path) {
		return dds.DecodeEDDS(bytes.NewReader(data), opts)
	}

	return dds.DecodeWithOptions(bytes.NewReader(data), opts)
}

// outputFormat maps a file name or bare format name to an encoder name.
func outputFormat(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		ext = strings.ToLower(name)
	}

	switch ext {
	case "png":
		return "png", nil
	case "bmp":
		return "bmp", nil
	case "tif", "tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownOutputFormat, name)
	}
}

func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", errUnknownOutputFormat, format)
	}
}

// outputPath places the converted file next to the input or under dir.
func outputPath(in, dir, format string) string {
	base := filepath.Base(in)
	if strings.EqualFold(filepath.Ext(base), ".zst") {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = strings.TrimSuffix(base, filepath.Ext(base)) + "." + format

	if dir == "" {
		dir = filepath.Dir(in)
	}

	return filepath.Join(dir, base)
}

// convertFile decodes in and writes slice z of it to out.
func convertFile(in, out string, z int, opts *dds.DecodeOptions) error {
	format, err := outputFormat(out)
	if err != nil {
		return err
	}

	data, err := readInput(in)
	if err != nil {
		return err
	}
	s, err := decodeInput(in, data, opts)
	if err != nil {
		return fmt.Errorf("decode %q: %w", in, err)
	}
	if z < 0 || z >= s.Depth {
		return fmt.Errorf("slice %d out of range for %q (depth %d)", z, in, s.Depth)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %q: %w", out, err)
	}
	if err := encodeImage(f, s.SliceImage(z), format); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %q: %w", out, err)
	}

	return f.Close()
}

// describe prints the header summary and mip chain of one file.
func describe(w io.Writer, path string, data []byte) error {
	if isEDDS(path) {
		// EDDS shares the DDS header; only the body layout differs.
		data = data[:min(len(data), dds.FileHeaderSize)]
	}

	h, err := dds.ParseHeader(data)
	if err != nil {
		return fmt.Errorf("header %q: %w", path, err)
	}
	format, size, err := dds.Classify(h)
	if err != nil {
		return fmt.Errorf("classify %q: %w", path, err)
	}
	levels, err := dds.MipChain(h)
	if err != nil {
		return fmt.Errorf("mip chain %q: %w", path, err)
	}

	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  size:    %dx%dx%d\n", h.Width, h.Height, h.Depth)
	fmt.Fprintf(w, "  format:  %s", format)
	if h.PixelFormat.Flags&dds.PFFourCC != 0 {
		fmt.Fprintf(w, " (fourCC %q)", h.FourCCString())
	} else {
		fmt.Fprintf(w, " (%d bpp, masks %08x %08x %08x %08x)", h.PixelFormat.RGBBitCount,
			h.PixelFormat.RBitMask, h.PixelFormat.GBitMask, h.PixelFormat.BBitMask, h.PixelFormat.ABitMask)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  payload: %d bytes\n", size)
	if h.IsCubemap() {
		fmt.Fprintln(w, "  cubemap: yes")
	}
	if h.IsVolume() {
		fmt.Fprintln(w, "  volume:  yes")
	}
	for _, l := range levels {
		fmt.Fprintf(w, "  mip %2d:  %dx%dx%d %d bytes\n", l.Level, l.Width, l.Height, l.Depth, l.Size)
	}

	return nil
}
