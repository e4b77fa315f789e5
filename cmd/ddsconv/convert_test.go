package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/dds"
)

// redDXT1 returns a 4x4 DXT1 texture filled with pure red, optionally
// declaring extra mipmap levels.
func redDXT1(mips uint32) []byte {
	words := make([]uint32, 31)
	words[0] = dds.HeaderSize
	words[1] = dds.FlagCaps | dds.FlagHeight | dds.FlagWidth | dds.FlagPixelFormat | dds.FlagLinearSize
	words[2], words[3] = 4, 4 // height, width
	words[5] = 1              // depth
	words[6] = mips
	words[18] = dds.PixelFormatSize
	words[19] = dds.PFFourCC
	words[20] = uint32('D') | uint32('X')<<8 | uint32('T')<<16 | uint32('1')<<24
	words[26] = dds.CapsTexture
	if mips > 1 {
		words[26] |= dds.CapsMipmap | dds.CapsComplex
	}

	buf := []byte(dds.Magic)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	// c0 = red, c1 = black, all indices 0
	return append(buf, 0x00, 0xf8, 0, 0, 0, 0, 0, 0)
}

func zstdWrap(t *testing.T, data []byte) []byte {
	t.Helper()

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	require.NoError(t, err)
	defer func() { _ = enc.Close() }()

	return enc.EncodeAll(data, nil)
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(buf, "ddsconv: ", 0)
}

func TestUnwrapZstd(t *testing.T) {
	t.Parallel()

	raw := redDXT1(1)

	got, err := unwrapZstd(raw)
	require.NoError(t, err)
	require.Equal(t, raw, got)

	got, err = unwrapZstd(zstdWrap(t, raw))
	require.NoError(t, err)
	require.Equal(t, raw, got)

	_, err = unwrapZstd(append(bytes.Clone(zstdMagic), 0xde, 0xad))
	require.Error(t, err)
}

func TestIsEDDS(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"a/b/tex.edds":     true,
		"TEX.EDDS":         true,
		"tex.edds.zst":     true,
		"tex.dds":          false,
		"tex.dds.zst":      false,
		"edds":             false,
		"archive.zst":      false,
		"dir.edds/tex.dds": false,
	}
	for path, want := range tests {
		require.Equalf(t, want, isEDDS(path), "isEDDS(%q)", path)
	}
}

func TestOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "out.png", want: "png"},
		{in: "OUT.BMP", want: "bmp"},
		{in: "x/out.tif", want: "tiff"},
		{in: "out.tiff", want: "tiff"},
		{in: "tiff", want: "tiff"},
		{in: "png", want: "png"},
		{in: "out.jpg", wantErr: true},
		{in: "webp", wantErr: true},
	}

	for _, tc := range tests {
		got, err := outputFormat(tc.in)
		if tc.wantErr {
			require.ErrorIs(t, err, errUnknownOutputFormat, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, filepath.Join("a", "tex.png"), outputPath(filepath.Join("a", "tex.dds"), "", "png"))
	require.Equal(t, filepath.Join("out", "tex.bmp"), outputPath(filepath.Join("a", "tex.edds.zst"), "out", "bmp"))
}

func TestConvertFileFormats(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{"png", "bmp", "tiff"} {
		ext := ext
		t.Run(ext, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			in := filepath.Join(dir, "tex.dds")
			out := filepath.Join(dir, "tex."+ext)
			require.NoError(t, os.WriteFile(in, redDXT1(1), 0o644))

			require.NoError(t, convertFile(in, out, 0, nil))

			f, err := os.Open(out)
			require.NoError(t, err)
			defer func() { _ = f.Close() }()

			img, name, err := image.Decode(f)
			require.NoError(t, err)
			require.Equal(t, ext, name)
			require.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
			require.Equal(t, color.NRGBA{R: 255, A: 255}, color.NRGBAModel.Convert(img.At(2, 2)))
		})
	}
}

func TestConvertFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "tex.dds")
	require.NoError(t, os.WriteFile(in, redDXT1(1), 0o644))

	require.ErrorIs(t, convertFile(in, filepath.Join(dir, "x.gif"), 0, nil), errUnknownOutputFormat)
	require.ErrorContains(t, convertFile(in, filepath.Join(dir, "x.png"), 1, nil), "slice 1 out of range")

	broken := filepath.Join(dir, "broken.dds")
	require.NoError(t, os.WriteFile(broken, redDXT1(1)[:100], 0o644))
	require.ErrorIs(t, convertFile(broken, filepath.Join(dir, "y.png"), 0, nil), dds.ErrTruncatedData)
}

func TestConvertZstdWrappedEDDS(t *testing.T) {
	t.Parallel()

	// an EDDS with one COPY block holding the DXT1 payload
	plain := redDXT1(1)
	edds := append(bytes.Clone(plain[:dds.FileHeaderSize]), []byte(dds.BlockMagicCOPY)...)
	edds = binary.LittleEndian.AppendUint32(edds, 8)
	edds = append(edds, plain[dds.FileHeaderSize:]...)

	dir := t.TempDir()
	in := filepath.Join(dir, "tex.edds.zst")
	require.NoError(t, os.WriteFile(in, zstdWrap(t, edds), 0o644))

	out := outputPath(in, "", "png")
	require.NoError(t, convertFile(in, out, 0, &dds.DecodeOptions{MaxPixels: 16}))
	require.FileExists(t, filepath.Join(dir, "tex.png"))
}

func TestRunInfo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "tex.dds")
	require.NoError(t, os.WriteFile(in, append(redDXT1(3), make([]byte, 16)...), 0o644))

	var stdout, logs bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"info", in}, &stdout, testLogger(&logs)))

	text := stdout.String()
	require.Contains(t, text, "size:    4x4x1")
	require.Contains(t, text, `format:  DXT1 (fourCC "DXT1")`)
	require.Contains(t, text, "mip  2:  1x1x1 8 bytes")
	require.Empty(t, logs.String())

	stdout.Reset()
	err := run(context.Background(), []string{"info", in, filepath.Join(dir, "missing.dds")}, &stdout, testLogger(&logs))
	require.ErrorContains(t, err, "1 of 2 files failed")
	require.Contains(t, logs.String(), "missing.dds")
}

func TestRunBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	var inputs []string
	for _, name := range []string{"a.dds", "b.dds", "c.dds"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, redDXT1(1), 0o644))
		inputs = append(inputs, p)
	}
	bad := filepath.Join(dir, "bad.dds")
	require.NoError(t, os.WriteFile(bad, []byte("not a texture"), 0o644))

	var logs bytes.Buffer
	args := append([]string{"batch", "-j", "2", "-f", "bmp", "-d", outDir}, inputs...)
	require.NoError(t, run(context.Background(), args, &bytes.Buffer{}, testLogger(&logs)))
	for _, name := range []string{"a.bmp", "b.bmp", "c.bmp"} {
		require.FileExists(t, filepath.Join(outDir, name))
	}

	err := run(context.Background(), append(args, bad), &bytes.Buffer{}, testLogger(&logs))
	require.ErrorIs(t, err, dds.ErrInvalidHeader)

	logs.Reset()
	require.NoError(t, run(context.Background(), append(append(args, "-k"), bad), &bytes.Buffer{}, testLogger(&logs)))
	require.True(t, strings.Contains(logs.String(), "bad.dds"), logs.String())
}

func TestRunUsage(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	require.ErrorIs(t, run(context.Background(), nil, &bytes.Buffer{}, testLogger(&logs)), errUsage)
	require.ErrorIs(t, run(context.Background(), []string{"frobnicate"}, &bytes.Buffer{}, testLogger(&logs)), errUsage)
	require.ErrorIs(t, run(context.Background(), []string{"decode"}, &bytes.Buffer{}, testLogger(&logs)), errUsage)
}
