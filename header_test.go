package dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// countingReader records how many bytes were consumed.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestReadHeaderFields(t *testing.T) {
	t.Parallel()

	want := fourCCHeader(64, 32, makeFourCC('D', 'X', 'T', '5'))
	want.MipMapCount = 7
	want.Flags |= FlagMipMapCount
	want.Caps.Caps1 |= CapsMipmap | CapsComplex
	want.Reserved[1] = 0x31464e45
	want.PitchOrLinearSize = 2048
	want.TextureStage = 9

	got, err := ReadHeader(bytes.NewReader(encodeHeader(want)))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if *got != *want {
		t.Fatalf("ReadHeader() = %+v, want %+v", got, want)
	}
	if got.FourCCString() != "DXT5" {
		t.Fatalf("FourCCString() = %q", got.FourCCString())
	}
}

func TestReadHeaderErrors(t *testing.T) {
	t.Parallel()

	valid := encodeHeader(fourCCHeader(4, 4, makeFourCC('D', 'X', 'T', '1')))

	badSize := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(badSize[4:], 100)

	zeroHeight := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(zeroHeight[12:], 0)

	zeroWidth := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(zeroWidth[16:], 0)

	tests := []struct {
		name       string
		data       []byte
		wantErr    error
		wantOffset int64
	}{
		{name: "bad-magic", data: append([]byte("XDS "), valid[4:]...), wantErr: ErrInvalidHeader, wantOffset: 0},
		{name: "bad-size", data: badSize, wantErr: ErrInvalidHeader, wantOffset: 4},
		{name: "zero-height", data: zeroHeight, wantErr: ErrInvalidHeader, wantOffset: 12},
		{name: "zero-width", data: zeroWidth, wantErr: ErrInvalidHeader, wantOffset: 16},
		{name: "empty", data: nil, wantErr: ErrTruncatedData, wantOffset: 0},
		{name: "short-header", data: valid[:60], wantErr: ErrTruncatedData, wantOffset: 60},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadHeader(bytes.NewReader(tc.data))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			var he *HeaderError
			var te *TruncatedError
			switch {
			case errors.As(err, &he):
				if he.Offset != tc.wantOffset {
					t.Fatalf("offset = %d, want %d", he.Offset, tc.wantOffset)
				}
			case errors.As(err, &te):
				if te.Offset != tc.wantOffset {
					t.Fatalf("offset = %d, want %d", te.Offset, tc.wantOffset)
				}
			default:
				t.Fatalf("unexpected error type %T", err)
			}

			_, perr := ParseHeader(tc.data)
			if !errors.Is(perr, tc.wantErr) {
				t.Fatalf("ParseHeader: expected %v, got %v", tc.wantErr, perr)
			}
		})
	}
}

func TestReadHeaderStopsEarly(t *testing.T) {
	t.Parallel()

	t.Run("magic", func(t *testing.T) {
		t.Parallel()

		r := &countingReader{r: bytes.NewReader(append([]byte("PNG!"), make([]byte, 200)...))}
		if _, err := ReadHeader(r); !errors.Is(err, ErrInvalidHeader) {
			t.Fatalf("expected ErrInvalidHeader, got %v", err)
		}
		if r.n != 4 {
			t.Fatalf("consumed %d bytes, want 4", r.n)
		}
	})

	t.Run("size", func(t *testing.T) {
		t.Parallel()

		data := encodeHeader(fourCCHeader(4, 4, makeFourCC('D', 'X', 'T', '1')))
		binary.LittleEndian.PutUint32(data[4:], 0)

		r := &countingReader{r: bytes.NewReader(data)}
		if _, err := ReadHeader(r); !errors.Is(err, ErrInvalidHeader) {
			t.Fatalf("expected ErrInvalidHeader, got %v", err)
		}
		if r.n != 8 {
			t.Fatalf("consumed %d bytes, want 8", r.n)
		}
	})
}

func TestReadHeaderIOError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := ReadHeader(failingReader{err: boom})
	if !errors.Is(err, ErrReadHeader) {
		t.Fatalf("expected ErrReadHeader, got %v", err)
	}
	if errors.Is(err, ErrTruncatedData) {
		t.Fatalf("I/O failure reported as truncation: %v", err)
	}
}

func TestReadHeaderDepthNormalized(t *testing.T) {
	t.Parallel()

	h := fourCCHeader(8, 8, makeFourCC('D', 'X', 'T', '1'))
	h.Depth = 0

	got, err := ParseHeader(encodeHeader(h))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if got.Depth != 1 {
		t.Fatalf("Depth = %d, want 1", got.Depth)
	}
}

func TestHeaderCaps(t *testing.T) {
	t.Parallel()

	h := fourCCHeader(8, 8, makeFourCC('D', 'X', 'T', '1'))
	if h.IsCubemap() || h.IsVolume() {
		t.Fatalf("plain texture reported as cubemap or volume")
	}

	h.Caps.Caps2 = Caps2Cubemap
	if !h.IsCubemap() {
		t.Fatalf("cubemap bit not reported")
	}

	h.Caps.Caps2 = Caps2Volume
	if !h.IsVolume() {
		t.Fatalf("volume bit not reported")
	}
}
