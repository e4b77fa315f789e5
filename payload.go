package dds

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// readChunk caps the up-front allocation of a sized read. Buffers grow with
// the bytes that actually arrive, never with the size a header declares.
const readChunk = 1 << 20

// readPayload reads exactly size bytes of base-surface data. FourCC and
// linear-size payloads are read in one piece; pitched payloads are read
// one scanline at a time.
func readPayload(r io.Reader, h *Header, format PixelFormat, size int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(min(size, readChunk))

	if format.BlockCompressed() || h.PixelFormat.Flags&PFFourCC != 0 || h.Flags&FlagLinearSize != 0 {
		if _, err := io.CopyN(&buf, r, int64(size)); err != nil {
			return nil, payloadError(err, buf.Len(), size)
		}
		return buf.Bytes(), nil
	}

	row := int64(h.Width) * int64(h.PixelFormat.RGBBitCount/8)
	rows := int(h.Height) * int(h.Depth)
	for i := 0; i < rows; i++ {
		if _, err := io.CopyN(&buf, r, row); err != nil {
			return nil, payloadError(err, buf.Len(), size)
		}
	}

	return buf.Bytes(), nil
}

// readSized reads n bytes from r into a buffer that grows as data arrives.
func readSized(r io.Reader, n int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(min(n, readChunk))

	_, err := io.CopyN(&buf, r, int64(n))
	return buf.Bytes(), err
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func payloadError(err error, got, want int) error {
	if isEOF(err) {
		return &TruncatedError{
			Section: "payload",
			Offset:  int64(FileHeaderSize + got),
			Want:    want,
			Got:     got,
		}
	}

	return fmt.Errorf("%w: %v", ErrReadPayload, err)
}
