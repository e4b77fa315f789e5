package dds

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHeader indicates a bad magic, header size or dimension.
	ErrInvalidHeader = errors.New("invalid DDS header")
	// ErrUnsupportedFormat indicates a pixel format that cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	// ErrTruncatedData indicates the stream ended before the computed payload size.
	ErrTruncatedData = errors.New("truncated data")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrReadHeader indicates an I/O failure while reading the header.
	ErrReadHeader = errors.New("reading DDS header failed")
	// ErrReadPayload indicates an I/O failure while reading pixel data.
	ErrReadPayload = errors.New("reading DDS payload failed")
	// ErrOpenFile indicates DDS/EDDS file open failed.
	ErrOpenFile = errors.New("open file failed")

	// ErrUnknownBlockMagic indicates an unknown EDDS block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrInvalidTargetSize indicates invalid decoded target size.
	ErrInvalidTargetSize = errors.New("invalid target size")
	// ErrChunkStreamTruncated indicates LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = errors.New("unknown LZ4 flags")
	// ErrInvalidChunkSize indicates invalid LZ4 chunk size.
	ErrInvalidChunkSize = errors.New("invalid compressed chunk size")
	// ErrDecodeOverrun indicates decoded data overruns target buffer.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrDecodedSizeMismatch indicates decoded size mismatch.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrBlockLengthMismatch indicates leftover bytes after decode.
	ErrBlockLengthMismatch = errors.New("LZ4 block length mismatch")
	// ErrBlockTableUnknownMagic indicates unknown block magic in table.
	ErrBlockTableUnknownMagic = errors.New("unknown block magic in table")
	// ErrBlockTableInvalidSize indicates invalid size in block table.
	ErrBlockTableInvalidSize = errors.New("invalid block size in table")
	// ErrReadBlockTable indicates block table read failed.
	ErrReadBlockTable = errors.New("read block table failed")
	// ErrSkipBlockBody indicates skipping block body failed.
	ErrSkipBlockBody = errors.New("skip block body failed")
	// ErrReadBlockBody indicates block body read failed.
	ErrReadBlockBody = errors.New("read block body failed")
	// ErrDecompressBlock indicates block decompression failed.
	ErrDecompressBlock = errors.New("decompress block failed")
	// ErrParseSingleBlock indicates failure parsing legacy single block.
	ErrParseSingleBlock = errors.New("failed to parse single block")
)

// HeaderError describes a header field that failed validation.
type HeaderError struct {
	Field    string
	Expected string
	Offset   int64
	Got      uint32
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d: expected %s, got %#x", ErrInvalidHeader, e.Field, e.Offset, e.Expected, e.Got)
}

// Unwrap returns ErrInvalidHeader.
func (e *HeaderError) Unwrap() error { return ErrInvalidHeader }

// FormatError describes a pixel format the classifier could not map.
type FormatError struct {
	Reason      string
	FourCC      uint32
	Flags       uint32
	RGBBitCount uint32
}

func (e *FormatError) Error() string {
	if e.FourCC != 0 {
		return fmt.Sprintf("%v: fourCC %q (%#08x), flags %#x", ErrUnsupportedFormat, fourCCString(e.FourCC), e.FourCC, e.Flags)
	}

	return fmt.Sprintf("%v: %s (flags %#x, rgbBitCount %d)", ErrUnsupportedFormat, e.Reason, e.Flags, e.RGBBitCount)
}

// Unwrap returns ErrUnsupportedFormat.
func (e *FormatError) Unwrap() error { return ErrUnsupportedFormat }

// TruncatedError reports a short read. Offset is the absolute stream offset
// at which data ran out.
type TruncatedError struct {
	Section string
	Offset  int64
	Want    int
	Got     int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d: want %d bytes, got %d", ErrTruncatedData, e.Section, e.Offset, e.Want, e.Got)
}

// Unwrap returns ErrTruncatedData.
func (e *TruncatedError) Unwrap() error { return ErrTruncatedData }
