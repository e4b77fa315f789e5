package dds

import (
	"fmt"
	"image"
	"io"
	"os"
)

// ReadEDDSConfig reads EDDS dimensions and colour model without decoding
// image data.
func ReadEDDSConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeConfig(f)
}

// DecodeEDDSFile opens and decodes the base level of an EDDS file.
func DecodeEDDSFile(path string, opts *DecodeOptions) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeEDDS(f, opts)
}

// DecodeEDDS decodes the base level of an EDDS stream. Only the largest
// mipmap block is inflated; smaller levels are skipped.
func DecodeEDDS(r io.ReadSeeker, opts *DecodeOptions) (*Surface, error) {
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

	mipMapCount := uint32(1)
	if h.Caps.Caps1&CapsMipmap != 0 && h.MipMapCount > 0 {
		mipMapCount = h.MipMapCount
	}

	payload, err := readBaseLevelBlock(r, mipMapCount, size)
	if err != nil {
		payload, err = readLegacySingleBlock(r, size)
		if err != nil {
			return nil, err
		}
	}

	return decodePayload(h, format, payload, size, opts)
}

// readBaseLevelBlock reads the block table and inflates the last body,
// which holds mipmap level 0 (blocks run smallest to largest).
func readBaseLevelBlock(r io.ReadSeeker, mipMapCount uint32, expectedSize int) ([]byte, error) {
	table, err := readBlockTable(r, mipMapCount)
	if err != nil {
		return nil, err
	}

	last := len(table) - 1
	for i := 0; i < last; i++ {
		if _, err := r.Seek(int64(table[i].Size), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %v", ErrSkipBlockBody, mipMapCount-uint32(i)-1, err)
		}
	}

	block, err := readBlockBody(r, table[last])
	if err != nil {
		return nil, fmt.Errorf("%w: mipmap 0: %w", ErrReadBlockBody, err)
	}

	payload, err := inflateBlock(block, expectedSize)
	if err != nil {
		return nil, fmt.Errorf("%w: mipmap 0: %w", ErrDecompressBlock, err)
	}

	return payload, nil
}

// readLegacySingleBlock handles older EDDS files that store one payload
// blob after the header instead of a block table. The blob is tried as an
// LZ4 chunk stream first and accepted raw when its size already matches.
func readLegacySingleBlock(r io.ReadSeeker, expectedSize int) ([]byte, error) {
	if _, err := r.Seek(FileHeaderSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadPayload, err)
	}

	remaining, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadPayload, err)
	}

	size, err := i32FromInt(len(remaining))
	if err != nil {
		return nil, err
	}

	payload, err := inflateBlock(&Block{Magic: BlockMagicLZ4, Size: size, Data: remaining}, expectedSize)
	if err == nil {
		return payload, nil
	}
	if len(remaining) == expectedSize {
		return remaining, nil
	}
	if len(remaining) < expectedSize {
		return nil, &TruncatedError{Section: "payload", Offset: int64(FileHeaderSize + len(remaining)), Want: expectedSize, Got: len(remaining)}
	}

	return nil, fmt.Errorf("%w: %v", ErrParseSingleBlock, err)
}
