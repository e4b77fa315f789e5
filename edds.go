package dds

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed EDDS block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 chunk-stream EDDS block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the decoded size of one LZ4 chunk.
	ChunkSize = 64 * 1024

	chunkLastFlag = 0x80
	dictCap       = 64 * 1024
)

// Block is one EDDS mipmap body.
type Block struct {
	Magic string
	Data  []byte
	Size  int32
}

type blockHeader struct {
	Magic string
	Size  int32
}

// lz4Window keeps the trailing 64KB of decoded output as the dictionary
// for the next chunk.
type lz4Window struct {
	buf  [dictCap]byte
	size int
}

func (w *lz4Window) bytes() []byte { return w.buf[:w.size] }

func (w *lz4Window) push(decoded []byte) {
	if len(decoded) >= dictCap {
		copy(w.buf[:], decoded[len(decoded)-dictCap:])
		w.size = dictCap
		return
	}

	if free := dictCap - w.size; len(decoded) > free {
		shift := len(decoded) - free
		copy(w.buf[:], w.buf[shift:w.size])
		w.size -= shift
	}
	copy(w.buf[w.size:], decoded)
	w.size += len(decoded)
}

// inflateBlock returns the raw payload of an EDDS block.
func inflateBlock(block *Block, expectedSize int) ([]byte, error) {
	switch block.Magic {
	case BlockMagicCOPY:
		if len(block.Data) != expectedSize {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, expectedSize, len(block.Data))
		}
		out := make([]byte, len(block.Data))
		copy(out, block.Data)
		return out, nil

	case BlockMagicLZ4:
		return inflateChunkStream(block, expectedSize)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, block.Magic)
	}
}

// inflateChunkStream decodes an Enfusion LZ4 chunk stream: an optional
// uint32 decoded size, then chunks of [3-byte size][flags][LZ4 block], the
// last chunk flagged with 0x80.
func inflateChunkStream(block *Block, targetSize int) ([]byte, error) {
	if targetSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTargetSize, targetSize)
	}

	data := block.Data
	if len(data) >= 8 {
		prefix := int(binary.LittleEndian.Uint32(data[:4]))
		first := int(read24(data[4:7]))
		if prefix == targetSize && first > 0 && first < 1<<20 {
			data = data[4:]
		}
	}

	var window lz4Window
	target := make([]byte, 0, min(targetSize, ChunkSize))
	pos := 0

	for {
		if len(data)-pos < 4 {
			return nil, fmt.Errorf("%w: need 4 bytes header, have %d", ErrChunkStreamTruncated, len(data)-pos)
		}

		size := int(read24(data[pos : pos+3]))
		flags := data[pos+3]
		pos += 4
		if flags&^chunkLastFlag != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if size <= 0 || size > len(data)-pos {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, size, len(data)-pos)
		}
		compressed := data[pos : pos+size]
		pos += size

		remaining := targetSize - len(target)
		if remaining <= 0 {
			return nil, ErrDecodeOverrun
		}
		want := min(ChunkSize, remaining)
		target = slices.Grow(target, want)
		dst := target[len(target) : len(target)+want]

		n, err := lz4.UncompressBlockWithDict(compressed, dst, window.bytes())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		window.push(dst[:n])
		target = target[:len(target)+n]

		if flags&chunkLastFlag != 0 {
			break
		}
	}

	if len(target) != targetSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, targetSize, len(target))
	}
	if left := len(data) - pos; left != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, left)
	}

	return target, nil
}

// readBlockTable reads one (magic, size) entry per mipmap.
func readBlockTable(r io.Reader, count uint32) ([]blockHeader, error) {
	table := make([]blockHeader, 0, min(count, maxMipLevels))
	for i := uint32(0); i < count; i++ {
		var entry [8]byte
		if n, err := io.ReadFull(r, entry[:]); err != nil {
			if !isEOF(err) {
				return nil, fmt.Errorf("%w: entry %d: %w", ErrReadBlockTable, i, err)
			}
			return nil, &TruncatedError{Section: fmt.Sprintf("block table entry %d", i), Offset: int64(FileHeaderSize) + int64(i)*8 + int64(n), Want: 8, Got: n}
		}

		magic := string(entry[0:4])
		size := int32(binary.LittleEndian.Uint32(entry[4:8]))
		if magic != BlockMagicCOPY && magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: %d: %q", ErrBlockTableUnknownMagic, i, magic)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: %d: %d", ErrBlockTableInvalidSize, i, size)
		}

		table = append(table, blockHeader{Magic: magic, Size: size})
	}

	return table, nil
}

func readBlockBody(r io.Reader, h blockHeader) (*Block, error) {
	data, err := readSized(r, int(h.Size))
	if err != nil {
		if isEOF(err) {
			return nil, &TruncatedError{Section: "block " + h.Magic, Want: int(h.Size), Got: len(data)}
		}
		return nil, fmt.Errorf("%s: %w", h.Magic, err)
	}

	return &Block{Magic: h.Magic, Size: h.Size, Data: data}, nil
}
