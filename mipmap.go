package dds

// maxMipLevels bounds the mip chain of a 32-bit sized surface.
const maxMipLevels = 32

// MipLevel describes one level of the mip chain declared by a header.
type MipLevel struct {
	Level  int
	Width  int
	Height int
	Depth  int
	Size   int
}

// MipChain lists the levels the header declares with their payload sizes.
// Only level 0 is ever decoded; the rest is informational.
func MipChain(h *Header) ([]MipLevel, error) {
	if _, _, err := Classify(h); err != nil {
		return nil, err
	}

	count := 1
	if h.Caps.Caps1&CapsMipmap != 0 && h.MipMapCount > 1 {
		count = int(min(h.MipMapCount, maxMipLevels))
	}

	levels := make([]MipLevel, 0, count)
	for level := 0; level < count; level++ {
		lh := *h
		lh.Width = uint32(mipDimension(int(h.Width), level))
		lh.Height = uint32(mipDimension(int(h.Height), level))
		lh.Depth = uint32(mipDimension(int(h.Depth), level))

		_, size, err := Classify(&lh)
		if err != nil {
			return nil, err
		}
		levels = append(levels, MipLevel{
			Level:  level,
			Width:  int(lh.Width),
			Height: int(lh.Height),
			Depth:  int(lh.Depth),
			Size:   size,
		})
	}

	return levels, nil
}

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}
