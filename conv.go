// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import "math/bits"

const (
	maxInt32 = int(^uint32(0) >> 1)
	maxInt   = int(^uint(0) >> 1)
)

// i32FromInt converts an int to an int32.
func i32FromInt(n int) (int32, error) {
	if n < 0 || n > maxInt32 {
		return 0, ErrSizeOverflow
	}

	return int32(n), nil
}

// mulSize multiplies non-negative sizes, failing on int overflow.
func mulSize(factors ...int) (int, error) {
	product := uint64(1)
	for _, f := range factors {
		if f < 0 {
			return 0, ErrSizeOverflow
		}

		hi, lo := bits.Mul64(product, uint64(f))
		if hi != 0 || lo > uint64(maxInt) {
			return 0, ErrSizeOverflow
		}
		product = lo
	}

	return int(product), nil
}

// addSize adds non-negative sizes, failing on int overflow.
func addSize(terms ...int) (int, error) {
	sum := 0
	for _, t := range terms {
		if t < 0 || sum > maxInt-t {
			return 0, ErrSizeOverflow
		}
		sum += t
	}

	return sum, nil
}
