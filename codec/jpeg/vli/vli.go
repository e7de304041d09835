/*
NAME
  vli.go

DESCRIPTION
  vli.go implements JPEG's variable-length-integer amplitude encoding:
  mapping a signed integer to a (category, magnitude-bits) pair and
  back.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vli implements JPEG's variable-length-integer (VLI) amplitude
// coding: category is the number of magnitude bits, and the magnitude
// bits are the positive value or its one's-complement for negatives.
//
// 32-bit integers are used throughout (rather than the arbitrary
// precision the reference implementation used) since category 16
// comfortably covers baseline DC/AC precision and DC predictor
// accumulation across a whole scan.
package vli

import "math/bits"

// MaxCategory is the largest VLI category this package will produce or
// accept.
const MaxCategory = 16

// Categorize returns the VLI category of v (the minimal bit length of
// |v|; 0 iff v == 0) and its magnitude bits, written MSB-first in the
// low `cat` bits of the returned value. For v > 0 the magnitude bits
// are v itself; for v < 0 they are v + (2^cat - 1) (v's complement
// within its category), per the baseline JPEG amplitude encoding.
func Categorize(v int32) (cat uint8, magnitude uint32) {
	if v == 0 {
		return 0, 0
	}
	av := v
	if av < 0 {
		av = -av
	}
	cat = uint8(bits.Len32(uint32(av)))
	if v > 0 {
		magnitude = uint32(v)
	} else {
		magnitude = uint32(v + (1 << uint(cat)) - 1)
	}
	return cat, magnitude
}

// Decode reverses Categorize: given a category and its magnitude bits,
// it returns the signed value. If the top bit of magnitude (within cat
// bits) is 1 the value is positive and equals magnitude; otherwise the
// value is magnitude - (2^cat - 1).
func Decode(cat uint8, magnitude uint32) int32 {
	if cat == 0 {
		return 0
	}
	topBit := uint32(1) << uint(cat-1)
	if magnitude&topBit != 0 {
		return int32(magnitude)
	}
	return int32(magnitude) - (1<<uint(cat) - 1)
}
