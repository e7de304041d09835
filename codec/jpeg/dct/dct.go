/*
NAME
  dct.go

DESCRIPTION
  dct.go implements the forward and inverse 8x8 discrete cosine
  transform used by baseline JPEG, plus the zig-zag reordering and
  quality-scaled quantization table construction.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dct implements the 8x8 DCT-II/DCT-III pair baseline JPEG
// uses to move an image block between the spatial and frequency
// domains, together with the zig-zag scan order and the standard
// Annex K quantization tables.
//
// The transform is computed directly from its defining cosine sum
// rather than through a fast-DCT factorization; at a fixed block size
// of 8x8 the naive form is cheap enough, and every JPEG-adjacent
// reference in this codebase takes the same approach rather than
// pulling in a general-purpose spectral transform library.
package dct

import "math"

// Size is the width and height, in samples, of a JPEG data unit.
const Size = 8

var cosTable [Size][Size]float64

func init() {
	for x := 0; x < Size; x++ {
		for u := 0; u < Size; u++ {
			cosTable[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
}

func alpha(u int) float64 {
	if u == 0 {
		return 1 / math.Sqrt2
	}
	return 1
}

// Forward computes the 2-D forward DCT of an 8x8 block of samples
// (already level-shifted, i.e. centred on zero), overwriting block
// with the resulting frequency coefficients in raster order.
func Forward(block *[64]float64) {
	var out [64]float64
	for v := 0; v < Size; v++ {
		for u := 0; u < Size; u++ {
			var sum float64
			for y := 0; y < Size; y++ {
				for x := 0; x < Size; x++ {
					sum += block[y*Size+x] * cosTable[x][u] * cosTable[y][v]
				}
			}
			out[v*Size+u] = 0.25 * alpha(u) * alpha(v) * sum
		}
	}
	*block = out
}

// Inverse computes the 2-D inverse DCT of an 8x8 block of frequency
// coefficients, overwriting block with the resulting level-shifted
// spatial samples in raster order.
func Inverse(block *[64]float64) {
	var out [64]float64
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			var sum float64
			for v := 0; v < Size; v++ {
				for u := 0; u < Size; u++ {
					sum += alpha(u) * alpha(v) * block[v*Size+u] * cosTable[x][u] * cosTable[y][v]
				}
			}
			out[y*Size+x] = 0.25 * sum
		}
	}
	*block = out
}

// ZigZag lists, for each position in the JPEG zig-zag scan order, the
// raster-order index (row*8+col) of the coefficient at that position.
var ZigZag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// Zig reorders a raster-order 8x8 block into zig-zag order.
func Zig(raster [64]int32) (zigzag [64]int32) {
	for k, r := range ZigZag {
		zigzag[k] = raster[r]
	}
	return zigzag
}

// Unzig reorders a zig-zag-order 8x8 block back into raster order.
func Unzig(zigzag [64]int32) (raster [64]int32) {
	for k, r := range ZigZag {
		raster[r] = zigzag[k]
	}
	return raster
}

// DefaultLuminanceTable is the Annex K base quantization table for the
// luminance (Y) channel, in raster order at quality 50.
var DefaultLuminanceTable = [64]int32{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// DefaultChrominanceTable is the Annex K base quantization table for
// the chrominance (Cb/Cr) channels, in raster order at quality 50.
var DefaultChrominanceTable = [64]int32{
	17, 18, 24, 47, 99, 99, 99, 99,
	18, 21, 26, 66, 99, 99, 99, 99,
	24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// ScaleQuantTable scales a base quantization table (at IJG quality 50)
// to the given quality level, 1..100, clamping the resulting
// coefficients to the valid 1..255 range used by baseline 8-bit
// precision JPEG.
func ScaleQuantTable(base [64]int32, quality int) [64]int32 {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	var scale int32
	if quality < 50 {
		scale = 5000 / int32(quality)
	} else {
		scale = 200 - 2*int32(quality)
	}

	var out [64]int32
	for i, q := range base {
		v := (scale*q + 50) / 100
		if v < 1 {
			v = 1
		}
		if v > 255 {
			v = 255
		}
		out[i] = v
	}
	return out
}
