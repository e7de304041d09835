/*
NAME
  block.go

DESCRIPTION
  block.go implements 8x8 sample tiling/untiling and the DC
  predictor/AC run-length coding that turns a block of quantized,
  zig-zag-ordered DCT coefficients into Huffman-ready symbols, and
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

// Package block implements the data-unit layer of baseline JPEG: tiling
// a sample plane into 8x8 blocks, and coding a block's zig-zag-ordered
// quantized coefficients as a DC differential plus AC run-length pairs.
//
// The AC decode mirror here advances an explicit index cursor (cursor
// += run + 1) rather than the running coefficient count a naive port
// would use; a running count can under-decode a legal block whose
// 16th trailing zero lands exactly on index 63.
package block

import (
	"fmt"

	"github.com/ausocean/jpegcodec/codec/jpeg/vli"
)

// ErrBlockOverflow is returned when decoding a data unit's AC run
// sequence would advance the coefficient cursor past index 64.
var ErrBlockOverflow = fmt.Errorf("block: AC cursor overflow")

const size = 8

// Tile splits a W x H sample plane (row-major, the given stride
// between rows) into size x size blocks, padding the right and
// bottom edges with zero samples to a multiple of 8, and level-shifts
// every sample by -128 for DCT input. bw and bh are the block-grid
// width and height.
func Tile(samples []byte, w, h, stride int) (blocks [][64]int32, bw, bh int) {
	bw = (w + size - 1) / size
	bh = (h + size - 1) / size
	blocks = make([][64]int32, bw*bh)

	for br := 0; br < bh; br++ {
		for bc := 0; bc < bw; bc++ {
			var b [64]int32
			for y := 0; y < size; y++ {
				sy := br*size + y
				for x := 0; x < size; x++ {
					sx := bc*size + x
					var v byte
					if sy < h && sx < w {
						v = samples[sy*stride+sx]
					}
					b[y*size+x] = int32(v) - 128
				}
			}
			blocks[br*bw+bc] = b
		}
	}
	return blocks, bw, bh
}

// Untile reassembles blocks (bw x bh blocks, level-shifted by -128)
// into a W x H sample plane, reversing the shift and discarding the
// padding Tile introduced.
func Untile(blocks [][64]int32, bw, bh, w, h, stride int) []byte {
	out := make([]byte, h*stride)
	for br := 0; br < bh; br++ {
		for bc := 0; bc < bw; bc++ {
			b := blocks[br*bw+bc]
			for y := 0; y < size; y++ {
				sy := br*size + y
				if sy >= h {
					continue
				}
				for x := 0; x < size; x++ {
					sx := bc*size + x
					if sx >= w {
						continue
					}
					out[sy*stride+sx] = clamp(b[y*size+x] + 128)
				}
			}
		}
	}
	return out
}

func clamp(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// RLEPair is one AC run-length token: run consecutive zero
// coefficients followed by Value, the next nonzero coefficient. The
// sentinel (Run: 0, Value: 0) is EOB (rest of block is zero); (Run:
// 15, Value: 0) is ZRL (16 zeros, not an end of block).
type RLEPair struct {
	Run   uint8
	Value int32
}

// DataUnit is the coded form of one 8x8 block: the DC differential's
// VLI category and magnitude bits, plus the AC coefficients as
// run-length pairs in zig-zag scan order.
type DataUnit struct {
	DCCategory uint8
	DCBits     uint32
	AC         []RLEPair
}

// BuildDataUnit codes a block of quantized, zig-zag-ordered
// coefficients (coeffs[0] is DC) against the running per-component DC
// predictor pred, advancing pred to the block's DC value.
func BuildDataUnit(coeffs *[64]int32, pred *int32) DataUnit {
	diff := coeffs[0] - *pred
	*pred = coeffs[0]
	cat, mag := vli.Categorize(diff)

	u := DataUnit{DCCategory: cat, DCBits: mag}

	run := 0
	for i := 1; i < 64; i++ {
		v := coeffs[i]
		if v == 0 {
			run++
			continue
		}
		for run >= 16 {
			u.AC = append(u.AC, RLEPair{Run: 15, Value: 0})
			run -= 16
		}
		u.AC = append(u.AC, RLEPair{Run: uint8(run), Value: v})
		run = 0
	}
	if run > 0 {
		// Trailing zeros after the last nonzero coefficient: EOB. If
		// the last coefficient (index 63) was itself nonzero, run is
		// 0 here and no EOB is emitted, matching baseline T.81.
		u.AC = append(u.AC, RLEPair{Run: 0, Value: 0})
	}
	return u
}

// ApplyDataUnit decodes a data unit back into a zig-zag-ordered
// coefficient block, advancing the per-component DC predictor pred.
// It returns ErrBlockOverflow if the AC run sequence would place a
// coefficient past index 63.
func ApplyDataUnit(u DataUnit, pred *int32) (*[64]int32, error) {
	var coeffs [64]int32

	dc := vli.Decode(u.DCCategory, u.DCBits) + *pred
	*pred = dc
	coeffs[0] = dc

	cursor := 1
	for _, pair := range u.AC {
		switch {
		case pair.Run == 0 && pair.Value == 0: // EOB.
			cursor = 64
		case pair.Run == 15 && pair.Value == 0: // ZRL.
			cursor += 16
		default:
			cursor += int(pair.Run)
			if cursor >= 64 {
				return nil, ErrBlockOverflow
			}
			coeffs[cursor] = pair.Value
			cursor++
		}
		if cursor > 64 {
			return nil, ErrBlockOverflow
		}
	}
	return &coeffs, nil
}
