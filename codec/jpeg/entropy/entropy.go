/*
NAME
  entropy.go

DESCRIPTION
  entropy.go serializes and parses one scan component's data units
  against a DC/AC Huffman table pair, over a bitio.Writer/Reader.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package entropy drives a component's sequence of block.DataUnit
// values through a huffman.Table pair and a bitio.Writer/Reader,
// coding a run/size symbol followed by VLI magnitude bits for every DC
// and AC token. The DC predictor is not kept here: data units carry
// the DC differential, and the caller resets and advances the
// predictor through block.BuildDataUnit/block.ApplyDataUnit.
package entropy

import (
	"fmt"

	"github.com/ausocean/jpegcodec/codec/jpeg/bitio"
	"github.com/ausocean/jpegcodec/codec/jpeg/block"
	"github.com/ausocean/jpegcodec/codec/jpeg/huffman"
	"github.com/ausocean/jpegcodec/codec/jpeg/vli"
)

// ErrHuffmanMiss is returned when decoding a scan encounters a bit
// sequence, as long as the active table's longest code, matching no
// code in that table.
var ErrHuffmanMiss = fmt.Errorf("entropy: no Huffman code matches")

// ErrTruncatedStream is returned when the bit reader runs out of
// input (or hits a marker) before a symbol or its magnitude bits are
// fully read.
var ErrTruncatedStream = fmt.Errorf("entropy: truncated entropy stream")

// ErrVliOutOfRange is returned when a decoded DC category exceeds
// vli.MaxCategory, which would make the magnitude bits ambiguous. A
// conformant encoder never emits such a category; this only guards
// against a corrupt or adversarial Huffman table.
var ErrVliOutOfRange = fmt.Errorf("entropy: VLI category exceeds allowed precision")

// EncodeScan writes units to w, each DC symbol coded against dc and
// each AC run/size symbol coded against ac, per spec §4.6/§4.7. The DC
// predictor is implicit in each unit (block.BuildDataUnit already
// computed the differential), so EncodeScan only serializes.
func EncodeScan(w *bitio.Writer, units []block.DataUnit, dc, ac *huffman.Table) error {
	for _, u := range units {
		code, length, ok := dc.Encode(u.DCCategory)
		if !ok {
			return fmt.Errorf("%w: DC category %d", ErrHuffmanMiss, u.DCCategory)
		}
		w.WriteBits(uint32(code), int(length))
		if u.DCCategory > 0 {
			w.WriteBits(u.DCBits, int(u.DCCategory))
		}

		for _, pair := range u.AC {
			cat, mag := vli.Categorize(pair.Value)
			symbol := pair.Run<<4 | cat
			code, length, ok := ac.Encode(symbol)
			if !ok {
				return fmt.Errorf("%w: AC symbol 0x%02X", ErrHuffmanMiss, symbol)
			}
			w.WriteBits(uint32(code), int(length))
			if cat > 0 {
				w.WriteBits(mag, int(cat))
			}
		}
	}
	return nil
}

// DecodeScan reads n data units from r, mirroring EncodeScan.
func DecodeScan(r *bitio.Reader, n int, dc, ac *huffman.Table) ([]block.DataUnit, error) {
	units := make([]block.DataUnit, 0, n)
	for i := 0; i < n; i++ {
		var u block.DataUnit

		cat, err := readSymbol(r, dc)
		if err != nil {
			return nil, err
		}
		if cat > vli.MaxCategory {
			return nil, ErrVliOutOfRange
		}
		u.DCCategory = cat
		if cat > 0 {
			bits, ok := r.ReadBits(int(cat))
			if !ok {
				return nil, ErrTruncatedStream
			}
			u.DCBits = bits
		}

		for {
			symbol, err := readSymbol(r, ac)
			if err != nil {
				return nil, err
			}
			run := symbol >> 4
			size := symbol & 0x0F

			if size == 0 {
				u.AC = append(u.AC, block.RLEPair{Run: run, Value: 0})
				if run == 0 { // EOB.
					break
				}
				continue // ZRL (run == 15).
			}

			bits, ok := r.ReadBits(int(size))
			if !ok {
				return nil, ErrTruncatedStream
			}
			value := vli.Decode(size, bits)
			u.AC = append(u.AC, block.RLEPair{Run: run, Value: value})

			if countConsumed(u.AC) >= 63 {
				break
			}
		}

		units = append(units, u)
	}
	return units, nil
}

// readSymbol walks bits one at a time, looking each partial code up
// in table, until it matches a code or exceeds table.MaxLength().
func readSymbol(r *bitio.Reader, table *huffman.Table) (byte, error) {
	var code uint16
	for length := 1; length <= int(table.MaxLength()); length++ {
		bit, ok := r.ReadBit()
		if !ok {
			return 0, ErrTruncatedStream
		}
		code = code<<1 | uint16(bit)
		if symbol, ok := table.Decode(uint8(length), code); ok {
			return symbol, nil
		}
	}
	return 0, ErrHuffmanMiss
}

// countConsumed returns the number of AC coefficient slots consumed
// by pairs so far (run+1 per non-terminator pair, 16 per ZRL),
// guarding against runaway loops on a corrupt stream; the authoritative
// overflow check lives in block.ApplyDataUnit's cursor arithmetic.
func countConsumed(pairs []block.RLEPair) int {
	n := 0
	for _, p := range pairs {
		switch {
		case p.Run == 0 && p.Value == 0:
			continue
		case p.Run == 15 && p.Value == 0:
			n += 16
		default:
			n += int(p.Run) + 1
		}
	}
	return n
}
