/*
NAME
  huffman.go

DESCRIPTION
  huffman.go builds a canonical Huffman code/length per symbol from a
  BITS histogram and HUFFVAL symbol list, and the corresponding
  decode table.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package huffman builds canonical JPEG Huffman tables from a BITS
// histogram (16 code-length counts) and a HUFFVAL symbol list, and
// provides forward (symbol -> code) and inverse (code -> symbol)
// lookups.
//
// The decode side is keyed by a (length, code) pair packed into a
// single uint32 rather than the textual bit string a naive port would
// use, avoiding a string allocation per decoded symbol.
package huffman

import "fmt"

// ErrInconsistentTable is returned by New when the BITS histogram's
// sum disagrees with the number of HUFFVAL symbols provided
// (invariant I1 cannot hold).
var ErrInconsistentTable = fmt.Errorf("huffman: BITS sum does not match HUFFVAL length")

// MaxLength is the longest code length a baseline JPEG Huffman table
// may use.
const MaxLength = 16

type code struct {
	length uint8
	bits   uint16
}

// Table is an immutable canonical Huffman table: a code/length per
// symbol, and its decode inverse.
type Table struct {
	bits    [16]byte
	values  []byte
	forward map[byte]code
	inverse map[uint32]byte // key: length<<16 | bits
	maxLen  uint8
}

// Bits returns the table's BITS histogram (counts of codes of each
// length 1..16).
func (t *Table) Bits() [16]byte { return t.bits }

// Values returns the table's HUFFVAL symbol list, in canonical order.
func (t *Table) Values() []byte { return t.values }

// MaxLength returns the longest code length actually used by this
// table.
func (t *Table) MaxLength() uint8 { return t.maxLen }

// New builds a canonical Huffman table from a BITS histogram and a
// HUFFVAL symbol list. It returns ErrInconsistentTable if
// sum(bits) != len(values).
func New(bits [16]byte, values []byte) (*Table, error) {
	var total int
	for _, n := range bits {
		total += int(n)
	}
	if total != len(values) {
		return nil, ErrInconsistentTable
	}

	t := &Table{
		bits:    bits,
		values:  append([]byte(nil), values...),
		forward: make(map[byte]code, len(values)),
		inverse: make(map[uint32]byte, len(values)),
	}

	var c uint16
	var vi int
	for length := 1; length <= MaxLength; length++ {
		n := int(bits[length-1])
		for i := 0; i < n; i++ {
			sym := values[vi]
			vi++
			t.forward[sym] = code{length: uint8(length), bits: c}
			t.inverse[key(uint8(length), c)] = sym
			c++
		}
		if n > 0 {
			t.maxLen = uint8(length)
		}
		c <<= 1
	}

	return t, nil
}

func key(length uint8, bits uint16) uint32 {
	return uint32(length)<<16 | uint32(bits)
}

// Encode returns the canonical code and its bit length for symbol. ok
// is false if symbol is not present in the table.
func (t *Table) Encode(symbol byte) (code uint16, length uint8, ok bool) {
	c, ok := t.forward[symbol]
	return c.bits, c.length, ok
}

// Decode returns the symbol whose canonical code of the given length
// equals bits. ok is false if no such code exists in the table.
func (t *Table) Decode(length uint8, bits uint16) (symbol byte, ok bool) {
	symbol, ok = t.inverse[key(length, bits)]
	return symbol, ok
}
