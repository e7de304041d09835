/*
NAME
  huffman_test.go

DESCRIPTION
  huffman_test.go provides testing for canonical Huffman table
  construction and lookup in huffman.go.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package huffman

import (
	"errors"
	"testing"
)

func TestNewInconsistentTable(t *testing.T) {
	bits := [16]byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err := New(bits, []byte{1, 2}) // bits sums to 1, but 2 values given.
	if !errors.Is(err, ErrInconsistentTable) {
		t.Fatalf("got %v, want ErrInconsistentTable", err)
	}
}

func TestCanonicalCodes(t *testing.T) {
	// A small table: one 1-bit code, two 2-bit codes, matching the
	// textbook canonical-code example.
	bits := [16]byte{1, 2}
	values := []byte{'A', 'B', 'C'}
	tbl, err := New(bits, values)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		sym        byte
		wantLength uint8
		wantCode   uint16
	}{
		{'A', 1, 0b0},
		{'B', 2, 0b10},
		{'C', 2, 0b11},
	}
	for _, test := range tests {
		code, length, ok := tbl.Encode(test.sym)
		if !ok {
			t.Fatalf("Encode(%q) missing", test.sym)
		}
		if code != test.wantCode || length != test.wantLength {
			t.Errorf("Encode(%q) = (%b,%d), want (%b,%d)", test.sym, code, length, test.wantCode, test.wantLength)
		}
		gotSym, ok := tbl.Decode(length, code)
		if !ok || gotSym != test.sym {
			t.Errorf("Decode(%d,%b) = (%q,%v), want (%q,true)", length, code, gotSym, ok, test.sym)
		}
	}

	if got, want := tbl.MaxLength(), uint8(2); got != want {
		t.Errorf("MaxLength() = %d, want %d", got, want)
	}
}

// TestStandardTablesRoundTrip checks property P3: every symbol in each
// standard table decodes to itself after going through Encode/Decode.
func TestStandardTablesRoundTrip(t *testing.T) {
	tables := map[string]*Table{
		"dc-luma":   DefaultDCLuminance(),
		"dc-chroma": DefaultDCChrominance(),
		"ac-luma":   DefaultACLuminance(),
		"ac-chroma": DefaultACChrominance(),
	}
	for name, tbl := range tables {
		for _, sym := range tbl.Values() {
			code, length, ok := tbl.Encode(sym)
			if !ok {
				t.Fatalf("%s: Encode(%d) missing", name, sym)
			}
			got, ok := tbl.Decode(length, code)
			if !ok || got != sym {
				t.Errorf("%s: round trip for symbol %d: got (%d,%v)", name, sym, got, ok)
			}
		}
	}
}

func TestDecodeMiss(t *testing.T) {
	tbl := DefaultDCLuminance()
	if _, ok := tbl.Decode(16, 0xFFFF); ok {
		t.Fatal("expected decode miss for an unused (length,code) pair")
	}
}
