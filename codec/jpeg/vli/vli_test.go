/*
NAME
  vli_test.go

DESCRIPTION
  vli_test.go provides testing for the VLI codec in vli.go.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vli

import "testing"

func TestCategorizeKnownValues(t *testing.T) {
	tests := []struct {
		v       int32
		cat     uint8
		mag     uint32
	}{
		{0, 0, 0},
		{1, 1, 1},
		{-1, 1, 0},
		{2, 2, 2},
		{-2, 2, 1},
		{3, 2, 3},
		{-3, 2, 0},
		{4, 3, 4},
		{-4, 3, 3},
		{7, 3, 7},
		{-7, 3, 0},
		{128, 8, 128},
		{-128, 8, 127},
		{2047, 11, 2047},
		{-2047, 11, 0},
	}
	for _, test := range tests {
		cat, mag := Categorize(test.v)
		if cat != test.cat || mag != test.mag {
			t.Errorf("Categorize(%d) = (%d,%d), want (%d,%d)", test.v, cat, mag, test.cat, test.mag)
		}
	}
}

// TestRoundTrip checks property P2: decode_vli(categorize(v)) == v for
// all v with |v| < 2^16.
func TestRoundTrip(t *testing.T) {
	for v := int32(-65535); v <= 65535; v += 37 { // Sparse sweep across the range.
		cat, mag := Categorize(v)
		got := Decode(cat, mag)
		if got != v {
			t.Fatalf("round trip failed for v=%d: got %d (cat=%d, mag=%d)", v, got, cat, mag)
		}
	}
	// Exhaustive check near the boundaries where category changes.
	for v := int32(-300); v <= 300; v++ {
		cat, mag := Categorize(v)
		if got := Decode(cat, mag); got != v {
			t.Fatalf("round trip failed for v=%d: got %d (cat=%d, mag=%d)", v, got, cat, mag)
		}
	}
}

func TestDecodeZeroCategory(t *testing.T) {
	if got := Decode(0, 0); got != 0 {
		t.Errorf("Decode(0,0) = %d, want 0", got)
	}
}
