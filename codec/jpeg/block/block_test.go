/*
NAME
  block_test.go

DESCRIPTION
  block_test.go provides testing for 8x8 tiling/untiling and the DC
  differential/AC run-length coding in block.go.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package block

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTileUntileRoundTrip(t *testing.T) {
	const w, h = 10, 9 // Not a multiple of 8, exercises padding.
	samples := make([]byte, w*h)
	for i := range samples {
		samples[i] = byte(i * 7)
	}

	blocks, bw, bh := Tile(samples, w, h, w)
	if bw != 2 || bh != 2 {
		t.Fatalf("got grid %dx%d, want 2x2", bw, bh)
	}

	got := Untile(blocks, bw, bh, w, h, w)
	if len(got) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(got), len(samples))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Fatalf("sample %d: got %d, want %d", i, got[i], samples[i])
		}
	}
}

func TestTilePaddingIsZero(t *testing.T) {
	samples := []byte{10, 20, 30}
	blocks, bw, bh := Tile(samples, 3, 1, 3)
	if bw != 1 || bh != 1 {
		t.Fatalf("got grid %dx%d, want 1x1", bw, bh)
	}
	b := blocks[0]
	// Padded samples are zero before the -128 level shift.
	if b[3] != -128 {
		t.Errorf("padded sample = %d, want -128", b[3])
	}
	if b[0] != -118 {
		t.Errorf("first sample = %d, want -118 (10-128)", b[0])
	}
}

// TestBuildDataUnitAllZero checks scenario S1: an all-zero block codes
// to DC category 0 and a single EOB AC pair.
func TestBuildDataUnitAllZero(t *testing.T) {
	var coeffs [64]int32
	pred := int32(0)
	u := BuildDataUnit(&coeffs, &pred)

	if u.DCCategory != 0 || u.DCBits != 0 {
		t.Errorf("DC = (%d,%d), want (0,0)", u.DCCategory, u.DCBits)
	}
	if len(u.AC) != 1 || u.AC[0] != (RLEPair{Run: 0, Value: 0}) {
		t.Errorf("AC = %v, want single EOB pair", u.AC)
	}
}

// TestBuildDataUnitZRL checks scenario S4: 16 leading AC zeros then
// value 1 at zig-zag index 17 emits exactly one ZRL pair followed by
// (0,1).
func TestBuildDataUnitZRL(t *testing.T) {
	var coeffs [64]int32
	coeffs[17] = 1 // 16 leading zeros (AC indices 1..16) then value 1.
	pred := int32(0)
	u := BuildDataUnit(&coeffs, &pred)

	want := []RLEPair{{Run: 15, Value: 0}, {Run: 0, Value: 1}, {Run: 0, Value: 0}}
	if diff := cmp.Diff(want, u.AC); diff != "" {
		t.Errorf("AC mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDataUnitNoEOBWhenLastNonzero(t *testing.T) {
	var coeffs [64]int32
	coeffs[63] = 5
	pred := int32(0)
	u := BuildDataUnit(&coeffs, &pred)

	last := u.AC[len(u.AC)-1]
	if last == (RLEPair{Run: 0, Value: 0}) {
		t.Fatalf("unexpected EOB when index 63 is nonzero: %v", u.AC)
	}
}

// TestDataUnitRoundTrip checks that BuildDataUnit/ApplyDataUnit are
// mutual inverses across a variety of coefficient patterns, including
// the DC predictor's carry across successive blocks.
func TestDataUnitRoundTrip(t *testing.T) {
	patterns := [][64]int32{
		{},
		func() (c [64]int32) { c[0] = 100; return }(),
		func() (c [64]int32) { c[0] = -50; c[1] = 3; c[10] = -7; c[63] = 1; return }(),
		func() (c [64]int32) { c[16] = 1; return }(),
	}

	var encPred, decPred int32
	for i, want := range patterns {
		u := BuildDataUnit(&want, &encPred)
		got, err := ApplyDataUnit(u, &decPred)
		if err != nil {
			t.Fatalf("pattern %d: %v", i, err)
		}
		if diff := cmp.Diff(want, *got); diff != "" {
			t.Fatalf("pattern %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestApplyDataUnitOverflow(t *testing.T) {
	u := DataUnit{AC: []RLEPair{{Run: 15, Value: 0}, {Run: 15, Value: 0}, {Run: 15, Value: 0}, {Run: 15, Value: 0}, {Run: 15, Value: 5}}}
	pred := int32(0)
	_, err := ApplyDataUnit(u, &pred)
	if !errors.Is(err, ErrBlockOverflow) {
		t.Fatalf("got %v, want ErrBlockOverflow", err)
	}
}
