/*
NAME
  dct_test.go

DESCRIPTION
  dct_test.go provides testing for the forward/inverse DCT pair,
  zig-zag reordering, and quantization table scaling in dct.go.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dct

import "testing"

// TestForwardInverseRoundTrip checks that applying Forward then
// Inverse to a block recovers the original samples to within a
// small floating-point tolerance.
func TestForwardInverseRoundTrip(t *testing.T) {
	blocks := [][64]float64{
		{}, // all-zero block.
		func() (b [64]float64) {
			for i := range b {
				b[i] = float64(i) - 32
			}
			return b
		}(),
		func() (b [64]float64) {
			for i := range b {
				b[i] = 127
			}
			return b
		}(),
	}

	for bi, want := range blocks {
		got := want
		Forward(&got)
		Inverse(&got)
		for i := range got {
			diff := got[i] - want[i]
			if diff < 0 {
				diff = -diff
			}
			if diff > 1e-6 {
				t.Fatalf("block %d: sample %d: got %v, want %v (diff %v)", bi, i, got[i], want[i], diff)
			}
		}
	}
}

func TestForwardDCOnly(t *testing.T) {
	var block [64]float64
	for i := range block {
		block[i] = 10
	}
	Forward(&block)
	// A constant block has energy only in the DC coefficient.
	if block[0] == 0 {
		t.Fatalf("expected nonzero DC coefficient, got %v", block[0])
	}
	for i := 1; i < 64; i++ {
		if diff := block[i]; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("AC coefficient %d = %v, want ~0", i, block[i])
		}
	}
}

// TestZigUnzigRoundTrip checks property P5: Unzig(Zig(b)) == b.
func TestZigUnzigRoundTrip(t *testing.T) {
	var raster [64]int32
	for i := range raster {
		raster[i] = int32(i * 3)
	}
	zz := Zig(raster)
	got := Unzig(zz)
	if got != raster {
		t.Fatalf("round trip failed: got %v, want %v", got, raster)
	}
}

func TestZigKnownPositions(t *testing.T) {
	var raster [64]int32
	raster[0] = 100  // DC, stays first.
	raster[1] = 200  // (0,1), second in zig-zag.
	raster[8] = 300  // (1,0), third in zig-zag.
	zz := Zig(raster)
	if zz[0] != 100 || zz[1] != 200 || zz[2] != 300 {
		t.Fatalf("unexpected zig-zag order: %v", zz[:3])
	}
}

func TestScaleQuantTableQuality50IsIdentity(t *testing.T) {
	got := ScaleQuantTable(DefaultLuminanceTable, 50)
	if got != DefaultLuminanceTable {
		t.Fatalf("quality 50 should reproduce the base table, got %v", got)
	}
}

func TestScaleQuantTableClampsRange(t *testing.T) {
	got := ScaleQuantTable(DefaultLuminanceTable, 1)
	for i, v := range got {
		if v < 1 || v > 255 {
			t.Errorf("entry %d = %d, out of [1,255]", i, v)
		}
	}
	got = ScaleQuantTable(DefaultLuminanceTable, 100)
	for i, v := range got {
		if v < 1 || v > 255 {
			t.Errorf("entry %d = %d, out of [1,255]", i, v)
		}
	}
}

func TestScaleQuantTableClampsQualityInput(t *testing.T) {
	lo := ScaleQuantTable(DefaultLuminanceTable, -5)
	want := ScaleQuantTable(DefaultLuminanceTable, 1)
	if lo != want {
		t.Errorf("quality below 1 should clamp to 1")
	}
	hi := ScaleQuantTable(DefaultLuminanceTable, 500)
	want = ScaleQuantTable(DefaultLuminanceTable, 100)
	if hi != want {
		t.Errorf("quality above 100 should clamp to 100")
	}
}
