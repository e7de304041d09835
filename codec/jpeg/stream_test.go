/*
NAME
  stream_test.go

DESCRIPTION
  stream_test.go provides testing for DecodeStream in stream.go.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"bytes"
	"testing"

	"github.com/ausocean/utils/logging"
)

// TestDecodeStreamSplitsMultipleFrames checks that DecodeStream, via
// Lex, recovers each of several JPEG frames concatenated back to
// back, matching what an MJPEG source would deliver.
func TestDecodeStreamSplitsMultipleFrames(t *testing.T) {
	Log = (*logging.TestLogger)(t)

	first := testImage(1)
	second := testImage(3)

	encFirst, err := Encode(first, 80)
	if err != nil {
		t.Fatalf("Encode first: %v", err)
	}
	encSecond, err := Encode(second, 80)
	if err != nil {
		t.Fatalf("Encode second: %v", err)
	}

	var stream bytes.Buffer
	stream.Write(encFirst)
	stream.Write(encSecond)

	imgs, err := DecodeStream(&stream)
	if err != nil {
		t.Fatalf("DecodeStream: %v", err)
	}
	if len(imgs) != 2 {
		t.Fatalf("got %d frames, want 2", len(imgs))
	}
	if imgs[0].NComp != 1 || imgs[1].NComp != 3 {
		t.Fatalf("got component counts (%d,%d), want (1,3)", imgs[0].NComp, imgs[1].NComp)
	}
}

func TestDecodeStreamEmpty(t *testing.T) {
	Log = (*logging.TestLogger)(t)

	imgs, err := DecodeStream(&bytes.Buffer{})
	if err != nil {
		t.Fatalf("DecodeStream on empty input: %v", err)
	}
	if len(imgs) != 0 {
		t.Fatalf("got %d frames, want 0", len(imgs))
	}
}
