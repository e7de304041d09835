/*
NAME
  image.go

DESCRIPTION
  image.go defines the in-memory image and frame data types Encode and
  Decode operate on.

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

// Image is a raster image ready for Encode, or produced by Decode.
// Pix holds NComp planes of Width*Height bytes each, concatenated; for
// NComp == 3 the planes are Y, Cb, Cr, already subsampled 4:4:4 (no
// chroma subsampling and no sample interleaving between components).
type Image struct {
	Width  int
	Height int
	NComp  int
	Pix    []byte
}

// plane returns the i'th component plane of img as a sub-slice of Pix.
func (img *Image) plane(i int) []byte {
	n := img.Width * img.Height
	return img.Pix[i*n : (i+1)*n]
}

// Component is one SOF0/SOS component descriptor: its id, which
// quantization table it references, and which DC/AC Huffman tables
// its scan uses.
type Component struct {
	ID      uint8
	QTable  uint8
	DCTable uint8
	ACTable uint8
}

// Frame is the decoded SOF0 header: overall dimensions plus the
// per-component descriptors that follow it.
type Frame struct {
	Width      int
	Height     int
	Components []Component
}
