/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the error taxonomy surfaced by Encode and Decode,
  each wrapped with the byte or block offset at which it occurred.

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

import "github.com/pkg/errors"

// Sentinel errors surfaced by Encode/Decode. Callers should use
// errors.Is against these; the concrete error returned also carries a
// byte or block offset via github.com/pkg/errors' WithMessagef.
var (
	ErrTruncatedStream   = errors.New("jpeg: truncated stream")
	ErrBadMarker         = errors.New("jpeg: expected marker not found")
	ErrTableInconsistency = errors.New("jpeg: Huffman table inconsistency or bad selector")
	ErrHuffmanMiss       = errors.New("jpeg: no Huffman code matches")
	ErrVliOutOfRange     = errors.New("jpeg: VLI category exceeds allowed precision")
	ErrBlockOverflow     = errors.New("jpeg: AC cursor overflow")
	ErrDimensionMismatch = errors.New("jpeg: SOF0 dimensions inconsistent with scan block count")
	ErrInvalidQuality    = errors.New("jpeg: quality outside [1,100]")
)

// Errors specific to RTP/JPEG payload depacketization (RFC 2435),
// raised by Context.ParsePayload.
var (
	ErrUnimplementedType    = errors.New("jpeg: unimplemented RTP/JPEG type")
	ErrUnsupportedPrecision = errors.New("jpeg: unsupported quantization table precision")
	ErrNoQTable             = errors.New("jpeg: no quantization table available for q=127")
	ErrReservedQ            = errors.New("jpeg: reserved quantization value")
	ErrNoFrameStart         = errors.New("jpeg: no frame start seen yet")
)

// atByte wraps err with the byte offset in the stream at which it was
// detected.
func atByte(err error, offset int) error {
	return errors.WithMessagef(err, "at byte offset %d", offset)
}

// atBlock wraps err with the block index within a scan at which it
// was detected.
func atBlock(err error, index int) error {
	return errors.WithMessagef(err, "at block %d", index)
}
