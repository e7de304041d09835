/*
NAME
  stream.go

DESCRIPTION
  stream.go decodes a concatenated sequence of baseline JPEG frames
  (for example an MJPEG stream) by first splitting it into discrete
  frames with Lex, then running each one through Decode.

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
	"fmt"
	"io"
)

// DecodeStream splits src into discrete JPEG frames with Lex (no
// inter-frame delay, since src is a fully buffered stream rather than
// a live one) and decodes each with Decode, returning every frame in
// stream order. Lex's normal end-of-stream signal, io.ErrUnexpectedEOF
// once all complete frames have been read, is not treated as an error
// here.
func DecodeStream(src io.Reader) ([]*Image, error) {
	var frames frameCollector
	err := Lex(&frames, src, 0)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	imgs := make([]*Image, len(frames.bufs))
	for i, buf := range frames.bufs {
		img, err := Decode(buf)
		if err != nil {
			return nil, fmt.Errorf("jpeg: frame %d: %w", i, err)
		}
		imgs[i] = img
	}
	return imgs, nil
}

// frameCollector is an io.Writer that records each Write call as a
// separate buffer. Lex calls Write exactly once per assembled frame,
// so this captures the split points Lex finds.
type frameCollector struct {
	bufs [][]byte
}

func (c *frameCollector) Write(b []byte) (int, error) {
	c.bufs = append(c.bufs, append([]byte(nil), b...))
	return len(b), nil
}
