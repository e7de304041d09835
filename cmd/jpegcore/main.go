/*
DESCRIPTION
  jpegcore is a demonstration program for the codec/jpeg encoder and
  decoder. It generates a built-in test pattern, encodes it at a
  configurable quality, decodes the result back, and reports the
  round-trip mean absolute error. No PNG/PPM I/O is provided; input is
  always the generated pattern and output is a raw planar dump plus
  the encoded JPEG bytes.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// jpegcore is a bare bones program for exercising the codec/jpeg
// encoder and decoder end to end.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/jpegcodec/codec/jpeg"
	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logging related constants.
const (
	logPath      = "jpegcore.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

func main() {
	width := flag.Int("width", 64, "Width of the generated test pattern, in pixels.")
	height := flag.Int("height", 64, "Height of the generated test pattern, in pixels.")
	nComp := flag.Int("components", 1, "Number of components: 1 (grayscale) or 3 (YCbCr).")
	quality := flag.Int("quality", 75, "Encode quality, 1-100.")
	frames := flag.Int("frames", 1, "Number of test-pattern frames to concatenate into an MJPEG-style stream.")
	out := flag.String("out", "", "Path to write the encoded JPEG to. Empty means don't write.")
	rawOut := flag.String("rawout", "", "Path to write the decoded raw planar dump to. Empty means don't write.")
	flag.Parse()

	if *frames < 1 {
		*frames = 1
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	jpeg.Log = logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	img := testPattern(*width, *height, *nComp)
	jpeg.Log.Debug("generated test pattern", "width", *width, "height", *height, "components", *nComp)

	encoded, err := jpeg.Encode(img, *quality)
	if err != nil {
		jpeg.Log.Fatal("encode failed", "error", err)
	}
	jpeg.Log.Debug("encoded", "bytes", len(encoded), "quality", *quality)

	// Concatenate the encoded frame *frames times to build an
	// MJPEG-style stream, then split and decode it with DecodeStream
	// (which lexes frame boundaries before decoding each one).
	var stream bytes.Buffer
	for i := 0; i < *frames; i++ {
		stream.Write(encoded)
	}
	decodedFrames, err := jpeg.DecodeStream(bytes.NewReader(stream.Bytes()))
	if err != nil {
		jpeg.Log.Fatal("stream decode failed", "error", err)
	}
	jpeg.Log.Debug("decoded stream", "frames", len(decodedFrames))

	decoded := decodedFrames[0]
	mae := meanAbsDiff(img.Pix, decoded.Pix)
	fmt.Printf("encoded %d frame(s) of %d bytes at quality %d, round-trip mean abs error = %.3f\n", len(decodedFrames), len(encoded), *quality, mae)

	if *out != "" {
		if err := os.WriteFile(*out, stream.Bytes(), 0644); err != nil {
			jpeg.Log.Fatal("could not write encoded output", "error", err)
		}
	}
	if *rawOut != "" {
		if err := os.WriteFile(*rawOut, decoded.Pix, 0644); err != nil {
			jpeg.Log.Fatal("could not write raw output", "error", err)
		}
	}
}

// testPattern generates a deterministic diagonal gradient with a
// checkerboard overlay, large enough to exercise multiple 8x8 blocks
// and edge padding when dimensions aren't multiples of 8.
func testPattern(w, h, nComp int) *jpeg.Image {
	img := &jpeg.Image{Width: w, Height: h, NComp: nComp, Pix: make([]byte, nComp*w*h)}
	n := w * h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := byte((x*5 + y*3) % 256)
			if (x/8+y/8)%2 == 0 {
				v = 255 - v
			}
			img.Pix[y*w+x] = v
		}
	}
	if nComp == 3 {
		for i := 0; i < n; i++ {
			img.Pix[n+i] = 128
			img.Pix[2*n+i] = 128
		}
	}
	return img
}

func meanAbsDiff(a, b []byte) float64 {
	var sum int
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum) / float64(len(a))
}
