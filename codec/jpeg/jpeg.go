/*
DESCRIPTION
  jpeg.go implements the core baseline JPEG container: the segment-
  marker framing that binds a frame header, quantization tables,
  Huffman tables and entropy-coded scan data together (Encode/Decode),
  plus the RTP/JPEG (RFC 2435) header synthesis this package also
  provides, ported from FFmpeg's C implementation of an RTP JPEG
  depacketizer. See https://ffmpeg.org/doxygen/2.6/rtpdec__jpeg_8c_source.html
  and https://tools.ietf.org/html/rfc2435.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jpeg implements a baseline sequential DCT JPEG still-image
// codec (Encode/Decode), and an RTP/JPEG (RFC 2435) depacketizer built
// on the same quantization and Huffman tables.
package jpeg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ausocean/jpegcodec/codec/jpeg/bitio"
	"github.com/ausocean/jpegcodec/codec/jpeg/block"
	"github.com/ausocean/jpegcodec/codec/jpeg/dct"
	"github.com/ausocean/jpegcodec/codec/jpeg/entropy"
	"github.com/ausocean/jpegcodec/codec/jpeg/huffman"
)

// Segment marker codes, each preceded by a 0xFF byte.
const (
	codeSOI  = 0xD8
	codeEOI  = 0xD9
	codeAPP0 = 0xE0
	codeDQT  = 0xDB
	codeDHT  = 0xC4
	codeSOF0 = 0xC0
	codeSOS  = 0xDA
	codeDRI  = 0xDD
)

// JFIF APP0 payload fields.
const (
	jfifHeadLen     = 16
	jfifVer         = 0x0102
	jfifDensityUnit = 0
	jfifXDensity    = 1
	jfifYDensity    = 1
	jfifXThumbCnt   = 0
	jfifYThumbCnt   = 0
)

var jfifLabel = []byte("JFIF\x00")

const (
	sofPrecision        = 8
	sofLen              = 17
	sofNoOfComponents   = 3
	sosLen              = 12
	sosComponentsInScan = 3
)

// maxJPEG bounds the size of JPEG frame the RTP depacketizer will
// assemble into a single buffer.
const maxJPEG = 1 << 20

// Encode renders img as a baseline JPEG byte stream at the given
// quality (1..100), coding each component in its own non-interleaved
// scan.
func Encode(img *Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		return nil, ErrInvalidQuality
	}
	if img.NComp != 1 && img.NComp != 3 {
		return nil, atByte(ErrDimensionMismatch, 0)
	}
	if len(img.Pix) != img.NComp*img.Width*img.Height {
		return nil, atByte(ErrDimensionMismatch, 0)
	}

	qLuma := dct.ScaleQuantTable(dct.DefaultLuminanceTable, quality)
	qChroma := dct.ScaleQuantTable(dct.DefaultChrominanceTable, quality)

	dcLuma, acLuma := huffman.DefaultDCLuminance(), huffman.DefaultACLuminance()
	dcChroma, acChroma := huffman.DefaultDCChrominance(), huffman.DefaultACChrominance()

	var buf bytes.Buffer
	writeMarker(&buf, codeSOI)
	writeSegment(&buf, codeAPP0, jfifPayload())

	appendQuantSegment(&buf, qLuma, 0)
	if img.NComp == 3 {
		appendQuantSegment(&buf, qChroma, 1)
	}

	appendHuffmanSegment(&buf, dcLuma, 0, 0)
	appendHuffmanSegment(&buf, acLuma, 1, 0)
	if img.NComp == 3 {
		appendHuffmanSegment(&buf, dcChroma, 0, 1)
		appendHuffmanSegment(&buf, acChroma, 1, 1)
	}

	comps := make([]Component, img.NComp)
	for i := range comps {
		var qsel, hsel uint8
		if i > 0 {
			qsel, hsel = 1, 1
		}
		comps[i] = Component{ID: uint8(i + 1), QTable: qsel, DCTable: hsel, ACTable: hsel}
	}
	appendSOF0(&buf, img.Width, img.Height, comps)

	for i, c := range comps {
		q, dc, ac := qLuma, dcLuma, acLuma
		if i > 0 {
			q, dc, ac = qChroma, dcChroma, acChroma
		}

		entropyBytes, err := encodeComponentScan(img.plane(i), img.Width, img.Height, q, dc, ac)
		if err != nil {
			return nil, err
		}
		appendSOS(&buf, []Component{c})
		buf.Write(entropyBytes)
	}

	writeMarker(&buf, codeEOI)
	return buf.Bytes(), nil
}

// encodeComponentScan tiles one component plane, forward-transforms
// and quantizes every block, then entropy-codes the resulting data
// units, returning the finished (stuffed) entropy bytes.
func encodeComponentScan(plane []byte, w, h int, q [64]int32, dc, ac *huffman.Table) ([]byte, error) {
	blocks, _, _ := block.Tile(plane, w, h, w)
	units := make([]block.DataUnit, len(blocks))
	var pred int32
	for bi, raster := range blocks {
		var f [64]float64
		for k, v := range raster {
			f[k] = float64(v)
		}
		dct.Forward(&f)

		var qcoeffs [64]int32
		for k := range f {
			qcoeffs[k] = int32(math.Round(f[k] / float64(q[k])))
		}
		zz := dct.Zig(qcoeffs)
		units[bi] = block.BuildDataUnit(&zz, &pred)
	}

	w2 := bitio.NewWriter()
	if err := entropy.EncodeScan(w2, units, dc, ac); err != nil {
		return nil, err
	}
	return w2.Finish(), nil
}

// Decode parses a baseline JPEG byte stream produced by Encode (one
// non-interleaved scan per component) back into an Image.
func Decode(data []byte) (*Image, error) {
	idx := 0
	code, idx, err := readMarker(data, idx)
	if err != nil {
		return nil, err
	}
	if code != codeSOI {
		return nil, atByte(ErrBadMarker, 0)
	}

	quant := map[uint8][64]int32{}
	huff := map[uint8]*huffman.Table{}
	var frame *Frame
	img := &Image{}

	for {
		code, idx, err = readMarker(data, idx)
		if err != nil {
			return nil, err
		}

		switch code {
		case codeAPP0, codeDRI:
			_, idx, err = readSegment(data, idx)
			if err != nil {
				return nil, err
			}

		case codeDQT:
			var payload []byte
			payload, idx, err = readSegment(data, idx)
			if err != nil {
				return nil, err
			}
			if len(payload) < 65 {
				return nil, atByte(ErrTruncatedStream, idx)
			}
			id := payload[0] & 0x0F
			var zz [64]int32
			for i, v := range payload[1:65] {
				zz[i] = int32(v)
			}
			quant[id] = dct.Unzig(zz)

		case codeDHT:
			var payload []byte
			payload, idx, err = readSegment(data, idx)
			if err != nil {
				return nil, err
			}
			tbl, classID, err := parseHuffmanSegment(payload)
			if err != nil {
				return nil, atByte(err, idx)
			}
			huff[classID] = tbl

		case codeSOF0:
			var payload []byte
			payload, idx, err = readSegment(data, idx)
			if err != nil {
				return nil, err
			}
			f, err := parseSOF0(payload)
			if err != nil {
				return nil, atByte(err, idx)
			}
			frame = f
			img.Width, img.Height, img.NComp = f.Width, f.Height, len(f.Components)
			img.Pix = make([]byte, img.NComp*img.Width*img.Height)

		case codeSOS:
			if frame == nil {
				return nil, atByte(ErrBadMarker, idx)
			}
			var payload []byte
			payload, idx, err = readSegment(data, idx)
			if err != nil {
				return nil, err
			}
			compIndex, dcSel, acSel, err := parseSOS(payload, frame)
			if err != nil {
				return nil, atByte(err, idx)
			}

			qTbl, ok := quant[frame.Components[compIndex].QTable]
			if !ok {
				return nil, atByte(ErrTableInconsistency, idx)
			}
			dcTbl, ok := huff[dcSel]
			if !ok {
				return nil, atByte(ErrTableInconsistency, idx)
			}
			acTbl, ok := huff[1<<4|acSel]
			if !ok {
				return nil, atByte(ErrTableInconsistency, idx)
			}

			consumed, err := decodeComponentScan(data[idx:], frame.Width, frame.Height, qTbl, dcTbl, acTbl, img.plane(compIndex))
			if err != nil {
				return nil, atByte(err, idx)
			}
			idx += consumed

		case codeEOI:
			return img, nil

		default:
			return nil, atByte(ErrBadMarker, idx-2)
		}
	}
}

// decodeComponentScan reads exactly enough entropy-coded bytes from
// data to fill a component's blocks, writing the reconstructed
// samples into dst. It returns the number of raw bytes consumed.
func decodeComponentScan(data []byte, w, h int, q [64]int32, dc, ac *huffman.Table, dst []byte) (int, error) {
	bw := (w + 7) / 8
	bh := (h + 7) / 8

	r := bitio.NewReader(data)
	units, err := entropy.DecodeScan(r, bw*bh, dc, ac)
	switch err {
	case nil: // Do nothing.
	case entropy.ErrHuffmanMiss:
		return 0, ErrHuffmanMiss
	case entropy.ErrVliOutOfRange:
		return 0, ErrVliOutOfRange
	case entropy.ErrTruncatedStream:
		return 0, ErrTruncatedStream
	default:
		return 0, ErrTruncatedStream
	}

	blocks := make([][64]int32, len(units))
	var pred int32
	for bi, u := range units {
		zz, err := block.ApplyDataUnit(u, &pred)
		if err != nil {
			return 0, atBlock(ErrBlockOverflow, bi)
		}
		raster := dct.Unzig(*zz)

		var f [64]float64
		for k, v := range raster {
			f[k] = float64(v) * float64(q[k])
		}
		dct.Inverse(&f)

		var spatial [64]int32
		for k, v := range f {
			spatial[k] = int32(math.Round(v))
		}
		blocks[bi] = spatial
	}

	copy(dst, block.Untile(blocks, bw, bh, w, h, w))
	return r.Offset(), nil
}

func writeMarker(buf *bytes.Buffer, code byte) {
	buf.WriteByte(0xFF)
	buf.WriteByte(code)
}

func writeSegment(buf *bytes.Buffer, code byte, payload []byte) {
	writeMarker(buf, code)
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(payload)+2))
	buf.Write(lenBuf[:])
	buf.Write(payload)
}

func jfifPayload() []byte {
	var p bytes.Buffer
	p.Write(jfifLabel)
	var u16 [2]byte
	binary.BigEndian.PutUint16(u16[:], jfifVer)
	p.Write(u16[:])
	p.WriteByte(jfifDensityUnit)
	binary.BigEndian.PutUint16(u16[:], jfifXDensity)
	p.Write(u16[:])
	binary.BigEndian.PutUint16(u16[:], jfifYDensity)
	p.Write(u16[:])
	p.WriteByte(jfifXThumbCnt)
	p.WriteByte(jfifYThumbCnt)
	return p.Bytes()
}

func appendQuantSegment(buf *bytes.Buffer, q [64]int32, id byte) {
	var payload bytes.Buffer
	payload.WriteByte(id)
	zz := dct.Zig(q)
	for _, v := range zz {
		payload.WriteByte(byte(v))
	}
	writeSegment(buf, codeDQT, payload.Bytes())
}

func appendHuffmanSegment(buf *bytes.Buffer, tbl *huffman.Table, class, id byte) {
	var payload bytes.Buffer
	payload.WriteByte(class<<4 | id)
	bits := tbl.Bits()
	payload.Write(bits[:])
	payload.Write(tbl.Values())
	writeSegment(buf, codeDHT, payload.Bytes())
}

func parseHuffmanSegment(payload []byte) (tbl *huffman.Table, classID uint8, err error) {
	if len(payload) < 17 {
		return nil, 0, ErrTruncatedStream
	}
	classID = payload[0]
	var bits [16]byte
	copy(bits[:], payload[1:17])
	n := 0
	for _, b := range bits {
		n += int(b)
	}
	if len(payload) < 17+n {
		return nil, 0, ErrTruncatedStream
	}
	values := append([]byte(nil), payload[17:17+n]...)
	tbl, err = huffman.New(bits, values)
	if err != nil {
		return nil, 0, ErrTableInconsistency
	}
	return tbl, classID, nil
}

func appendSOF0(buf *bytes.Buffer, width, height int, comps []Component) {
	var payload bytes.Buffer
	payload.WriteByte(sofPrecision)
	var u16 [2]byte
	binary.BigEndian.PutUint16(u16[:], uint16(height))
	payload.Write(u16[:])
	binary.BigEndian.PutUint16(u16[:], uint16(width))
	payload.Write(u16[:])
	payload.WriteByte(byte(len(comps)))
	for _, c := range comps {
		payload.WriteByte(c.ID)
		payload.WriteByte(1<<4 | 1) // Sampling factors: always 1x1 (no chroma subsampling).
		payload.WriteByte(c.QTable)
	}
	writeSegment(buf, codeSOF0, payload.Bytes())
}

func parseSOF0(payload []byte) (*Frame, error) {
	if len(payload) < 6 {
		return nil, ErrTruncatedStream
	}
	if payload[0] != sofPrecision {
		return nil, ErrBadMarker
	}
	height := int(binary.BigEndian.Uint16(payload[1:]))
	width := int(binary.BigEndian.Uint16(payload[3:]))
	nf := int(payload[5])
	if len(payload) < 6+nf*3 {
		return nil, ErrTruncatedStream
	}
	comps := make([]Component, nf)
	p := 6
	for i := 0; i < nf; i++ {
		comps[i] = Component{ID: payload[p], QTable: payload[p+2]}
		p += 3
	}
	return &Frame{Width: width, Height: height, Components: comps}, nil
}

func appendSOS(buf *bytes.Buffer, comps []Component) {
	var payload bytes.Buffer
	payload.WriteByte(byte(len(comps)))
	for _, c := range comps {
		payload.WriteByte(c.ID)
		payload.WriteByte(c.DCTable<<4 | c.ACTable)
	}
	payload.WriteByte(0)  // Ss: spectral selection start.
	payload.WriteByte(63) // Se: spectral selection end.
	payload.WriteByte(0)  // Ah/Al: successive approximation (unused, baseline).
	writeSegment(buf, codeSOS, payload.Bytes())
}

// parseSOS returns the decoded component's index into frame.Components
// and its DC/AC Huffman table selectors. Only single-component
// (non-interleaved) scans are supported.
func parseSOS(payload []byte, frame *Frame) (compIndex int, dcSel, acSel uint8, err error) {
	if len(payload) < 4 {
		return 0, 0, 0, ErrTruncatedStream
	}
	ns := int(payload[0])
	if ns != 1 {
		return 0, 0, 0, ErrTableInconsistency
	}
	id := payload[1]
	dcSel = payload[2] >> 4
	acSel = payload[2] & 0x0F

	for i, c := range frame.Components {
		if c.ID == id {
			return i, dcSel, acSel, nil
		}
	}
	return 0, 0, 0, ErrTableInconsistency
}

func readMarker(data []byte, idx int) (code byte, next int, err error) {
	if idx+2 > len(data) || data[idx] != 0xFF {
		return 0, idx, atByte(ErrBadMarker, idx)
	}
	return data[idx+1], idx + 2, nil
}

func readSegment(data []byte, idx int) (payload []byte, next int, err error) {
	if idx+2 > len(data) {
		return nil, idx, atByte(ErrTruncatedStream, idx)
	}
	length := int(binary.BigEndian.Uint16(data[idx:]))
	if length < 2 || idx+length > len(data) {
		return nil, idx, atByte(ErrTruncatedStream, idx)
	}
	return data[idx+2 : idx+length], idx + length, nil
}

// Context describes a RTP/JPEG parsing context that will keep track of the current
// JPEG (held by p), and the state of the quantization tables.
type Context struct {
	qTables    [128][128]byte
	qTablesLen [128]byte
	buf        []byte
	blen       int
	dst        io.Writer
}

// NewContext will return a new Context with destination d.
func NewContext(d io.Writer) *Context {
	return &Context{
		dst: d,
		buf: make([]byte, maxJPEG),
	}
}

// ParsePayload will parse an RTP/JPEG payload and append to current image.
func (c *Context) ParsePayload(p []byte, m bool) error {
	idx := 1              // Ignore type-specific flag (skip to index 1).
	off := get24(p[idx:]) // Fragment offset (3 bytes).
	t := int(p[idx+3])    // Type (1 byte).
	q := p[idx+4]         // Quantization value (1 byte).
	width := p[idx+5]     // Picture width (1 byte).
	height := p[idx+6]    // Picture height (1 byte).
	idx += 7

	var dri uint16 // Restart interval.

	if t&0x40 != 0 {
		dri = binary.BigEndian.Uint16(p[idx:])
		idx += 4 // Ignore restart count (2 bytes).
		t &= ^0x40
	}

	if t > 1 {
		return ErrUnimplementedType
	}

	// Parse quantization table if our offset is 0.
	if off == 0 {
		var qTable []byte
		var qLen int

		if q > 127 {
			idx++
			prec := p[idx]                                 // The size of coefficients (1 byte).
			qLen = int(binary.BigEndian.Uint16(p[idx+1:])) // The length of the quantization table (2 bytes).
			idx += 3

			if prec != 0 {
				return ErrUnsupportedPrecision
			}

			q -= 128
			if qLen > 0 {
				qTable = p[idx : idx+qLen]
				idx += qLen

				if q < 127 && c.qTablesLen[q] == 0 && qLen <= 0 {
					copy(c.qTables[q][:], qTable)
					c.qTablesLen[q] = byte(qLen)
				}
			} else {
				if q == 127 {
					return ErrNoQTable
				}

				if c.qTablesLen[q] == 0 {
					return fmt.Errorf("no quantization tables known for q %d yet", q)
				}

				qTable = c.qTables[q][:]
				qLen = int(c.qTablesLen[q])
			}
		} else { // q <= 127
			if q == 0 || q > 99 {
				return ErrReservedQ
			}
			qTable = defaultQTable(int(q))
			qLen = len(qTable)
		}

		c.blen = writeHeader(c.buf[c.blen:], int(t), int(width), int(height), qLen/64, dri, qTable)
	}

	if c.blen == 0 {
		// Must have missed start of frame? So ignore and wait for start.
		return ErrNoFrameStart
	}

	// TODO: check that timestamp is consistent
	// This will need expansion to RTP package to create Timestamp parsing func.

	// TODO: could also check offset with how many bytes we currently have
	// to determine if there are missing frames.

	// Write frame data.
	rem := len(p)
	c.blen += copy(c.buf[c.blen:], p[idx:rem])
	idx += rem

	if m {
		// End of image marker.
		binary.BigEndian.PutUint16(c.buf[c.blen:], 0xff00|codeEOI)
		c.blen += 2

		n, err := c.dst.Write(c.buf[0:c.blen])
		if err != nil {
			return fmt.Errorf("could not write JPEG to dst: %w", err)
		}
		c.blen -= n
	}
	return nil
}

// writeHeader writes a JPEG header to the writer slice p, drawing its
// quantization and Huffman tables from the dct/huffman packages so
// that the header it synthesizes shares one source of truth with
// Encode's container framing.
func writeHeader(p []byte, _type, width, height, nbqTab int, dri uint16, qtable []byte) int {
	width <<= 3
	height <<= 3

	// Indicate start of image.
	idx := 0
	binary.BigEndian.PutUint16(p[idx:], 0xff00|codeSOI)

	// Write JFIF header.
	binary.BigEndian.PutUint16(p[idx+2:], 0xff00|codeAPP0)
	binary.BigEndian.PutUint16(p[idx+4:], jfifHeadLen)
	idx += 6

	idx += copy(p[idx:], jfifLabel)
	binary.BigEndian.PutUint16(p[idx:], jfifVer)
	p[idx+2] = jfifDensityUnit
	binary.BigEndian.PutUint16(p[idx+3:], jfifXDensity)
	binary.BigEndian.PutUint16(p[idx+5:], jfifYDensity)
	p[idx+7] = jfifXThumbCnt
	p[idx+8] = jfifYThumbCnt
	idx += 9

	// If we want to define restart interval then write that.
	if dri != 0 {
		binary.BigEndian.PutUint16(p[idx:], 0xff00|codeDRI)
		binary.BigEndian.PutUint16(p[idx+2:], 4)
		binary.BigEndian.PutUint16(p[idx+4:], dri)
		idx += 6
	}

	// Define quantization tables.
	binary.BigEndian.PutUint16(p[idx:], 0xff00|codeDQT)

	// Calculate table size and create slice for table.
	ts := 2 + nbqTab*(1+64)
	binary.BigEndian.PutUint16(p[idx+2:], uint16(ts))
	idx += 4

	for i := 0; i < nbqTab; i++ {
		p[idx] = byte(i)
		idx++
		idx += copy(p[idx:], qtable[64*i:(64*i)+64])
	}

	// Define huffman table.
	binary.BigEndian.PutUint16(p[idx:], 0xff00|codeDHT)
	idx += 2
	lenIdx := idx
	binary.BigEndian.PutUint16(p[idx:], 0)
	idx += 2
	idx += writeHuffman(p[idx:], huffman.DefaultDCLuminance(), 0)
	idx += writeHuffman(p[idx:], huffman.DefaultDCChrominance(), 1)
	idx += writeHuffman(p[idx:], huffman.DefaultACLuminance(), 1<<4)
	idx += writeHuffman(p[idx:], huffman.DefaultACChrominance(), 1<<4|1)
	binary.BigEndian.PutUint16(p[lenIdx:], uint16(idx-lenIdx))

	// Start of frame.
	binary.BigEndian.PutUint16(p[idx:], 0xff00|codeSOF0)
	idx += 2

	// Derive sample type.
	sample := 1
	if _type != 0 {
		sample = 2
	}

	// Derive matrix number.
	var mtxNo uint8
	if nbqTab == 2 {
		mtxNo = 1
	}

	binary.BigEndian.PutUint16(p[idx:], sofLen)
	p[idx+2] = byte(sofPrecision)
	binary.BigEndian.PutUint16(p[idx+3:], uint16(height))
	binary.BigEndian.PutUint16(p[idx+5:], uint16(width))
	p[idx+7] = byte(sofNoOfComponents)
	idx += 8

	// Component descriptors: luma (id 1) with the RFC 2435 "sample"
	// sampling factor and quant table 0, then two 1x1 chroma
	// components (ids 2, 3) sharing quant table mtxNo.
	idx += copy(p[idx:], []byte{1, uint8((2 << 4) | sample), 0, 2, 1<<4 | 1, mtxNo, 3, 1<<4 | 1, mtxNo})

	// Write start of scan.
	binary.BigEndian.PutUint16(p[idx:], 0xff00|codeSOS)
	binary.BigEndian.PutUint16(p[idx+2:], sosLen)
	p[idx+4] = sosComponentsInScan
	idx += 5

	// Per-component (id, dc_sel<<4|ac_sel) pairs, then Ss, Se, Ah/Al.
	idx += copy(p[idx:], []byte{1, 0, 2, 17, 3, 17, 0, 63, 0})

	return idx
}

// writeHuffman writes one DHT table entry (class/id byte, BITS, HUFFVAL)
// for tbl into the writer slice p.
func writeHuffman(p []byte, tbl *huffman.Table, prefix byte) int {
	p[0] = prefix
	bits := tbl.Bits()
	i := copy(p[1:], bits[:])
	return copy(p[i+1:], tbl.Values()) + i + 1
}

// defaultQTable returns the 128-byte (two 64-entry, zig-zag ordered)
// default luminance/chrominance quantization table pair at RTP/JPEG
// quality q, scaled from the shared Annex K base tables.
func defaultQTable(q int) []byte {
	luma := dct.Zig(dct.ScaleQuantTable(dct.DefaultLuminanceTable, q))
	chroma := dct.Zig(dct.ScaleQuantTable(dct.DefaultChrominanceTable, q))
	tab := make([]byte, 128)
	for i, v := range luma {
		tab[i] = byte(v)
	}
	for i, v := range chroma {
		tab[64+i] = byte(v)
	}
	return tab
}

// get24 parses an int24 from p using big endian order.
func get24(p []byte) int {
	return int(p[0])<<16 | int(p[1])<<8 | int(p[2])
}
