/*
NAME
  color.go

DESCRIPTION
  color.go converts between 8-bit RGB and the YCbCr colour space the
  core codec's chrominance channels are coded in.

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

// RGBToYCbCr converts one RGB sample to YCbCr using the fixed-point
// BT.601 coefficients baseline JPEG encoders commonly use.
func RGBToYCbCr(r, g, b byte) (y, cb, cr byte) {
	ri, gi, bi := int(r), int(g), int(b)

	yy := (19595*ri + 38470*gi + 7471*bi + 32768) >> 16
	cbv := (-11056*ri - 21712*gi + 32768*bi + 8421376) >> 16
	crv := (32768*ri - 27440*gi - 5328*bi + 8421376) >> 16

	return clampByte(yy), clampByte(cbv), clampByte(crv)
}

// YCbCrToRGB converts one YCbCr sample back to RGB, reversing
// RGBToYCbCr.
func YCbCrToRGB(y, cb, cr byte) (r, g, b byte) {
	yi := int(y)
	cbv := int(cb) - 128
	crv := int(cr) - 128

	ri := yi + (91881*crv)>>16
	gi := yi - ((22554*cbv + 46802*crv) >> 16)
	bi := yi + (116130*cbv)>>16

	return clampByte(ri), clampByte(gi), clampByte(bi)
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
