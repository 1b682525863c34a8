// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package georaster

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strconv"
)

const (
	wkbXDR byte = 0
	wkbNDR byte = 1

	wkbVersion uint16 = 0

	// headerSize is the size in bytes of the fixed raster header.
	headerSize = 1 + 2 + 2 + 6*8 + 4 + 2 + 2

	bandFlagOffline   byte = 0x80
	bandFlagHasNoData byte = 0x40
	bandFlagIsNoData  byte = 0x20
	bandPixelTypeMask byte = 0x0f
)

type appendByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// EncodedSize returns the number of bytes WKB produces for the raster.
func (r *Raster) EncodedSize() int {
	n := headerSize
	for _, b := range r.bands {
		n += 1 + b.pixelType.Size()*(1+len(b.samples))
	}
	return n
}

// WKB encodes the raster using the given byte order, which must be
// binary.LittleEndian or binary.BigEndian.
func (r *Raster) WKB(byteOrder binary.ByteOrder) []byte {
	buf := make([]byte, 0, r.EncodedSize())
	var order appendByteOrder = binary.LittleEndian
	if byteOrder == binary.BigEndian {
		order = binary.BigEndian
		buf = append(buf, wkbXDR)
	} else {
		buf = append(buf, wkbNDR)
	}
	buf = order.AppendUint16(buf, wkbVersion)
	buf = order.AppendUint16(buf, uint16(len(r.bands)))
	for _, f := range [...]float64{
		r.transform.PixelSizeX,
		r.transform.PixelSizeY,
		r.transform.OriginX,
		r.transform.OriginY,
		0, // skewX
		0, // skewY
	} {
		buf = order.AppendUint64(buf, math.Float64bits(f))
	}
	buf = order.AppendUint32(buf, uint32(r.srid))
	buf = order.AppendUint16(buf, r.width)
	buf = order.AppendUint16(buf, r.height)

	for _, b := range r.bands {
		flags := byte(b.pixelType) & bandPixelTypeMask
		if b.hasNoData {
			flags |= bandFlagHasNoData
		}
		if b.isNoData {
			flags |= bandFlagIsNoData
		}
		buf = append(buf, flags)
		// The nodata slot is always written; it holds 0 without a nodata value.
		buf = appendValue(buf, order, b.pixelType, b.nodata)
		for _, v := range b.samples {
			buf = appendValue(buf, order, b.pixelType, v)
		}
	}
	return buf
}

// WKBHex returns the lowercase hex encoding of the little endian WKB of the
// raster. This is the text form accepted by a PostGIS raster column.
func (r *Raster) WKBHex() string {
	return hex.EncodeToString(r.WKB(binary.LittleEndian))
}

// appendValue packs v according to pt. v must fit pt, which NewBand
// guarantees.
func appendValue(buf []byte, order appendByteOrder, pt PixelType, v Value) []byte {
	if pt == PixelType32BF {
		return order.AppendUint32(buf, math.Float32bits(float32(v.mustFloat64())))
	}
	i, _ := v.asInt64()
	switch pt.Size() {
	case 1:
		return append(buf, byte(i))
	case 2:
		return order.AppendUint16(buf, uint16(i))
	default:
		return order.AppendUint32(buf, uint32(i))
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
