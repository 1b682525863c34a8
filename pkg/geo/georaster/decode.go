// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package georaster

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/geo/geopb"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgerror"
)

// wkbReader reads fixed size fields off a raster WKB. The first failure is
// sticky; callers check err once they are done.
type wkbReader struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
	err   error
}

func (r *wkbReader) next(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf)-r.pos < n {
		r.err = newInvalidWKBErrorf(
			"unexpected end of raster WKB reading %s at offset %d", errors.Safe(what), errors.Safe(r.pos),
		)
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *wkbReader) uint8(what string) uint8 {
	if b := r.next(1, what); b != nil {
		return b[0]
	}
	return 0
}

func (r *wkbReader) uint16(what string) uint16 {
	if b := r.next(2, what); b != nil {
		return r.order.Uint16(b)
	}
	return 0
}

func (r *wkbReader) uint32(what string) uint32 {
	if b := r.next(4, what); b != nil {
		return r.order.Uint32(b)
	}
	return 0
}

func (r *wkbReader) float64(what string) float64 {
	if b := r.next(8, what); b != nil {
		return math.Float64frombits(r.order.Uint64(b))
	}
	return 0
}

func (r *wkbReader) value(pt PixelType, what string) Value {
	switch pt {
	case PixelType32BF:
		return FloatValue(float64(math.Float32frombits(r.uint32(what))))
	case PixelType8BSI:
		return IntValue(int64(int8(r.uint8(what))))
	case PixelType16BSI:
		return IntValue(int64(int16(r.uint16(what))))
	case PixelType16BUI:
		return IntValue(int64(r.uint16(what)))
	case PixelType32BSI:
		return IntValue(int64(int32(r.uint32(what))))
	case PixelType32BUI:
		return IntValue(int64(r.uint32(what)))
	default:
		// 1BB, 2BUI, 4BUI and 8BUI are stored one unsigned byte per sample.
		return IntValue(int64(r.uint8(what)))
	}
}

// Decode decodes a raster from its WKB form, in either byte order.
//
// Decoded bands keep the pixel type found on the wire. Out-db bands,
// pixel types wider than 32 bits, header/band size mismatches and trailing
// bytes are rejected with an error marked with ErrInvalidRasterWKB.
func Decode(b []byte) (*Raster, error) {
	r := &wkbReader{buf: b}
	switch marker := r.uint8("endianness"); {
	case r.err != nil:
		return nil, r.err
	case marker == wkbNDR:
		r.order = binary.LittleEndian
	case marker == wkbXDR:
		r.order = binary.BigEndian
	default:
		return nil, newInvalidWKBErrorf("invalid endianness marker %d", errors.Safe(marker))
	}

	if version := r.uint16("version"); r.err == nil && version != wkbVersion {
		return nil, newUnsupportedWKBErrorf("unsupported raster WKB version %d", errors.Safe(version))
	}
	numBands := int(r.uint16("band count"))
	var gt GeoTransform
	gt.PixelSizeX = r.float64("scale x")
	gt.PixelSizeY = r.float64("scale y")
	gt.OriginX = r.float64("origin x")
	gt.OriginY = r.float64("origin y")
	skewX, skewY := r.float64("skew x"), r.float64("skew y")
	srid := geopb.SRID(int32(r.uint32("srid")))
	width, height := int(r.uint16("width")), int(r.uint16("height"))
	if r.err != nil {
		return nil, r.err
	}
	if skewX != 0 || skewY != 0 {
		return nil, newUnsupportedWKBErrorf(
			"skewed rasters are not supported (skew %g, %g)", errors.Safe(skewX), errors.Safe(skewY))
	}
	if width < 1 || height < 1 {
		return nil, newInvalidWKBErrorf("raster dimensions %dx%d must be at least 1x1", errors.Safe(width), errors.Safe(height))
	}

	bands := make([]*Band, numBands)
	for i := range bands {
		band, err := decodeBand(r, i, width*height)
		if err != nil {
			return nil, err
		}
		bands[i] = band
	}
	if rest := len(r.buf) - r.pos; rest != 0 {
		return nil, newInvalidWKBErrorf("%d trailing bytes after raster WKB", errors.Safe(rest))
	}
	rast, err := NewRaster(gt, width, height, bands, WithSRID(srid))
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidRasterWKB)
	}
	return rast, nil
}

func decodeBand(r *wkbReader, idx int, numSamples int) (*Band, error) {
	flags := r.uint8("band flags")
	if r.err != nil {
		return nil, r.err
	}
	if flags&bandFlagOffline != 0 {
		return nil, newUnsupportedWKBErrorf("band %d: out-db bands are not supported", errors.Safe(idx))
	}
	pt := PixelType(flags & bandPixelTypeMask)
	if !pt.Valid() {
		return nil, newInvalidWKBErrorf("band %d: unsupported pixel type code %d", errors.Safe(idx), errors.Safe(uint8(pt)))
	}
	if need := (1 + numSamples) * pt.Size(); len(r.buf)-r.pos < need {
		return nil, newInvalidWKBErrorf(
			"band %d: expected %d bytes of %s data, found %d",
			errors.Safe(idx), errors.Safe(need), pt, errors.Safe(len(r.buf)-r.pos),
		)
	}

	b := &Band{
		pixelType: pt,
		hasNoData: flags&bandFlagHasNoData != 0,
		isNoData:  flags&bandFlagIsNoData != 0,
		samples:   make([]Value, numSamples),
	}
	nodata := r.value(pt, "nodata")
	if b.hasNoData {
		b.nodata = nodata
	}
	for i := range b.samples {
		b.samples[i] = r.value(pt, "sample")
	}
	return b, r.err
}

// DecodeHex decodes a raster from the hex encoding of its WKB form. The hex
// digits may be in either case.
func DecodeHex(s string) (*Raster, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Mark(
			pgerror.Wrapf(err, pgcode.InvalidTextRepresentation, "invalid raster hex"),
			ErrInvalidRasterWKB,
		)
	}
	return Decode(b)
}
