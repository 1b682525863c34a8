// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package georaster implements the PostGIS raster WKB tile format: the
// selection of per-band pixel types from sample values, and the encoding and
// decoding of georeferenced, multi-band rasters.
//
// The wire layout is the one read by PostGIS' ST_RastFromWKB and
// ST_RastFromHexWKB:
//
//	endianness   uint8    1 for NDR (little endian), 0 for XDR
//	version      uint16   always 0
//	nBands       uint16
//	scaleX       float64  pixel size X
//	scaleY       float64  pixel size Y
//	ipX          float64  origin X
//	ipY          float64  origin Y
//	skewX        float64  always 0 on encode
//	skewY        float64  always 0 on encode
//	srid         int32    0 when unknown
//	width        uint16
//	height       uint16
//
// followed by, for every band, a flags byte (pixel type code in the low
// nibble, 0x40 when a nodata value is set, 0x20 when the band is all nodata,
// 0x80 for out-db bands), the nodata value sized by the pixel type and
// width*height samples in row-major order. The nodata field is always
// present, holding 0 when the band has no nodata value.
package georaster

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/geo/geopb"
	"github.com/cockroachdb/redact"
)

// MaxDimension is the largest width or height a raster can have, as both
// are serialized as unsigned 16-bit integers.
const MaxDimension = 1<<16 - 1

// GeoTransform maps pixel coordinates to the coordinates of the spatial
// reference system of the raster. Skew is not supported and is always 0.
type GeoTransform struct {
	// OriginX and OriginY are the coordinates of the upper left corner of
	// the upper left pixel.
	OriginX, OriginY float64
	// PixelSizeX and PixelSizeY are the size of a pixel in each axis.
	PixelSizeX, PixelSizeY float64
}

// GeoTransformFromExtent returns the transform of a width x height raster
// covering the given extent, anchored at (minX, maxY).
func GeoTransformFromExtent(minX, minY, maxX, maxY float64, width, height int) GeoTransform {
	return GeoTransform{
		OriginX:    minX,
		OriginY:    maxY,
		PixelSizeX: (maxX - minX) / float64(width),
		PixelSizeY: (maxY - minY) / float64(height),
	}
}

// Raster is a georeferenced grid of one or more bands. It is immutable once
// constructed and safe for concurrent use.
type Raster struct {
	transform GeoTransform
	width     uint16
	height    uint16
	srid      geopb.SRID
	bands     []*Band
}

type rasterOptions struct {
	srid geopb.SRID
}

// RasterOption configures NewRaster.
type RasterOption func(*rasterOptions)

// WithSRID sets the spatial reference identifier of the raster.
func WithSRID(srid geopb.SRID) RasterOption {
	return func(o *rasterOptions) { o.srid = srid }
}

// NewRaster returns a raster of the given dimensions holding bands in the
// given order. Width and height must be in [1, MaxDimension] and every band
// must hold exactly width*height samples; otherwise an error marked with
// ErrDimensionMismatch is returned.
func NewRaster(
	gt GeoTransform, width, height int, bands []*Band, opts ...RasterOption,
) (*Raster, error) {
	var o rasterOptions
	for _, opt := range opts {
		opt(&o)
	}
	if width < 1 || width > MaxDimension || height < 1 || height > MaxDimension {
		return nil, newDimensionMismatchErrorf(
			"raster dimensions %dx%d out of range [1, %d]",
			errors.Safe(width), errors.Safe(height), errors.Safe(MaxDimension),
		)
	}
	if len(bands) > MaxDimension {
		return nil, newDimensionMismatchErrorf("too many bands: %d", errors.Safe(len(bands)))
	}
	for i, b := range bands {
		if b == nil {
			return nil, errors.AssertionFailedf("band %d is nil", errors.Safe(i))
		}
		if b.Len() != width*height {
			return nil, errors.WithHintf(
				newDimensionMismatchErrorf(
					"band %d has %d samples, expected %d", errors.Safe(i), errors.Safe(b.Len()), errors.Safe(width*height),
				),
				"a %dx%d raster needs width*height samples per band", errors.Safe(width), errors.Safe(height),
			)
		}
	}
	return &Raster{
		transform: gt,
		width:     uint16(width),
		height:    uint16(height),
		srid:      o.srid,
		bands:     append([]*Band(nil), bands...),
	}, nil
}

// Transform returns the geo-transform of the raster.
func (r *Raster) Transform() GeoTransform {
	return r.transform
}

// Width returns the width of the raster in pixels.
func (r *Raster) Width() int {
	return int(r.width)
}

// Height returns the height of the raster in pixels.
func (r *Raster) Height() int {
	return int(r.height)
}

// SRID returns the spatial reference identifier of the raster, or
// geopb.UnknownSRID.
func (r *Raster) SRID() geopb.SRID {
	return r.srid
}

// NumBands returns the number of bands.
func (r *Raster) NumBands() int {
	return len(r.bands)
}

// Band returns the i-th band.
func (r *Raster) Band(i int) *Band {
	return r.bands[i]
}

// Bands returns the bands of the raster in order.
func (r *Raster) Bands() []*Band {
	return append([]*Band(nil), r.bands...)
}

// SafeFormat implements the redact.SafeFormatter interface.
func (r *Raster) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%dx%d srid=%d origin=(%s, %s) pixel=(%s, %s)",
		redact.Safe(r.width), redact.Safe(r.height), r.srid,
		redact.Safe(formatFloat(r.transform.OriginX)), redact.Safe(formatFloat(r.transform.OriginY)),
		redact.Safe(formatFloat(r.transform.PixelSizeX)), redact.Safe(formatFloat(r.transform.PixelSizeY)),
	)
	for i, b := range r.bands {
		w.Printf("\nband %d: %s", redact.Safe(i), b)
	}
}

// String implements the fmt.Stringer interface.
func (r *Raster) String() string {
	return redact.StringWithoutMarkers(r)
}
