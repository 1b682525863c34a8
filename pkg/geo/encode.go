// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cockroachdb/pgspatial/pkg/geo/geopb"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgerror"
	"github.com/pierrre/geohash"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkbcommon"
	"github.com/twpayne/go-geom/encoding/wkbhex"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// DefaultGeoJSONDecimalDigits is the default number of digits coordinates in GeoJSON.
const DefaultGeoJSONDecimalDigits = 9

// FullPrecisionDecimalDigits disables rounding of coordinates in WKT and
// GeoJSON output.
const FullPrecisionDecimalDigits = -1

// shape decodes the stored EWKB. Stored EWKB is always produced by
// makeGeometryFromShape, so failures are internal errors.
func (g Geometry) shape() (geom.T, error) {
	if g.ewkb == nil {
		return nil, newInvalidGeometryErrorf(nil, "geometry is not initialized")
	}
	t, err := ewkb.Unmarshal(g.ewkb)
	if err != nil {
		return nil, pgerror.Wrapf(err, pgcode.Internal, "could not decode stored geometry")
	}
	return t, nil
}

// WKB returns the geometry encoded in the given byte order. With includeSRID
// and a known SRID the result is EWKB; otherwise it is plain WKB.
func (g Geometry) WKB(includeSRID bool, byteOrder binary.ByteOrder) (geopb.WKB, error) {
	t, err := g.shape()
	if err != nil {
		return nil, err
	}
	if includeSRID && g.srid != geopb.UnknownSRID {
		return ewkb.Marshal(t, byteOrder)
	}
	return wkb.Marshal(t, byteOrder, wkbcommon.WKBOptionEmptyPointHandling(wkbcommon.EmptyPointHandlingNaN))
}

// WKBHex returns the uppercase hex encoding of the geometry in NDR byte
// order. With includeSRID and a known SRID the result is EWKB, as emitted by
// PostGIS for a GEOMETRY column; otherwise it is plain WKB.
func (g Geometry) WKBHex(includeSRID bool) (string, error) {
	t, err := g.shape()
	if err != nil {
		return "", err
	}
	if includeSRID && g.srid != geopb.UnknownSRID {
		b, err := ewkb.Marshal(t, DefaultEWKBEncodingFormat)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%X", b), nil
	}
	ret, err := wkbhex.Encode(t, DefaultEWKBEncodingFormat, wkbcommon.WKBOptionEmptyPointHandling(wkbcommon.EmptyPointHandlingNaN))
	return strings.ToUpper(ret), err
}

// WKT returns the WKT form of the geometry, prefixed with "SRID=<srid>;"
// when includeSRID is set and the SRID is known.
func (g Geometry) WKT(includeSRID bool) (geopb.EWKT, error) {
	return g.WKTWithMaxDecimalDigits(includeSRID, FullPrecisionDecimalDigits)
}

// WKTWithMaxDecimalDigits is WKT with coordinates rounded to at most
// maxDecimalDigits decimals. A negative value disables rounding.
func (g Geometry) WKTWithMaxDecimalDigits(includeSRID bool, maxDecimalDigits int) (geopb.EWKT, error) {
	t, err := g.shape()
	if err != nil {
		return "", err
	}
	ret, err := wkt.Marshal(t, wkt.EncodeOptionWithMaxDecimalDigits(maxDecimalDigits))
	if err != nil {
		return "", err
	}
	if includeSRID && g.srid != geopb.UnknownSRID {
		ret = fmt.Sprintf("SRID=%d;%s", g.srid, ret)
	}
	return geopb.EWKT(ret), nil
}

// GeoJSON returns the GeoJSON form of the geometry, with coordinates rounded
// to at most maxDecimalDigits decimals. The SRID is not encoded.
func (g Geometry) GeoJSON(maxDecimalDigits int) ([]byte, error) {
	t, err := g.shape()
	if err != nil {
		return nil, err
	}
	return geojson.Marshal(t, geojson.EncodeGeometryWithMaxDecimalDigits(maxDecimalDigits))
}

// Bounds returns the bounding box of the geometry. It is empty, as reported
// by geopb.BoundingBox.IsEmpty, for an empty geometry.
func (g Geometry) Bounds() (*geopb.BoundingBox, error) {
	t, err := g.shape()
	if err != nil {
		return nil, err
	}
	bbox := geopb.NewBoundingBox()
	if b := t.Bounds(); !b.IsEmpty() {
		bbox.Update(b.Min(0), b.Min(1))
		bbox.Update(b.Max(0), b.Max(1))
	}
	return bbox, nil
}

// Equals returns whether both geometries are structurally identical: same
// type, layout and coordinates in the same order. This is not spatial
// equality; LINESTRING(0 0, 1 1) and LINESTRING(1 1, 0 0) are not Equal.
// If compareSRID is set, the SRIDs must also match.
func (g Geometry) Equals(other Geometry, compareSRID bool) (bool, error) {
	if compareSRID && g.srid != other.srid {
		return false, nil
	}
	a, err := g.WKB(false /* includeSRID */, DefaultEWKBEncodingFormat)
	if err != nil {
		return false, err
	}
	b, err := other.WKB(false /* includeSRID */, DefaultEWKBEncodingFormat)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}

// GeoHashAutoPrecision derives the GeoHash precision from the size of the
// bounding box.
const GeoHashAutoPrecision = 0

// GeoHashMaxPrecision caps the length of a GeoHash, as PostGIS does. Each
// character holds 5 bits and a double carries about 51 bits per axis.
const GeoHashMaxPrecision = 20

// GeoHash returns the GeoHash of the center of the bounding box of the
// geometry, which must be expressed in degrees. An empty geometry has an
// empty GeoHash.
func (g Geometry) GeoHash(p int) (string, error) {
	bbox, err := g.Bounds()
	if err != nil {
		return "", err
	}
	if bbox.IsEmpty() {
		return "", nil
	}
	if bbox.MinX < -180 || bbox.MaxX > 180 || bbox.MinY < -90 || bbox.MaxY > 90 {
		return "", pgerror.Newf(
			pgcode.InvalidParameterValue,
			"geometry bounds (%f %f, %f %f) exceed the longitude/latitude range",
			bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY,
		)
	}
	if p <= GeoHashAutoPrecision {
		p = geoHashPrecision(bbox)
	}
	if p > GeoHashMaxPrecision {
		p = GeoHashMaxPrecision
	}
	return geohash.Encode((bbox.MinY+bbox.MaxY)/2, (bbox.MinX+bbox.MaxX)/2, p), nil
}

// geoHashPrecision returns the number of GeoHash characters whose cell
// still contains bbox. Points get the maximum precision.
func geoHashPrecision(bbox *geopb.BoundingBox) int {
	if bbox.MinX == bbox.MaxX && bbox.MinY == bbox.MaxY {
		return GeoHashMaxPrecision
	}
	lng, lat := [2]float64{-180, 180}, [2]float64{-90, 90}
	bits := 0
	for halveRange(&lng, bbox.MinX, bbox.MaxX) && halveRange(&lat, bbox.MinY, bbox.MaxY) {
		bits += 2
	}
	return bits / 5
}

// halveRange narrows r to the half holding [lo, hi], and returns false if
// [lo, hi] crosses the midpoint.
func halveRange(r *[2]float64, lo, hi float64) bool {
	mid := (r[0] + r[1]) / 2
	switch {
	case lo > mid:
		r[0] = mid
	case hi < mid:
		r[1] = mid
	default:
		return false
	}
	return true
}

// StringToByteOrder returns the byte order named by s, "ndr" or "xdr" in
// any case, defaulting to DefaultEWKBEncodingFormat.
func StringToByteOrder(s string) binary.ByteOrder {
	switch strings.ToLower(s) {
	case "ndr":
		return binary.LittleEndian
	case "xdr":
		return binary.BigEndian
	default:
		return DefaultEWKBEncodingFormat
	}
}
