// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geo

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/geo/geopb"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgerror"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
)

func newInvalidGeometryErrorf(cause error, format string, args ...interface{}) error {
	var err error
	if cause != nil {
		err = pgerror.Wrapf(cause, pgcode.InvalidParameterValue, format, args...)
	} else {
		err = pgerror.Newf(pgcode.InvalidParameterValue, format, args...)
	}
	return errors.Mark(err, ErrInvalidGeometry)
}

func newUnparsableGeometryErrorf(cause error, code pgcode.Code, format string, args ...interface{}) error {
	return errors.Mark(pgerror.Wrapf(cause, code, format, args...), ErrInvalidGeometry)
}

// MakeGeometry returns a Geometry holding a copy of shape. If srid is
// geopb.UnknownSRID, the SRID of shape is kept.
func MakeGeometry(shape geom.T, srid geopb.SRID) (Geometry, error) {
	if shape == nil {
		return Geometry{}, newInvalidGeometryErrorf(nil, "geometry can not be nil")
	}
	if srid == geopb.UnknownSRID {
		srid = geopb.SRID(shape.SRID())
	}
	return makeGeometryFromShape(shape, srid)
}

// ParseGeometryFromEWKB parses a Geometry from (E)WKB. A non-zero srid
// overrides the SRID embedded in the input.
func ParseGeometryFromEWKB(b []byte, srid geopb.SRID) (Geometry, error) {
	t, err := ewkb.Unmarshal(b)
	if err != nil {
		return Geometry{}, newUnparsableGeometryErrorf(err, pgcode.InvalidBinaryRepresentation, "invalid WKB")
	}
	return MakeGeometry(t, srid)
}

// ParseGeometryFromWKBHex parses a Geometry from the hex encoding of its
// (E)WKB form. A non-zero srid overrides the SRID embedded in the input.
func ParseGeometryFromWKBHex(s string, srid geopb.SRID) (Geometry, error) {
	t, err := ewkbhex.Decode(strings.TrimSpace(s))
	if err != nil {
		return Geometry{}, newUnparsableGeometryErrorf(err, pgcode.InvalidTextRepresentation, "invalid WKB hex")
	}
	return MakeGeometry(t, srid)
}

// ParseGeometry parses a Geometry from its text form, guessing the encoding
// from the first character the way PostGIS does for a cast from text: hex
// EWKB if it starts with '0', GeoJSON if it starts with '{', and (E)WKT
// otherwise. A non-zero srid overrides the SRID embedded in the input.
func ParseGeometry(str string, srid geopb.SRID) (Geometry, error) {
	str = strings.TrimSpace(str)
	if len(str) == 0 {
		return Geometry{}, newInvalidGeometryErrorf(nil, "parsing empty string to geometry")
	}
	switch str[0] {
	case '0':
		return ParseGeometryFromWKBHex(str, srid)
	case '{':
		return parseGeoJSON(str, srid)
	}
	return parseEWKT(geopb.EWKT(str), srid)
}

// MustParseGeometry behaves as ParseGeometry, but panics if there is an
// error.
func MustParseGeometry(str string) Geometry {
	g, err := ParseGeometry(str, geopb.UnknownSRID)
	if err != nil {
		panic(err)
	}
	return g
}

func parseGeoJSON(str string, srid geopb.SRID) (Geometry, error) {
	var t geom.T
	if err := geojson.Unmarshal([]byte(str), &t); err != nil {
		return Geometry{}, newUnparsableGeometryErrorf(err, pgcode.InvalidTextRepresentation, "invalid GeoJSON")
	}
	return MakeGeometry(t, srid)
}

const sridPrefix = "SRID="
const sridPrefixLen = len(sridPrefix)

// parseEWKT parses WKT optionally prefixed with a case insensitive
// "SRID=<srid>;". A non-zero srid overrides the prefix.
func parseEWKT(str geopb.EWKT, srid geopb.SRID) (Geometry, error) {
	s := string(str)
	if len(s) >= sridPrefixLen && strings.EqualFold(s[:sridPrefixLen], sridPrefix) {
		end := strings.IndexByte(s, ';')
		if end == -1 {
			return Geometry{}, newInvalidGeometryErrorf(
				nil, "failed to find ; character with SRID declaration during EWKT decode: %q", s,
			)
		}
		embedded, err := strconv.ParseInt(strings.TrimSpace(s[sridPrefixLen:end]), 10, 32)
		if err != nil {
			return Geometry{}, newUnparsableGeometryErrorf(err, pgcode.InvalidTextRepresentation, "invalid SRID in EWKT")
		}
		if srid == geopb.UnknownSRID {
			srid = geopb.SRID(embedded)
		}
		s = s[end+1:]
	}

	t, err := wkt.Unmarshal(s)
	if err != nil {
		return Geometry{}, newUnparsableGeometryErrorf(err, pgcode.InvalidTextRepresentation, "invalid WKT")
	}
	return MakeGeometry(t, srid)
}

// adjustGeomSRID sets the SRID of a given geom.T.
// Ideally SetSRID is an interface of geom.T, but that is not the case.
func adjustGeomSRID(t geom.T, srid geopb.SRID) error {
	switch t := t.(type) {
	case *geom.Point:
		t.SetSRID(int(srid))
	case *geom.LineString:
		t.SetSRID(int(srid))
	case *geom.Polygon:
		t.SetSRID(int(srid))
	case *geom.GeometryCollection:
		t.SetSRID(int(srid))
	case *geom.MultiPoint:
		t.SetSRID(int(srid))
	case *geom.MultiLineString:
		t.SetSRID(int(srid))
	case *geom.MultiPolygon:
		t.SetSRID(int(srid))
	default:
		return newInvalidGeometryErrorf(nil, "unsupported geometry type %T", t)
	}
	return nil
}

// validateShape rejects shapes PostGIS refuses to store: line strings with a
// single point, and polygon rings that are not closed or have fewer than
// four points. Empty components are allowed.
func validateShape(t geom.T) error {
	switch t := t.(type) {
	case *geom.Point, *geom.MultiPoint:
		return nil
	case *geom.LineString:
		if t.NumCoords() == 1 {
			return newInvalidGeometryErrorf(nil, "geometry requires more points")
		}
	case *geom.Polygon:
		for i := 0; i < t.NumLinearRings(); i++ {
			ring := t.LinearRing(i)
			n := ring.NumCoords()
			if n == 0 {
				continue
			}
			if n < 4 {
				return newInvalidGeometryErrorf(nil, "geometry requires more points")
			}
			if !coordsEqual(ring.Coord(0), ring.Coord(n-1)) {
				return newInvalidGeometryErrorf(nil, "geometry contains non-closed rings")
			}
		}
	case *geom.MultiLineString:
		for i := 0; i < t.NumLineStrings(); i++ {
			if err := validateShape(t.LineString(i)); err != nil {
				return err
			}
		}
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			if err := validateShape(t.Polygon(i)); err != nil {
				return err
			}
		}
	case *geom.GeometryCollection:
		for _, g := range t.Geoms() {
			if err := validateShape(g); err != nil {
				return err
			}
		}
	default:
		return newInvalidGeometryErrorf(nil, "unsupported geometry type %T", t)
	}
	return nil
}

func coordsEqual(a, b geom.Coord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
