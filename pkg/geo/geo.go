// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package geo contains the Geometry type, a PostGIS GEOMETRY value: a planar
// shape together with the SRID of its spatial reference system.
//
// Subpackages are available that deal with the other PostGIS types:
//   - geo/georaster encodes and decodes PostGIS RASTER tiles.
//   - geo/geosql adapts both types to database/sql.
package geo

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/geo/geopb"
	"github.com/cockroachdb/redact"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// DefaultEWKBEncodingFormat is the byte order used when storing and
// encoding geometries unless told otherwise.
var DefaultEWKBEncodingFormat binary.ByteOrder = binary.LittleEndian

// ErrInvalidGeometry marks errors raised when a geometry cannot be built from
// its input, be it a missing shape or malformed (E)WKB or (E)WKT.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry is a planar spatial object with an optional SRID. It is
// immutable and safe for concurrent use.
//
// The shape is stored in its EWKB form, which embeds the SRID when it is not
// geopb.UnknownSRID.
type Geometry struct {
	ewkb geopb.EWKB
	srid geopb.SRID
}

// makeGeometryFromShape builds a Geometry owning its own copy of t, with t's
// SRID replaced by srid.
func makeGeometryFromShape(t geom.T, srid geopb.SRID) (Geometry, error) {
	if err := validateShape(t); err != nil {
		return Geometry{}, err
	}
	// Marshaling a copy leaves the caller's shape untouched.
	b, err := ewkb.Marshal(t, DefaultEWKBEncodingFormat)
	if err != nil {
		return Geometry{}, newInvalidGeometryErrorf(err, "could not encode shape")
	}
	c, err := ewkb.Unmarshal(b)
	if err != nil {
		return Geometry{}, errors.NewAssertionErrorWithWrappedErrf(err, "could not decode own EWKB")
	}
	if err := adjustGeomSRID(c, srid); err != nil {
		return Geometry{}, err
	}
	b, err = ewkb.Marshal(c, DefaultEWKBEncodingFormat)
	if err != nil {
		return Geometry{}, newInvalidGeometryErrorf(err, "could not encode shape")
	}
	return Geometry{ewkb: b, srid: srid}, nil
}

// Shape returns a copy of the shape of the geometry, carrying its SRID.
func (g Geometry) Shape() (geom.T, error) {
	return ewkb.Unmarshal(g.ewkb)
}

// SRID returns the SRID of the geometry, or geopb.UnknownSRID.
func (g Geometry) SRID() geopb.SRID {
	return g.srid
}

// EWKB returns the EWKB form of the geometry. The returned slice must not be
// modified.
func (g Geometry) EWKB() geopb.EWKB {
	return g.ewkb
}

// Empty returns whether the geometry was never initialized.
func (g Geometry) Empty() bool {
	return g.ewkb == nil
}

// SafeFormat implements the redact.SafeFormatter interface.
func (g Geometry) SafeFormat(w redact.SafePrinter, _ rune) {
	wkt, err := g.WKT(true /* includeSRID */)
	if err != nil {
		w.Printf("<invalid geometry: %v>", err)
		return
	}
	w.Print(string(wkt))
}

// String implements the fmt.Stringer interface.
func (g Geometry) String() string {
	return redact.StringWithoutMarkers(g)
}
