// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geosql

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/pgspatial/pkg/geo"
	"github.com/cockroachdb/pgspatial/pkg/geo/georaster"
)

// GeometryValue is a nullable geometry usable as a query argument and as a
// scan destination. A nil Codec means DefaultCodec.
type GeometryValue struct {
	Geometry geo.Geometry
	// Valid is false for SQL NULL.
	Valid bool
	Codec *Codec
}

var _ driver.Valuer = GeometryValue{}
var _ sql.Scanner = (*GeometryValue)(nil)

// Value implements the driver.Valuer interface.
func (v GeometryValue) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	return codecOrDefault(v.Codec).EncodeGeometry(valueContext(), v.Geometry)
}

// Scan implements the sql.Scanner interface.
func (v *GeometryValue) Scan(src interface{}) error {
	if src == nil {
		v.Geometry, v.Valid = geo.Geometry{}, false
		return nil
	}
	g, err := codecOrDefault(v.Codec).DecodeGeometry(valueContext(), src)
	if err != nil {
		return err
	}
	v.Geometry, v.Valid = g, true
	return nil
}

// RasterValue is a nullable raster usable as a query argument and as a scan
// destination. A nil Codec means DefaultCodec.
type RasterValue struct {
	// Raster is nil for SQL NULL.
	Raster *georaster.Raster
	Codec  *Codec
}

var _ driver.Valuer = RasterValue{}
var _ sql.Scanner = (*RasterValue)(nil)

// Value implements the driver.Valuer interface.
func (v RasterValue) Value() (driver.Value, error) {
	if v.Raster == nil {
		return nil, nil
	}
	return codecOrDefault(v.Codec).EncodeRaster(valueContext(), v.Raster)
}

// Scan implements the sql.Scanner interface.
func (v *RasterValue) Scan(src interface{}) error {
	if src == nil {
		v.Raster = nil
		return nil
	}
	r, err := codecOrDefault(v.Codec).DecodeRaster(valueContext(), src)
	if err != nil {
		return err
	}
	v.Raster = r
	return nil
}

func codecOrDefault(c *Codec) *Codec {
	if c == nil {
		return defaultCodec
	}
	return c
}

// valueContext is the context used by the driver interfaces, which do not
// carry one.
func valueContext() context.Context {
	return logtags.AddTag(context.Background(), "geosql", nil)
}
