// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geosql

import (
	"testing"

	"github.com/cockroachdb/pgspatial/pkg/geo"
	"github.com/cockroachdb/pgspatial/pkg/geo/geopb"
	"github.com/stretchr/testify/require"
)

func TestGeometryValue(t *testing.T) {
	v := GeometryValue{Geometry: geo.MustParseGeometry("SRID=4326;POINT(-180 0)"), Valid: true}
	dv, err := v.Value()
	require.NoError(t, err)
	require.Equal(t, pointEWKBHex, dv)

	var scanned GeometryValue
	require.NoError(t, scanned.Scan(dv))
	require.True(t, scanned.Valid)
	require.Equal(t, geopb.SRID(4326), scanned.Geometry.SRID())

	require.NoError(t, scanned.Scan(nil))
	require.False(t, scanned.Valid)
	dv, err = scanned.Value()
	require.NoError(t, err)
	require.Nil(t, dv)

	require.Error(t, scanned.Scan("LINESTRING(0 0)"))

	// A codec without SRIDs.
	v.Codec = makeCodec(t, "geometry:\n  include-srid: false\n")
	dv, err = v.Value()
	require.NoError(t, err)
	require.Equal(t, pointWKBHex, dv)
}

func TestRasterValue(t *testing.T) {
	v := RasterValue{Raster: testRaster(t)}
	dv, err := v.Value()
	require.NoError(t, err)
	require.Equal(t, rasterHex, dv)

	var scanned RasterValue
	require.NoError(t, scanned.Scan([]byte(rasterHex)))
	require.NotNil(t, scanned.Raster)
	require.Equal(t, 2, scanned.Raster.Width())

	require.NoError(t, scanned.Scan(nil))
	require.Nil(t, scanned.Raster)
	dv, err = scanned.Value()
	require.NoError(t, err)
	require.Nil(t, dv)

	require.Error(t, scanned.Scan("zz"))
}
