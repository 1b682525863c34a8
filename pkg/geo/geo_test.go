// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geo

import (
	"encoding/binary"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/geo/geopb"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgerror"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

const (
	lineStringWKBHex  = "01020000000200000000000000000000000000000000000000000000000000F03F000000000000F03F"
	lineStringEWKBHex = "0102000020E61000000200000000000000000000000000000000000000000000000000F03F000000000000F03F"
)

func TestMakeGeometry(t *testing.T) {
	t.Run("missing shape", func(t *testing.T) {
		_, err := MakeGeometry(nil, geopb.UnknownSRID)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidGeometry))
		require.Equal(t, pgcode.InvalidParameterValue, pgerror.GetPGCode(err))
	})

	t.Run("with srid", func(t *testing.T) {
		point := geom.NewPointFlat(geom.XY, []float64{0, 0})
		g, err := MakeGeometry(point, 4326)
		require.NoError(t, err)
		require.Equal(t, geopb.SRID(4326), g.SRID())
		shape, err := g.Shape()
		require.NoError(t, err)
		require.Equal(t, []float64{0, 0}, shape.FlatCoords())
		require.Equal(t, 4326, shape.SRID())
		// The input shape is not modified.
		require.Equal(t, 0, point.SRID())
	})

	t.Run("without srid", func(t *testing.T) {
		g, err := MakeGeometry(geom.NewPointFlat(geom.XY, []float64{0, 0}), geopb.UnknownSRID)
		require.NoError(t, err)
		require.Equal(t, geopb.UnknownSRID, g.SRID())
	})

	t.Run("srid of the shape", func(t *testing.T) {
		g, err := MakeGeometry(geom.NewPointFlat(geom.XY, []float64{1, 2}).SetSRID(3857), geopb.UnknownSRID)
		require.NoError(t, err)
		require.Equal(t, geopb.SRID(3857), g.SRID())
	})

	t.Run("copies the shape", func(t *testing.T) {
		ls := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 1, 1})
		g, err := MakeGeometry(ls, geopb.UnknownSRID)
		require.NoError(t, err)
		ls.FlatCoords()[0] = 10
		wkt, err := g.WKT(false)
		require.NoError(t, err)
		require.Equal(t, geopb.EWKT("LINESTRING (0 0, 1 1)"), wkt)
	})
}

func TestParseGeometryFromWKBHex(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		_, err := ParseGeometryFromWKBHex("11110008066C00000000000000000", geopb.UnknownSRID)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidGeometry))
		require.Equal(t, pgcode.InvalidTextRepresentation, pgerror.GetPGCode(err))
	})

	t.Run("ewkb", func(t *testing.T) {
		g, err := ParseGeometryFromWKBHex("0101000020E610000000000000008066C00000000000000000", geopb.UnknownSRID)
		require.NoError(t, err)
		require.Equal(t, geopb.SRID(4326), g.SRID())
		shape, err := g.Shape()
		require.NoError(t, err)
		require.IsType(t, &geom.Point{}, shape)
		require.Equal(t, []float64{-180, 0}, shape.FlatCoords())
	})

	t.Run("override srid", func(t *testing.T) {
		g, err := ParseGeometryFromWKBHex("0101000020E610000000000000008066C00000000000000000", 3857)
		require.NoError(t, err)
		require.Equal(t, geopb.SRID(3857), g.SRID())
	})

	t.Run("single point linestring", func(t *testing.T) {
		_, err := ParseGeometryFromWKBHex("010200000001000000000000000000F03F000000000000F03F", geopb.UnknownSRID)
		require.True(t, errors.Is(err, ErrInvalidGeometry))
	})
}

func TestParseGeometryFromEWKB(t *testing.T) {
	b, err := hex.DecodeString(lineStringEWKBHex)
	require.NoError(t, err)
	g, err := ParseGeometryFromEWKB(b, geopb.UnknownSRID)
	require.NoError(t, err)
	require.Equal(t, geopb.SRID(4326), g.SRID())

	_, err = ParseGeometryFromEWKB([]byte{0x01, 0x02}, geopb.UnknownSRID)
	require.True(t, errors.Is(err, ErrInvalidGeometry))
	require.Equal(t, pgcode.InvalidBinaryRepresentation, pgerror.GetPGCode(err))
}

func TestParseGeometry(t *testing.T) {
	testCases := []struct {
		desc         string
		str          string
		srid         geopb.SRID
		expectedSRID geopb.SRID
		expectedWKT  geopb.EWKT
	}{
		{
			desc:         "wkt with srid",
			str:          "POINT (-180 0)",
			srid:         4326,
			expectedSRID: 4326,
			expectedWKT:  "POINT (-180 0)",
		},
		{
			desc:         "ewkt",
			str:          "SRID=4326;POINT (-180 0)",
			expectedSRID: 4326,
			expectedWKT:  "POINT (-180 0)",
		},
		{
			desc:         "ewkt lowercase prefix",
			str:          "srid=4326;POINT(-180 0)",
			expectedSRID: 4326,
			expectedWKT:  "POINT (-180 0)",
		},
		{
			desc:         "ewkt with overriding srid",
			str:          "SRID=4326;POINT (-180 0)",
			srid:         3857,
			expectedSRID: 3857,
			expectedWKT:  "POINT (-180 0)",
		},
		{
			desc:         "wkt without srid",
			str:          "POINT (-180 0)",
			expectedSRID: geopb.UnknownSRID,
			expectedWKT:  "POINT (-180 0)",
		},
		{
			desc:         "hex ewkb",
			str:          lineStringEWKBHex,
			expectedSRID: 4326,
			expectedWKT:  "LINESTRING (0 0, 1 1)",
		},
		{
			desc:         "geojson",
			str:          `{"type":"Point","coordinates":[1,2]}`,
			expectedSRID: geopb.UnknownSRID,
			expectedWKT:  "POINT (1 2)",
		},
		{
			desc:         "polygon",
			str:          "POLYGON((0 0, 1 0, 1 1, 0 0))",
			expectedSRID: geopb.UnknownSRID,
			expectedWKT:  "POLYGON ((0 0, 1 0, 1 1, 0 0))",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			g, err := ParseGeometry(tc.str, tc.srid)
			require.NoError(t, err)
			require.Equal(t, tc.expectedSRID, g.SRID())
			wkt, err := g.WKT(false /* includeSRID */)
			require.NoError(t, err)
			require.Equal(t, tc.expectedWKT, wkt)
		})
	}
}

func TestParseGeometryInvalid(t *testing.T) {
	for _, str := range []string{
		"",
		"LINESTRING(-180 0)",
		"POINT(",
		"SRID=4326 POINT(0 0)",
		"SRID=abc;POINT(0 0)",
		"POLYGON((0 0, 1 0, 1 1, 0 1))",
		"POLYGON((0 0, 1 0, 0 0))",
		`{"type":"Point"`,
	} {
		t.Run(str, func(t *testing.T) {
			_, err := ParseGeometry(str, geopb.UnknownSRID)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidGeometry), "%+v", err)
		})
	}

	require.Panics(t, func() { MustParseGeometry("LINESTRING(-180 0)") })
}

func TestGeometryWKT(t *testing.T) {
	g := MustParseGeometry("SRID=4326;POINT (-180 0)")
	ewkt, err := g.WKT(true /* includeSRID */)
	require.NoError(t, err)
	require.Equal(t, geopb.EWKT("SRID=4326;POINT (-180 0)"), ewkt)

	g = MustParseGeometry("POINT (-180 0)")
	wkt, err := g.WKT(true /* includeSRID */)
	require.NoError(t, err)
	require.Equal(t, geopb.EWKT("POINT (-180 0)"), wkt)
	require.Equal(t, "POINT (-180 0)", g.String())

	g = MustParseGeometry("POINT (0.123456 1)")
	wkt, err = g.WKTWithMaxDecimalDigits(false, 2)
	require.NoError(t, err)
	require.Equal(t, geopb.EWKT("POINT (0.12 1)"), wkt)
}

func TestGeometryWKBHex(t *testing.T) {
	g := MustParseGeometry("SRID=4326;LINESTRING(0 0,1 1)")

	ewkbHex, err := g.WKBHex(true /* includeSRID */)
	require.NoError(t, err)
	require.Equal(t, lineStringEWKBHex, ewkbHex)

	wkbHex, err := g.WKBHex(false /* includeSRID */)
	require.NoError(t, err)
	require.Equal(t, lineStringWKBHex, wkbHex)

	// Without an SRID there is nothing to embed.
	g = MustParseGeometry("LINESTRING(0 0,1 1)")
	wkbHex, err = g.WKBHex(true /* includeSRID */)
	require.NoError(t, err)
	require.Equal(t, lineStringWKBHex, wkbHex)
}

func TestGeometryWKB(t *testing.T) {
	g := MustParseGeometry("SRID=4326;POINT(1 2)")
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			b, err := g.WKB(true /* includeSRID */, order)
			require.NoError(t, err)
			back, err := ParseGeometryFromEWKB(b, geopb.UnknownSRID)
			require.NoError(t, err)
			eq, err := g.Equals(back, true /* compareSRID */)
			require.NoError(t, err)
			require.True(t, eq)
		})
	}
	b, err := g.WKB(true /* includeSRID */, binary.BigEndian)
	require.NoError(t, err)
	require.Equal(t, byte(0), b[0])
}

func TestGeometryBounds(t *testing.T) {
	g, err := ParseGeometryFromWKBHex(lineStringWKBHex, geopb.UnknownSRID)
	require.NoError(t, err)
	bbox, err := g.Bounds()
	require.NoError(t, err)
	require.Equal(t, &geopb.BoundingBox{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}, bbox)

	bbox, err = MustParseGeometry("LINESTRING EMPTY").Bounds()
	require.NoError(t, err)
	require.True(t, bbox.IsEmpty())
}

func TestGeometryEquals(t *testing.T) {
	fromWKB, err := ParseGeometryFromWKBHex(lineStringEWKBHex, geopb.UnknownSRID)
	require.NoError(t, err)

	testCases := []struct {
		desc        string
		other       string
		compareSRID bool
		expected    bool
	}{
		{desc: "same srid", other: "SRID=4326;LINESTRING(0 0,1 1)", compareSRID: true, expected: true},
		{desc: "ignore missing srid", other: "LINESTRING(0 0,1 1)", compareSRID: false, expected: true},
		{desc: "missing srid", other: "LINESTRING(0 0,1 1)", compareSRID: true, expected: false},
		{desc: "different srid", other: "SRID=3587;LINESTRING(0 0,1 1)", compareSRID: true, expected: false},
		{desc: "different coordinates", other: "SRID=4326;LINESTRING(0 0,1 2)", compareSRID: true, expected: false},
		{desc: "different type", other: "SRID=4326;MULTIPOINT(0 0,1 1)", compareSRID: true, expected: false},
		{desc: "reversed", other: "SRID=4326;LINESTRING(1 1,0 0)", compareSRID: true, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			eq, err := fromWKB.Equals(MustParseGeometry(tc.other), tc.compareSRID)
			require.NoError(t, err)
			require.Equal(t, tc.expected, eq)
		})
	}
}

func TestGeometryGeoJSON(t *testing.T) {
	g := MustParseGeometry("SRID=4326;POINT(-180.123456 0.5)")
	b, err := g.GeoJSON(DefaultGeoJSONDecimalDigits)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"Point","coordinates":[-180.123456,0.5]}`, string(b))

	b, err = g.GeoJSON(1)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"Point","coordinates":[-180.1,0.5]}`, string(b))
}

func TestGeometryGeoHash(t *testing.T) {
	testCases := []struct {
		desc      string
		str       string
		precision int
		expected  string
	}{
		{desc: "point", str: "POINT(-126 48)", precision: GeoHashAutoPrecision, expected: "c0w3hf1s70w3hf1s70w3"},
		{desc: "truncated", str: "POINT(-126 48)", precision: 5, expected: "c0w3h"},
		{desc: "empty", str: "LINESTRING EMPTY", precision: 5, expected: ""},
		// A 0.1 degree box stays within 21 halvings of each axis.
		{desc: "box", str: "LINESTRING(-126 48, -125.9 48.1)", precision: GeoHashAutoPrecision, expected: "c0w3"},
		{desc: "straddling", str: "LINESTRING(-1 -1, 1 1)", precision: GeoHashAutoPrecision, expected: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			hash, err := MustParseGeometry(tc.str).GeoHash(tc.precision)
			require.NoError(t, err)
			require.Equal(t, tc.expected, hash)
		})
	}

	_, err := MustParseGeometry("POINT(200 0)").GeoHash(5)
	require.Error(t, err)
	require.Equal(t, pgcode.InvalidParameterValue, pgerror.GetPGCode(err))
}

func TestStringToByteOrder(t *testing.T) {
	require.Equal(t, binary.LittleEndian, StringToByteOrder("NDR"))
	require.Equal(t, binary.BigEndian, StringToByteOrder("xdr"))
	require.Equal(t, DefaultEWKBEncodingFormat, StringToByteOrder("other"))
}

func TestGeometryConcurrentEncode(t *testing.T) {
	g := MustParseGeometry("SRID=4326;LINESTRING(0 0,1 1)")
	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = g.WKBHex(true)
		}(i)
	}
	wg.Wait()
	for _, res := range results {
		require.Equal(t, lineStringEWKBHex, res)
	}
}
