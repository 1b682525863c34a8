// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package geosql adapts geo.Geometry and georaster.Raster values to
// database/sql, using the text forms accepted and produced by PostGIS for
// GEOMETRY and RASTER columns.
package geosql

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/pgspatial/pkg/geo"
	"github.com/cockroachdb/pgspatial/pkg/geo/geopb"
	"github.com/cockroachdb/pgspatial/pkg/geo/georaster"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/pgspatial/pkg/util/log"
)

// rejectedLogInterval rate limits the warnings about undecodable values.
const rejectedLogInterval = 10 * time.Second

// Codec converts geometries and rasters to and from the values exchanged
// with a database driver. It is safe for concurrent use.
type Codec struct {
	cfg               Config
	geometryByteOrder binary.ByteOrder
	rasterByteOrder   binary.ByteOrder
	rejected          *log.EveryN
}

// NewCodec returns a Codec for the given, validated, configuration.
func NewCodec(cfg Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Codec{
		cfg:               cfg,
		geometryByteOrder: byteOrder(cfg.Geometry.ByteOrder),
		rasterByteOrder:   byteOrder(cfg.Raster.ByteOrder),
		rejected:          log.Every(rejectedLogInterval),
	}, nil
}

// Config returns the configuration of the codec.
func (c *Codec) Config() Config {
	return c.cfg
}

var defaultCodec = func() *Codec {
	c, err := NewCodec(DefaultConfig())
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "invalid default configuration"))
	}
	return c
}()

// DefaultCodec returns the codec built from DefaultConfig.
func DefaultCodec() *Codec {
	return defaultCodec
}

// EncodeGeometry returns the uppercase hex (E)WKB of g, as PostGIS prints a
// GEOMETRY value.
func (c *Codec) EncodeGeometry(ctx context.Context, g geo.Geometry) (string, error) {
	ctx = logtags.AddTag(ctx, "encode", "geometry")
	b, err := g.WKB(c.cfg.Geometry.IncludeSRID, c.geometryByteOrder)
	if err != nil {
		return "", err
	}
	s := strings.ToUpper(hex.EncodeToString(b))
	log.VEventf(ctx, 2, "srid %d, %d bytes", g.SRID(), len(b))
	return s, nil
}

// EncodeGeometryText returns the (E)WKT of g with coordinates rounded as
// configured.
func (c *Codec) EncodeGeometryText(ctx context.Context, g geo.Geometry) (string, error) {
	ctx = logtags.AddTag(ctx, "encode", "geometry")
	ewkt, err := g.WKTWithMaxDecimalDigits(c.cfg.Geometry.IncludeSRID, c.cfg.Geometry.MaxDecimalDigits)
	if err != nil {
		return "", err
	}
	log.VEventf(ctx, 2, "srid %d, text", g.SRID())
	return string(ewkt), nil
}

// DecodeGeometry decodes a geometry read from a database. src is either
// raw (E)WKB or text: hex (E)WKB, (E)WKT or GeoJSON. Geometries without an
// SRID get the configured default one.
func (c *Codec) DecodeGeometry(ctx context.Context, src interface{}) (geo.Geometry, error) {
	ctx = logtags.AddTag(ctx, "decode", "geometry")
	var g geo.Geometry
	var err error
	switch src := src.(type) {
	case string:
		g, err = geo.ParseGeometry(src, geopb.UnknownSRID)
	case []byte:
		if isBinary(src) {
			g, err = geo.ParseGeometryFromEWKB(src, geopb.UnknownSRID)
		} else {
			g, err = geo.ParseGeometry(string(src), geopb.UnknownSRID)
		}
	default:
		err = pgerror.Newf(pgcode.InvalidParameterValue, "cannot decode %T as a geometry", src)
	}
	if err != nil {
		c.logRejected(ctx, err)
		return geo.Geometry{}, err
	}
	if g.SRID() == geopb.UnknownSRID && c.cfg.Geometry.DefaultSRID != geopb.UnknownSRID {
		shape, err := g.Shape()
		if err != nil {
			return geo.Geometry{}, err
		}
		if g, err = geo.MakeGeometry(shape, c.cfg.Geometry.DefaultSRID); err != nil {
			return geo.Geometry{}, err
		}
	}
	log.VEventf(ctx, 2, "srid %d", g.SRID())
	return g, nil
}

// EncodeRaster returns the lowercase hex WKB of r, as accepted by a PostGIS
// RASTER column.
func (c *Codec) EncodeRaster(ctx context.Context, r *georaster.Raster) (string, error) {
	ctx = logtags.AddTag(ctx, "encode", "raster")
	if r == nil {
		return "", pgerror.New(pgcode.InvalidParameterValue, "cannot encode a nil raster")
	}
	s := hex.EncodeToString(r.WKB(c.rasterByteOrder))
	log.VEventf(ctx, 2, "%dx%d, %d bands, %d bytes", r.Width(), r.Height(), r.NumBands(), len(s)/2)
	return s, nil
}

// DecodeRaster decodes a raster read from a database, either as raw WKB or
// as its hex encoding.
func (c *Codec) DecodeRaster(ctx context.Context, src interface{}) (*georaster.Raster, error) {
	ctx = logtags.AddTag(ctx, "decode", "raster")
	var r *georaster.Raster
	var err error
	switch src := src.(type) {
	case string:
		r, err = georaster.DecodeHex(src)
	case []byte:
		if isBinary(src) {
			r, err = georaster.Decode(src)
		} else {
			r, err = georaster.DecodeHex(string(src))
		}
	default:
		err = pgerror.Newf(pgcode.InvalidParameterValue, "cannot decode %T as a raster", src)
	}
	if err != nil {
		c.logRejected(ctx, err)
		return nil, err
	}
	log.VEventf(ctx, 2, "%dx%d, %d bands", r.Width(), r.Height(), r.NumBands())
	return r, nil
}

// isBinary returns whether b starts with a WKB endianness marker rather
// than a hex digit.
func isBinary(b []byte) bool {
	return len(b) > 0 && (b[0] == 0 || b[0] == 1)
}

func (c *Codec) logRejected(ctx context.Context, err error) {
	if c.rejected.ShouldLog() {
		log.Warningf(ctx, "rejected value: %v", err)
	}
}
