// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geosql

import (
	"encoding/binary"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/geo"
	"github.com/cockroachdb/pgspatial/pkg/geo/geopb"
	"gopkg.in/yaml.v2"
)

// Config describes how geometries and rasters are written to and read from a
// PostGIS database.
//
// A Config is loaded from YAML:
//
//	geometry:
//	  byte-order: ndr
//	  include-srid: true
//	  max-decimal-digits: -1
//	  default-srid: 0
//	raster:
//	  byte-order: ndr
type Config struct {
	Geometry GeometryConfig `yaml:"geometry"`
	Raster   RasterConfig   `yaml:"raster"`
}

// GeometryConfig configures the encoding of geometries.
type GeometryConfig struct {
	// ByteOrder is "ndr" (little endian) or "xdr" (big endian).
	ByteOrder string `yaml:"byte-order"`
	// IncludeSRID selects EWKB over plain WKB when the geometry has an SRID.
	IncludeSRID bool `yaml:"include-srid"`
	// MaxDecimalDigits rounds coordinates of text encodings. -1 keeps full
	// precision.
	MaxDecimalDigits int `yaml:"max-decimal-digits"`
	// DefaultSRID is assigned to decoded geometries that do not carry one.
	DefaultSRID geopb.SRID `yaml:"default-srid"`
}

// RasterConfig configures the encoding of rasters.
type RasterConfig struct {
	// ByteOrder is "ndr" (little endian) or "xdr" (big endian).
	ByteOrder string `yaml:"byte-order"`
}

const (
	byteOrderNDR = "ndr"
	byteOrderXDR = "xdr"
)

// DefaultConfig returns the configuration matching what PostGIS itself
// emits.
func DefaultConfig() Config {
	return Config{
		Geometry: GeometryConfig{
			ByteOrder:        byteOrderNDR,
			IncludeSRID:      true,
			MaxDecimalDigits: geo.FullPrecisionDecimalDigits,
			DefaultSRID:      geopb.UnknownSRID,
		},
		Raster: RasterConfig{
			ByteOrder: byteOrderNDR,
		},
	}
}

// ParseConfig parses a YAML configuration on top of DefaultConfig and
// validates it. Unknown fields are rejected.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "parsing geosql configuration")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the configuration and normalizes the byte orders to lower
// case.
func (c *Config) Validate() error {
	var err error
	if c.Geometry.ByteOrder, err = validateByteOrder(c.Geometry.ByteOrder); err != nil {
		return errors.Wrap(err, "geometry")
	}
	if c.Raster.ByteOrder, err = validateByteOrder(c.Raster.ByteOrder); err != nil {
		return errors.Wrap(err, "raster")
	}
	if c.Geometry.MaxDecimalDigits < geo.FullPrecisionDecimalDigits {
		return errors.Newf("geometry: max-decimal-digits must be -1 or greater, got %d", c.Geometry.MaxDecimalDigits)
	}
	if c.Geometry.DefaultSRID < 0 {
		return errors.Newf("geometry: default-srid must not be negative, got %d", c.Geometry.DefaultSRID)
	}
	return nil
}

func validateByteOrder(s string) (string, error) {
	switch s = strings.ToLower(s); s {
	case byteOrderNDR, byteOrderXDR:
		return s, nil
	}
	return "", errors.Newf("byte-order must be %q or %q, got %q", byteOrderNDR, byteOrderXDR, s)
}

func byteOrder(s string) binary.ByteOrder {
	return geo.StringToByteOrder(s)
}

// String renders the configuration as YAML.
func (c Config) String() string {
	b, err := yaml.Marshal(&c)
	if err != nil {
		return err.Error()
	}
	return string(b)
}
