// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package georaster

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgerror"
)

// ErrValueBounds marks errors raised when a sample cannot be represented
// by any supported pixel type, or does not fit an explicitly requested one.
var ErrValueBounds = errors.New("value out of bounds")

// ErrDimensionMismatch marks errors raised when the raster dimensions do not
// agree with the number of samples of one of its bands.
var ErrDimensionMismatch = errors.New("raster dimension mismatch")

// ErrInvalidRasterWKB marks errors raised while decoding a malformed raster.
var ErrInvalidRasterWKB = errors.New("invalid raster WKB")

func newValueBoundsErrorf(format string, args ...interface{}) error {
	err := pgerror.Newf(pgcode.NumericValueOutOfRange, format, args...)
	return errors.Mark(err, ErrValueBounds)
}

func newDimensionMismatchErrorf(format string, args ...interface{}) error {
	err := pgerror.Newf(pgcode.InvalidParameterValue, format, args...)
	return errors.Mark(err, ErrDimensionMismatch)
}

func newInvalidWKBErrorf(format string, args ...interface{}) error {
	err := pgerror.Newf(pgcode.InvalidBinaryRepresentation, format, args...)
	return errors.Mark(err, ErrInvalidRasterWKB)
}

func newUnsupportedWKBErrorf(format string, args ...interface{}) error {
	err := pgerror.Newf(pgcode.FeatureNotSupported, format, args...)
	return errors.Mark(err, ErrInvalidRasterWKB)
}
