// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package georaster

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgerror"
)

// PixelType is the storage type of the samples of a band. Its numeric value
// is the PostGIS pixel type code written to the wire, so the constants below
// must not be renumbered.
type PixelType uint8

// These should be kept in sync with rt_pixtype in PostGIS' librtcore.
const (
	PixelType1BB   PixelType = 0
	PixelType2BUI  PixelType = 1
	PixelType4BUI  PixelType = 2
	PixelType8BSI  PixelType = 3
	PixelType8BUI  PixelType = 4
	PixelType16BSI PixelType = 5
	PixelType16BUI PixelType = 6
	PixelType32BSI PixelType = 7
	PixelType32BUI PixelType = 8
	PixelType32BF  PixelType = 10
)

type pixelTypeInfo struct {
	name       string
	structCode byte
	size       int
	float      bool
	min, max   int64
}

// pixelTypes is indexed by wire code. Entries with an empty name are codes
// that are not supported.
var pixelTypes = [...]pixelTypeInfo{
	PixelType1BB:   {name: "1BB", structCode: 'B', size: 1, min: 0, max: 1},
	PixelType2BUI:  {name: "2BUI", structCode: 'B', size: 1, min: 0, max: 3},
	PixelType4BUI:  {name: "4BUI", structCode: 'B', size: 1, min: 0, max: 15},
	PixelType8BSI:  {name: "8BSI", structCode: 'b', size: 1, min: math.MinInt8, max: math.MaxInt8},
	PixelType8BUI:  {name: "8BUI", structCode: 'B', size: 1, min: 0, max: math.MaxUint8},
	PixelType16BSI: {name: "16BSI", structCode: 'h', size: 2, min: math.MinInt16, max: math.MaxInt16},
	PixelType16BUI: {name: "16BUI", structCode: 'H', size: 2, min: 0, max: math.MaxUint16},
	PixelType32BSI: {name: "32BSI", structCode: 'i', size: 4, min: math.MinInt32, max: math.MaxInt32},
	PixelType32BUI: {name: "32BUI", structCode: 'I', size: 4, min: 0, max: math.MaxUint32},
	PixelType32BF:  {name: "32BF", structCode: 'f', size: 4, float: true},
}

// inferenceOrder lists the integer types tried by InferPixelType, narrowest
// first and unsigned before signed at equal width.
var inferenceOrder = [...]PixelType{
	PixelType8BUI, PixelType8BSI,
	PixelType16BUI, PixelType16BSI,
	PixelType32BUI, PixelType32BSI,
}

func (p PixelType) info() (pixelTypeInfo, bool) {
	if int(p) >= len(pixelTypes) || pixelTypes[p].name == "" {
		return pixelTypeInfo{}, false
	}
	return pixelTypes[p], true
}

func (p PixelType) mustInfo() pixelTypeInfo {
	info, ok := p.info()
	if !ok {
		panic(errors.AssertionFailedf("unknown pixel type %d", errors.Safe(uint8(p))))
	}
	return info
}

// Valid returns whether p is a supported pixel type.
func (p PixelType) Valid() bool {
	_, ok := p.info()
	return ok
}

// String returns the PostGIS name of the pixel type, e.g. "8BUI".
func (p PixelType) String() string {
	if info, ok := p.info(); ok {
		return info.name
	}
	return "unknown"
}

// SafeValue implements the redact.SafeValue interface.
func (p PixelType) SafeValue() {}

// PGCode returns the PostGIS wire code of the pixel type.
func (p PixelType) PGCode() uint8 {
	return uint8(p)
}

// StructCode returns the packing code of the pixel type, using the letters
// of the classic struct-module convention ('B' for unsigned 8-bit, 'h' for
// signed 16-bit, 'f' for 32-bit float and so on). Several sub-byte types
// share the 'B' code since they are stored one byte per sample.
func (p PixelType) StructCode() byte {
	return p.mustInfo().structCode
}

// Size returns the number of bytes used per sample on the wire.
func (p PixelType) Size() int {
	return p.mustInfo().size
}

// Float returns whether the pixel type stores floating point samples.
func (p PixelType) Float() bool {
	return p.mustInfo().float
}

// Signed returns whether the pixel type stores signed samples.
func (p PixelType) Signed() bool {
	info := p.mustInfo()
	return info.float || info.min < 0
}

// Fits returns whether v can be stored in the pixel type without loss of
// range. Integer pixel types only accept integral values; 32BF accepts NaN
// and values that round to a finite single precision float.
func (p PixelType) Fits(v Value) bool {
	info := p.mustInfo()
	if info.float {
		f, err := v.Float64()
		return err == nil && fitsFloat32(f)
	}
	i, ok := v.asInt64()
	return ok && i >= info.min && i <= info.max
}

// PixelTypeFromStructCode returns the pixel type using the given packing
// code. Only the codes returned by StructCode for the 8, 16 and 32 bit
// types are accepted; 'B' maps to 8BUI.
func PixelTypeFromStructCode(code byte) (PixelType, error) {
	switch code {
	case 'B':
		return PixelType8BUI, nil
	case 'b':
		return PixelType8BSI, nil
	case 'H':
		return PixelType16BUI, nil
	case 'h':
		return PixelType16BSI, nil
	case 'I':
		return PixelType32BUI, nil
	case 'i':
		return PixelType32BSI, nil
	case 'f':
		return PixelType32BF, nil
	}
	return 0, pgerror.Newf(pgcode.InvalidParameterValue, "unknown pixel struct code %q", code)
}

// ParsePixelType returns the pixel type with the given PostGIS name.
func ParsePixelType(name string) (PixelType, error) {
	for i, info := range pixelTypes {
		if info.name != "" && info.name == name {
			return PixelType(i), nil
		}
	}
	return 0, pgerror.Newf(pgcode.InvalidParameterValue, "unknown pixel type %q", name)
}

// InferPixelType returns the narrowest pixel type able to store every
// sample and the nodata value, if any.
//
// Samples with a fractional part require 32BF. Otherwise the 8, 16 and 32
// bit integer types are tried in that order, unsigned before signed, and the
// first one covering the range of values wins. If none does, 32BF is used.
// Whenever 32BF is picked every value must be NaN or round to a finite
// single precision float, or an error marked with ErrValueBounds is
// returned.
func InferPixelType(samples []Value, nodata *Value) (PixelType, error) {
	var lo, hi int64
	integral := true
	seen := false
	observe := func(v Value) {
		if !integral {
			return
		}
		i, ok := v.asInt64()
		if !ok {
			// Either fractional or integral beyond int64; neither fits an
			// integer pixel type.
			integral = false
			return
		}
		if !seen || i < lo {
			lo = i
		}
		if !seen || i > hi {
			hi = i
		}
		seen = true
	}
	for _, v := range samples {
		observe(v)
	}
	if nodata != nil {
		observe(*nodata)
	}

	if integral {
		for _, pt := range inferenceOrder {
			info := pixelTypes[pt]
			if lo >= info.min && hi <= info.max {
				return pt, nil
			}
		}
	}

	for i, v := range samples {
		if err := checkFloat32(v); err != nil {
			return 0, errors.Wrapf(err, "sample %d", errors.Safe(i))
		}
	}
	if nodata != nil {
		if err := checkFloat32(*nodata); err != nil {
			return 0, errors.Wrap(err, "nodata")
		}
	}
	return PixelType32BF, nil
}

// float32Overflow is the smallest magnitude that rounds to an infinite
// float32: MaxFloat32 plus half of its ulp.
const float32Overflow = 0x1p128 - 0x1p103

func fitsFloat32(f float64) bool {
	return math.IsNaN(f) || math.Abs(f) < float32Overflow
}

func checkFloat32(v Value) error {
	f, err := v.Float64()
	if err != nil {
		return err
	}
	if !fitsFloat32(f) {
		return newValueBoundsErrorf("value %s exceeds the range of %s", v, PixelType32BF)
	}
	return nil
}
