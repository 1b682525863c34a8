// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package georaster

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func TestNewBandExplicitPixelType(t *testing.T) {
	pt, err := PixelTypeFromStructCode('f')
	require.NoError(t, err)
	b, err := NewBand(nil, WithPixelType(pt))
	require.NoError(t, err)
	require.Equal(t, PixelType32BF, b.PixelType())
	require.Equal(t, byte('f'), b.PixelType().StructCode())
	require.Zero(t, b.Len())

	// An explicit type overrides inference even when a narrower one would do.
	b, err = NewBand(IntValues(0, 1), WithPixelType(PixelType32BSI))
	require.NoError(t, err)
	require.Equal(t, PixelType32BSI, b.PixelType())

	// Sub-byte types are only reachable explicitly.
	b, err = NewBand(IntValues(0, 1, 1, 0), WithPixelType(PixelType1BB))
	require.NoError(t, err)
	require.Equal(t, PixelType1BB, b.PixelType())

	_, err = NewBand(IntValues(0, 2), WithPixelType(PixelType1BB))
	require.True(t, errors.Is(err, ErrValueBounds))

	_, err = NewBand(IntValues(0), WithPixelType(PixelType8BUI), WithNoData(IntValue(-1)))
	require.True(t, errors.Is(err, ErrValueBounds))

	_, err = NewBand(IntValues(0), WithPixelType(PixelType(9)))
	require.True(t, errors.IsAssertionFailure(err))
}

func TestNewBandFloat32Range(t *testing.T) {
	for _, samples := range [][]Value{
		FloatValues(0.5, 1e300),
		FloatValues(math.Inf(1)),
		FloatValues(math.Inf(-1)),
	} {
		_, err := NewBand(samples)
		require.True(t, errors.Is(err, ErrValueBounds), "%v", samples)

		_, err = NewBand(samples, WithPixelType(PixelType32BF))
		require.True(t, errors.Is(err, ErrValueBounds), "%v", samples)
	}

	_, err := NewBand(FloatValues(0.5), WithNoData(FloatValue(1e300)))
	require.True(t, errors.Is(err, ErrValueBounds))

	b, err := NewBand(FloatValues(0.5, math.MaxFloat32))
	require.NoError(t, err)
	require.Equal(t, PixelType32BF, b.PixelType())
}

func TestNewBandNoData(t *testing.T) {
	b, err := NewBand(IntValues(0, 1, 2, 3), WithNoData(IntValue(-9999)))
	require.NoError(t, err)
	nodata, ok := b.NoData()
	require.True(t, ok)
	require.True(t, nodata.Equal(IntValue(-9999)))
	require.Equal(t, PixelType16BSI, b.PixelType())
	require.False(t, b.IsNoData())

	b, err = NewBand(IntValues(0, 1, 2, 3))
	require.NoError(t, err)
	_, ok = b.NoData()
	require.False(t, ok)
	require.Equal(t, PixelType8BUI, b.PixelType())
}

func TestNewBandCopiesSamples(t *testing.T) {
	samples := IntValues(1, 2)
	b, err := NewBand(samples)
	require.NoError(t, err)
	samples[0] = IntValue(1000)
	require.True(t, b.Samples()[0].Equal(IntValue(1)))
	require.Equal(t, PixelType8BUI, b.PixelType())
}

func TestBandRedaction(t *testing.T) {
	b, err := NewBand(IntValues(0, 1), WithNoData(IntValue(-9999)))
	require.NoError(t, err)
	require.Equal(t, "16BSI nodata=-9999 samples=2", b.String())
	require.Equal(t,
		redact.RedactableString("16BSI nodata=‹-9999› samples=2"),
		redact.Sprint(b),
	)
}
