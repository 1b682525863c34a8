// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package georaster

import (
	"math"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgerror"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	testCases := []struct {
		s        string
		expected Value
		integral bool
	}{
		{s: "0", expected: IntValue(0), integral: true},
		{s: "-9999", expected: IntValue(-9999), integral: true},
		{s: "4294967296", expected: IntValue(1 << 32), integral: true},
		{s: "0.5", expected: FloatValue(0.5)},
		{s: "1e3", expected: FloatValue(1000), integral: true},
		{s: "9223372036854775808", expected: FloatValue(9223372036854775808), integral: true},
		{s: "1e310", expected: DecimalValue(apd.New(1, 310)), integral: true},
	}
	for _, tc := range testCases {
		t.Run(tc.s, func(t *testing.T) {
			v, err := ParseValue(tc.s)
			require.NoError(t, err)
			require.True(t, tc.expected.Equal(v), "expected %s, got %s", tc.expected, v)
			require.Equal(t, tc.integral, v.IsIntegral())
		})
	}

	_, err := ParseValue("abc")
	require.Error(t, err)
	require.Equal(t, pgcode.InvalidTextRepresentation, pgerror.GetPGCode(err))
}

func TestValueFloat64(t *testing.T) {
	f, err := IntValue(-3).Float64()
	require.NoError(t, err)
	require.Equal(t, -3.0, f)

	f, err = DecimalValue(apd.New(15, -1)).Float64()
	require.NoError(t, err)
	require.Equal(t, 1.5, f)

	f, err = DecimalValue(&apd.Decimal{Form: apd.Infinite, Negative: true}).Float64()
	require.NoError(t, err)
	require.True(t, math.IsInf(f, -1))

	_, err = DecimalValue(apd.New(1, 310)).Float64()
	require.True(t, errors.Is(err, ErrValueBounds))
}

func TestValueEqual(t *testing.T) {
	require.True(t, IntValue(1).Equal(FloatValue(1)))
	require.True(t, FloatValue(math.NaN()).Equal(FloatValue(math.NaN())))
	require.True(t, DecimalValue(apd.New(1, 310)).Equal(DecimalValue(apd.New(10, 309))))
	require.False(t, IntValue(1).Equal(FloatValue(1.5)))
	require.False(t, FloatValue(1.5).Equal(IntValue(1)))
	require.False(t, DecimalValue(apd.New(1, 310)).Equal(FloatValue(math.Inf(1))))
}

func TestDecimalValueCopies(t *testing.T) {
	d := apd.New(7, 0)
	v := DecimalValue(d)
	d.SetInt64(8)
	require.True(t, v.Equal(IntValue(7)))
}

func TestValueString(t *testing.T) {
	require.Equal(t, "-9999", IntValue(-9999).String())
	require.Equal(t, "0.25", FloatValue(0.25).String())
	require.Equal(t, "1E+310", DecimalValue(apd.New(1, 310)).String())
}
