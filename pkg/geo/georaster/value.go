// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package georaster

import (
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/redact"
)

type valueKind uint8

const (
	valueInt valueKind = iota
	valueFloat
	valueDecimal
)

// Value is a single numeric pixel sample. It is either an integer, a double
// or an arbitrary precision decimal; the latter is used for magnitudes that
// do not fit a double, which are only ever reported as errors.
//
// The zero value is the integer 0.
type Value struct {
	kind valueKind
	i    int64
	f    float64
	d    *apd.Decimal
}

// IntValue returns an integer sample.
func IntValue(i int64) Value {
	return Value{kind: valueInt, i: i}
}

// FloatValue returns a floating point sample.
func FloatValue(f float64) Value {
	return Value{kind: valueFloat, f: f}
}

// DecimalValue returns a sample backed by an arbitrary precision decimal.
// The decimal is copied.
func DecimalValue(d *apd.Decimal) Value {
	var c apd.Decimal
	c.Set(d)
	return Value{kind: valueDecimal, d: &c}
}

// IntValues is a convenience wrapper around IntValue.
func IntValues(is ...int64) []Value {
	vals := make([]Value, len(is))
	for i, v := range is {
		vals[i] = IntValue(v)
	}
	return vals
}

// FloatValues is a convenience wrapper around FloatValue.
func FloatValues(fs ...float64) []Value {
	vals := make([]Value, len(fs))
	for i, v := range fs {
		vals[i] = FloatValue(v)
	}
	return vals
}

// ParseValue parses a sample from its decimal text representation. Integers
// that fit an int64 become integer samples, anything else that fits a double
// without loss of range becomes a float sample, and the rest is kept as a
// decimal.
func ParseValue(s string) (Value, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(i), nil
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Value{}, pgerror.Wrapf(err, pgcode.InvalidTextRepresentation, "could not parse %q as a pixel value", s)
	}
	v := DecimalValue(d)
	if f, err := v.Float64(); err == nil {
		return FloatValue(f), nil
	}
	return v, nil
}

// IsIntegral returns whether the sample has no fractional part. NaN and
// infinities are not integral.
func (v Value) IsIntegral() bool {
	switch v.kind {
	case valueInt:
		return true
	case valueFloat:
		return !math.IsInf(v.f, 0) && v.f == math.Trunc(v.f)
	default:
		if v.d.Form != apd.Finite {
			return false
		}
		var integ, frac apd.Decimal
		v.d.Modf(&integ, &frac)
		return frac.IsZero()
	}
}

// asInt64 returns the sample as an int64 if it is integral and in range.
func (v Value) asInt64() (int64, bool) {
	if !v.IsIntegral() {
		return 0, false
	}
	switch v.kind {
	case valueInt:
		return v.i, true
	case valueFloat:
		// float64(math.MaxInt64) rounds up to 2^63, which is out of range.
		if v.f < -(1<<63) || v.f >= 1<<63 {
			return 0, false
		}
		return int64(v.f), true
	default:
		i, err := v.d.Int64()
		return i, err == nil
	}
}

// Float64 returns the sample as a double. It fails with an error marked
// with ErrValueBounds if the magnitude exceeds the finite range of a double.
func (v Value) Float64() (float64, error) {
	switch v.kind {
	case valueInt:
		return float64(v.i), nil
	case valueFloat:
		return v.f, nil
	default:
		switch v.d.Form {
		case apd.NaN, apd.NaNSignaling:
			return math.NaN(), nil
		case apd.Infinite:
			if v.d.Negative {
				return math.Inf(-1), nil
			}
			return math.Inf(1), nil
		}
		// Underflow is reported as an error too, but the rounded result is
		// still the closest double.
		f, _ := v.d.Float64()
		if math.IsInf(f, 0) {
			return 0, newValueBoundsErrorf("value %s exceeds the range of a double", v)
		}
		return f, nil
	}
}

// mustFloat64 is Float64 for samples already validated against a pixel type.
func (v Value) mustFloat64() float64 {
	f, err := v.Float64()
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "unvalidated sample"))
	}
	return f
}

// Equal returns whether both samples hold the same number, regardless of
// how they are represented.
func (v Value) Equal(o Value) bool {
	if a, ok := v.asInt64(); ok {
		b, ok := o.asInt64()
		return ok && a == b
	}
	if _, ok := o.asInt64(); ok {
		return false
	}
	fa, errA := v.Float64()
	fb, errB := o.Float64()
	if errA != nil || errB != nil {
		return errA != nil && errB != nil && v.decimal().Cmp(o.decimal()) == 0
	}
	if math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	return fa == fb
}

func (v Value) decimal() *apd.Decimal {
	switch v.kind {
	case valueInt:
		return apd.New(v.i, 0)
	case valueFloat:
		d := new(apd.Decimal)
		if _, err := d.SetFloat64(v.f); err != nil {
			d.Form = apd.NaN
		}
		return d
	default:
		return v.d
	}
}

// String implements the fmt.Stringer interface.
func (v Value) String() string {
	return redact.StringWithoutMarkers(v)
}

// SafeFormat implements the redact.SafeFormatter interface. Sample values
// are user data and are left redactable.
func (v Value) SafeFormat(w redact.SafePrinter, _ rune) {
	switch v.kind {
	case valueInt:
		w.Print(v.i)
	case valueFloat:
		w.Print(strconv.FormatFloat(v.f, 'g', -1, 64))
	default:
		w.Print(v.d.String())
	}
}
