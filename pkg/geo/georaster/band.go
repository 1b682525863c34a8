// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package georaster

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Band is a single raster channel. It is immutable once constructed.
type Band struct {
	samples   []Value
	nodata    Value
	hasNoData bool
	// isNoData is the PostGIS flag marking a band whose every sample is
	// nodata. It is only ever set by Decode.
	isNoData  bool
	pixelType PixelType
}

type bandOptions struct {
	nodata    *Value
	pixelType *PixelType
}

// BandOption configures NewBand.
type BandOption func(*bandOptions)

// WithNoData sets the nodata sentinel of the band.
func WithNoData(v Value) BandOption {
	return func(o *bandOptions) { o.nodata = &v }
}

// WithPixelType sets the pixel type of the band instead of inferring it.
func WithPixelType(pt PixelType) BandOption {
	return func(o *bandOptions) { o.pixelType = &pt }
}

// NewBand returns a band holding a copy of samples. Unless WithPixelType is
// given, the pixel type is inferred from the samples and the nodata value
// with InferPixelType. An explicit pixel type is used as-is, but every value
// must fit it; otherwise an error marked with ErrValueBounds is returned.
func NewBand(samples []Value, opts ...BandOption) (*Band, error) {
	var o bandOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := &Band{samples: append([]Value(nil), samples...)}
	if o.nodata != nil {
		b.nodata, b.hasNoData = *o.nodata, true
	}

	if o.pixelType == nil {
		pt, err := InferPixelType(b.samples, o.nodata)
		if err != nil {
			return nil, err
		}
		b.pixelType = pt
		return b, nil
	}

	pt := *o.pixelType
	if !pt.Valid() {
		return nil, errors.AssertionFailedf("unknown pixel type %d", errors.Safe(uint8(pt)))
	}
	for i, v := range b.samples {
		if !pt.Fits(v) {
			return nil, newValueBoundsErrorf("sample %d (%s) does not fit pixel type %s", errors.Safe(i), v, pt)
		}
	}
	if b.hasNoData && !pt.Fits(b.nodata) {
		return nil, newValueBoundsErrorf("nodata value %s does not fit pixel type %s", b.nodata, pt)
	}
	b.pixelType = pt
	return b, nil
}

// Samples returns the samples of the band in row-major order. The returned
// slice must not be modified.
func (b *Band) Samples() []Value {
	return b.samples
}

// Len returns the number of samples of the band.
func (b *Band) Len() int {
	return len(b.samples)
}

// NoData returns the nodata sentinel and whether there is one.
func (b *Band) NoData() (Value, bool) {
	return b.nodata, b.hasNoData
}

// IsNoData returns whether the band was flagged as containing only nodata.
func (b *Band) IsNoData() bool {
	return b.isNoData
}

// PixelType returns the pixel type of the band.
func (b *Band) PixelType() PixelType {
	return b.pixelType
}

// SafeFormat implements the redact.SafeFormatter interface.
func (b *Band) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s", b.pixelType)
	if b.hasNoData {
		w.Printf(" nodata=%s", b.nodata)
	}
	if b.isNoData {
		w.SafeString(" isnodata")
	}
	w.Printf(" samples=%d", redact.Safe(len(b.samples)))
}

// String implements the fmt.Stringer interface.
func (b *Band) String() string {
	return redact.StringWithoutMarkers(b)
}
