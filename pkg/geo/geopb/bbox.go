// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geopb

import "math"

// BoundingBox is an axis aligned bounding box in planar coordinates.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewBoundingBox returns a properly initialized, empty bounding box.
func NewBoundingBox() *BoundingBox {
	return &BoundingBox{
		MinX: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MinY: math.MaxFloat64,
		MaxY: -math.MaxFloat64,
	}
}

// Update updates the BoundingBox coordinates.
func (b *BoundingBox) Update(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MaxX = math.Max(b.MaxX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxY = math.Max(b.MaxY, y)
}

// IsEmpty returns whether no point was ever added to the box.
func (b *BoundingBox) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}
