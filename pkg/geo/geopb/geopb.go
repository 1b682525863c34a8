// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package geopb contains the primitive types shared by the spatial codecs.
package geopb

// SRID is a Spatial Reference Identifer. All geometry and raster values
// carry one. The zero value means the SRID is unknown.
type SRID int32

// UnknownSRID is the SRID serialized when none was provided.
const UnknownSRID SRID = 0

// SafeValue implements the redact.SafeValue interface.
func (s SRID) SafeValue() {}

// WKT is the Well Known Text form of a spatial object.
type WKT string

// EWKT is the Extended Well Known Text form of a spatial object: WKT
// optionally prefixed with "SRID=<srid>;".
type EWKT string

// WKB is the Well Known Bytes form of a spatial object.
type WKB []byte

// EWKB is the Extended Well Known Bytes form of a spatial object. It
// embeds the SRID when one is known.
type EWKB []byte
