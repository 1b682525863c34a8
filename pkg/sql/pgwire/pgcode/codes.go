// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package pgcode defines the subset of PostgreSQL error codes (SQLSTATE)
// reported by the spatial codecs.
//
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
package pgcode

import "github.com/cockroachdb/redact"

// Code is a wrapper around a string to ensure that pg codes are used in
// different pgwire-related functions and not just raw strings.
type Code struct {
	code string
}

var _ redact.SafeValue = Code{}

// MakeCode converts a string into a Code.
func MakeCode(s string) Code {
	return Code{code: s}
}

// String returns the underlying pg code string.
func (c Code) String() string {
	return c.code
}

// SafeValue implements the redact.SafeValue interface.
func (c Code) SafeValue() {}

// Class returns the two-character class of the code.
func (c Code) Class() string {
	if len(c.code) < 2 {
		return ""
	}
	return c.code[:2]
}

var (
	// Section: Class 00 - Successful Completion
	SuccessfulCompletion = MakeCode("00000")
	// Section: Class 0A - Feature Not Supported
	FeatureNotSupported = MakeCode("0A000")
	// Section: Class 22 - Data Exception
	DataException               = MakeCode("22000")
	NumericValueOutOfRange      = MakeCode("22003")
	InvalidParameterValue       = MakeCode("22023")
	InvalidTextRepresentation   = MakeCode("22P02")
	InvalidBinaryRepresentation = MakeCode("22P03")
	// Section: Class XX - Internal Error
	Internal = MakeCode("XX000")
	// Uncategorized is used for errors that flow out to a client
	// when there's no code known yet.
	Uncategorized = MakeCode("XXUUU")
)
