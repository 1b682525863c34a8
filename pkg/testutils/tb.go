// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package testutils

// TestFataler is a slimmed down version of testing.TB for use in helper functions
// by testing contexts which do not come from the stdlib testing package.
type TestFataler interface {
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Helper()
}
