// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package testutils

// TestingHook sets `*ptr = val` and returns a closure for restoring `*ptr` to
// its original value. It is meant for overriding package-level knobs such
// as clocks or default encodings from tests:
//
//	defer testutils.TestingHook(&timeNow, fakeNow)()
func TestingHook[T any](ptr *T, val T) func() {
	orig := *ptr
	*ptr = val
	return func() { *ptr = orig }
}
