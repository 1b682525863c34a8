// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package testutils

import (
	"os"
	"path/filepath"
)

// TestDataPath returns a path to an asset in the testdata directory of the
// package under test. The asset must exist.
func TestDataPath(t TestFataler, relative ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{"testdata"}, relative...)...)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("test data %s: %v", path, err)
	}
	return path
}
