// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTestingHook(t *testing.T) {
	knob := 1
	restore := TestingHook(&knob, 2)
	require.Equal(t, 2, knob)
	restore()
	require.Equal(t, 1, knob)

	require.Equal(t, "testdata", TestDataPath(t))
}
