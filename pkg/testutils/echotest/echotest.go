// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package echotest

import (
	"testing"

	"github.com/cockroachdb/datadriven"
)

// Require checks a set of named outputs against the file located at the
// provided path. The file must follow the datadriven format, with one
// directive per output:
//
//	echo name=<key>
//	----
//	<outputs[key]>
//
// Every output must be checked by the file. The contents of the file can be
// updated automatically using datadriven's -rewrite flag.
func Require(t *testing.T, outputs map[string]string, path string) {
	seen := make(map[string]bool, len(outputs))
	datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
		if d.Cmd != "echo" {
			return "only 'echo' is supported"
		}
		var name string
		d.ScanArgs(t, "name", &name)
		out, ok := outputs[name]
		if !ok {
			d.Fatalf(t, "no output named %q", name)
		}
		seen[name] = true
		return out
	})
	for name := range outputs {
		if !seen[name] {
			t.Errorf("output %q is not checked by %s", name, path)
		}
	}
}
