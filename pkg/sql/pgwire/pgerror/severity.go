// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package pgerror

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// DefaultSeverity is the default severity for decoding severity of errors.
const DefaultSeverity = "ERROR"

type withSeverity struct {
	cause    error
	severity string
}

var _ error = (*withSeverity)(nil)
var _ errors.SafeFormatter = (*withSeverity)(nil)
var _ fmt.Formatter = (*withSeverity)(nil)

func (w *withSeverity) Error() string { return w.cause.Error() }
func (w *withSeverity) Cause() error  { return w.cause }
func (w *withSeverity) Unwrap() error { return w.cause }

func (w *withSeverity) Format(s fmt.State, verb rune) { errors.FormatError(w, s, verb) }

func (w *withSeverity) SafeFormatError(p errors.Printer) (next error) {
	if p.Detail() {
		p.Printf("severity: %s", errors.Safe(w.severity))
	}
	return w.cause
}

// WithSeverity decorates the error with a severity.
func WithSeverity(err error, severity string) error {
	if err == nil {
		return nil
	}
	return &withSeverity{cause: err, severity: severity}
}

// GetSeverity attempts to retrieve the outermost severity from the
// error chain. If none is found, DefaultSeverity is returned.
func GetSeverity(err error) string {
	for ; err != nil; err = errors.UnwrapOnce(err) {
		if w, ok := err.(*withSeverity); ok {
			return w.severity
		}
	}
	return DefaultSeverity
}
