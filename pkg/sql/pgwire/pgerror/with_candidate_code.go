// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package pgerror

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
	"github.com/gogo/protobuf/proto"
)

type withCandidateCode struct {
	cause error
	code  string
}

var _ error = (*withCandidateCode)(nil)
var _ errors.SafeFormatter = (*withCandidateCode)(nil)
var _ fmt.Formatter = (*withCandidateCode)(nil)

func (w *withCandidateCode) Error() string { return w.cause.Error() }
func (w *withCandidateCode) Cause() error  { return w.cause }
func (w *withCandidateCode) Unwrap() error { return w.cause }

func (w *withCandidateCode) Format(s fmt.State, verb rune) { errors.FormatError(w, s, verb) }

func (w *withCandidateCode) SafeFormatError(p errors.Printer) (next error) {
	if p.Detail() {
		p.Printf("candidate pg code: %s", errors.Safe(w.code))
	}
	return w.cause
}

// WithCandidateCode decorates the error with a candidate postgres
// error code. It is called "candidate" because the code is only used
// by GetPGCode() if no other code is found further in the causal chain.
func WithCandidateCode(err error, code pgcode.Code) error {
	if err == nil {
		return nil
	}
	return &withCandidateCode{cause: err, code: code.String()}
}

// decodeWithCandidateCode is a custom error decoder so that the code
// survives a round trip through the network encoding of errors.
func decodeWithCandidateCode(
	_ context.Context, cause error, _ string, details []string, _ proto.Message,
) error {
	code := pgcode.Uncategorized.String()
	if len(details) > 0 {
		code = details[0]
	}
	return &withCandidateCode{cause: cause, code: code}
}

func encodeWithCandidateCode(
	_ context.Context, err error,
) (msgPrefix string, safe []string, details proto.Message) {
	w := err.(*withCandidateCode)
	return "", []string{w.code}, nil
}

func init() {
	errors.RegisterWrapperDecoder(errors.GetTypeKey((*withCandidateCode)(nil)), decodeWithCandidateCode)
	errors.RegisterWrapperEncoder(errors.GetTypeKey((*withCandidateCode)(nil)), encodeWithCandidateCode)
}
