// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package pgerror

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pgspatial/pkg/sql/pgwire/pgcode"
)

// Error is the flattened, client-facing form of an error: the fields
// a postgres server would put in an ErrorResponse message.
type Error struct {
	Code     string
	Message  string
	Detail   string
	Hint     string
	Severity string
}

// Flatten turns any error into a pgerror with fields populated.
// Returns a nil ptr if err was nil to start with.
func Flatten(err error) *Error {
	if err == nil {
		return nil
	}
	resErr := &Error{
		Code:     GetPGCode(err).String(),
		Message:  err.Error(),
		Detail:   strings.Join(errors.GetAllDetails(err), "\n"),
		Hint:     strings.Join(errors.GetAllHints(err), "\n"),
		Severity: GetSeverity(err),
	}

	if resErr.Code == pgcode.Internal.String() || errors.IsAssertionFailure(err) {
		resErr.Code = pgcode.Internal.String()
		if !strings.HasPrefix(resErr.Message, InternalErrorPrefix) {
			resErr.Message = InternalErrorPrefix + resErr.Message
		}
	}
	return resErr
}

// InternalErrorPrefix is prepended to internal errors.
const InternalErrorPrefix = "internal error: "

// FullError can be used when the hint and/or detail are to be tested.
func FullError(err error) string {
	if err == nil {
		return ""
	}
	if s, ok := fullErrorFromPQ(err); ok {
		return s
	}
	pgErr := Flatten(err)
	return formatMsgHintDetail(pgErr.Severity, pgErr.Message+" (SQLSTATE "+pgErr.Code+")", pgErr.Hint, pgErr.Detail)
}

func formatMsgHintDetail(prefix, msg, hint, detail string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(": ")
	b.WriteString(msg)
	if hint != "" {
		b.WriteString("\nHINT: ")
		b.WriteString(hint)
	}
	if detail != "" {
		b.WriteString("\nDETAIL: ")
		b.WriteString(detail)
	}
	return b.String()
}
