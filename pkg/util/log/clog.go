// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log implements the logging facade used across the spatial
// codecs. Entries are written in a crdb-v1-like single line format:
//
//	I241017 11:06:00.123456 encode.go:42  [raster=1] message
//
// Context tags (see github.com/cockroachdb/logtags) are rendered between
// brackets and arguments are formatted with github.com/cockroachdb/redact,
// with redaction markers stripped on output.
package log

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// Severity is the severity of a log entry.
type Severity int32

const (
	// SeverityInfo is used for informational messages.
	SeverityInfo Severity = iota + 1
	// SeverityWarning is used for situations which may require attention.
	SeverityWarning
	// SeverityError is used for errors.
	SeverityError
)

// SafeValue implements the redact.SafeValue interface.
func (s Severity) SafeValue() {}

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (s Severity) char() byte {
	switch s {
	case SeverityWarning:
		return 'W'
	case SeverityError:
		return 'E'
	default:
		return 'I'
	}
}

var logging struct {
	verbosity atomic.Int32

	mu struct {
		sync.Mutex
		out io.Writer
	}
}

func init() {
	logging.mu.out = os.Stderr
}

// timeNow is overridden in tests.
var timeNow = time.Now

// SetOutput redirects all log entries to w and returns a function that
// restores the previous destination.
func SetOutput(w io.Writer) (restore func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	prev := logging.mu.out
	logging.mu.out = w
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		logging.mu.out = prev
	}
}

// SetVerbosity sets the global verbosity level used by V and VEventf and
// returns a function that restores the previous level.
func SetVerbosity(level int32) (restore func()) {
	prev := logging.verbosity.Swap(level)
	return func() { logging.verbosity.Store(prev) }
}

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level int32) bool {
	return logging.verbosity.Load() >= level
}

// Infof logs to the INFO severity.
func Infof(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityInfo, format, args)
}

// Warningf logs to the WARNING severity.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityWarning, format, args)
}

// Errorf logs to the ERROR severity.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityError, format, args)
}

// VEventf logs an INFO entry if the verbosity is at least level.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		logDepth(ctx, 1, SeverityInfo, format, args)
	}
}

// FormatWithContextTags formats the string and prepends the context
// tags.
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	var buf bytes.Buffer
	formatTags(ctx, &buf)
	buf.WriteString(redact.Sprintf(format, args...).StripMarkers())
	return buf.String()
}

func formatTags(ctx context.Context, buf *bytes.Buffer) {
	tags := logtags.FromContext(ctx)
	if tags == nil || len(tags.Get()) == 0 {
		return
	}
	buf.WriteByte('[')
	buf.WriteString(tags.String())
	buf.WriteString("] ")
}

func logDepth(
	ctx context.Context, depth int, sev Severity, format string, args []interface{},
) {
	file, line := "???", 0
	if _, f, l, ok := runtime.Caller(depth + 1); ok {
		file, line = filepath.Base(f), l
	}

	var buf bytes.Buffer
	buf.WriteByte(sev.char())
	buf.WriteString(timeNow().UTC().Format("060102 15:04:05.000000"))
	buf.WriteByte(' ')
	buf.WriteString(file)
	buf.WriteByte(':')
	buf.WriteString(strconv.Itoa(line))
	buf.WriteString("  ")
	formatTags(ctx, &buf)
	buf.WriteString(redact.Sprintf(format, args...).StripMarkers())
	if b := buf.Bytes(); len(b) == 0 || b[len(b)-1] != '\n' {
		buf.WriteByte('\n')
	}

	logging.mu.Lock()
	defer logging.mu.Unlock()
	_, _ = logging.mu.out.Write(buf.Bytes())
}
