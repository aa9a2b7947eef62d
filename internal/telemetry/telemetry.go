// Package telemetry captures errors that are not shown to the user.
package telemetry

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextKey struct{}

// Reporter records unexpected errors
type Reporter interface {
	CaptureException(ctx context.Context, err error, tags map[string]string)
}

// LogReporter reports errors as logrus entries
type LogReporter struct {
	log *logrus.Entry
}

// NewLogReporter creates a reporter writing to log
func NewLogReporter(log *logrus.Entry) *LogReporter {
	return &LogReporter{log: log}
}

// CaptureException implements Reporter
func (r *LogReporter) CaptureException(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}

	fields := logrus.Fields{}
	for k, v := range tags {
		fields[k] = v
	}
	if id := RequestID(ctx); id != "" {
		fields["request_id"] = id
	}

	r.log.WithFields(fields).WithError(err).Error("captured exception")
}

// Nop discards every report
type Nop struct{}

// CaptureException implements Reporter
func (Nop) CaptureException(context.Context, error, map[string]string) {}

// WithRequestID attaches a request ID to ctx for later reports
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// RequestID returns the request ID attached to ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
