package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsanders-rh/ocpconsole/internal/telemetry"
)

func TestLogReporter_CaptureException(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := telemetry.NewLogReporter(logrus.NewEntry(logger))

	ctx := telemetry.WithRequestID(context.Background(), "req-1")
	r.CaptureException(ctx, errors.New("list clusters: connection refused"), map[string]string{"operation": "uniqueness-check"})

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Equal(t, "uniqueness-check", entry.Data["operation"])
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "list clusters: connection refused")
}

func TestLogReporter_IgnoresNilError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	telemetry.NewLogReporter(logrus.NewEntry(logger)).CaptureException(context.Background(), nil, nil)
	assert.Empty(t, hook.Entries)
}
