package logging_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
	"github.com/jonesrussell/north-cloud/query-api/internal/logging"
)

type entry struct {
	level  string
	msg    string
	fields []logger.Field
}

type recordingLogger struct {
	entries []entry
}

func (r *recordingLogger) record(level, msg string, fields []logger.Field) {
	r.entries = append(r.entries, entry{level: level, msg: msg, fields: fields})
}

func (r *recordingLogger) Debug(msg string, f ...logger.Field) { r.record("debug", msg, f) }
func (r *recordingLogger) Info(msg string, f ...logger.Field)  { r.record("info", msg, f) }
func (r *recordingLogger) Warn(msg string, f ...logger.Field)  { r.record("warn", msg, f) }
func (r *recordingLogger) Error(msg string, f ...logger.Field) { r.record("error", msg, f) }
func (r *recordingLogger) Fatal(msg string, f ...logger.Field) { r.record("fatal", msg, f) }
func (r *recordingLogger) With(...logger.Field) logger.Logger  { return r }
func (r *recordingLogger) Sync() error                         { return nil }

func hasField(fields []logger.Field, key string) bool {
	for _, f := range fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

func TestLogRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		res       *http.Response
		err       error
		dur       time.Duration
		wantLevel string
	}{
		{name: "ok", res: &http.Response{StatusCode: 200}, dur: time.Millisecond, wantLevel: "debug"},
		{name: "slow", res: &http.Response{StatusCode: 200}, dur: 2 * time.Second, wantLevel: "warn"},
		{name: "failed", err: errors.New("connection refused"), dur: time.Millisecond, wantLevel: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &recordingLogger{}
			tl := logging.NewTransportLogger(rec, false, time.Second)
			req := httptest.NewRequest(http.MethodPost, "/net-*/_search", strings.NewReader(`{"size":0}`))

			require.NoError(t, tl.LogRoundTrip(req, tt.res, tt.err, time.Now(), tt.dur))
			require.Len(t, rec.entries, 1)
			assert.Equal(t, tt.wantLevel, rec.entries[0].level)
			assert.False(t, hasField(rec.entries[0].fields, "body"))
		})
	}
}

func TestLogRoundTrip_Bodies(t *testing.T) {
	t.Parallel()

	rec := &recordingLogger{}
	tl := logging.NewTransportLogger(rec, true, 0)
	assert.True(t, tl.RequestBodyEnabled())
	assert.False(t, tl.ResponseBodyEnabled())

	req := httptest.NewRequest(http.MethodPost, "/net-*/_search", strings.NewReader(`{"size":0}`))
	require.NoError(t, tl.LogRoundTrip(req, &http.Response{StatusCode: 200}, nil, time.Now(), time.Hour))

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "debug", rec.entries[0].level)
	assert.True(t, hasField(rec.entries[0].fields, "body"))
}
