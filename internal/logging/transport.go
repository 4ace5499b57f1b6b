// Package logging adapts the service logger to the engine clients'
// round-trip logger hook.
package logging

import (
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
)

const maxLoggedBody = 4096

// TransportLogger satisfies the Logger interface of both elastictransport
// and opensearchtransport.
type TransportLogger struct {
	log        logger.Logger
	logBodies  bool
	slowCutoff time.Duration
}

// NewTransportLogger logs every round trip at debug level, plus a warning for
// failures and for requests slower than slowCutoff (0 disables the latter).
// With logBodies the request body (the generated query) is included.
func NewTransportLogger(log logger.Logger, logBodies bool, slowCutoff time.Duration) *TransportLogger {
	return &TransportLogger{log: log, logBodies: logBodies, slowCutoff: slowCutoff}
}

// LogRoundTrip is called by the engine transport after each request.
func (t *TransportLogger) LogRoundTrip(
	req *http.Request, res *http.Response, err error, _ time.Time, dur time.Duration,
) error {
	fields := []logger.Field{
		logger.String("method", req.Method),
		logger.String("path", req.URL.Path),
		logger.Duration("duration", dur),
	}
	if res != nil {
		fields = append(fields, logger.Int("status", res.StatusCode))
	}
	if t.logBodies && req.Body != nil && req.Body != http.NoBody {
		body, readErr := io.ReadAll(io.LimitReader(req.Body, maxLoggedBody))
		if readErr == nil && len(body) > 0 {
			fields = append(fields, logger.String("body", string(body)))
		}
	}

	switch {
	case err != nil:
		t.log.Warn("Engine request failed", append(fields, logger.Error(err))...)
	case t.slowCutoff > 0 && dur > t.slowCutoff:
		t.log.Warn("Slow engine request", fields...)
	default:
		t.log.Debug("Engine request", fields...)
	}
	return nil
}

// RequestBodyEnabled asks the transport for a copy of the request body.
func (t *TransportLogger) RequestBodyEnabled() bool { return t.logBodies }

// ResponseBodyEnabled is always false; search responses can be large.
func (t *TransportLogger) ResponseBodyEnabled() bool { return false }
