package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/metrics"
)

func TestObserveRequest_LabelsByKind(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())

	m.ObserveRequest("agg", nil)
	m.ObserveRequest("agg", domain.ParseErr("bad"))
	m.ObserveRequest("agg", errors.New("boom"))

	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("agg", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("agg", "ParseError")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("agg", "InternalError")), 0)
}

func TestCacheLookup(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.InDelta(t, 1, testutil.ToFloat64(m.FieldTypeCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.FieldTypeCache.WithLabelValues("miss")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	m.ObserveRequest("agg", nil)
	m.ObserveEngine("search", time.Second, nil)
	m.SchemaLookupFailed()
	m.CacheLookup(true)
}
