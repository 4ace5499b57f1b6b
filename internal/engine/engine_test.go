package engine_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/engine"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/retry"
)

// fakeCluster answers the handful of endpoints the adapters call.
type fakeCluster struct {
	mu         sync.Mutex
	lastBody   map[string]any
	lastPath   string
	failSearch bool
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Elastic-Product", "Elasticsearch")

	f.mu.Lock()
	f.lastPath = r.URL.Path
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/":
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"8.19.3","distribution":"opensearch"},"tagline":"You Know, for Search"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		if f.failSearch {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"type":"parsing_exception","reason":"unknown query [nope]"},"status":400}`)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.lastBody = body
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_id":"a","_source":{"n":9007199254740993}}]}}`)
	case strings.Contains(r.URL.Path, "/_mapping/field/"):
		_, _ = io.WriteString(w, `{"net-1":{"mappings":{"destination.port":{"mapping":{"port":{"type":"long"}}}}}}`)
	case r.URL.Path == "/_cat/indices":
		_, _ = io.WriteString(w, `[{"index":"net-1","docs.count":"3"}]`)
	case r.URL.Path == "/_cluster/health":
		_, _ = io.WriteString(w, `{"status":"green"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"not found"}`)
	}
}

func newEngine(t *testing.T, backend engine.Backend, h http.Handler) engine.Engine {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	eng, err := engine.New(context.Background(), engine.Config{
		Backend:   backend,
		URL:       srv.URL,
		SSLVerify: true,
		Connect:   retry.Config{MaxAttempts: 1},
	}, logger.NewNop())
	require.NoError(t, err)
	return eng
}

func TestAdapters(t *testing.T) {
	t.Parallel()

	for _, backend := range []engine.Backend{engine.OpenSearchLocal, engine.ElasticsearchRemote} {
		t.Run(string(backend), func(t *testing.T) {
			t.Parallel()

			cluster := &fakeCluster{}
			eng := newEngine(t, backend, cluster)
			ctx := context.Background()

			assert.Equal(t, backend, eng.Backend())

			res, err := eng.Search(ctx, "net-*", map[string]any{"size": 0})
			require.NoError(t, err)
			hits := res["hits"].(map[string]any)["hits"].([]any)
			source := hits[0].(map[string]any)["_source"].(map[string]any)
			assert.Equal(t, json.Number("9007199254740993"), source["n"])
			assert.Equal(t, "/net-*/_search", cluster.lastPath)
			assert.Equal(t, float64(0), cluster.lastBody["size"])

			mapping, err := eng.FieldMapping(ctx, "net-*", "destination.port")
			require.NoError(t, err)
			assert.Contains(t, mapping, "net-1")

			indices, err := eng.CatIndices(ctx)
			require.NoError(t, err)
			require.Len(t, indices, 1)
			assert.Equal(t, "net-1", indices[0]["index"])

			health, err := eng.Health(ctx)
			require.NoError(t, err)
			assert.Equal(t, "green", health["status"])
		})
	}
}

func TestSearch_EngineErrorCarriesReason(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, engine.OpenSearchLocal, &fakeCluster{failSearch: true})

	_, err := eng.Search(context.Background(), "net-*", map[string]any{"query": map[string]any{"nope": nil}})
	require.Error(t, err)
	assert.Equal(t, domain.KindEngine, domain.KindOf(err))
	assert.Contains(t, err.Error(), "parsing_exception: unknown query [nope]")
}

func TestNew_UnreachableEngine(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := engine.New(context.Background(), engine.Config{
		Backend: engine.OpenSearchLocal,
		URL:     url,
		Connect: retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond},
	}, logger.NewNop())
	require.Error(t, err)
}

func TestParseBackend(t *testing.T) {
	t.Parallel()

	b, err := engine.ParseBackend(" Elasticsearch-Remote ")
	require.NoError(t, err)
	assert.Equal(t, engine.ElasticsearchRemote, b)
	assert.False(t, b.HasDashboards())
	assert.True(t, engine.OpenSearchLocal.HasDashboards())

	_, err = engine.ParseBackend("solr")
	require.Error(t, err)
}

func TestInstrument_ReportsOutcome(t *testing.T) {
	t.Parallel()

	var ops []string
	var errs []error
	eng := engine.Instrument(newEngine(t, engine.OpenSearchLocal, &fakeCluster{failSearch: true}),
		func(op string, _ time.Duration, err error) {
			ops = append(ops, op)
			errs = append(errs, err)
		})

	_, _ = eng.Search(context.Background(), "net-*", map[string]any{})
	require.NoError(t, eng.Ping(context.Background()))

	assert.Equal(t, []string{"search", "ping"}, ops)
	assert.Error(t, errs[0])
	assert.NoError(t, errs[1])
}

func TestDashboards_FieldsForIndexPattern(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboards/api/index_patterns/_fields_for_wildcard" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("osd-xsrf") != "true" || r.URL.Query().Get("pattern") != "net-*" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Len(t, r.URL.Query()["meta_fields"], 5)
		_, _ = io.WriteString(w, `{"fields":[{"name":"source.ip","type":"ip","esTypes":["ip"]}]}`)
	}))
	t.Cleanup(srv.Close)

	d := engine.NewDashboards(srv.URL+"/dashboards/", "", "", srv.Client())
	fields, err := d.FieldsForIndexPattern(context.Background(), "net-*")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, []string{"ip"}, fields[0].ESTypes)

	_, err = d.FieldsForIndexPattern(context.Background(), "other-*")
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
