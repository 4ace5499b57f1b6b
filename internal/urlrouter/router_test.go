package urlrouter_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/query-api/internal/urlrouter"
)

const httpDashboard = "/dashboards/app/dashboards#/view/37041ee1-79c0-4684-a436-3173b0e89876" +
	"?_g=(filters:!(),refreshInterval:(pause:!t,value:0),time:(from:now-1d,to:now))"

func TestURLs_HTTPField(t *testing.T) {
	t.Parallel()

	r := urlrouter.New("/dashboards", true)
	assert.Equal(t, []string{httpDashboard}, r.URLs([]string{"zeek.http.status_code"}, nil, nil))
}

func TestURLs_CaseInsensitive(t *testing.T) {
	t.Parallel()

	r := urlrouter.New("/dashboards/", true)
	assert.Equal(t, []string{httpDashboard}, r.URLs([]string{"Zeek.HTTP.Method"}, nil, nil))
}

func TestURLs_TimeWindow(t *testing.T) {
	t.Parallel()

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 1, 2, 5, 0, 0, 0, time.FixedZone("EST", -5*3600))

	urls := urlrouter.New("/dashboards", true).URLs([]string{"event.provider"}, &start, &end)
	require.Len(t, urls, 1)
	assert.True(t, strings.HasSuffix(urls[0],
		"time:(from:'2022-01-01T00:00:00Z',to:'2022-01-02T10:00:00Z'))"), urls[0])

	urls = urlrouter.New("/dashboards", true).URLs([]string{"event.provider"}, &start, nil)
	assert.True(t, strings.HasSuffix(urls[0], "time:(from:'2022-01-01T00:00:00Z',to:now))"), urls[0])
}

func TestURLs_UnionAndDedup(t *testing.T) {
	t.Parallel()

	r := urlrouter.New("/dashboards", true)

	// zeek.notice and zeek.signatures share two dashboards.
	urls := r.URLs([]string{"zeek.notice.msg", "zeek.signatures.note", "zeek.notice.msg"}, nil, nil)
	assert.Len(t, urls, 3)
	assert.IsIncreasing(t, urls)

	assert.Len(t, r.URLs([]string{"rule.name"}, nil, nil), 4)
}

func TestURLs_NoMatch(t *testing.T) {
	t.Parallel()

	r := urlrouter.New("/dashboards", true)
	assert.Empty(t, r.URLs([]string{"host.name"}, nil, nil))
	assert.Empty(t, r.URLs(nil, nil, nil))
}

func TestURLs_Disabled(t *testing.T) {
	t.Parallel()

	r := urlrouter.New("/dashboards", false)
	assert.Nil(t, r.URLs([]string{"zeek.http.status_code"}, nil, nil))
}
