package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// metaFields are requested alongside the index pattern fields.
var metaFields = []string{"_source", "_id", "_type", "_index", "_score"}

// DashboardField is one entry of the dashboards index-pattern field list.
type DashboardField struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	ESTypes []string `json:"esTypes"`
}

// Dashboards reads index-pattern metadata from the dashboards application.
type Dashboards struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewDashboards creates a client for the dashboards application at baseURL.
func NewDashboards(baseURL, username, password string, client *http.Client) *Dashboards {
	return &Dashboards{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		client:   client,
	}
}

// FieldsForIndexPattern lists the fields the dashboards application knows
// for pattern.
func (d *Dashboards) FieldsForIndexPattern(ctx context.Context, pattern string) ([]DashboardField, error) {
	q := url.Values{}
	q.Set("pattern", pattern)
	for _, f := range metaFields {
		q.Add("meta_fields", f)
	}
	endpoint := d.baseURL + "/api/index_patterns/_fields_for_wildcard?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build dashboards request: %w", err)
	}
	req.Header.Set("osd-xsrf", "true")
	if d.username != "" {
		req.SetBasicAuth(d.username, d.password)
	}

	res, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboards request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, fmt.Errorf("dashboards returned error [%d]: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Fields []DashboardField `json:"fields"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode dashboards response: %w", err)
	}
	return payload.Fields, nil
}
