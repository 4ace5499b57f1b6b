package engine

import (
	"context"
	"fmt"
	"net/http"

	opensearch "github.com/opensearch-project/opensearch-go"

	"github.com/jonesrussell/north-cloud/query-api/internal/logging"
)

// OpenSearch is the adapter for a local or remote OpenSearch cluster.
type OpenSearch struct {
	client  *opensearch.Client
	backend Backend
}

func newOpenSearch(
	cfg Config, addresses []string, transport http.RoundTripper, tlog *logging.TransportLogger,
) (*OpenSearch, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:  addresses,
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
		Transport:  transport,
		Logger:     tlog,
	})
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}
	return &OpenSearch{client: client, backend: cfg.Backend}, nil
}

// Backend implements Engine.
func (o *OpenSearch) Backend() Backend { return o.backend }

// Search implements Engine.
func (o *OpenSearch) Search(ctx context.Context, index string, body map[string]any) (map[string]any, error) {
	buf, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	res, err := o.client.Search(
		o.client.Search.WithContext(ctx),
		o.client.Search.WithIndex(index),
		o.client.Search.WithBody(buf),
		o.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, requestErr("search", err)
	}

	var out map[string]any
	if err := decodeResponse("search", res.StatusCode, res.IsError(), res.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FieldMapping implements Engine.
func (o *OpenSearch) FieldMapping(ctx context.Context, index, field string) (map[string]any, error) {
	res, err := o.client.Indices.GetFieldMapping(
		[]string{field},
		o.client.Indices.GetFieldMapping.WithContext(ctx),
		o.client.Indices.GetFieldMapping.WithIndex(index),
	)
	if err != nil {
		return nil, requestErr("field mapping", err)
	}

	var out map[string]any
	if err := decodeResponse("field mapping", res.StatusCode, res.IsError(), res.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IndexTemplate implements Engine.
func (o *OpenSearch) IndexTemplate(ctx context.Context, name string) (map[string]any, error) {
	res, err := o.client.Indices.GetIndexTemplate(
		o.client.Indices.GetIndexTemplate.WithContext(ctx),
		o.client.Indices.GetIndexTemplate.WithName(name),
	)
	if err != nil {
		return nil, requestErr("index template", err)
	}

	var out map[string]any
	if err := decodeResponse("index template", res.StatusCode, res.IsError(), res.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ComponentTemplate implements Engine.
func (o *OpenSearch) ComponentTemplate(ctx context.Context, name string) (map[string]any, error) {
	res, err := o.client.Cluster.GetComponentTemplate(
		o.client.Cluster.GetComponentTemplate.WithContext(ctx),
		o.client.Cluster.GetComponentTemplate.WithName(name),
	)
	if err != nil {
		return nil, requestErr("component template", err)
	}

	var out map[string]any
	if err := decodeResponse("component template", res.StatusCode, res.IsError(), res.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CatIndices implements Engine.
func (o *OpenSearch) CatIndices(ctx context.Context) ([]map[string]any, error) {
	res, err := o.client.Cat.Indices(
		o.client.Cat.Indices.WithContext(ctx),
		o.client.Cat.Indices.WithFormat("json"),
	)
	if err != nil {
		return nil, requestErr("cat indices", err)
	}

	var out []map[string]any
	if err := decodeResponse("cat indices", res.StatusCode, res.IsError(), res.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Info implements Engine.
func (o *OpenSearch) Info(ctx context.Context) (map[string]any, error) {
	res, err := o.client.Info(o.client.Info.WithContext(ctx))
	if err != nil {
		return nil, requestErr("info", err)
	}

	var out map[string]any
	if err := decodeResponse("info", res.StatusCode, res.IsError(), res.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health implements Engine.
func (o *OpenSearch) Health(ctx context.Context) (map[string]any, error) {
	res, err := o.client.Cluster.Health(o.client.Cluster.Health.WithContext(ctx))
	if err != nil {
		return nil, requestErr("cluster health", err)
	}

	var out map[string]any
	if err := decodeResponse("cluster health", res.StatusCode, res.IsError(), res.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping implements Engine.
func (o *OpenSearch) Ping(ctx context.Context) error {
	res, err := o.client.Ping(o.client.Ping.WithContext(ctx))
	if err != nil {
		return requestErr("ping", err)
	}
	return decodeResponse("ping", res.StatusCode, res.IsError(), res.Body, nil)
}
