package engine

import (
	"context"
	"fmt"
	"net/http"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/north-cloud/query-api/internal/logging"
)

// Elasticsearch is the adapter for a remote Elasticsearch cluster.
type Elasticsearch struct {
	client *es.Client
}

func newElasticsearch(
	cfg Config, addresses []string, transport http.RoundTripper, tlog *logging.TransportLogger,
) (*Elasticsearch, error) {
	client, err := es.NewClient(es.Config{
		Addresses:  addresses,
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
		Transport:  transport,
		Logger:     tlog,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Elasticsearch{client: client}, nil
}

// Backend implements Engine.
func (e *Elasticsearch) Backend() Backend { return ElasticsearchRemote }

// Search implements Engine.
func (e *Elasticsearch) Search(ctx context.Context, index string, body map[string]any) (map[string]any, error) {
	buf, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(index),
		e.client.Search.WithBody(buf),
		e.client.Search.WithTrackTotalHits(true),
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
func (e *Elasticsearch) FieldMapping(ctx context.Context, index, field string) (map[string]any, error) {
	res, err := e.client.Indices.GetFieldMapping(
		[]string{field},
		e.client.Indices.GetFieldMapping.WithContext(ctx),
		e.client.Indices.GetFieldMapping.WithIndex(index),
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
func (e *Elasticsearch) IndexTemplate(ctx context.Context, name string) (map[string]any, error) {
	res, err := e.client.Indices.GetIndexTemplate(
		e.client.Indices.GetIndexTemplate.WithContext(ctx),
		e.client.Indices.GetIndexTemplate.WithName(name),
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
func (e *Elasticsearch) ComponentTemplate(ctx context.Context, name string) (map[string]any, error) {
	res, err := e.client.Cluster.GetComponentTemplate(
		e.client.Cluster.GetComponentTemplate.WithContext(ctx),
		e.client.Cluster.GetComponentTemplate.WithName(name),
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
func (e *Elasticsearch) CatIndices(ctx context.Context) ([]map[string]any, error) {
	res, err := e.client.Cat.Indices(
		e.client.Cat.Indices.WithContext(ctx),
		e.client.Cat.Indices.WithFormat("json"),
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
func (e *Elasticsearch) Info(ctx context.Context) (map[string]any, error) {
	res, err := e.client.Info(e.client.Info.WithContext(ctx))
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
func (e *Elasticsearch) Health(ctx context.Context) (map[string]any, error) {
	res, err := e.client.Cluster.Health(e.client.Cluster.Health.WithContext(ctx))
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
func (e *Elasticsearch) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return requestErr("ping", err)
	}
	return decodeResponse("ping", res.StatusCode, res.IsError(), res.Body, nil)
}
