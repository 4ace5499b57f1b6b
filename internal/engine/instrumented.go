package engine

import (
	"context"
	"time"
)

// Observer receives the latency and outcome of every engine call.
type Observer func(operation string, d time.Duration, err error)

type instrumented struct {
	next    Engine
	observe Observer
}

// Instrument wraps e so that each call is reported to observe.
func Instrument(e Engine, observe Observer) Engine {
	if observe == nil {
		return e
	}
	return &instrumented{next: e, observe: observe}
}

func (i *instrumented) track(op string, start time.Time, err error) {
	i.observe(op, time.Since(start), err)
}

func (i *instrumented) Backend() Backend { return i.next.Backend() }

func (i *instrumented) Search(ctx context.Context, index string, body map[string]any) (map[string]any, error) {
	start := time.Now()
	out, err := i.next.Search(ctx, index, body)
	i.track("search", start, err)
	return out, err
}

func (i *instrumented) FieldMapping(ctx context.Context, index, field string) (map[string]any, error) {
	start := time.Now()
	out, err := i.next.FieldMapping(ctx, index, field)
	i.track("field_mapping", start, err)
	return out, err
}

func (i *instrumented) IndexTemplate(ctx context.Context, name string) (map[string]any, error) {
	start := time.Now()
	out, err := i.next.IndexTemplate(ctx, name)
	i.track("index_template", start, err)
	return out, err
}

func (i *instrumented) ComponentTemplate(ctx context.Context, name string) (map[string]any, error) {
	start := time.Now()
	out, err := i.next.ComponentTemplate(ctx, name)
	i.track("component_template", start, err)
	return out, err
}

func (i *instrumented) CatIndices(ctx context.Context) ([]map[string]any, error) {
	start := time.Now()
	out, err := i.next.CatIndices(ctx)
	i.track("cat_indices", start, err)
	return out, err
}

func (i *instrumented) Info(ctx context.Context) (map[string]any, error) {
	start := time.Now()
	out, err := i.next.Info(ctx)
	i.track("info", start, err)
	return out, err
}

func (i *instrumented) Health(ctx context.Context) (map[string]any, error) {
	start := time.Now()
	out, err := i.next.Health(ctx)
	i.track("health", start, err)
	return out, err
}

func (i *instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := i.next.Ping(ctx)
	i.track("ping", start, err)
	return err
}
