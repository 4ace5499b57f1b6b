package schema

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/engine"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
	"github.com/jonesrussell/north-cloud/query-api/internal/metrics"
)

// catalogSize is the number of field catalog documents read per request.
const catalogSize = 5000

// metaFields never appear in the catalog.
var metaFields = []string{"@version", "_source", "_id", "_type", "_index", "_score", "type"}

// FieldLister lists the fields a dashboards index pattern exposes.
type FieldLister interface {
	FieldsForIndexPattern(ctx context.Context, pattern string) ([]engine.DashboardField, error)
}

// CatalogConfig names the schema sources.
type CatalogConfig struct {
	// FieldsIndex holds one document per known field (dbField2, help, type).
	FieldsIndex string
	// DefaultTemplate is the index template used when a request names none.
	DefaultTemplate string
}

// CatalogRequest selects what Fields merges.
type CatalogRequest struct {
	Template     string
	Doctype      string
	IndexPattern string
}

// Catalog merges field metadata from the field catalog index, the index
// template (and its component templates) and the dashboards index pattern.
type Catalog struct {
	eng        engine.Engine
	dashboards FieldLister
	cfg        CatalogConfig
	metrics    *metrics.Metrics
}

// NewCatalog creates a Catalog. dashboards may be nil when the deployment
// has no dashboards application.
func NewCatalog(eng engine.Engine, dashboards FieldLister, cfg CatalogConfig, m *metrics.Metrics) *Catalog {
	return &Catalog{eng: eng, dashboards: dashboards, cfg: cfg, metrics: m}
}

type partial map[string]domain.FieldInfo

// Fields returns the merged catalog. Each source is optional: a failing
// source is logged and skipped. Later sources override the types of earlier
// ones.
func (c *Catalog) Fields(ctx context.Context, req CatalogRequest) domain.FieldsResult {
	if req.Template == "" {
		req.Template = c.cfg.DefaultTemplate
	}
	useCatalogIndex := req.Template == c.cfg.DefaultTemplate && req.Doctype == "network"

	var catalog, templates partial
	var dashboards []engine.DashboardField

	var g errgroup.Group
	if useCatalogIndex {
		g.Go(func() error {
			catalog = c.source(ctx, "field catalog", func() (partial, error) {
				return c.catalogFields(ctx)
			})
			return nil
		})
	}
	g.Go(func() error {
		templates = c.source(ctx, "index template", func() (partial, error) {
			return c.templateFields(ctx, req.Template)
		})
		return nil
	})
	if c.dashboards != nil {
		g.Go(func() error {
			fields, err := c.dashboards.FieldsForIndexPattern(ctx, req.IndexPattern)
			if err != nil {
				c.lookupFailed(ctx, "dashboards index pattern", err)
				return nil
			}
			dashboards = fields
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[string]domain.FieldInfo, len(catalog)+len(templates)+len(dashboards))
	for name, info := range catalog {
		merged[name] = info
	}
	for name, info := range templates {
		existing := merged[name]
		existing.Type = info.Type
		merged[name] = existing
	}
	for _, f := range dashboards {
		if f.Name == "" {
			continue
		}
		existing := merged[f.Name]
		switch {
		case len(f.ESTypes) > 0:
			existing.Type = string(CanonicalType(f.ESTypes[0]))
		case existing.Type == "":
			existing.Type = string(TypeString)
		}
		merged[f.Name] = existing
	}

	for _, name := range metaFields {
		delete(merged, name)
	}
	return domain.FieldsResult{Fields: merged, Total: len(merged)}
}

func (c *Catalog) source(ctx context.Context, name string, fetch func() (partial, error)) partial {
	p, err := fetch()
	if err != nil {
		c.lookupFailed(ctx, name, err)
		return nil
	}
	return p
}

func (c *Catalog) lookupFailed(ctx context.Context, source string, err error) {
	c.metrics.SchemaLookupFailed()
	logger.FromContext(ctx).Warn("Skipping field source",
		logger.String("source", source),
		logger.Error(domain.SchemaErr(err)),
	)
}

func (c *Catalog) catalogFields(ctx context.Context) (partial, error) {
	res, err := c.eng.Search(ctx, c.cfg.FieldsIndex, map[string]any{
		"size":  catalogSize,
		"query": map[string]any{"match_all": map[string]any{}},
	})
	if err != nil {
		return nil, err
	}

	hits, _ := dig(res, "hits", "hits").([]any)
	out := make(partial, len(hits))
	for _, h := range hits {
		src, _ := dig(h, "_source").(map[string]any)
		name, _ := src["dbField2"].(string)
		if name == "" {
			continue
		}
		if _, seen := out[name]; seen {
			continue
		}
		help, _ := src["help"].(string)
		raw, _ := src["type"].(string)
		out[name] = domain.FieldInfo{Description: help, Type: string(CanonicalType(raw))}
	}
	return out, nil
}

func (c *Catalog) templateFields(ctx context.Context, name string) (partial, error) {
	res, err := c.eng.IndexTemplate(ctx, name)
	if err != nil {
		return nil, err
	}
	templates, ok := res["index_templates"].([]any)
	if !ok {
		return nil, fmt.Errorf("index template %s: no index_templates in response", name)
	}

	out := partial{}
	for _, t := range templates {
		addProperties(out, dig(t, "index_template", "template", "mappings", "properties"))

		composed, _ := dig(t, "index_template", "composed_of").([]any)
		for _, comp := range composed {
			compName, _ := comp.(string)
			if compName == "" {
				continue
			}
			compRes, err := c.eng.ComponentTemplate(ctx, compName)
			if err != nil {
				return nil, fmt.Errorf("component template %s: %w", compName, err)
			}
			components, _ := compRes["component_templates"].([]any)
			for _, ct := range components {
				addProperties(out, dig(ct, "component_template", "template", "mappings", "properties"))
			}
		}
	}
	return out, nil
}

// addProperties records the typed top-level entries of a mappings.properties
// object.
func addProperties(out partial, props any) {
	m, _ := props.(map[string]any)
	for name, info := range m {
		raw, ok := dig(info, "type").(string)
		if !ok {
			continue
		}
		out[name] = domain.FieldInfo{Type: string(CanonicalType(raw))}
	}
}

func dig(v any, path ...string) any {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}
	return v
}
