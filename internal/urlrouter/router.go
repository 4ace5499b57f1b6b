// Package urlrouter maps field names to the dashboards that visualise them.
package urlrouter

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// dashboardRef marks a target as a dashboard id rather than a literal URL.
const dashboardRef = "DASH:"

const (
	defaultFrom = "now-1d"
	defaultTo   = "now"
)

type rule struct {
	pattern *regexp.Regexp
	targets []string
}

// Router holds the ordered rule table.
type Router struct {
	rules      []rule
	linkPrefix string
	enabled    bool
}

// New compiles the rule table. Dashboard links are rooted at linkPrefix.
// A disabled router returns no URLs, for deployments without a dashboards
// application.
func New(linkPrefix string, enabled bool) *Router {
	rules := make([]rule, 0, len(fieldDashboards))
	for _, fd := range fieldDashboards {
		rules = append(rules, rule{
			pattern: regexp.MustCompile("(?i)" + fd.pattern),
			targets: fd.targets,
		})
	}
	return &Router{
		rules:      rules,
		linkPrefix: strings.TrimRight(linkPrefix, "/"),
		enabled:    enabled,
	}
}

// URLs returns the deduplicated, sorted links for fields. start and end are
// embedded in dashboard links; nil ends use a relative window ending now.
func (r *Router) URLs(fields []string, start, end *time.Time) []string {
	if !r.enabled {
		return nil
	}

	from, to := defaultFrom, defaultTo
	if start != nil {
		from = quoteTime(*start)
	}
	if end != nil {
		to = quoteTime(*end)
	}

	seen := map[string]struct{}{}
	for _, field := range fields {
		for _, rl := range r.rules {
			if !rl.pattern.MatchString(field) {
				continue
			}
			for _, target := range rl.targets {
				seen[r.expand(target, from, to)] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	slices.Sort(out)
	return out
}

func (r *Router) expand(target, from, to string) string {
	id, ok := strings.CutPrefix(target, dashboardRef)
	if !ok {
		return target
	}
	return fmt.Sprintf(
		"%s/app/dashboards#/view/%s?_g=(filters:!(),refreshInterval:(pause:!t,value:0),time:(from:%s,to:%s))",
		r.linkPrefix, id, from, to,
	)
}

func quoteTime(t time.Time) string {
	return "'" + t.UTC().Format(time.RFC3339Nano) + "'"
}
