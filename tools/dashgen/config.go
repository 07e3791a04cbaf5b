package main

import "errors"

// KnownMetrics is the set of metric names exported by items-server plus the
// recording rules referenced in dashboards and alerts. Histogram series
// (_bucket, _sum, _count) are matched by their base name.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"mkt_http_request_duration_seconds": true,
	"mkt_http_requests_total":           true,
	"mkt_http_rate_limited_total":       true,

	// Health metrics.
	"mkt_healthz_up": true,
	"mkt_readyz_up":  true,

	// Item metrics.
	"mkt_item_mutations_total":               true,
	"mkt_item_cache_lookups_total":           true,
	"mkt_item_events_publish_failures_total": true,

	// Recording rules.
	"mkt:http_requests:rate5m":        true,
	"mkt:http_errors:rate5m":          true,
	"mkt:item_mutations:rate5m":       true,
	"mkt:item_mutation_errors:rate5m": true,
	"mkt:item_cache_hit_ratio:5m":     true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
