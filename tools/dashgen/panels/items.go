package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/gauge"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// MutationsRate graphs item creates, updates and removals per second by
// result.
func MutationsRate() *timeseries.PanelBuilder {
	return Graph("Item Mutations", "Create, update and remove operations per second by result", "ops", Query{
		Expr:   Rate5m("mkt_item_mutations_total", "op, result"),
		Legend: "{{op}} {{result}}",
	})
}

// CacheHitRatio shows the share of item list reads served from Redis.
func CacheHitRatio() *gauge.PanelBuilder {
	return gauge.NewPanelBuilder().
		Title("Cache Hit %").
		Description("Item list reads served from the Redis cache").
		Datasource(DSRef()).
		Height(GraphHeight).
		Span(GraphWidth).
		WithTarget(promQuery(Query{Expr: "mkt:item_cache_hit_ratio:5m * 100"}, 0)).
		Unit("percent").
		Min(0).
		Max(100).
		Thresholds(Steps("red", Step{Value: 50, Color: "green"})).
		ColorScheme(ByThreshold())
}

// EventPublishFailures graphs item events that could not be published to
// NATS.
func EventPublishFailures() *timeseries.PanelBuilder {
	return Graph("Event Publish Failures", "Item events dropped because NATS publishing failed", "short", Query{
		Expr:   "sum(increase(" + Sel("mkt_item_events_publish_failures_total") + "[5m]))",
		Legend: "failures",
	}).
		Thresholds(Steps("green", Step{Value: 1, Color: "yellow"}, Step{Value: 10, Color: "red"})).
		ColorScheme(ByThreshold()).
		DrawStyle(common.GraphDrawStyleBars)
}
