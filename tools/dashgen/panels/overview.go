package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// upStat shows a 0/1 gauge as a red or green tile.
func upStat(title, description, metric string) *stat.PanelBuilder {
	return Stat(title, description, "none", Query{Expr: Sel(metric)}).
		Thresholds(Steps("red", Step{Value: 1, Color: "green"})).
		ColorMode(common.BigValueColorModeBackground).
		TextMode(common.BigValueTextModeValue)
}

// HealthzStat shows the last /healthz probe result.
func HealthzStat() *stat.PanelBuilder {
	return upStat("Healthz", "Health check status (1 = ok, 0 = failing)", "mkt_healthz_up")
}

// ReadyzStat shows the last /readyz probe result. It drops to 0 when the
// store, cache or another dependency stops answering.
func ReadyzStat() *stat.PanelBuilder {
	return upStat("Readyz", "Readiness check status (1 = ready, 0 = not ready)", "mkt_readyz_up")
}

// RateLimitedStat shows requests rejected with 429.
func RateLimitedStat() *stat.PanelBuilder {
	return Stat("Rate Limited", "Requests rejected by the per-client rate limiter", "reqps",
		Query{Expr: Rate5m("mkt_http_rate_limited_total", "")}).
		Thresholds(Steps("green", Step{Value: 0.1, Color: "yellow"}, Step{Value: 1, Color: "red"})).
		GraphMode(common.BigValueGraphModeArea)
}

// UptimeStat shows time since process start.
func UptimeStat() *stat.PanelBuilder {
	return Stat("Uptime", "Time since process start", "s",
		Query{Expr: "time() - " + Sel("process_start_time_seconds")}).
		Thresholds(Steps("green"))
}
