package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate graphs HTTP requests per second by route.
func RequestRate() *timeseries.PanelBuilder {
	return Graph("Request Rate", "HTTP requests per second by route", "reqps", Query{
		Expr:   Rate5m("mkt_http_requests_total", "method, path"),
		Legend: "{{method}} {{path}}",
	})
}

// LatencyPercentiles graphs p50, p95 and p99 HTTP request latency.
func LatencyPercentiles() *timeseries.PanelBuilder {
	var qs []Query
	for _, q := range []float64{0.50, 0.95, 0.99} {
		qs = append(qs, Query{
			Expr:   fmt.Sprintf("histogram_quantile(%.2f, %s)", q, Rate5m("mkt_http_request_duration_seconds_bucket", "le")),
			Legend: fmt.Sprintf("p%.0f", q*100),
		})
	}
	return Graph("Latency Percentiles", "HTTP request duration percentiles", "s", qs...)
}

// ErrorRate graphs the share of 5xx responses.
func ErrorRate() *timeseries.PanelBuilder {
	return Graph("Error Rate %", "HTTP 5xx error rate as percentage of total requests", "percent", Query{
		Expr:   "mkt:http_errors:rate5m / mkt:http_requests:rate5m * 100",
		Legend: "error %",
	}).
		Thresholds(Steps("green", Step{Value: 1, Color: "yellow"}, Step{Value: 5, Color: "red"})).
		ColorScheme(ByThreshold())
}
