package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata:   metadata("items-recording-rules"),
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "items-recording",
					Rules: []Rule{
						{
							Record: "mkt:http_requests:rate5m",
							Expr:   `sum(rate(mkt_http_requests_total{job="items-server"}[5m]))`,
						},
						{
							Record: "mkt:http_errors:rate5m",
							Expr:   `sum(rate(mkt_http_requests_total{job="items-server",status=~"5.."}[5m]))`,
						},
						{
							Record: "mkt:item_mutations:rate5m",
							Expr:   `sum(rate(mkt_item_mutations_total{job="items-server"}[5m])) by (op)`,
						},
						{
							Record: "mkt:item_mutation_errors:rate5m",
							Expr:   `sum(rate(mkt_item_mutations_total{job="items-server",result="error"}[5m])) by (op)`,
						},
						{
							Record: "mkt:item_cache_hit_ratio:5m",
							Expr: `sum(rate(mkt_item_cache_lookups_total{job="items-server",result="hit"}[5m]))` +
								` / sum(rate(mkt_item_cache_lookups_total{job="items-server"}[5m]))`,
						},
					},
				},
			},
		},
	}
}
