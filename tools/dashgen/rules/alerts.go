package rules

func alert(name, expr, forDur, severity, summary, description string) Rule {
	return Rule{
		Alert:       name,
		Expr:        expr,
		For:         forDur,
		Labels:      map[string]string{"severity": severity},
		Annotations: map[string]string{"summary": summary, "description": description},
	}
}

// AlertRules returns a PrometheusRule CR containing alert rules for
// items-server operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata:   metadata("items-alerts"),
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "items-alerts",
					Rules: []Rule{
						alert("ItemsServerDown",
							`absent(up{job="items-server"})`, "2m", "critical",
							"items-server is down",
							"The items-server job has been absent for more than 2 minutes."),
						alert("ItemsServerNotReady",
							`mkt_readyz_up{job="items-server"} == 0`, "2m", "critical",
							"items-server readiness check is failing",
							"A store, cache or other dependency has not answered readiness probes for more than 2 minutes."),
						alert("ItemsHighErrorRate",
							`mkt:http_errors:rate5m / mkt:http_requests:rate5m > 0.05`, "5m", "warning",
							"High HTTP error rate on items-server",
							"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
						alert("ItemsMutationErrors",
							`sum(mkt:item_mutation_errors:rate5m) > 0.1`, "10m", "warning",
							"Item mutations are failing",
							"Creates, updates or removals have been failing at more than 0.1/s for 10 minutes."),
						alert("ItemsEventPublishFailures",
							`increase(mkt_item_events_publish_failures_total{job="items-server"}[5m]) > 0`, "5m", "warning",
							"Item events are not reaching NATS",
							"items-server has been unable to publish item events for more than 5 minutes."),
						alert("ItemsRateLimiting",
							`sum(rate(mkt_http_rate_limited_total{job="items-server"}[5m])) > 1`, "10m", "info",
							"Clients are being rate limited",
							"More than one request per second has been rejected with 429 for 10 minutes."),
					},
				},
			},
		},
	}
}
