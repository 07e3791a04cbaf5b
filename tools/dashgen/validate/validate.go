// Package validate checks generated dashboards and rule files: every PromQL
// expression must parse and may only reference known metric names.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/marketplace/tools/dashgen/rules"
)

// Result collects problems found during validation. Errors fail generation,
// warnings are reported but tolerated.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool { return len(r.Errors) == 0 }

func (r *Result) merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Expr parses expr and checks every vector selector against known.
// Histogram series suffixes are stripped before lookup.
func Expr(where, expr string, known map[string]bool) Result {
	var res Result

	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: invalid PromQL %q: %v", where, expr, err))
		return res
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !knownMetric(vs.Name, known) {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: unknown metric %q", where, vs.Name))
		}
		return nil
	})

	return res
}

func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

type dashboardJSON struct {
	Panels []panelJSON `json:"panels"`
}

type panelJSON struct {
	Type    string       `json:"type"`
	Title   string       `json:"title"`
	Panels  []panelJSON  `json:"panels"`
	Targets []targetJSON `json:"targets"`
}

type targetJSON struct {
	Expr string `json:"expr"`
}

// Dashboard walks the encoded dashboard, including panels nested in rows,
// and validates every query expression.
func Dashboard(data []byte, known map[string]bool) (Result, error) {
	var dash dashboardJSON
	if err := json.Unmarshal(data, &dash); err != nil {
		return Result{}, fmt.Errorf("decoding dashboard: %w", err)
	}

	var res Result
	if len(dash.Panels) == 0 {
		res.Errors = append(res.Errors, "dashboard has no panels")
	}
	for _, p := range dash.Panels {
		res.merge(panel(p, known))
	}
	return res, nil
}

func panel(p panelJSON, known map[string]bool) Result {
	var res Result

	if p.Type == "row" {
		if len(p.Panels) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %q is empty", p.Title))
		}
		for _, inner := range p.Panels {
			res.merge(panel(inner, known))
		}
		return res
	}

	if len(p.Targets) == 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has no queries", p.Title))
	}
	for i, t := range p.Targets {
		if t.Expr == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("panel %q target %d: empty expression", p.Title, i))
			continue
		}
		res.merge(Expr(fmt.Sprintf("panel %q", p.Title), t.Expr, known))
	}
	return res
}

// Rules validates every rule expression in cr. Names defined by recording
// rules in cr count as known for the rest of the file.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result

	names := make(map[string]bool, len(known))
	for k, v := range known {
		names[k] = v
	}
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			if r.Record != "" {
				names[r.Record] = true
			}
		}
	}

	for _, g := range cr.Spec.Groups {
		if len(g.Rules) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("group %q has no rules", g.Name))
		}
		for _, r := range g.Rules {
			switch {
			case r.Record == "" && r.Alert == "":
				res.Errors = append(res.Errors, fmt.Sprintf("group %q: rule without record or alert name", g.Name))
				continue
			case r.Alert != "" && r.Labels["severity"] == "":
				res.Errors = append(res.Errors, fmt.Sprintf("alert %q: missing severity label", r.Alert))
			}
			name := r.Record
			if name == "" {
				name = r.Alert
			}
			res.merge(Expr("rule "+name, r.Expr, names))
		}
	}
	return res
}
