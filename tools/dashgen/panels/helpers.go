// Package panels builds the Grafana panels of the items-server overview
// dashboard. Every query is scoped to the items-server scrape job and reads
// the mkt_* metrics or the mkt:* recording rules.
package panels

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// Job is the scrape job matcher of items-server.
const Job = `job="items-server"`

// Grid sizes on the 24-column layout: four stats or three graphs per row.
const (
	StatWidth  = 6
	StatHeight = 4

	GraphWidth  = 8
	GraphHeight = 8
)

// Sel renders a selector for metric on the items-server job, with any extra
// label matchers appended.
func Sel(metric string, matchers ...string) string {
	return metric + "{" + strings.Join(append([]string{Job}, matchers...), ",") + "}"
}

// Rate5m renders sum(rate(...[5m])) over Sel(metric, matchers...), grouped by
// the comma-separated labels in by when non-empty.
func Rate5m(metric, by string, matchers ...string) string {
	expr := fmt.Sprintf("sum(rate(%s[5m]))", Sel(metric, matchers...))
	if by != "" {
		expr += " by (" + by + ")"
	}
	return expr
}

// Query is one panel target.
type Query struct {
	Expr   string
	Legend string
}

// promQuery builds the dataquery for q with ref ID A, B, C... by position.
func promQuery(q Query, i int) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(q.Expr).
		LegendFormat(q.Legend).
		RefId(string(rune('A' + i)))
}

// DSRef points at the ${datasource} template variable.
func DSRef() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// Step is a threshold step starting at Value.
type Step struct {
	Value float64
	Color string
}

// Steps returns absolute thresholds starting at base and switching color at
// each step.
func Steps(base string, steps ...Step) cog.Builder[dashboard.ThresholdsConfig] {
	all := []dashboard.Threshold{{Color: base}}
	for _, s := range steps {
		all = append(all, dashboard.Threshold{Value: cog.ToPtr(s.Value), Color: s.Color})
	}
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps(all)
}

// ByThreshold colors values by their threshold step.
func ByThreshold() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().Mode(dashboard.FieldColorModeIdThresholds)
}

// Classic colors each series from the classic palette.
func Classic() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().Mode(dashboard.FieldColorModeIdPaletteClassic)
}

// Graph is the common line graph: one third of a row, table legend with
// mean and max, shared tooltip, classic palette.
func Graph(title, description, unit string, qs ...Query) *timeseries.PanelBuilder {
	b := timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(GraphHeight).
		Span(GraphWidth)
	for i, q := range qs {
		b = b.WithTarget(promQuery(q, i))
	}
	return b.
		Unit(unit).
		FillOpacity(10).
		LineWidth(2).
		Legend(common.NewVizLegendOptionsBuilder().
			DisplayMode(common.LegendDisplayModeTable).
			Placement(common.LegendPlacementBottom).
			Calcs([]string{"mean", "max"})).
		Tooltip(common.NewVizTooltipOptionsBuilder().
			Mode(common.TooltipDisplayModeMulti).
			Sort(common.SortOrderDescending)).
		Thresholds(Steps("green")).
		ColorScheme(Classic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// Stat is the common single-value panel of the overview row.
func Stat(title, description, unit string, q Query) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(promQuery(q, 0)).
		Unit(unit).
		ColorScheme(ByThreshold()).
		GraphMode(common.BigValueGraphModeNone)
}
