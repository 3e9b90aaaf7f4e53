package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/adsorb/internal/iast"
	"github.com/san-kum/adsorb/internal/pure"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green,
}

// Series is one named curve sampled on a shared, evenly spaced x grid.
type Series struct {
	Name string
	Y    []float64
}

type PlotOptions struct {
	Width   int
	Height  int
	Caption string
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.Height <= 0 {
		o.Height = 15
	}
	return o
}

// Plot draws several series on one chart with a legend.
func Plot(series []Series, opts PlotOptions) string {
	opts = opts.withDefaults()
	data := make([][]float64, 0, len(series))
	names := make([]string, 0, len(series))
	for _, s := range series {
		if len(s.Y) == 0 {
			continue
		}
		data = append(data, s.Y)
		names = append(names, s.Name)
	}
	if len(data) == 0 {
		return ""
	}

	colors := make([]asciigraph.AnsiColor, len(data))
	for i := range colors {
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	return asciigraph.PlotMany(data,
		asciigraph.Width(opts.Width),
		asciigraph.Height(opts.Height),
		asciigraph.Caption(opts.Caption),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(names...),
	)
}

// SampleLoading evaluates an isotherm on n evenly spaced pressures in
// [pmin, pmax]. Points the isotherm refuses are dropped from the end, so
// the grid stays evenly spaced.
func SampleLoading(iso pure.Isotherm, pmin, pmax float64, n int) (pressure, loading []float64) {
	grid := floats.Span(make([]float64, n), pmin, pmax)
	for _, p := range grid {
		q, err := iso.LoadingAt(p)
		if err != nil {
			break
		}
		pressure = append(pressure, p)
		loading = append(loading, q)
	}
	return pressure, loading
}

// IsothermPlot draws the loading of each isotherm from zero to pmax.
func IsothermPlot(isos []pure.Isotherm, pmax float64, opts PlotOptions) string {
	opts = opts.withDefaults()
	series := make([]Series, 0, len(isos))
	for _, iso := range isos {
		_, q := SampleLoading(iso, 0, pmax, opts.Width)
		series = append(series, Series{Name: iso.Label(), Y: q})
	}
	if opts.Caption == "" {
		opts.Caption = fmt.Sprintf("loading vs pressure, 0 to %.4g", pmax)
	}
	return Plot(series, opts)
}

// SelectivityPlot draws S12 over the converged points of a pressure
// sweep, in sweep order.
func SelectivityPlot(sw *iast.Sweep, opts PlotOptions) string {
	var sel []float64
	for _, p := range sw.Converged() {
		sel = append(sel, p.Selectivity)
	}
	if opts.Caption == "" && len(sw.Components) == 2 {
		opts.Caption = fmt.Sprintf("selectivity %s/%s vs pressure", sw.Components[0], sw.Components[1])
	}
	return Plot([]Series{{Name: "S12", Y: sel}}, opts)
}

// VLEPlot draws the adsorbed fraction against the bulk fraction with the
// diagonal for reference.
func VLEPlot(sw *iast.Sweep, opts PlotOptions) string {
	var x, y []float64
	for _, p := range sw.Converged() {
		x = append(x, p.X)
		y = append(y, p.Y)
	}
	if opts.Caption == "" && len(sw.Components) > 0 {
		opts.Caption = fmt.Sprintf("x(%s) vs y(%s)", sw.Components[0], sw.Components[0])
	}
	return Plot([]Series{{Name: "x", Y: x}, {Name: "y = x", Y: y}}, opts)
}
