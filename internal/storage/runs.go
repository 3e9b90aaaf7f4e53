package storage

import (
	"github.com/san-kum/adsorb/internal/fit"
	"github.com/san-kum/adsorb/internal/iast"
)

// FitRun describes a calibrated model together with the measured points
// and the model's prediction at each of them.
func FitRun(label string, rec fit.Record, pressure, loading, predicted []float64) (RunMetadata, Table) {
	meta := RunMetadata{
		Kind:       KindFit,
		Components: []string{label},
		Fit:        &rec,
		Metrics:    map[string]float64{"rmse": rec.RMSE, "points": float64(rec.Points)},
	}

	table := Table{Header: []string{"pressure", "loading", "predicted"}}
	for i := range pressure {
		table.Rows = append(table.Rows, []float64{pressure[i], loading[i], predicted[i]})
	}
	return meta, table
}

// StateRun describes one equilibrium, one row per component.
func StateRun(st *iast.State, policy string) (RunMetadata, Table) {
	meta := RunMetadata{
		Kind:       KindIAST,
		Components: st.Components,
		Policy:     policy,
		Pressure:   st.TotalPressure,
		State:      st,
		Metrics: map[string]float64{
			"spreading_pressure": st.SpreadingPressure,
			"total_loading":      st.TotalLoading,
			"iterations":         float64(st.Iterations),
			"residual":           st.Residual,
		},
	}
	for _, w := range st.Warnings {
		meta.Warnings = append(meta.Warnings, w.String())
	}

	table := Table{Header: []string{"y", "x", "loading", "pressure0"}}
	for i := range st.X {
		table.Rows = append(table.Rows, []float64{st.Y[i], st.X[i], st.Loading[i], st.Pressure0[i]})
	}
	return meta, table
}

// SweepRun describes a binary sweep. Failed points are kept with ok = 0.
func SweepRun(kind Kind, sw *iast.Sweep, policy string) (RunMetadata, Table) {
	meta := RunMetadata{
		Kind:       kind,
		Components: sw.Components,
		Policy:     policy,
		Metrics:    map[string]float64{"points": float64(len(sw.Points))},
	}
	if kind == KindVLE && len(sw.Points) > 0 {
		meta.Pressure = sw.Points[0].Pressure
	}

	failed := 0
	table := Table{Header: []string{"pressure", "y", "x", "selectivity", "ok"}}
	for _, p := range sw.Points {
		ok := 1.0
		if !p.OK() {
			ok = 0
			failed++
			meta.Warnings = append(meta.Warnings, p.Err.Error())
		}
		table.Rows = append(table.Rows, []float64{p.Pressure, p.Y, p.X, p.Selectivity, ok})
	}
	meta.Metrics["failed"] = float64(failed)
	return meta, table
}
