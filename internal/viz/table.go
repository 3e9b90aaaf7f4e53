package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/adsorb/internal/fit"
	"github.com/san-kum/adsorb/internal/iast"
)

func num(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.6g", v)
}

func (t Theme) table(headers []string, rows [][]string) string {
	st := t.Styles()
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.Header
			case col == 0:
				return st.Label
			default:
				return st.Value
			}
		}).
		String()
}

// RecordTable summarises a fitted model.
func (t Theme) RecordTable(label string, rec fit.Record, names []string) string {
	rows := make([][]string, 0, len(names)+3)
	for _, name := range names {
		rows = append(rows, []string{name, num(rec.Params[name])})
	}
	rows = append(rows,
		[]string{"rmse", num(rec.RMSE)},
		[]string{"points", fmt.Sprint(rec.Points)},
		[]string{"pressure range", rec.PressureRange.String()},
	)

	title := t.Styles().Title.Render(fmt.Sprintf("%s: %s", label, rec.Model))
	return title + "\n" + t.table([]string{"parameter", "value"}, rows)
}

// AttemptsTable lists the candidates of a model selection, best first
// as given.
func (t Theme) AttemptsTable(attempts []fit.Attempt) string {
	st := t.Styles()
	rows := make([][]string, len(attempts))
	for i, a := range attempts {
		status := st.Success.Render("ok")
		if a.Err != nil {
			status = st.Error.Render(firstLine(a.Err.Error()))
		}
		rows[i] = []string{a.Model, num(a.RMSE), status}
	}
	return t.table([]string{"model", "rmse", "status"}, rows)
}

// StateTable renders an equilibrium state with one row per component.
func (t Theme) StateTable(s *iast.State) string {
	st := t.Styles()
	rows := make([][]string, len(s.X))
	for i := range s.X {
		rows[i] = []string{s.Components[i], num(s.Y[i]), num(s.X[i]), num(s.Loading[i]), num(s.Pressure0[i])}
	}

	var sb strings.Builder
	sb.WriteString(st.Title.Render(fmt.Sprintf("IAST %s at P = %s", s.Mode, num(s.TotalPressure))))
	sb.WriteString("\n")
	sb.WriteString(t.table([]string{"component", "y", "x", "loading", "p0"}, rows))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %d\n",
		st.Muted.Render("total loading"), num(s.TotalLoading),
		st.Muted.Render("spreading pressure"), num(s.SpreadingPressure),
		st.Muted.Render("status"), st.Success.Render(s.Status.String()),
		st.Muted.Render("iterations"), s.Iterations))
	for _, w := range s.Warnings {
		sb.WriteString(st.Warning.Render("warning: "+w.String()) + "\n")
	}
	return sb.String()
}

// SweepTable renders a binary sweep; failed points show their error.
func (t Theme) SweepTable(sw *iast.Sweep) string {
	st := t.Styles()
	rows := make([][]string, len(sw.Points))
	for i, p := range sw.Points {
		if !p.OK() {
			rows[i] = []string{num(p.Pressure), num(p.Y), "-", st.Error.Render(firstLine(p.Err.Error()))}
			continue
		}
		sel := "-"
		if p.Selectivity > 0 {
			sel = num(p.Selectivity)
		}
		rows[i] = []string{num(p.Pressure), num(p.Y), num(p.X), sel}
	}

	header := fmt.Sprintf("y(%s)", sw.Components[0])
	xheader := fmt.Sprintf("x(%s)", sw.Components[0])
	sel := fmt.Sprintf("S(%s/%s)", sw.Components[0], sw.Components[1])
	return t.table([]string{"pressure", header, xheader, sel}, rows)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
