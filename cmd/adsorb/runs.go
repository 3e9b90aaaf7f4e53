package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/adsorb/internal/iast"
	"github.com/san-kum/adsorb/internal/storage"
	"github.com/san-kum/adsorb/internal/viz"
)

var (
	exportOut   string
	exportQuery string
	plotSVG     string
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := app.store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tCOMPONENTS\tPOLICY\tPRESSURE")
	for _, run := range runs {
		p := "-"
		if run.Pressure > 0 {
			p = fmt.Sprintf("%g", run.Pressure)
		}
		policy := run.Policy
		if policy == "" {
			policy = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			strings.Join(run.Components, ","),
			policy,
			p,
		)
	}
	return w.Flush()
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, table, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println(app.theme.Styles().Separator(40))

	switch meta.Kind {
	case storage.KindFit:
		if meta.Fit == nil {
			return fmt.Errorf("run %s has no fit record", meta.ID)
		}
		names := make([]string, 0, len(meta.Fit.Params))
		for name := range meta.Fit.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println(app.theme.RecordTable(strings.Join(meta.Components, ","), *meta.Fit, names))
	case storage.KindIAST:
		if meta.State == nil {
			return fmt.Errorf("run %s has no state", meta.ID)
		}
		fmt.Println(app.theme.StateTable(meta.State))
	default:
		sw := sweepOf(meta, table)
		fmt.Println(app.theme.SweepTable(sw))
		var trend []float64
		for _, p := range sw.Converged() {
			if meta.Kind == storage.KindVLE {
				trend = append(trend, p.X)
			} else {
				trend = append(trend, p.Selectivity)
			}
		}
		fmt.Println(app.theme.Styles().Muted.Render("trend ") + viz.Sparkline(trend, 40))
	}

	if len(meta.Warnings) > 0 {
		st := app.theme.Styles()
		for _, w := range meta.Warnings {
			fmt.Println(st.Warning.Render("warning: " + w))
		}
	}
	return nil
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().StringVar(&plotSVG, "svg", "", "also write the curves to an SVG file")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, table, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	opts := viz.PlotOptions{Height: 12}
	switch meta.Kind {
	case storage.KindFit:
		if meta.Fit == nil {
			return fmt.Errorf("run %s has no fit record", meta.ID)
		}
		opts.Caption = fmt.Sprintf("%s: measured and %s loading by point", strings.Join(meta.Components, ","), meta.Fit.Model)
		fmt.Println(viz.Plot([]viz.Series{
			{Name: "measured", Y: table.Column("loading")},
			{Name: "predicted", Y: table.Column("predicted")},
		}, opts))
	case storage.KindSelectivity:
		fmt.Println(viz.SelectivityPlot(sweepOf(meta, table), opts))
	case storage.KindVLE:
		fmt.Println(viz.VLEPlot(sweepOf(meta, table), opts))
	case storage.KindIAST:
		opts.Caption = "gas (y) and adsorbed (x) fractions by component"
		fmt.Println(viz.Plot([]viz.Series{
			{Name: "y", Y: table.Column("y")},
			{Name: "x", Y: table.Column("x")},
		}, opts))
	default:
		return fmt.Errorf("cannot plot %s runs", meta.Kind)
	}

	if plotSVG == "" {
		return nil
	}
	curves := curvesOf(meta, table)
	if len(curves) == 0 {
		return fmt.Errorf("no curves to draw for %s runs", meta.Kind)
	}
	title := fmt.Sprintf("%s %s", meta.Kind, strings.Join(meta.Components, "/"))
	if err := os.WriteFile(plotSVG, []byte(app.theme.CurvesToSVG(curves, title, 800, 500)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", plotSVG)
	return nil
}

// curvesOf picks the x-y curves a run kind is drawn with.
func curvesOf(meta *storage.RunMetadata, table storage.Table) []viz.Curve {
	switch meta.Kind {
	case storage.KindFit:
		p := table.Column("pressure")
		return []viz.Curve{
			{Name: "measured", X: p, Y: table.Column("loading")},
			{Name: "predicted", X: p, Y: table.Column("predicted")},
		}
	case storage.KindSelectivity, storage.KindVLE:
		var c viz.Curve
		for _, pt := range sweepOf(meta, table).Converged() {
			if meta.Kind == storage.KindVLE {
				c.X, c.Y = append(c.X, pt.Y), append(c.Y, pt.X)
			} else {
				c.X, c.Y = append(c.X, pt.Pressure), append(c.Y, pt.Selectivity)
			}
		}
		if meta.Kind == storage.KindVLE {
			c.Name = "x(" + meta.Components[0] + ")"
			return []viz.Curve{c, {Name: "y = x", X: []float64{0, 1}, Y: []float64{0, 1}}}
		}
		c.Name = "selectivity"
		return []viz.Curve{c}
	}
	return nil
}

func exportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, table, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if exportQuery != "" {
				val, err := storage.Query(exportQuery, *meta, table)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(val)
			}
			if exportOut != "" {
				return storage.ExportJSON(exportOut, *meta, table)
			}
			return storage.WriteJSON(os.Stdout, *meta, table)
		},
	}
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&exportQuery, "query", "q", "", "print only the value at a JSONPath, e.g. $.run.state.x")
	return cmd
}

func exportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's table as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := app.store.LoadTable(args[0])
			if err != nil {
				return err
			}
			if len(table.Rows) == 0 {
				return fmt.Errorf("no data to export")
			}
			if exportOut != "" {
				return storage.ExportCSV(exportOut, table)
			}
			return storage.WriteCSV(os.Stdout, table)
		},
	}
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	return cmd
}

func loadRun(id string) (*storage.RunMetadata, storage.Table, error) {
	meta, err := app.store.Load(id)
	if err != nil {
		return nil, storage.Table{}, err
	}
	table, err := app.store.LoadTable(id)
	if err != nil {
		return nil, storage.Table{}, err
	}
	return meta, table, nil
}

var errStoredFailure = errors.New("failed when the run was made")

// sweepOf rebuilds a sweep from its stored table. Failed points carry a
// placeholder error since only the message survives, in the warnings.
func sweepOf(meta *storage.RunMetadata, table storage.Table) *iast.Sweep {
	p, y, x := table.Column("pressure"), table.Column("y"), table.Column("x")
	sel, ok := table.Column("selectivity"), table.Column("ok")

	sw := &iast.Sweep{Components: meta.Components}
	for i := range p {
		pt := iast.Point{Pressure: p[i], Y: y[i], X: x[i], Selectivity: sel[i]}
		if ok[i] == 0 {
			pt.Err = errStoredFailure
		}
		sw.Points = append(sw.Points, pt)
	}
	return sw
}
