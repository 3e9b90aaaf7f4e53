package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/adsorb/internal/config"
	"github.com/san-kum/adsorb/internal/iast"
	"github.com/san-kum/adsorb/internal/storage"
	"github.com/san-kum/adsorb/internal/tui"
	"github.com/san-kum/adsorb/internal/viz"
)

var (
	sweepPressures []float64
	sweepPoints    int
)

func iastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iast",
		Short: "adsorbed phase at a given gas composition and pressure",
		RunE:  func(cmd *cobra.Command, args []string) error { return runState(cmd, iast.Forward) },
	}
	addComponentFlags(cmd)
	cmd.Flags().Float64SliceVar(&fractions, "fractions", nil, "gas mole fractions y, one per component")
	cmd.Flags().Float64Var(&pressure, "pressure", 1, "total pressure")
	cmd.Flags().BoolVar(&showPlot, "plot", false, "plot the pure isotherms")
	return cmd
}

func reverseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reverse",
		Short: "gas phase in equilibrium with a given adsorbed composition",
		RunE:  func(cmd *cobra.Command, args []string) error { return runState(cmd, iast.Reverse) },
	}
	addComponentFlags(cmd)
	cmd.Flags().Float64SliceVar(&fractions, "fractions", nil, "adsorbed mole fractions x, one per component")
	cmd.Flags().Float64Var(&pressure, "pressure", 1, "total pressure")
	cmd.Flags().BoolVar(&showPlot, "plot", false, "plot the pure isotherms")
	return cmd
}

func runState(cmd *cobra.Command, mode iast.Mode) error {
	mix, sel, err := mixture(cmd.Flags().Changed)
	if err != nil {
		return err
	}

	s := solver()
	var st *iast.State
	if mode == iast.Forward {
		st, err = s.Forward(mix, sel.fractions, sel.pressure)
	} else {
		st, err = s.Reverse(mix, sel.fractions, sel.pressure)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, app.theme.Styles().Error.Render(fmt.Sprintf("%s: %v", iast.StatusOf(err), err)))
		return err
	}

	fmt.Println(app.theme.StateTable(st))
	if showPlot {
		fmt.Println(viz.IsothermPlot(sel.components, sel.pressure, viz.PlotOptions{Height: 12}))
	}
	return save(storage.StateRun(st, app.policy.String()))
}

func svpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svp",
		Short: "binary selectivity over a range of total pressures",
		RunE:  runSVP,
	}
	addComponentFlags(cmd)
	cmd.Flags().Float64SliceVar(&fractions, "fractions", nil, "gas mole fractions y")
	cmd.Flags().Float64SliceVar(&sweepPressures, "pressures", nil, "total pressures (default from config)")
	return cmd
}

func runSVP(cmd *cobra.Command, args []string) error {
	mix, sel, err := mixture(cmd.Flags().Changed)
	if err != nil {
		return err
	}
	pressures := sweepPressures
	if len(pressures) == 0 {
		pressures = app.cfg.Sweep.Pressures
	}

	sw, err := solver().SelectivitySweep(cmd.Context(), mix, sel.fractions, pressures)
	if err != nil {
		return err
	}
	report(sw)
	if len(sw.Converged()) > 1 {
		fmt.Println(viz.SelectivityPlot(sw, viz.PlotOptions{Height: 12}))
	}
	return save(storage.SweepRun(storage.KindSelectivity, sw, app.policy.String()))
}

func vleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vle",
		Short: "binary adsorbed against gas composition at fixed pressure",
		RunE:  runVLE,
	}
	addComponentFlags(cmd)
	cmd.Flags().Float64Var(&pressure, "pressure", 1, "total pressure")
	cmd.Flags().IntVar(&sweepPoints, "points", 0, "interior compositions (default from config)")
	return cmd
}

func runVLE(cmd *cobra.Command, args []string) error {
	mix, sel, err := mixture(cmd.Flags().Changed)
	if err != nil {
		return err
	}
	points := sweepPoints
	if points == 0 {
		points = app.cfg.Sweep.Points
	}

	sw, err := solver().BinaryVLE(cmd.Context(), mix, sel.pressure, points)
	if err != nil {
		return err
	}
	report(sw)
	if len(sw.Converged()) > 1 {
		fmt.Println(viz.VLEPlot(sw, viz.PlotOptions{Height: 12}))
	}
	return save(storage.SweepRun(storage.KindVLE, sw, app.policy.String()))
}

// report prints a sweep and logs its failed points; failures do not stop
// the command.
func report(sw *iast.Sweep) {
	fmt.Println(app.theme.SweepTable(sw))
	if err := sw.Errors(); err != nil {
		failed := len(sw.Points) - len(sw.Converged())
		app.log.Info("sweep points failed", "failed", failed, "points", len(sw.Points), "error", err.Error())
		fmt.Println(app.theme.Styles().Warning.Render(fmt.Sprintf("%d of %d points failed", failed, len(sw.Points))))
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list preset mixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOMPONENTS\tY\tPRESSURE\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				labels := ""
				for i, c := range p.Components {
					if i > 0 {
						labels += ","
					}
					labels += c.Label + "(" + c.Model + ")"
				}
				fmt.Fprintf(w, "%s\t%s\t%v\t%g\t%s\n", name, labels, p.Fractions, p.Pressure, p.Description)
			}
			return w.Flush()
		},
	}
}

func exploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive binary mixture explorer",
		RunE:  runExplore,
	}
	f := cmd.Flags()
	f.StringArrayVar(&componentSpecs, "component", nil, "component as label=Model:param=value,... (repeatable)")
	f.StringArrayVar(&dataSpecs, "data", nil, "measured component as label=file.csv (repeatable)")
	f.StringArrayVar(&fittedRuns, "fitted", nil, "component from a stored fit run id (repeatable)")
	f.StringVar(&interpolation, "interpolation", "monotone", "point isotherm interpolation: monotone or linear")
	f.Float64Var(&pressure, "pressure", 1, "total pressure of a custom mixture")
	return cmd
}

func runExplore(cmd *cobra.Command, args []string) error {
	var presets []tui.Preset
	if len(componentSpecs)+len(dataSpecs)+len(fittedRuns) > 0 {
		mix, sel, err := mixture(cmd.Flags().Changed)
		if err != nil {
			return err
		}
		presets = append(presets, tui.Preset{
			Name:        "custom",
			Description: "from the command line",
			Mixture:     mix,
			Fractions:   sel.fractions,
			Pressure:    sel.pressure,
		})
	}
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		mix, err := p.Mixture(app.registry, app.policy)
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		presets = append(presets, tui.Preset{
			Name:        name,
			Description: p.Description,
			Mixture:     mix,
			Fractions:   p.Fractions,
			Pressure:    p.Pressure,
		})
	}

	prog := tea.NewProgram(tui.NewExplorer(solver(), presets), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
