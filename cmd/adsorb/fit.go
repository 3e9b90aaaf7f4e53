package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/adsorb/internal/fit"
	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/pure"
	"github.com/san-kum/adsorb/internal/storage"
	"github.com/san-kum/adsorb/internal/viz"
)

var (
	fitModels []string
	fitLabel  string
	fitGuess  []string
	showPlot  bool

	synthModel  string
	synthPoints int
	synthPmax   float64
	synthNoise  float64
	synthSeed   uint64
	synthOut    string
)

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "list isotherm models",
		RunE: func(cmd *cobra.Command, args []string) error {
			guess := app.registry.GuessCandidates()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tPARAMS\tIAST\tGUESS")
			for _, name := range app.registry.Names() {
				m, err := app.registry.New(name, isotherm.Settings{Temperature: 298.15})
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					name,
					strings.Join(m.Params().Names(), ","),
					yesNo(m.IASTEligible()),
					yesNo(slices.Contains(guess, name)),
				)
			}
			return w.Flush()
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func fitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit [points.csv]",
		Short: "fit isotherm models to measured points",
		Long: "Fit one model, or select the best of several by RMSE. With no --model, or\n" +
			"--model guess, the configured candidates (or the default list) are tried.",
		Args: cobra.ExactArgs(1),
		RunE: runFit,
	}
	cmd.Flags().StringArrayVar(&fitModels, "model", nil, "model to fit; repeat to select among several, or 'guess'")
	cmd.Flags().StringVar(&fitLabel, "label", "", "component label (default: file name)")
	cmd.Flags().StringArrayVar(&fitGuess, "guess", nil, "initial guess as name=value (single model only)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "temperature in kelvin")
	cmd.Flags().BoolVar(&showPlot, "plot", false, "plot the fitted isotherm")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func runFit(cmd *cobra.Command, args []string) error {
	p, q, err := storage.ReadPointsFile(args[0])
	if err != nil {
		return err
	}
	label := fitLabel
	if label == "" {
		label = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	opts := app.cfg.FitOptions(temperature)
	if len(fitGuess) > 0 {
		if opts.Guess, err = parseKeyValues("parse guess", fitGuess); err != nil {
			return err
		}
	}
	fitter := fit.New(app.registry, opts, app.log)

	var (
		res      *fit.Result
		attempts []fit.Attempt
	)
	candidates := slices.DeleteFunc(slices.Clone(fitModels), func(s string) bool { return strings.EqualFold(s, "guess") })
	switch {
	case len(candidates) == 1 && len(candidates) == len(fitModels):
		res, err = fitter.Fit(candidates[0], p, q)
	default:
		if len(candidates) == 0 {
			candidates = app.cfg.Fit.Candidates
		}
		res, attempts, err = fitter.Guess(cmd.Context(), p, q, candidates)
	}
	if len(attempts) > 0 {
		fmt.Println(app.theme.AttemptsTable(attempts))
	}
	if err != nil {
		return err
	}

	rec := res.Record(temperature)
	fmt.Println(app.theme.RecordTable(label, rec, res.Model.Params().Names()))

	if showPlot {
		iso := pure.FromFit(res, pure.Meta{Label: label, Policy: app.policy})
		fmt.Println(viz.IsothermPlot([]pure.Isotherm{iso}, floats.Max(p), viz.PlotOptions{Height: 12}))
	}

	predicted := make([]float64, len(p))
	for i := range p {
		n, err := res.Model.Loading(p[i])
		if err != nil {
			n = math.NaN()
		}
		predicted[i] = n
	}
	return save(storage.FitRun(label, rec, p, q, predicted))
}

func synthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "generate noisy synthetic isotherm points",
		RunE:  runSynth,
	}
	cmd.Flags().StringVar(&synthModel, "model", "Langmuir:n_m=5,K=0.5", "model as Model:param=value,...")
	cmd.Flags().IntVar(&synthPoints, "points", 20, "number of points")
	cmd.Flags().Float64Var(&synthPmax, "pmax", 10, "highest pressure")
	cmd.Flags().Float64Var(&synthNoise, "noise", 0.01, "relative gaussian noise on loading")
	cmd.Flags().Uint64Var(&synthSeed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&synthOut, "out", "", "output file (default stdout)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "temperature in kelvin (default 298.15)")
	return cmd
}

func runSynth(cmd *cobra.Command, args []string) error {
	if synthPoints < 2 || !(synthPmax > 0) || synthNoise < 0 {
		return fmt.Errorf("synth needs at least 2 points, a positive pmax and non-negative noise")
	}
	c, err := parseComponent(synthModel)
	if err != nil {
		return err
	}
	t := temperature
	if t == 0 {
		t = 298.15
	}
	m, err := app.registry.FromParams(c.Model, c.Params, isotherm.Settings{Temperature: t})
	if err != nil {
		return err
	}

	noise := distuv.Normal{Mu: 0, Sigma: synthNoise, Src: rand.NewPCG(synthSeed, synthSeed^0x9e3779b97f4a7c15)}
	grid := floats.Span(make([]float64, synthPoints), synthPmax/float64(synthPoints), synthPmax)

	table := storage.Table{Header: []string{"pressure", "loading"}}
	for _, p := range grid {
		n, err := m.Loading(p)
		if err != nil {
			return err
		}
		table.Rows = append(table.Rows, []float64{p, math.Max(0, n*(1+noise.Rand()))})
	}
	app.log.V(1).Info("synthesised points", "model", isotherm.Describe(m), "points", synthPoints, "seed", synthSeed)

	if synthOut == "" {
		return storage.WriteCSV(os.Stdout, table)
	}
	if err := storage.ExportCSV(synthOut, table); err != nil {
		return err
	}
	fmt.Printf("wrote %d points to %s\n", synthPoints, synthOut)
	return nil
}
