package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/adsorb/internal/config"
	"github.com/san-kum/adsorb/internal/isotherm"
	"github.com/san-kum/adsorb/internal/logging"
	"github.com/san-kum/adsorb/internal/sorption"
	"github.com/san-kum/adsorb/internal/storage"
	"github.com/san-kum/adsorb/internal/viz"
)

var (
	configFile string
	themeName  string
	noSave     bool

	// Component selection shared by the mixture commands.
	componentSpecs []string
	dataSpecs      []string
	presetName     string
	interpolation  string
	temperature    float64

	fractions []float64
	pressure  float64
)

// env is the per-invocation state assembled before any command runs.
type env struct {
	cfg      *config.Config
	policy   sorption.Policy
	log      logr.Logger
	closeLog func() error
	store    *storage.Store
	registry *isotherm.Registry
	theme    viz.Theme
}

var (
	v   = viper.New()
	app *env
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "adsorb",
		Short:             "pure-component isotherms and ideal adsorbed solution theory",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app != nil && app.closeLog != nil {
				return app.closeLog()
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("data-dir", config.DefaultDataDir, "data directory (env ADSORB_DATA)")
	pf.Bool("debug", false, "debug logging (env ADSORB_DEBUG)")
	pf.String("policy", config.DefaultPolicy, "behaviour outside the data range: strict or extrapolate (env ADSORB_POLICY)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&themeName, "theme", "cyberpunk", "color theme: "+strings.Join(viz.ThemeNames(), ", "))

	for key, flag := range map[string]string{"data": "data-dir", "debug": "debug", "policy": "policy"} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	v.SetEnvPrefix("ADSORB")
	v.AutomaticEnv()

	rootCmd.AddCommand(
		modelsCmd(),
		fitCmd(),
		synthCmd(),
		iastCmd(),
		reverseCmd(),
		svpCmd(),
		vleCmd(),
		presetsCmd(),
		listCmd(),
		showCmd(),
		plotCmd(),
		exportJSONCmd(),
		exportCSVCmd(),
		exploreCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// setup resolves configuration with precedence flag > environment >
// config file > defaults and opens the log.
func setup(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	v.SetDefault("data", cfg.DataDir)
	v.SetDefault("policy", cfg.Policy)

	cfg.DataDir = v.GetString("data")
	cfg.Policy = v.GetString("policy")
	policy, err := cfg.DomainPolicy()
	if err != nil {
		return err
	}

	log, closeLog, err := logging.Setup(logging.Config{Dir: cfg.DataDir, Debug: v.GetBool("debug")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
	}
	log.V(1).Info("command", "name", cmd.Name(), "args", args, "policy", policy.String())

	app = &env{
		cfg:      cfg,
		policy:   policy,
		log:      log,
		closeLog: closeLog,
		store:    storage.New(cfg.DataDir),
		registry: isotherm.NewRegistry(),
		theme:    viz.GetTheme(themeName),
	}
	return nil
}

// exitCode maps error classes to distinct statuses for scripting.
func exitCode(err error) int {
	switch {
	case errors.Is(err, sorption.ErrConfiguration):
		return 2
	case errors.Is(err, sorption.ErrDomain):
		return 3
	case errors.Is(err, sorption.ErrConvergence):
		return 4
	case errors.Is(err, sorption.ErrFit), errors.Is(err, sorption.ErrModelSelection):
		return 5
	}
	return 1
}

// save stores a run unless --no-save was given and prints its id.
func save(meta storage.RunMetadata, table storage.Table) error {
	if noSave {
		return nil
	}
	if err := app.store.Init(); err != nil {
		return err
	}
	id, err := app.store.Save(meta, table)
	if err != nil {
		return err
	}
	app.log.Info("run saved", "id", id, "kind", string(meta.Kind))
	fmt.Printf("run id: %s\n", id)
	return nil
}

func addComponentFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVar(&componentSpecs, "component", nil, "component as label=Model:param=value,... (repeatable)")
	f.StringArrayVar(&dataSpecs, "data", nil, "measured component as label=file.csv (repeatable)")
	f.StringVar(&presetName, "preset", "", "use a preset mixture")
	f.StringArrayVar(&fittedRuns, "fitted", nil, "component from a stored fit run id (repeatable)")
	f.StringVar(&interpolation, "interpolation", "monotone", "point isotherm interpolation: monotone or linear")
	f.Float64Var(&temperature, "temperature", 0, "temperature in kelvin for explicit components")
	f.BoolVar(&noSave, "no-save", false, "do not store the run")
}
