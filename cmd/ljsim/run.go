package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ljsim/internal/config"
	"github.com/san-kum/ljsim/internal/metrics"
	"github.com/san-kum/ljsim/internal/sim"
	"github.com/san-kum/ljsim/internal/storage"
	"github.com/san-kum/ljsim/internal/tui"
)

var (
	configFile string
	preset     string
	fromRun    string
	noSave     bool

	flagParticles   int
	flagTime        float64
	flagDt          float64
	flagTemperature float64
	flagDensity     float64
	flagSeed        uint64
	flagWorkers     int
	flagBins        int
	flagPrecision   float64
	flagKeepDists   bool
	flagReport      int
	flagRemoveDrift bool
)

func addParamFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or gcfg)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset as system/name or name (argon)")
	cmd.Flags().StringVar(&fromRun, "from", "", "reuse the configuration of a stored run")
	cmd.Flags().IntVarP(&flagParticles, "particles", "n", d.Particles, "number of particles (4k³)")
	cmd.Flags().Float64Var(&flagTime, "time", d.SimulationTime, "production time")
	cmd.Flags().Float64Var(&flagDt, "dt", d.Dt, "timestep")
	cmd.Flags().Float64Var(&flagTemperature, "temperature", d.Temperature, "target temperature")
	cmd.Flags().Float64Var(&flagDensity, "density", d.Density, "number density")
	cmd.Flags().Uint64Var(&flagSeed, "seed", d.Seed, "velocity seed")
	cmd.Flags().IntVar(&flagWorkers, "workers", d.Workers, "force workers (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&flagBins, "bins", d.HistogramBins, "g(r) histogram bins")
	cmd.Flags().Float64Var(&flagPrecision, "precision", d.Precision, "equilibration tolerance on lambda")
	cmd.Flags().BoolVar(&flagKeepDists, "keep-distances", d.KeepDistances, "keep per-frame distance matrices")
	cmd.Flags().IntVar(&flagReport, "report", d.ReportInterval, "progress event interval in steps")
	cmd.Flags().BoolVar(&flagRemoveDrift, "remove-drift", d.RemoveDrift, "zero the initial total momentum")
}

// resolveConfig applies presets, then a stored run's configuration, then
// the config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		system, name := "argon", preset
		if i := strings.IndexByte(preset, '/'); i >= 0 {
			system, name = preset[:i], preset[i+1:]
		}
		p := config.GetPreset(system, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(system))
		}
		cfg = p
	}

	if fromRun != "" {
		runCfg, err := storage.New(dataDir).LoadConfig(fromRun)
		if err != nil {
			return nil, fmt.Errorf("failed to load run %s: %w", fromRun, err)
		}
		cfg = runCfg
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Particles = flagParticles
	}
	if flags.Changed("time") {
		cfg.SimulationTime = flagTime
	}
	if flags.Changed("dt") {
		cfg.Dt = flagDt
	}
	if flags.Changed("temperature") {
		cfg.Temperature = flagTemperature
	}
	if flags.Changed("density") {
		cfg.Density = flagDensity
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("bins") {
		cfg.HistogramBins = flagBins
	}
	if flags.Changed("precision") {
		cfg.Precision = flagPrecision
	}
	if flags.Changed("keep-distances") {
		cfg.KeepDistances = flagKeepDists
	}
	if flags.Changed("report") {
		cfg.ReportInterval = flagReport
	}
	if flags.Changed("remove-drift") {
		cfg.RemoveDrift = flagRemoveDrift
	}

	return cfg, nil
}

func newSimulator(cfg *config.Config) *sim.Simulator {
	s := sim.New(cfg.ToParams())
	s.AddMetric(metrics.NewEnergy())
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewTemperature(cfg.Dimension))
	s.AddMetric(metrics.NewContainment())
	return s
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	s := newSimulator(cfg)
	s.AddObserver(logObserver{log: logger})

	ctx, stop := signalContext()
	defer stop()

	result, err := s.Run(ctx)
	if err != nil {
		if sim.IsCanceled(err) {
			logger.Warn("run interrupted")
		}
		return err
	}
	return finishRun(result)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	result, err := tui.RunLive(ctx, newSimulator(cfg))
	if err != nil {
		return err
	}
	return finishRun(result)
}

func finishRun(result *sim.Result) error {
	printResult(result)
	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(result)
	if err != nil {
		return err
	}
	logger.Info("saved", "run", runID, "dir", st.Dir(runID))
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printResult(r *sim.Result) {
	p := r.Params
	fmt.Printf("completed in %v\n", r.Elapsed)
	fmt.Printf("particles: %d  box: %.4f  steps: %d\n", p.Particles, r.Length, p.Steps())
	fmt.Printf("equilibration: %d iterations, lambda %.5f\n",
		r.Equilibration.Iterations, r.Equilibration.FinalLambda)

	sm := r.Summary
	fmt.Println("\nsummary:")
	fmt.Printf("  %-18s %.6f\n", "mean kinetic", sm.MeanKinetic)
	fmt.Printf("  %-18s %.6f\n", "mean potential", sm.MeanPotential)
	fmt.Printf("  %-18s %.6f\n", "mean total", sm.MeanTotal)
	fmt.Printf("  %-18s %.6f\n", "mean temperature", sm.MeanTemperature)
	fmt.Printf("  %-18s %.6f\n", "mean pressure", sm.MeanPressure)
	fmt.Printf("  %-18s %.3e\n", "energy drift", sm.EnergyDrift)
	fmt.Printf("  %-18s %.4f (g=%.3f)\n", "g(r) peak", sm.PeakRadius, sm.PeakHeight)

	if len(r.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for _, name := range sortedKeys(r.Metrics) {
			fmt.Printf("  %-18s %.6f\n", name, r.Metrics[name])
		}
	}
}
