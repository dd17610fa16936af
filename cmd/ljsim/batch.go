package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ljsim/internal/automation"
	"github.com/san-kum/ljsim/internal/config"
	"github.com/san-kum/ljsim/internal/plot"
	"github.com/san-kum/ljsim/internal/storage"
)

var (
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	parallel    int
	replicaRuns int
)

func benchPresets(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tN\tSTEPS\tLAMBDA ITERS\tTIME\tSTEPS/SEC")

	for _, name := range config.ListPresets("bench") {
		cfg := config.GetPreset("bench", name)
		cfg.Workers = flagWorkers

		s := newSimulator(cfg)
		s.AddObserver(logObserver{log: logger.With("preset", name)})
		result, err := s.Run(ctx)
		if err != nil {
			return fmt.Errorf("bench %s: %w", name, err)
		}

		steps := result.Params.Steps()
		stepsPerSec := float64(steps) / result.Elapsed.Seconds()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%v\t%.0f\n",
			name, cfg.Particles, steps, result.Equilibration.Iterations, result.Elapsed, stepsPerSec)
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Parallel:  parallel,
	}

	ctx, stop := signalContext()
	defer stop()

	logger.Info("sweep", "param", sweepParam, "min", sweepMin, "max", sweepMax, "steps", sweepSteps)
	results, err := automation.RunSweep(ctx, sweep, logObserver{log: logger.With("sweep", sweepParam)})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPRESSURE\tTEMPERATURE\tPOTENTIAL\tKINETIC\tDRIFT\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.5f\t%.5f\t%.5f\t%.5f\t%.2e\n",
			r.ParamValue, r.MeanPressure, r.MeanTemperature, r.MeanPotential, r.MeanKinetic, r.EnergyDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	xs := make([]float64, len(results))
	pressures := make([]float64, len(results))
	for i, r := range results {
		xs[i], pressures[i] = r.ParamValue, r.MeanPressure
	}
	for _, path := range []string{pngPath, svgPath} {
		if path == "" {
			continue
		}
		if err := writeImage(path, "equation of state", sweepParam, xs, []plot.Line{{Name: "pressure", Y: pressures}}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	if pngPath == "" && svgPath == "" && len(pressures) > 1 {
		fmt.Println()
		fmt.Println(plot.Terminal(pressures, "pressure vs "+sweepParam, plot.DefaultHeight, plot.DefaultWidth))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	logger.Info("scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, logObserver{log: logger.With("scenario", scenario.Name)}, st)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tN\tT\tRHO\tPRESSURE\tTEMPERATURE\tDRIFT")
	for _, r := range results {
		p, sm := r.Result.Params, r.Result.Summary
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%.3f\t%.5f\t%.5f\t%.2e\n",
			r.Name, runID, p.Particles, p.Temperature, p.Density, sm.MeanPressure, sm.MeanTemperature, sm.EnergyDrift)
	}
	return w.Flush()
}

func runReplicas(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	logger.Info("replicas", "runs", replicaRuns, "seed", cfg.Seed, "parallel", parallel)
	stats, results, err := automation.RunReplicas(ctx, cfg, replicaRuns, parallel)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tPRESSURE\tTEMPERATURE\tLAMBDA ITERS")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.5f\t%.5f\t%d\n",
			r.Params.Seed, r.Summary.MeanPressure, r.Summary.MeanTemperature, r.Equilibration.Iterations)
	}
	fmt.Fprintf(w, "mean\t%.5f ± %.5f\t%.5f ± %.5f\t\n",
		stats.MeanPressure, stats.StdPressure, stats.MeanTemperature, stats.StdTemperature)
	return w.Flush()
}
