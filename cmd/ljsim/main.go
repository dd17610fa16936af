package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ljsim",
		Short: "lennard-jones molecular dynamics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = newLogger(os.Stderr, level)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ljsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live progress view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addParamFlags(liveCmd)
	liveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run summary and final configuration",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energies, pressure and g(r)",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngPath, "png", "", "write a PNG chart instead of plotting in the terminal")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG chart instead of plotting in the terminal")
	plotCmd.Flags().StringVar(&plotWhat, "what", "energy", "energy, pressure or gr")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export per-frame series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum of a stored series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "series", "total", "kinetic, potential, total or pressure")

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the bench presets",
		Args:  cobra.NoArgs,
		RunE:  benchPresets,
	}
	benchCmd.Flags().IntVar(&flagWorkers, "workers", 0, "force workers (0 = GOMAXPROCS)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "equation-of-state scan over one parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "density", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.3, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 1, "concurrent runs")
	sweepCmd.Flags().StringVar(&pngPath, "png", "", "write a PNG chart of the scan")
	sweepCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG chart of the scan")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	replicasCmd := &cobra.Command{
		Use:   "replicas",
		Short: "repeat a state point over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runReplicas,
	}
	addParamFlags(replicasCmd)
	replicasCmd.Flags().IntVar(&replicaRuns, "runs", 4, "number of runs")
	replicasCmd.Flags().IntVar(&parallel, "parallel", 1, "concurrent runs")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportCSVCmd,
		analyzeCmd, presetsCmd, benchCmd, sweepCmd, scenarioCmd, replicasCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
