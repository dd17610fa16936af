package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ljsim/internal/analysis"
	"github.com/san-kum/ljsim/internal/config"
	"github.com/san-kum/ljsim/internal/plot"
	"github.com/san-kum/ljsim/internal/storage"
)

var (
	pngPath  string
	svgPath  string
	plotWhat string
	column   string
)

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tT\tRHO\tSTEPS\tDT\tPRESSURE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%.3f\t%d\t%.4f\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Temperature,
			run.Density,
			run.Steps,
			run.Dt,
			run.Summary.MeanPressure,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%s\n", meta.ID)
	fmt.Fprintf(w, "time\t%s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "particles\t%d\n", meta.Particles)
	fmt.Fprintf(w, "box length\t%.6f\n", meta.Length)
	fmt.Fprintf(w, "temperature\t%.4f\n", meta.Temperature)
	fmt.Fprintf(w, "density\t%.4f\n", meta.Density)
	fmt.Fprintf(w, "steps\t%d (dt %g)\n", meta.Steps, meta.Dt)
	fmt.Fprintf(w, "seed\t%d\n", meta.Seed)
	fmt.Fprintf(w, "elapsed\t%.3fs\n", meta.ElapsedSeconds)
	fmt.Fprintf(w, "equilibration\t%d iterations, lambda %.5f\n",
		meta.Equilibration.Iterations, meta.Equilibration.FinalLambda)
	fmt.Fprintf(w, "mean pressure\t%.6f\n", meta.Summary.MeanPressure)
	fmt.Fprintf(w, "mean temperature\t%.6f\n", meta.Summary.MeanTemperature)
	fmt.Fprintf(w, "mean total energy\t%.6f\n", meta.Summary.MeanTotal)
	fmt.Fprintf(w, "energy drift\t%.3e\n", meta.Summary.EnergyDrift)
	fmt.Fprintf(w, "g(r) peak\t%.4f (%.3f)\n", meta.Summary.PeakRadius, meta.Summary.PeakHeight)
	for _, name := range sortedKeys(meta.Metrics) {
		fmt.Fprintf(w, "%s\t%.6f\n", name, meta.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	pos, _, err := st.LoadFinalFrame(runID)
	if err != nil {
		return err
	}
	fmt.Println("\nfinal frame, x-y projection:")
	fmt.Println(plot.Projection(pos, meta.Length, 40, 20).String())
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var xs []float64
	var lines []plot.Line
	var title, xLabel string

	switch plotWhat {
	case "energy", "pressure":
		series, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		xs, xLabel = series.Time, "time"
		if plotWhat == "energy" {
			title = "energy"
			lines = []plot.Line{
				{Name: "kinetic", Y: series.Kinetic},
				{Name: "potential", Y: series.Potential},
				{Name: "total", Y: series.Total},
			}
		} else {
			title = "pressure"
			lines = []plot.Line{{Name: "pressure", Y: series.Pressure}}
		}
	case "gr":
		r, g, err := st.LoadPairCorrelation(runID)
		if err != nil {
			return err
		}
		xs, xLabel, title = r, "r", "g(r)"
		lines = []plot.Line{{Name: "g(r)", Y: g}}
	default:
		return fmt.Errorf("unknown plot %q (energy, pressure, gr)", plotWhat)
	}

	for _, path := range []string{pngPath, svgPath} {
		if path == "" {
			continue
		}
		if err := writeImage(path, title+" "+runID, xLabel, xs, lines); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	if pngPath != "" || svgPath != "" {
		return nil
	}

	data := make([][]float64, len(lines))
	legends := make([]string, len(lines))
	for i, l := range lines {
		data[i], legends[i] = l.Y, l.Name
	}
	fmt.Println(plot.TerminalMany(data, legends, title+" vs "+xLabel, 15, plot.DefaultWidth))
	return nil
}

func writeImage(path, title, xLabel string, xs []float64, lines []plot.Line) error {
	format, err := plot.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := plot.Image(f, format, title, xLabel, xs, lines...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	data, err := storage.New(dataDir).Export(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, data)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	series, err := storage.New(dataDir).LoadSeries(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, series)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	data, err := series.Column(column)
	if err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(data)
	if len(ps) == 0 {
		return fmt.Errorf("series %q too short for a spectrum", column)
	}
	freq := analysis.DominantFrequency(ps, len(data), meta.Dt)

	fmt.Printf("samples: %d  dt: %g\n", len(data), meta.Dt)
	fmt.Printf("dominant frequency: %.4f (period %.4f)\n", freq, period(freq))
	fmt.Println(plot.Terminal(ps[1:], "power spectrum ("+column+")", 15, plot.DefaultWidth))
	return nil
}

func period(freq float64) float64 {
	if freq == 0 {
		return 0
	}
	return 1 / freq
}

func listPresets(cmd *cobra.Command, args []string) error {
	systems := config.Systems()
	if len(args) == 1 {
		if config.ListPresets(args[0]) == nil {
			fmt.Printf("no presets for system: %s\n", args[0])
			return nil
		}
		systems = args[:1]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tN\tT\tRHO\tTIME\tDT")
	for _, system := range systems {
		for _, name := range config.ListPresets(system) {
			cfg := config.GetPreset(system, name)
			fmt.Fprintf(w, "%s/%s\t%d\t%.2f\t%.2f\t%.2f\t%g\n",
				system, name, cfg.Particles, cfg.Temperature, cfg.Density, cfg.SimulationTime, cfg.Dt)
		}
	}
	return w.Flush()
}
