package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/phil-mansfield/table"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ljsim/internal/analysis"
	"github.com/san-kum/ljsim/internal/config"
	"github.com/san-kum/ljsim/internal/equilibrate"
	"github.com/san-kum/ljsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	energiesFile = "energies.dat"
	pairFile     = "gr.dat"
	finalFile    = "final.csv"
	configFile   = "config.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Particles      int                `json:"particles"`
	SimulationTime float64            `json:"simulation_time"`
	Dt             float64            `json:"dt"`
	Temperature    float64            `json:"temperature"`
	Density        float64            `json:"density"`
	Seed           uint64             `json:"seed"`
	Steps          int                `json:"steps"`
	Length         float64            `json:"length"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	Equilibration  equilibrate.Report `json:"equilibration"`
	Summary        analysis.Summary   `json:"summary"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Series is the per-frame table stored in energies.dat.
type Series struct {
	Step      []float64 `json:"step"`
	Time      []float64 `json:"time"`
	Kinetic   []float64 `json:"kinetic"`
	Potential []float64 `json:"potential"`
	Total     []float64 `json:"total"`
	Pressure  []float64 `json:"pressure"`
}

func (s *Series) Len() int { return len(s.Step) }

// SeriesFromResult builds the stored table of a finished run.
func SeriesFromResult(r *sim.Result) *Series {
	n := len(r.Kinetic)
	series := &Series{
		Step:      make([]float64, n),
		Time:      make([]float64, n),
		Kinetic:   r.Kinetic,
		Potential: r.Potential,
		Total:     r.Total,
		Pressure:  r.Pressure,
	}
	for i := 0; i < n; i++ {
		series.Step[i] = float64(i)
		series.Time[i] = float64(i) * r.Params.TimeStep
	}
	return series
}

// Column returns a named column of the series.
func (s *Series) Column(name string) ([]float64, error) {
	switch name {
	case "kinetic":
		return s.Kinetic, nil
	case "potential":
		return s.Potential, nil
	case "total", "energy":
		return s.Total, nil
	case "pressure":
		return s.Pressure, nil
	case "time":
		return s.Time, nil
	default:
		return nil, fmt.Errorf("storage: unknown column %q", name)
	}
}

func (s *Store) Save(result *sim.Result) (string, error) {
	p := result.Params
	runID := fmt.Sprintf("lj%d_%d", p.Particles, time.Now().UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Timestamp:      time.Now(),
		Particles:      p.Particles,
		SimulationTime: p.SimulationTime,
		Dt:             p.TimeStep,
		Temperature:    p.Temperature,
		Density:        p.Density,
		Seed:           p.Seed,
		Steps:          len(result.Kinetic),
		Length:         result.Length,
		ElapsedSeconds: result.Elapsed.Seconds(),
		Equilibration:  result.Equilibration,
		Summary:        result.Summary,
		Metrics:        result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), config.FromParams(p)); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, energiesFile), SeriesFromResult(result)); err != nil {
		return "", err
	}
	if result.PairCorrelation != nil {
		if err := writePairCorrelation(filepath.Join(runDir, pairFile), result.PairCorrelation); err != nil {
			return "", err
		}
	}
	if result.Trajectory != nil && result.Trajectory.Len() > 0 {
		last := result.Trajectory.Frame(result.Trajectory.Len() - 1)
		if err := writeFrame(filepath.Join(runDir, finalFile), last.Positions, last.Velocities); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// writeFile creates path and hands a buffered writer to write. The first
// error wins, including a failed Flush or Close.
func writeFile(path string, write func(w *bufio.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return err
	}
	return w.Flush()
}

func writeJSON(path string, v any) error {
	return writeFile(path, func(w *bufio.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeSeries(path string, series *Series) error {
	return writeFile(path, func(w *bufio.Writer) error {
		if _, err := fmt.Fprintln(w, "# step time kinetic potential total pressure"); err != nil {
			return err
		}
		for i := range series.Step {
			if _, err := fmt.Fprintf(w, "%d %.6f %.10e %.10e %.10e %.10e\n",
				int(series.Step[i]), series.Time[i],
				series.Kinetic[i], series.Potential[i], series.Total[i], series.Pressure[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func writePairCorrelation(path string, h *analysis.Histogram) error {
	return writeFile(path, func(w *bufio.Writer) error {
		if _, err := fmt.Fprintln(w, "# r g(r)"); err != nil {
			return err
		}
		for k, r := range h.Radii() {
			if _, err := fmt.Fprintf(w, "%.8e %.10e\n", r, h.Values[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFrame(path string, pos, vel []r3.Vec) error {
	return writeFile(path, func(bw *bufio.Writer) error {
		w := csv.NewWriter(bw)
		if err := w.Write([]string{"x", "y", "z", "vx", "vy", "vz"}); err != nil {
			return err
		}
		for i := range pos {
			row := []string{
				strconv.FormatFloat(pos[i].X, 'g', -1, 64),
				strconv.FormatFloat(pos[i].Y, 'g', -1, 64),
				strconv.FormatFloat(pos[i].Z, 'g', -1, 64),
				strconv.FormatFloat(vel[i].X, 'g', -1, 64),
				strconv.FormatFloat(vel[i].Y, 'g', -1, 64),
				strconv.FormatFloat(vel[i].Z, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

// LoadConfig reads back the configuration a run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.Dir(runID), configFile))
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	cols, err := table.ReadTable(filepath.Join(s.Dir(runID), energiesFile), []int{0, 1, 2, 3, 4, 5}, nil)
	if err != nil {
		return nil, err
	}
	return &Series{
		Step:      cols[0],
		Time:      cols[1],
		Kinetic:   cols[2],
		Potential: cols[3],
		Total:     cols[4],
		Pressure:  cols[5],
	}, nil
}

// LoadPairCorrelation returns the right bin edges and g(r) of a run.
func (s *Store) LoadPairCorrelation(runID string) (r, g []float64, err error) {
	cols, err := table.ReadTable(filepath.Join(s.Dir(runID), pairFile), []int{0, 1}, nil)
	if err != nil {
		return nil, nil, err
	}
	return cols[0], cols[1], nil
}

// LoadFinalFrame returns the positions and velocities of the last frame.
func (s *Store) LoadFinalFrame(runID string) (pos, vel []r3.Vec, err error) {
	f, err := os.Open(filepath.Join(s.Dir(runID), finalFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []r3.Vec{}, []r3.Vec{}, nil
	}

	for line, record := range records[1:] {
		var vals [6]float64
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: %s line %d: %w", finalFile, line+2, err)
			}
		}
		pos = append(pos, r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]})
		vel = append(vel, r3.Vec{X: vals[3], Y: vals[4], Z: vals[5]})
	}
	return pos, vel, nil
}
