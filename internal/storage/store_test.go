package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ljsim/internal/analysis"
	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/equilibrate"
	"github.com/san-kum/ljsim/internal/sim"
)

func fakeResult() *sim.Result {
	p := dynamo.DefaultParams()
	p.Particles = 4
	p.Seed = 42

	traj := dynamo.NewTrajectory(4, 3)
	last := traj.Frame(2)
	for i := range last.Positions {
		last.Positions[i] = r3.Vec{X: float64(i) + 0.25, Y: 0.5, Z: 1.0 / 3}
		last.Velocities[i] = r3.Vec{X: -0.1, Y: float64(i), Z: 2.5e-7}
	}

	h := analysis.NewPairHistogram(5, 2)
	h.Counts[1] = 6
	h.Normalize(4, 3, 2)

	return &sim.Result{
		Params:          p,
		Length:          2,
		Trajectory:      traj,
		Equilibration:   equilibrate.Report{Iterations: 2, Lambdas: []float64{1.2, 1.001}, FinalLambda: 1.001},
		Kinetic:         []float64{4.5, 4.6, 4.4},
		Potential:       []float64{-10, -10.1, -9.9},
		Total:           []float64{-5.5, -5.5, -5.5},
		Pressure:        []float64{0.9, 1.1, 1.0},
		PairCorrelation: h,
		Summary:         analysis.Summary{MeanKinetic: 4.5},
		Metrics:         map[string]float64{"energy_drift": 1.5e-4},
		Elapsed:         1500 * time.Millisecond,
	}
}

func saved(t *testing.T) (*Store, string, *sim.Result) {
	t.Helper()
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	result := fakeResult()
	runID, err := st.Save(result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}
	return st, runID, result
}

func TestStoreSaveLoad(t *testing.T) {
	st, runID, _ := saved(t)

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Particles != 4 || meta.Seed != 42 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Steps != 3 {
		t.Errorf("expected 3 steps, got %d", meta.Steps)
	}
	if meta.Metrics["energy_drift"] != 1.5e-4 {
		t.Errorf("expected drift 1.5e-4, got %g", meta.Metrics["energy_drift"])
	}
	if meta.Equilibration.Iterations != 2 || meta.Equilibration.FinalLambda != 1.001 {
		t.Errorf("unexpected equilibration report %+v", meta.Equilibration)
	}
	if meta.ElapsedSeconds != 1.5 {
		t.Errorf("expected 1.5s elapsed, got %g", meta.ElapsedSeconds)
	}
}

func TestStoreLoadSeries(t *testing.T) {
	st, runID, result := saved(t)

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}

	if series.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", series.Len())
	}
	for i := 0; i < 3; i++ {
		if series.Step[i] != float64(i) {
			t.Errorf("row %d: step %v", i, series.Step[i])
		}
		if series.Kinetic[i] != result.Kinetic[i] || series.Pressure[i] != result.Pressure[i] {
			t.Errorf("row %d: got kinetic %v pressure %v", i, series.Kinetic[i], series.Pressure[i])
		}
	}

	col, err := series.Column("energy")
	if err != nil || col[0] != -5.5 {
		t.Errorf("Column(energy) = %v, %v", col, err)
	}
	if _, err := series.Column("entropy"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestStoreLoadPairCorrelation(t *testing.T) {
	st, runID, result := saved(t)

	r, g, err := st.LoadPairCorrelation(runID)
	if err != nil {
		t.Fatalf("load g(r) failed: %v", err)
	}
	if len(r) != 5 || len(g) != 5 {
		t.Fatalf("expected 5 bins, got %d and %d", len(r), len(g))
	}
	want := result.PairCorrelation.Values[1]
	if diff := g[1] - want; diff > 1e-9*want || diff < -1e-9*want {
		t.Errorf("g[1] = %v, want %v", g[1], want)
	}
}

func TestStoreLoadFinalFrame(t *testing.T) {
	st, runID, result := saved(t)

	pos, vel, err := st.LoadFinalFrame(runID)
	if err != nil {
		t.Fatalf("load final frame failed: %v", err)
	}

	last := result.Trajectory.Frame(2)
	for i := range pos {
		if pos[i] != last.Positions[i] || vel[i] != last.Velocities[i] {
			t.Errorf("particle %d: got %v %v, want %v %v", i, pos[i], vel[i], last.Positions[i], last.Velocities[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	first, err := st.Save(fakeResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(fakeResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(st.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected oldest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	st, runID, _ := saved(t)

	for _, name := range []string{metadataFile, configFile, energiesFile, pairFile, finalFile} {
		if _, err := os.Stat(filepath.Join(st.Dir(runID), name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	st, runID, _ := saved(t)

	data, err := st.Export(runID)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, data); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var decoded struct {
		Run struct {
			ID string `json:"id"`
		} `json:"run"`
		Series struct {
			Total []float64 `json:"total"`
		} `json:"series"`
		PairCorrelation []float64 `json:"pair_correlation"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Run.ID != runID || len(decoded.Series.Total) != 3 || len(decoded.PairCorrelation) != 5 {
		t.Errorf("unexpected export %+v", decoded)
	}
}

func TestExportCSV(t *testing.T) {
	series := SeriesFromResult(fakeResult())

	var buf bytes.Buffer
	if err := ExportCSV(&buf, series); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][2] != "kinetic" || records[2][2] != "4.6" {
		t.Errorf("unexpected rows %v", records)
	}
}

func TestStoreLoadConfig(t *testing.T) {
	st, runID, result := saved(t)

	cfg, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if got := cfg.ToParams(); got != result.Params {
		t.Errorf("config round trip = %+v, want %+v", got, result.Params)
	}
}

func TestWriteSeriesReportsWriteErrors(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	series := SeriesFromResult(fakeResult())
	if err := writeSeries("/dev/full", series); err == nil {
		t.Error("expected error writing to a full device")
	}
	if err := writeFrame("/dev/full", []r3.Vec{{X: 1}}, []r3.Vec{{}}); err == nil {
		t.Error("expected error writing frame to a full device")
	}
}
