package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type ExportData struct {
	Run             RunMetadata `json:"run"`
	Series          *Series     `json:"series"`
	Radii           []float64   `json:"radii,omitempty"`
	PairCorrelation []float64   `json:"pair_correlation,omitempty"`
}

// Export collects everything stored for a run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	data := &ExportData{Run: *meta, Series: series}
	if r, g, err := s.LoadPairCorrelation(runID); err == nil {
		data.Radii, data.PairCorrelation = r, g
	}
	return data, nil
}

func ExportJSON(w io.Writer, data *ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes the energy series as comma separated values with a header.
func ExportCSV(w io.Writer, series *Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "time", "kinetic", "potential", "total", "pressure"}); err != nil {
		return err
	}
	for i := range series.Step {
		row := []string{
			strconv.Itoa(int(series.Step[i])),
			strconv.FormatFloat(series.Time[i], 'f', 6, 64),
			strconv.FormatFloat(series.Kinetic[i], 'g', -1, 64),
			strconv.FormatFloat(series.Potential[i], 'g', -1, 64),
			strconv.FormatFloat(series.Total[i], 'g', -1, 64),
			strconv.FormatFloat(series.Pressure[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
