// Package storage persists headless run results: one directory per
// run holding metadata.json and the per-frame metric series as csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fluidlab/internal/solver"
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

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Particles int                `json:"particles"`
	FrameDt   float64            `json:"frame_dt"`
	Duration  float64            `json:"duration"`
	Backend   string             `json:"backend"`
	Metrics   map[string]float64 `json:"metrics"`
	Peaks     map[string]float64 `json:"peaks"`
}

// Save writes a run directory and returns its id. Peak values per
// metric series are folded into the metadata so List can report them
// without re-reading the csv.
func (s *Store) Save(preset string, particles int, frameDt, duration float64, backend string, result *solver.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	peaks := make(map[string]float64, len(result.Series))
	for name, series := range result.Series {
		if len(series) > 0 {
			peaks[name] = floats.Max(series)
		}
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: time.Now(),
		Particles: particles,
		FrameDt:   frameDt,
		Duration:  duration,
		Backend:   backend,
		Metrics:   result.Metrics,
		Peaks:     peaks,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeSeries(filepath.Join(runDir, "series.csv"), result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeSeries(path string, result *solver.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	names := make([]string, 0, len(result.Series))
	for name := range result.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			series := result.Series[name]
			v := 0.0
			if i < len(series) {
				v = series[i]
			}
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads a run's metric series back: column names, times,
// and one series per column.
func (s *Store) LoadSeries(runID string) ([]string, []float64, map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) < 1 {
		return nil, nil, nil, fmt.Errorf("storage: empty series for run %s", runID)
	}

	names := records[0][1:]
	times := make([]float64, 0, len(records)-1)
	series := make(map[string][]float64, len(names))

	for _, record := range records[1:] {
		if len(record) != len(names)+1 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for j, name := range names {
			v, _ := strconv.ParseFloat(record[j+1], 64)
			series[name] = append(series[name], v)
		}
	}
	return names, times, series, nil
}

// ExportJSON writes a run's metadata and series as one json document.
func (s *Store) ExportJSON(runID string, out *os.File) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	names, times, series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	doc := struct {
		RunMetadata
		Columns []string             `json:"columns"`
		Times   []float64            `json:"times"`
		Series  map[string][]float64 `json:"series"`
	}{*meta, names, times, series}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
