package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/spectrum"
)

var ErrNoRun = errors.New("storage: run not found")

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
	ID          string             `json:"id"`
	Preset      string             `json:"preset"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Size        int                `json:"size"`
	FFT         string             `json:"fft"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Settings    spectrum.Settings  `json:"settings"`
	Buoys       []string           `json:"buoys"`
	Steps       int                `json:"steps"`
	Generations [3]int             `json:"generations"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Series is the buoy height record of one run.
type Series struct {
	Times []float64
	Names []string
	// Heights[i] is the series of buoy Names[i].
	Heights [][]float64
}

// Save writes metadata.json and buoys.csv into a new run directory and
// returns the run id. ID, Timestamp, Buoys, Steps, Generations and Metrics
// are filled from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%s_%s", name, now.Format("20060102-150405"), uuid.NewString()[:8])
	meta.Timestamp = now
	meta.Buoys = result.BuoyNames
	meta.Steps = result.Steps
	meta.Generations = result.Generations
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
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

	csvFile, err := os.Create(filepath.Join(runDir, "buoys.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeSeries(csvFile, result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeSeries(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	header := append([]string{"time"}, result.BuoyNames...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, series := range result.Buoys {
			v := 0.0
			if i < len(series) {
				v = series[i]
			}
			row = append(row, strconv.FormatFloat(v, 'g', 9, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns all readable runs, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "buoys.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Series{}, nil
	}

	out := &Series{
		Names:   records[0][1:],
		Heights: make([][]float64, len(records[0])-1),
		Times:   make([]float64, 0, len(records)-1),
	}
	for _, record := range records[1:] {
		if len(record) != len(records[0]) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		out.Times = append(out.Times, t)
		for j := range out.Heights {
			v, _ := strconv.ParseFloat(record[j+1], 64)
			out.Heights[j] = append(out.Heights[j], v)
		}
	}

	return out, nil
}

// Get returns the series of the named buoy.
func (s *Series) Get(name string) ([]float64, bool) {
	for i, n := range s.Names {
		if n == name {
			return s.Heights[i], true
		}
	}
	return nil, false
}

// ExportJSON writes a run's metadata and series as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, series *Series) error {
	data := struct {
		*RunMetadata
		Times   []float64            `json:"times"`
		Heights map[string][]float64 `json:"heights"`
	}{RunMetadata: meta, Times: series.Times, Heights: make(map[string][]float64, len(series.Names))}
	for i, n := range series.Names {
		data.Heights[n] = series.Heights[i]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
