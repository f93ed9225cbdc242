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

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/rundata"
)

const (
	metadataFile = "metadata.json"
	energyFile   = "energy.csv"
	runFile      = "run.dat"
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
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Catalogue   string             `json:"catalogue"`
	Days        int                `json:"days"`
	Tstep       float64            `json:"tstep"`
	StepsPerDay int                `json:"steps_per_day"`
	Mode        string             `json:"mode"`
	Bodies      int                `json:"bodies"`
	Planets     int                `json:"planets"`
	Probes      int                `json:"probes"`
	Collisions  []string           `json:"collisions,omitempty"`
	Error       string             `json:"error,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// EnergyRow is one line of energy.csv.
type EnergyRow struct {
	Day   int
	W     dynamo.Energy
	Level dynamo.Level
}

// Save writes a run directory and returns its id. Days, Bodies, Planets
// and Probes are taken from rec.
func (s *Store) Save(meta RunMetadata, rec *dynamo.Record) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, meta.Timestamp.UnixNano())
	meta.Days = rec.History.Len()
	meta.Bodies = rec.Config.N
	meta.Planets = rec.Config.Nplanets
	meta.Probes = rec.Config.Nprobes()
	if meta.Tstep == 0 {
		meta.Tstep = rec.Config.Tstep
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeEnergy(filepath.Join(runDir, energyFile), rec.History); err != nil {
		return "", err
	}
	if err := rundata.WriteFile(filepath.Join(runDir, runFile), rec); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEnergy(path string, h *dynamo.History) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"day", "total", "kinetic", "potential", "level"}); err != nil {
		return err
	}
	for i, e := range h.Energies {
		level := ""
		if i < len(h.Levels) {
			level = strconv.Itoa(int(h.Levels[i]))
		}
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(e.Total, 'g', -1, 64),
			strconv.FormatFloat(e.Kinetic, 'g', -1, 64),
			strconv.FormatFloat(e.Potential, 'g', -1, 64),
			level,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every stored run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadEnergy(runID string) ([]EnergyRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, energyFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 5
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([]EnergyRow, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue
		}
		var row EnergyRow
		if row.Day, err = strconv.Atoi(record[0]); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", energyFile, i+1, err)
		}
		vals := [3]*float64{&row.W.Total, &row.W.Kinetic, &row.W.Potential}
		for j, dst := range vals {
			if *dst, err = strconv.ParseFloat(record[j+1], 64); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", energyFile, i+1, err)
			}
		}
		if record[4] != "" {
			k, err := strconv.Atoi(record[4])
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", energyFile, i+1, err)
			}
			row.Level = dynamo.Level(k)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) LoadRun(runID string) (*dynamo.Record, error) {
	return rundata.ReadFile(filepath.Join(s.baseDir, runID, runFile))
}
