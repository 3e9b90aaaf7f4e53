package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/adsorb/internal/fit"
	"github.com/san-kum/adsorb/internal/iast"
)

const (
	metadataFile = "metadata.json"
	tableFile    = "points.csv"
)

// Kind is the sort of calculation a run stores.
type Kind string

const (
	KindFit         Kind = "fit"
	KindIAST        Kind = "iast"
	KindSelectivity Kind = "svp"
	KindVLE         Kind = "vle"
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Kind       Kind               `json:"kind"`
	Timestamp  time.Time          `json:"timestamp"`
	Components []string           `json:"components"`
	Policy     string             `json:"policy,omitempty"`
	Pressure   float64            `json:"pressure,omitempty"`
	Fit        *fit.Record        `json:"fit,omitempty"`
	State      *iast.State        `json:"state,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Table is the numeric part of a run, stored as CSV.
type Table struct {
	Header []string
	Rows   [][]float64
}

// Column returns the named column, or nil if there is none.
func (t Table) Column(name string) []float64 {
	idx := -1
	for i, h := range t.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	col := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			col = append(col, row[idx])
		}
	}
	return col
}

// Save writes meta and table under a new run directory and returns its id.
func (s *Store) Save(meta RunMetadata, table Table) (string, error) {
	label := strings.ToLower(strings.Join(meta.Components, "-"))
	if label == "" {
		label = "run"
	}
	runID := fmt.Sprintf("%s_%s_%d", meta.Kind, sanitize(label), time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	if meta.Metrics == nil {
		meta.Metrics = map[string]float64{}
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, tableFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, table); err != nil {
		return "", err
	}
	return runID, nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, s)
}

// List returns every readable run, newest first.
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

func (s *Store) LoadTable(runID string) (Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, tableFile))
	if err != nil {
		return Table{}, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	table := Table{Header: records[0], Rows: make([][]float64, 0, len(records)-1)}
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Table{}, fmt.Errorf("run %s: %w", runID, err)
			}
			row = append(row, val)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
