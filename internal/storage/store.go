package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// WriteFile creates path and writes src to it. The file is closed before
// WriteFile returns, also on error.
func WriteFile(path string, src io.WriterTo) error {
	return writeFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, src)
}

// AppendFile appends src to path, creating it if needed.
func AppendFile(path string, src io.WriterTo) error {
	return writeFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, src)
}

func writeFile(path string, flag int, src io.WriterTo) (err error) {
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = src.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Store is the run ledger kept under the data directory. Each run gets a
// directory holding metadata.json and satellites.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SatelliteSummary struct {
	Satnum      string             `json:"satnum"`
	Samples     int                `json:"samples"`
	Start       float64            `json:"start"`
	Stop        float64            `json:"stop"`
	Step        float64            `json:"step"`
	ErrorCode   int                `json:"error_code,omitempty"`
	ErrorOffset float64            `json:"error_offset,omitempty"`
	Ephemeris   string             `json:"ephemeris,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Ops          string             `json:"ops"`
	RunMode      string             `json:"run_mode"`
	InputTime    string             `json:"input_time"`
	Gravity      string             `json:"gravity"`
	Catalog      string             `json:"catalog"`
	Verification string             `json:"verification"`
	Scenario     string             `json:"scenario,omitempty"`
	Records      int                `json:"records"`
	Skipped      int                `json:"skipped"`
	Failed       int                `json:"failed"`
	Satellites   []SatelliteSummary `json:"satellites"`
}

// Save writes meta under a new run id and returns the id.
func (s *Store) Save(meta RunMetadata) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runID := fmt.Sprintf("%s_%d", meta.RunMode, meta.Timestamp.UnixNano())
	meta.ID = runID
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "satellites.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := []string{"satnum", "samples", "start", "stop", "step", "error_code", "error_offset", "ephemeris"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, sat := range meta.Satellites {
		row := []string{
			sat.Satnum,
			strconv.Itoa(sat.Samples),
			strconv.FormatFloat(sat.Start, 'f', 6, 64),
			strconv.FormatFloat(sat.Stop, 'f', 6, 64),
			strconv.FormatFloat(sat.Step, 'f', 6, 64),
			strconv.Itoa(sat.ErrorCode),
			strconv.FormatFloat(sat.ErrorOffset, 'f', 6, 64),
			sat.Ephemeris,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSatellites reads the per-satellite table of a run.
func (s *Store) LoadSatellites(runID string) ([]SatelliteSummary, error) {
	csvPath := filepath.Join(s.baseDir, runID, "satellites.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []SatelliteSummary{}, nil
	}

	sats := make([]SatelliteSummary, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 8 {
			continue
		}
		var sat SatelliteSummary
		sat.Satnum = record[0]
		sat.Samples, _ = strconv.Atoi(record[1])
		sat.Start, _ = strconv.ParseFloat(record[2], 64)
		sat.Stop, _ = strconv.ParseFloat(record[3], 64)
		sat.Step, _ = strconv.ParseFloat(record[4], 64)
		sat.ErrorCode, _ = strconv.Atoi(record[5])
		sat.ErrorOffset, _ = strconv.ParseFloat(record[6], 64)
		sat.Ephemeris = record[7]
		sats = append(sats, sat)
	}

	return sats, nil
}
